// Package config loads, normalizes, and validates seamless configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from the path given on the command line,
// ~/.config/seamless/config.toml, or ./seamless.toml. The Config type holds
// every knob the loop search, the encoder, and the run history need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical format names, and clear validation errors.
package config
