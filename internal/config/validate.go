package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateEncode(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSearch() error {
	if strings.ContainsAny(c.Search.Extension, `/\`) {
		return fmt.Errorf("search.extension %q must not contain path separators", c.Search.Extension)
	}
	if c.Search.DurationImportance < 0 || c.Search.DurationImportance > 1 {
		return errors.New("search.duration_importance must be between 0 and 1")
	}
	if c.Search.Workers < 0 {
		return errors.New("search.workers must be >= 0")
	}
	if c.Search.LoadWorkers < 0 {
		return errors.New("search.load_workers must be >= 0")
	}
	if c.Search.Metric != MetricNormalizedEuclidean {
		return fmt.Errorf("search.metric %q is not supported (expected %q)", c.Search.Metric, MetricNormalizedEuclidean)
	}
	return nil
}

func (c *Config) validateEncode() error {
	switch c.Encode.Format {
	case FormatGIF, FormatMJPEG:
	default:
		return fmt.Errorf("encode.format %q is not supported (expected %q or %q)", c.Encode.Format, FormatGIF, FormatMJPEG)
	}
	if implied, conflict := conflictingFormat(c.Encode.Output, c.Encode.Format); conflict {
		return fmt.Errorf("encode.output %q names a %s file but encode.format is %q", c.Encode.Output, implied, c.Encode.Format)
	}
	if c.Encode.FPS <= 0 {
		return errors.New("encode.fps must be positive")
	}
	if c.Encode.Quality < 1 || c.Encode.Quality > 100 {
		return errors.New("encode.quality must be between 1 and 100")
	}
	if c.Encode.Width < 0 || c.Encode.Height < 0 {
		return errors.New("encode.width and encode.height must be >= 0")
	}
	if c.Encode.LoopCount < -1 {
		return errors.New("encode.loop_count must be -1 (play once), 0 (forever), or positive")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (expected console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	return nil
}
