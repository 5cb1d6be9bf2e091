// Package main hosts the seamless CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, builds
// the structured logger, and hands work to the internal packages: the fast
// command drives the workflow runner, compare/gaussian/borders run the
// single-shot image utilities, and history reads the run database.
package main
