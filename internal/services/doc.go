// Package services defines shared utilities consumed by the pipeline stages.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (input, decode, encode, configuration) and map them to exit codes.
//
// Use these helpers when wiring new stage logic so error reporting stays
// uniform across the pipeline.
package services
