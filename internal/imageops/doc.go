// Package imageops implements the single-shot image utilities exposed by the
// CLI next to the loop search: a gaussian blur and a border color probe.
package imageops
