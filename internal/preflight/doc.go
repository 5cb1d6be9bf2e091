// Package preflight verifies filesystem access and the frame extension before
// a run starts so input problems are reported before any frame is decoded.
//
// The workflow runner calls RunAll and aborts on the first failed check; the
// individual checks are exported for commands that only need one of them.
package preflight
