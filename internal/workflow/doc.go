// Package workflow runs one loop extraction end to end.
//
// A Runner checks filesystem access, indexes the frame directory, decodes
// frames in the background while the loop search scores them, then streams
// the winning range into the output animation and records the run in the
// history database. Loading and searching share one errgroup so a decode
// failure or a cancelled context stops both.
//
// Errors returned by Run are tagged with the services markers so the CLI can
// map them to exit codes.
package workflow
