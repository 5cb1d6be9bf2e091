// Package history persists a record of every loop search run in SQLite.
//
// The store is opened per command invocation, creates its schema on first
// use, and refuses databases written by a different schema version. Callers
// treat write failures as warnings: a run never fails because its history
// entry could not be saved.
package history
