// Package runlog records reconciliation passes and their per-show decisions
// in a SQLite database so past runs can be inspected from the CLI.
package runlog
