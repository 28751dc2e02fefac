// Package runstore persists pipeline run history and progress events in
// SQLite. Each processed video gets a run row tracking its lifecycle and
// an append-only journal of the progress events emitted while it ran.
package runstore
