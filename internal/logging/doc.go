// Package logging wires slog with the console and JSON handlers used across
// vodscribe, plus attribute helpers and context-derived fields (run, stage,
// video) so every component logs with consistent keys.
package logging
