// Package progress implements staged run tracking: structured events,
// per-stage timing, remaining-time estimates, and cooperative
// cancellation shared between the pipeline and its agents.
package progress
