// Package config loads, validates, and normalizes the TOML configuration for
// vodscribe. Defaults live in defaults.go; a fully annotated sample config is
// embedded and written by "vodscribe config init".
package config
