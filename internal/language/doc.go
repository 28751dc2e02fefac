// Package language provides unified language code normalization and mapping.
//
// Caption tracks, configuration values, and speech-recognition results all
// name languages differently (ISO 639-1, ISO 639-2, full words). The
// conversions are consolidated here so the acquisition and export packages
// agree on two-letter codes.
package language
