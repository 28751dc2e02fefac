// Package llm abstracts the language-model vendors behind a small
// completion interface with retry, plus speech-to-text for the audio
// fallback.
package llm
