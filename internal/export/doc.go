// Package export renders finished pipeline output to files. Markdown,
// JSON, HTML, and CSV renderers share a filename scheme based on the
// article slug, falling back to the video ID.
package export
