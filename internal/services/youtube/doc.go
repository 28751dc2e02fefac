// Package youtube talks to the public, key-free YouTube surfaces: video
// ID parsing, oEmbed metadata, timedtext caption tracks, and playlist
// expansion.
package youtube
