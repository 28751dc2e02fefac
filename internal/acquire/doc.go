// Package acquire obtains transcript source material for a video from an
// adversarial remote service. It tries a cheap captions request first,
// then walks an ordered matrix of (cookie source, client profile)
// strategies with bounded retries until one download succeeds or the
// matrix is exhausted.
package acquire
