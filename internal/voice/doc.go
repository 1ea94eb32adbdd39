// Package voice exposes the speech-to-text collaborator boundary: a Listener
// that owns the shared audio-capture resource and returns the best available
// transcript within a bounded window.
package voice
