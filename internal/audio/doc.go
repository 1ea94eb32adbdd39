// Package audio wraps the platform capture, synthesis and playback tools
// behind small interfaces: Recorder (bounded WAV capture), Transcoder
// (WAV to OGG/Opus for bot voice notes) and Speaker (blocking text to
// speech). A Janitor purges transient response files on a fixed cadence.
package audio
