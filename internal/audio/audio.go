package audio

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupportedOS indicates the current OS has no known capture/playback tools.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// sampleRate is the capture sample rate expected by the transcriber.
const sampleRate = 16000

// Recorder captures microphone audio to a WAV file for a bounded duration.
// The capture device is a single exclusively-owned resource; only the
// foreground command loop may hold a Recorder.
type Recorder interface {
	// Record captures up to duration of audio and returns the WAV path.
	Record(ctx context.Context, duration time.Duration, suffix string) (string, error)
}

// Transcoder converts a captured WAV file into the delivery codec.
type Transcoder interface {
	// Transcode converts wavPath and returns the path of the produced file.
	Transcode(ctx context.Context, wavPath string) (string, error)
}

// Speaker synthesizes text to speech and plays it, blocking until playback
// completes.
type Speaker interface {
	Say(ctx context.Context, text string) error
}

// timestampSuffix formats a time for unique transient file names.
func timestampSuffix(now time.Time) string {
	return now.Format("20060102_150405.000")
}
