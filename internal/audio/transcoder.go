package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// OpusTranscoder converts WAV captures to OGG/Opus via ffmpeg, the codec
// expected for bot voice notes.
type OpusTranscoder struct{}

// NewOpusTranscoder returns an ffmpeg-backed transcoder.
func NewOpusTranscoder() *OpusTranscoder {
	return &OpusTranscoder{}
}

// Transcode converts wavPath to an .ogg file next to it and returns the
// produced path. Failure is isolated to the caller's channel: the input
// file is left in place.
func (t *OpusTranscoder) Transcode(ctx context.Context, wavPath string) (string, error) {
	oggPath := OutputName(wavPath)

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", wavPath,
		"-c:a", "libopus",
		oggPath)

	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("transcode to ogg/opus: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return oggPath, nil
}

// OutputName derives the .ogg output path for a WAV input path.
func OutputName(wavPath string) string {
	return strings.TrimSuffix(wavPath, ".wav") + ".ogg"
}
