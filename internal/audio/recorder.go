package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"
)

// CommandRecorder captures audio by shelling out to the platform recorder.
type CommandRecorder struct {
	// dir is where captured WAV files are written.
	dir string
}

// NewCommandRecorder returns a recorder writing WAV files into dir,
// creating the directory if needed.
func NewCommandRecorder(dir string) (*CommandRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp audio dir: %w", err)
	}

	return &CommandRecorder{dir: dir}, nil
}

// Record captures mono 16 kHz audio for up to duration into a timestamped
// WAV file and returns its path.
func (r *CommandRecorder) Record(ctx context.Context, duration time.Duration, suffix string) (string, error) {
	path := filepath.Join(r.dir, fmt.Sprintf("%s_%s.wav", suffix, timestampSuffix(time.Now())))

	cmd, err := captureCommand(ctx, duration, path)
	if err != nil {
		return "", err
	}

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("capture audio: %w", err)
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("captured file missing: %w", err)
	}

	return path, nil
}

// captureCommand builds the platform capture invocation:
// - Linux:  `arecord` from alsa-utils
// - macOS:  `ffmpeg` with the avfoundation default input
func captureCommand(ctx context.Context, duration time.Duration, path string) (*exec.Cmd, error) {
	seconds := strconv.Itoa(int(duration.Round(time.Second) / time.Second))

	switch runtime.GOOS {
	case "linux":
		return exec.CommandContext(ctx, "arecord",
			"-q", "-f", "S16_LE", "-r", strconv.Itoa(sampleRate), "-c", "1",
			"-d", seconds, path), nil
	case "darwin":
		return exec.CommandContext(ctx, "ffmpeg",
			"-hide_banner", "-loglevel", "error",
			"-f", "avfoundation", "-i", ":0",
			"-t", seconds, "-ar", strconv.Itoa(sampleRate), "-ac", "1", path), nil
	default:
		return nil, fmt.Errorf("audio capture on %s: %w", runtime.GOOS, ErrUnsupportedOS)
	}
}
