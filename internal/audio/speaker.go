package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/avillegas/care-assistant/internal/logger"
)

// CommandSpeaker synthesizes Spanish speech to a transient file in the
// responses directory, plays it and best-effort removes it afterwards.
// The janitor purges anything left behind.
type CommandSpeaker struct {
	// dir stores the transient synthesized files.
	dir string
}

// NewCommandSpeaker returns a speaker writing transient audio into dir,
// creating the directory if needed.
func NewCommandSpeaker(dir string) (*CommandSpeaker, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create responses dir: %w", err)
	}

	return &CommandSpeaker{dir: dir}, nil
}

// Say synthesizes and plays the text, blocking the caller until playback
// completes.
func (s *CommandSpeaker) Say(ctx context.Context, text string) error {
	path := filepath.Join(s.dir, fmt.Sprintf("respuesta_%s.wav", timestampSuffix(time.Now())))

	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.WarnKV(ctx, "Could not remove response audio", "path", path, "error", err)
		}
	}()

	if err := synthesize(ctx, text, path); err != nil {
		return err
	}

	return play(ctx, path)
}

// synthesize renders text to a WAV file using the platform TTS tool.
func synthesize(ctx context.Context, text, path string) error {
	switch runtime.GOOS {
	case "linux":
		if err := exec.CommandContext(ctx, "espeak-ng", "-v", "es", "-w", path, text).Run(); err != nil {
			return fmt.Errorf("synthesize speech: %w", err)
		}

		return nil
	case "darwin":
		if err := exec.CommandContext(ctx, "say", "-v", "Monica", "-o", path, "--data-format=LEI16@22050", text).Run(); err != nil {
			return fmt.Errorf("synthesize speech: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("speech synthesis on %s: %w", runtime.GOOS, ErrUnsupportedOS)
	}
}

// play blocks until the audio file has been played back.
func play(ctx context.Context, path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.CommandContext(ctx, "aplay", "-q", path)
	case "darwin":
		cmd = exec.CommandContext(ctx, "afplay", path)
	default:
		return fmt.Errorf("audio playback on %s: %w", runtime.GOOS, ErrUnsupportedOS)
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play audio: %w", err)
	}

	return nil
}
