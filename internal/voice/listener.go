package voice

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/avillegas/care-assistant/internal/audio"
	"github.com/avillegas/care-assistant/internal/logger"
)

// Listener performs one bounded listen-and-transcribe operation. The
// assistant owns exactly one Listener because it wraps the single shared
// audio-capture device; background loops never receive it.
type Listener interface {
	// Listen captures up to timeout of audio and returns the transcript.
	// On timeout the best partial transcription is returned rather than
	// blocking; silence yields an empty string, not an error.
	Listen(ctx context.Context, timeout time.Duration) (string, error)
}

// CommandListener records through the shared capture device and transcribes
// the capture with an external speech-to-text command that prints the
// transcript on stdout.
type CommandListener struct {
	recorder audio.Recorder
	// command is the transcriber binary, args are passed before the file path.
	command string
	args    []string
}

// NewCommandListener wires a listener to the shared recorder and the given
// transcriber invocation.
func NewCommandListener(recorder audio.Recorder, command string, args ...string) *CommandListener {
	return &CommandListener{
		recorder: recorder,
		command:  command,
		args:     args,
	}
}

// Listen captures a bounded utterance and returns its transcript.
func (l *CommandListener) Listen(ctx context.Context, timeout time.Duration) (string, error) {
	wavPath, err := l.recorder.Record(ctx, timeout, "comando")
	if err != nil {
		return "", fmt.Errorf("capture command audio: %w", err)
	}

	defer func() {
		if err := os.Remove(wavPath); err != nil && !os.IsNotExist(err) {
			logger.WarnKV(ctx, "Could not remove command capture", "path", wavPath, "error", err)
		}
	}()

	args := append(append([]string{}, l.args...), wavPath)

	output, err := exec.CommandContext(ctx, l.command, args...).Output()
	if err != nil {
		return "", fmt.Errorf("transcribe command audio: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}
