package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avillegas/care-assistant/internal/domain/care"
)

// fakeBot scripts the messaging-bot text and voice endpoints.
type fakeBot struct {
	configured bool
	textErr    error
	voiceErr   error

	texts  []string
	voices []string
}

func (b *fakeBot) Configured() bool { return b.configured }

func (b *fakeBot) SendText(_ context.Context, text string) error {
	if b.textErr != nil {
		return b.textErr
	}

	b.texts = append(b.texts, text)

	return nil
}

func (b *fakeBot) SendVoice(_ context.Context, path, _ string) error {
	if b.voiceErr != nil {
		return b.voiceErr
	}

	b.voices = append(b.voices, path)

	return nil
}

// fakeMessenger scripts the instant-messaging text endpoint.
type fakeMessenger struct {
	configured bool
	err        error
	texts      []string
}

func (m *fakeMessenger) Configured() bool { return m.configured }

func (m *fakeMessenger) SendText(_ context.Context, text string) error {
	if m.err != nil {
		return m.err
	}

	m.texts = append(m.texts, text)

	return nil
}

// fakeTranscoder scripts the WAV to OGG conversion.
type fakeTranscoder struct {
	err error
}

func (t *fakeTranscoder) Transcode(_ context.Context, wavPath string) (string, error) {
	if t.err != nil {
		return "", t.err
	}

	return wavPath + ".ogg", nil
}

// TestNotifyMixedConfiguration verifies a configured channel reflects its
// delivery attempt while an unconfigured one reports the configuration
// state, never a delivery error.
func TestNotifyMixedConfiguration(t *testing.T) {
	t.Parallel()

	bot := &fakeBot{configured: true}
	messenger := &fakeMessenger{configured: false}
	n := NewNotifier(bot, messenger, &fakeTranscoder{})

	results := n.Notify(context.Background(), "alerta")

	text := results[care.ChannelText]
	require.True(t, text.OK)
	require.Contains(t, text.Detail, "bot: delivered")
	require.Contains(t, text.Detail, "messenger: not configured")
	require.Equal(t, []string{"alerta"}, bot.texts)
	require.Empty(t, messenger.texts)
}

// TestNotifyFailureIsolation verifies one channel failing does not prevent
// the other from delivering.
func TestNotifyFailureIsolation(t *testing.T) {
	t.Parallel()

	bot := &fakeBot{configured: true, textErr: errors.New("bot api down")}
	messenger := &fakeMessenger{configured: true}
	n := NewNotifier(bot, messenger, &fakeTranscoder{})

	results := n.Notify(context.Background(), "alerta")

	text := results[care.ChannelText]
	require.True(t, text.OK) // messenger still delivered
	require.Contains(t, text.Detail, "bot api down")
	require.Equal(t, []string{"alerta"}, messenger.texts)
}

// TestNotifyNothingConfigured verifies the fully-unconfigured outcome.
func TestNotifyNothingConfigured(t *testing.T) {
	t.Parallel()

	n := NewNotifier(&fakeBot{}, &fakeMessenger{}, &fakeTranscoder{})
	require.False(t, n.TextConfigured())

	results := n.Notify(context.Background(), "alerta")

	text := results[care.ChannelText]
	require.False(t, text.OK)
	require.Equal(t, "not configured", text.Detail)
}

// TestSendVoiceNote verifies the transcode-then-upload pipeline.
func TestSendVoiceNote(t *testing.T) {
	t.Parallel()

	bot := &fakeBot{configured: true}
	n := NewNotifier(bot, &fakeMessenger{}, &fakeTranscoder{})

	result := n.SendVoiceNote(context.Background(), "/tmp/msg.wav", "emergencia")
	require.True(t, result.OK)
	require.Equal(t, care.ChannelVoice, result.Channel)
	require.Equal(t, []string{"/tmp/msg.wav.ogg"}, bot.voices)
}

// TestSendVoiceNoteDegradation verifies each failing stage yields a failed
// voice result without touching the text channel.
func TestSendVoiceNoteDegradation(t *testing.T) {
	t.Parallel()

	// Transcoding fails.
	bot := &fakeBot{configured: true}
	n := NewNotifier(bot, &fakeMessenger{}, &fakeTranscoder{err: errors.New("ffmpeg missing")})

	result := n.SendVoiceNote(context.Background(), "/tmp/msg.wav", "emergencia")
	require.False(t, result.OK)
	require.Contains(t, result.Detail, "transcode")
	require.Empty(t, bot.voices)

	// Upload fails.
	bot = &fakeBot{configured: true, voiceErr: errors.New("upload refused")}
	n = NewNotifier(bot, &fakeMessenger{}, &fakeTranscoder{})

	result = n.SendVoiceNote(context.Background(), "/tmp/msg.wav", "emergencia")
	require.False(t, result.OK)
	require.Contains(t, result.Detail, "deliver")

	// Bot unconfigured: configuration state, not an error.
	n = NewNotifier(&fakeBot{}, &fakeMessenger{}, &fakeTranscoder{})

	result = n.SendVoiceNote(context.Background(), "/tmp/msg.wav", "emergencia")
	require.False(t, result.OK)
	require.Equal(t, "not configured", result.Detail)
}
