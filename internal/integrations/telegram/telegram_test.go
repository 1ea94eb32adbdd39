package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"github.com/avillegas/care-assistant/internal/config"
)

// fakeBot records sent payloads and scripts one error.
type fakeBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)

	return tgbotapi.Message{}, b.err
}

// TestUnconfiguredSender verifies absent credentials yield a disabled channel,
// not an initialization error.
func TestUnconfiguredSender(t *testing.T) {
	t.Parallel()

	s, err := NewSender(context.Background(), config.TelegramConfig{})
	require.NoError(t, err)
	require.False(t, s.Configured())

	require.ErrorIs(t, s.SendText(context.Background(), "hola"), ErrNotConfigured)
	require.ErrorIs(t, s.SendVoice(context.Background(), "x.ogg", "c"), ErrNotConfigured)
}

// TestSendText verifies text messages reach the configured chat.
func TestSendText(t *testing.T) {
	t.Parallel()

	bot := &fakeBot{}
	s := &Sender{bot: bot, chatID: 42}
	require.True(t, s.Configured())

	require.NoError(t, s.SendText(context.Background(), "alerta"))
	require.Len(t, bot.sent, 1)

	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	require.EqualValues(t, 42, msg.ChatID)
	require.Equal(t, "alerta", msg.Text)
}

// TestSendVoice verifies the voice note carries its caption and file path.
func TestSendVoice(t *testing.T) {
	t.Parallel()

	bot := &fakeBot{}
	s := &Sender{bot: bot, chatID: 42}

	require.NoError(t, s.SendVoice(context.Background(), "/tmp/msg.ogg", "mensaje de voz"))
	require.Len(t, bot.sent, 1)

	voice, ok := bot.sent[0].(tgbotapi.VoiceConfig)
	require.True(t, ok)
	require.Equal(t, "mensaje de voz", voice.Caption)
}

// TestSendFailure verifies API errors are wrapped and surfaced.
func TestSendFailure(t *testing.T) {
	t.Parallel()

	bot := &fakeBot{err: errors.New("bot api down")}
	s := &Sender{bot: bot, chatID: 42}

	require.Error(t, s.SendText(context.Background(), "alerta"))
}
