package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avillegas/care-assistant/internal/config"
	"github.com/avillegas/care-assistant/internal/logger"
)

// botAPI is the subset of the bot client the sender uses; narrowed for tests.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Sender delivers caregiver messages through the Telegram bot API.
// A Sender built without credentials reports itself as not configured and
// every send fails fast; this is a configuration state, not an error.
type Sender struct {
	bot    botAPI
	chatID int64
}

// ErrNotConfigured is returned when the bot credentials are absent.
var ErrNotConfigured = fmt.Errorf("telegram channel is not configured")

// NewSender builds a sender from the optional credentials. When the token
// is absent no API client is created and the sender stays unconfigured.
func NewSender(ctx context.Context, cfg config.TelegramConfig) (*Sender, error) {
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		logger.Warn(ctx, "Telegram credentials absent, caregiver bot channel disabled")

		return &Sender{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("initialize bot api: %w", err)
	}

	return &Sender{bot: bot, chatID: cfg.ChatID}, nil
}

// Configured reports whether the sender has working credentials.
func (s *Sender) Configured() bool {
	return s.bot != nil && s.chatID != 0
}

// SendText delivers a plain-text message to the caregiver chat.
func (s *Sender) SendText(ctx context.Context, text string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	if _, err := s.bot.Send(tgbotapi.NewMessage(s.chatID, text)); err != nil {
		return fmt.Errorf("send text message: %w", err)
	}

	logger.InfoKV(ctx, "Telegram text message delivered", "chat_id", s.chatID)

	return nil
}

// SendVoice delivers an audio file as a voice note with a caption.
func (s *Sender) SendVoice(ctx context.Context, path, caption string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	voice := tgbotapi.NewVoice(s.chatID, tgbotapi.FilePath(path))
	voice.Caption = caption

	if _, err := s.bot.Send(voice); err != nil {
		return fmt.Errorf("send voice message: %w", err)
	}

	logger.InfoKV(ctx, "Telegram voice message delivered", "chat_id", s.chatID, "file", path)

	return nil
}
