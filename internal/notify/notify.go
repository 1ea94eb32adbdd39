package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/avillegas/care-assistant/internal/audio"
	"github.com/avillegas/care-assistant/internal/domain/care"
	"github.com/avillegas/care-assistant/internal/logger"
)

// notConfiguredDetail marks a channel skipped for lack of credentials.
// This is a configuration state, never a delivery error.
const notConfiguredDetail = "not configured"

// TextSender delivers plain text to a caregiver endpoint.
type TextSender interface {
	Configured() bool
	SendText(ctx context.Context, text string) error
}

// VoiceSender delivers an audio file with a caption to a caregiver endpoint.
type VoiceSender interface {
	Configured() bool
	SendVoice(ctx context.Context, path, caption string) error
}

// Notifier fans an alert out across the configured delivery channels.
// Channels are attempted independently: one failing never prevents the
// others, and an unconfigured channel is reported as such.
type Notifier struct {
	// bot is the messaging-bot text+voice endpoint.
	bot interface {
		TextSender
		VoiceSender
	}
	// messenger is the best-effort instant-messaging text endpoint.
	messenger TextSender
	// transcoder converts captured WAV to the voice delivery codec.
	transcoder audio.Transcoder
}

// NewNotifier wires the fan-out to its delivery endpoints.
func NewNotifier(bot interface {
	TextSender
	VoiceSender
}, messenger TextSender, transcoder audio.Transcoder,
) *Notifier {
	return &Notifier{
		bot:        bot,
		messenger:  messenger,
		transcoder: transcoder,
	}
}

// TextConfigured reports whether at least one text channel can deliver.
func (n *Notifier) TextConfigured() bool {
	return n.bot.Configured() || n.messenger.Configured()
}

// Notify attempts text delivery on every configured channel and aggregates
// the per-channel outcomes. The text channel result is OK when at least one
// provider delivered.
func (n *Notifier) Notify(ctx context.Context, text string) map[care.Channel]care.ChannelResult {
	var (
		details   []string
		delivered bool
		attempted bool
	)

	for _, provider := range []struct {
		name   string
		sender TextSender
	}{
		{name: "bot", sender: n.bot},
		{name: "messenger", sender: n.messenger},
	} {
		if !provider.sender.Configured() {
			details = append(details, provider.name+": "+notConfiguredDetail)

			continue
		}

		attempted = true

		if err := provider.sender.SendText(ctx, text); err != nil {
			logger.ErrorKV(ctx, "Text delivery failed", "provider", provider.name, "error", err)
			details = append(details, fmt.Sprintf("%s: %v", provider.name, err))

			continue
		}

		delivered = true

		details = append(details, provider.name+": delivered")
	}

	textResult := care.ChannelResult{
		Channel: care.ChannelText,
		OK:      delivered,
		Detail:  strings.Join(details, "; "),
	}

	if !attempted {
		textResult.Detail = notConfiguredDetail
	}

	return map[care.Channel]care.ChannelResult{
		care.ChannelText: textResult,
	}
}

// SendVoiceNote runs the voice sub-pipeline: transcode the capture to the
// delivery codec and upload it with the caption. Any stage failing yields a
// failed result for the voice channel only; the text channel has already
// been attempted by the caller.
func (n *Notifier) SendVoiceNote(ctx context.Context, wavPath, caption string) care.ChannelResult {
	if !n.bot.Configured() {
		return care.ChannelResult{
			Channel: care.ChannelVoice,
			Detail:  notConfiguredDetail,
		}
	}

	oggPath, err := n.transcoder.Transcode(ctx, wavPath)
	if err != nil {
		logger.ErrorKV(ctx, "Voice note transcoding failed", "file", wavPath, "error", err)

		return care.ChannelResult{
			Channel: care.ChannelVoice,
			Detail:  fmt.Sprintf("transcode: %v", err),
		}
	}

	if err := n.bot.SendVoice(ctx, oggPath, caption); err != nil {
		logger.ErrorKV(ctx, "Voice note delivery failed", "file", oggPath, "error", err)

		return care.ChannelResult{
			Channel: care.ChannelVoice,
			Detail:  fmt.Sprintf("deliver: %v", err),
		}
	}

	return care.ChannelResult{
		Channel: care.ChannelVoice,
		OK:      true,
		Detail:  "delivered",
	}
}
