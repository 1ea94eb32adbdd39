package assistant

import (
	"context"
	"fmt"
	"os"

	"github.com/avillegas/care-assistant/internal/audio"
	"github.com/avillegas/care-assistant/internal/config"
	"github.com/avillegas/care-assistant/internal/domain/care"
	"github.com/avillegas/care-assistant/internal/integrations/telegram"
	"github.com/avillegas/care-assistant/internal/integrations/whatsapp"
	"github.com/avillegas/care-assistant/internal/llm"
	"github.com/avillegas/care-assistant/internal/logger"
	"github.com/avillegas/care-assistant/internal/notify"
	"github.com/avillegas/care-assistant/internal/repository/reminder"
	"github.com/avillegas/care-assistant/internal/scheduler"
	"github.com/avillegas/care-assistant/internal/sensorbus"
	"github.com/avillegas/care-assistant/internal/voice"
)

// Options configures one assistant run.
type Options struct {
	// ConfigPath is the settings file path; empty means the default name.
	ConfigPath string
}

// busClient is the sensor-bus surface the dispatcher uses.
type busClient interface {
	Connected() bool
	PublishLights(ctx context.Context, state string) error
}

// notifierAPI is the caregiver fan-out surface the dispatcher uses.
type notifierAPI interface {
	TextConfigured() bool
	Notify(ctx context.Context, text string) map[care.Channel]care.ChannelResult
	SendVoiceNote(ctx context.Context, wavPath, caption string) care.ChannelResult
}

// chatClient answers open questions from the user.
type chatClient interface {
	Configured() bool
	Ask(ctx context.Context, question string) (string, error)
}

// session is one running assistant: the shared sensor state, the single
// exclusively-owned audio device, the delivery collaborators and the merged
// command table. The foreground loop is the only goroutine touching the
// audio device; background loops only read state or the reminder store.
type session struct {
	cfg      *config.Config
	state    *care.State
	repo     reminder.Repository
	bus      busClient
	notifier notifierAPI
	chat     chatClient
	speaker  audio.Speaker
	recorder audio.Recorder
	listener voice.Listener
	launcher *BrokerLauncher

	// table is the merged command table, panic category first.
	table []Category
}

// Run wires the assistant from configuration and drives the foreground
// command loop until the context is cancelled. Channel and bus outages
// degrade features; only broken local prerequisites (settings, store,
// audio tooling) abort the run.
func Run(ctx context.Context, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	for _, dir := range []string{cfg.ResponsesDir, cfg.TempAudioDir} {
		if err = os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create working directory %q: %w", dir, err)
		}
	}

	repo, err := reminder.NewSQLiteRepository(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open reminder store: %w", err)
	}

	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.ErrorKV(ctx, "Could not close reminder store", "error", closeErr)
		}
	}()

	speaker, err := audio.NewCommandSpeaker(cfg.ResponsesDir)
	if err != nil {
		return fmt.Errorf("initialize speech output: %w", err)
	}

	recorder, err := audio.NewCommandRecorder(cfg.TempAudioDir)
	if err != nil {
		return fmt.Errorf("initialize audio capture: %w", err)
	}

	bot, err := telegram.NewSender(ctx, cfg.Telegram)
	if err != nil {
		// A broken delivery channel degrades alerts, it never stops the
		// assistant.
		logger.ErrorKV(ctx, "Caregiver bot initialization failed, channel disabled", "error", err)

		bot = &telegram.Sender{}
	}

	state := care.NewState()
	bus := sensorbus.NewClient(cfg.Broker, state)

	s := &session{
		cfg:      cfg,
		state:    state,
		repo:     repo,
		bus:      bus,
		notifier: notify.NewNotifier(bot, whatsapp.NewSender(ctx, cfg.WhatsApp), audio.NewOpusTranscoder()),
		chat:     llm.NewHTTPChat(cfg.Assistant),
		speaker:  speaker,
		recorder: recorder,
		listener: voice.NewCommandListener(recorder, cfg.Voice.STTCommand, cfg.Voice.STTArgs...),
		launcher: NewBrokerLauncher(cfg.Broker),
	}
	s.table = buildCommandTable(s.builtinCategories(), cfg.CustomCommands)

	s.launcher.EnsureRunning(ctx)

	if err = bus.Connect(ctx); err != nil {
		logger.WarnKV(ctx, "Running without sensor bus", "error", err)
	}

	defer bus.Disconnect()

	go scheduler.New(repo, speaker, scheduler.SystemClock{}).Run(ctx)
	go audio.NewJanitor(cfg.ResponsesDir, cfg.PurgeInterval).Run(ctx)

	s.say(ctx, "Sistema de asistencia iniciado. Estoy a tu disposición.")

	s.runLoop(ctx)

	return nil
}

// say speaks text to the user, logging playback failures instead of
// propagating them: speech output is feedback, never control flow.
func (s *session) say(ctx context.Context, text string) {
	if err := s.speaker.Say(ctx, text); err != nil {
		logger.WarnKV(ctx, "Speech playback failed", "text", text, "error", err)
	}
}
