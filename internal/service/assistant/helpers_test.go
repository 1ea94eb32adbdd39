package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/avillegas/care-assistant/internal/config"
	"github.com/avillegas/care-assistant/internal/domain/care"
	"github.com/avillegas/care-assistant/internal/repository/reminder"
)

// scriptedListener replays a fixed sequence of transcripts.
type scriptedListener struct {
	utterances []string
	errs       []error
	calls      int
}

func (l *scriptedListener) Listen(_ context.Context, _ time.Duration) (string, error) {
	i := l.calls
	l.calls++

	var err error
	if i < len(l.errs) {
		err = l.errs[i]
	}

	var text string
	if i < len(l.utterances) {
		text = l.utterances[i]
	}

	return text, err
}

// recordingSpeaker collects everything the assistant says.
type recordingSpeaker struct {
	lines []string
}

func (s *recordingSpeaker) Say(_ context.Context, text string) error {
	s.lines = append(s.lines, text)

	return nil
}

func (s *recordingSpeaker) transcript() string {
	return strings.Join(s.lines, "\n")
}

// fakeBus records lights publications and appends to the shared event log.
type fakeBus struct {
	events     *[]string
	connected  bool
	published  []string
	publishErr error
}

func (b *fakeBus) Connected() bool { return b.connected }

func (b *fakeBus) PublishLights(_ context.Context, state string) error {
	if b.events != nil {
		*b.events = append(*b.events, "lights:"+state)
	}

	b.published = append(b.published, state)

	return b.publishErr
}

// fakeNotifier records fan-out calls and appends to the shared event log.
type fakeNotifier struct {
	events         *[]string
	textConfigured bool
	textOK         bool
	texts          []string
	voiceResult    care.ChannelResult
	voicePaths     []string
}

func (n *fakeNotifier) TextConfigured() bool { return n.textConfigured }

func (n *fakeNotifier) Notify(_ context.Context, text string) map[care.Channel]care.ChannelResult {
	if n.events != nil {
		*n.events = append(*n.events, "notify")
	}

	n.texts = append(n.texts, text)

	return map[care.Channel]care.ChannelResult{
		care.ChannelText: {Channel: care.ChannelText, OK: n.textOK, Detail: "scripted"},
	}
}

func (n *fakeNotifier) SendVoiceNote(_ context.Context, wavPath, _ string) care.ChannelResult {
	if n.events != nil {
		*n.events = append(*n.events, "voice")
	}

	n.voicePaths = append(n.voicePaths, wavPath)

	return n.voiceResult
}

// fakeRecorder pretends to capture audio.
type fakeRecorder struct {
	path  string
	err   error
	calls int
}

func (r *fakeRecorder) Record(_ context.Context, _ time.Duration, _ string) (string, error) {
	r.calls++

	return r.path, r.err
}

// fakeChat answers every question with a canned line.
type fakeChat struct {
	configured bool
	answer     string
	err        error
	questions  []string
}

func (c *fakeChat) Configured() bool { return c.configured }

func (c *fakeChat) Ask(_ context.Context, question string) (string, error) {
	c.questions = append(c.questions, question)

	return c.answer, c.err
}

// memoryRepo is an in-memory reminder store.
type memoryRepo struct {
	nextID int64
	items  []reminder.Reminder
}

func (m *memoryRepo) Insert(_ context.Context, hour, minute int, message string) (int64, error) {
	m.nextID++
	m.items = append(m.items, reminder.Reminder{ID: m.nextID, Hour: hour, Minute: minute, Message: message})

	return m.nextID, nil
}

func (m *memoryRepo) List(_ context.Context) ([]reminder.Reminder, error) {
	return append([]reminder.Reminder{}, m.items...), nil
}

func (m *memoryRepo) MarkTriggered(_ context.Context, id int64, date time.Time) error {
	for i := range m.items {
		if m.items[i].ID == id {
			when := date
			m.items[i].LastTriggered = &when
		}
	}

	return nil
}

func (m *memoryRepo) DeleteByID(_ context.Context, id int64) (bool, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)

			return true, nil
		}
	}

	return false, nil
}

func (m *memoryRepo) DeleteByMessagePart(_ context.Context, part string) (int64, error) {
	var (
		kept    []reminder.Reminder
		removed int64
	)

	for _, item := range m.items {
		if strings.Contains(item.Message, part) {
			removed++

			continue
		}

		kept = append(kept, item)
	}

	m.items = kept

	return removed, nil
}

func (m *memoryRepo) Close() error { return nil }

// fixture bundles a session with every scripted collaborator.
type fixture struct {
	session  *session
	speaker  *recordingSpeaker
	listener *scriptedListener
	bus      *fakeBus
	notifier *fakeNotifier
	recorder *fakeRecorder
	repo     *memoryRepo
	chat     *fakeChat
	state    *care.State

	// events interleaves notifier and bus calls to assert ordering.
	events []string
}

func newFixture() *fixture {
	f := &fixture{
		speaker:  &recordingSpeaker{},
		listener: &scriptedListener{},
		recorder: &fakeRecorder{path: "capture.wav"},
		repo:     &memoryRepo{},
		chat:     &fakeChat{},
		state:    care.NewState(),
	}

	f.bus = &fakeBus{events: &f.events, connected: true}
	f.notifier = &fakeNotifier{
		events:         &f.events,
		textConfigured: true,
		textOK:         true,
		voiceResult:    care.ChannelResult{Channel: care.ChannelVoice, OK: true, Detail: "delivered"},
	}

	cfg := &config.Config{
		Broker: config.BrokerConfig{Address: "localhost"},
		Voice: config.VoiceConfig{
			CommandTimeout:  time.Second,
			DecisionTimeout: time.Second,
			QuestionTimeout: time.Second,
			MessageTimeout:  time.Second,
			RecordDuration:  time.Second,
		},
	}

	f.session = &session{
		cfg:      cfg,
		state:    f.state,
		repo:     f.repo,
		bus:      f.bus,
		notifier: f.notifier,
		chat:     f.chat,
		speaker:  f.speaker,
		recorder: f.recorder,
		listener: f.listener,
		launcher: NewBrokerLauncher(cfg.Broker),
	}
	f.session.table = buildCommandTable(f.session.builtinCategories(), nil)

	return f
}
