package scheduler

import (
	"context"
	"time"

	"github.com/avillegas/care-assistant/internal/audio"
	"github.com/avillegas/care-assistant/internal/logger"
	"github.com/avillegas/care-assistant/internal/repository/reminder"
)

// Clock abstracts wall-clock time so cycles are testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }

// Scheduler fires persisted reminders at most once per calendar day.
// It reloads the full store every cycle, so edits made by other processes
// (the reminders CLI, manual database changes) are picked up immediately.
type Scheduler struct {
	repo    reminder.Repository
	speaker audio.Speaker
	clock   Clock
}

// New builds a scheduler over the given store and voice output.
func New(repo reminder.Repository, speaker audio.Speaker, clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}

	return &Scheduler{
		repo:    repo,
		speaker: speaker,
		clock:   clock,
	}
}

// Run executes one cycle per wall-clock minute until ctx is done.
// Sleeping until the start of the next minute keeps cycles phase-aligned
// with the clock instead of drifting by the cycle's own duration.
func (s *Scheduler) Run(ctx context.Context) {
	ctx = logger.WithName(ctx, "scheduler")

	logger.Info(ctx, "Reminder scheduler started")

	for {
		s.RunCycle(ctx)

		timer := time.NewTimer(NextMinuteDelay(s.clock.Now()))

		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info(ctx, "Reminder scheduler stopped")

			return
		case <-timer.C:
		}
	}
}

// RunCycle loads all reminders and fires those due at the current minute
// that have not fired yet today. Store failures are logged and the cycle
// continues with the remaining reminders.
func (s *Scheduler) RunCycle(ctx context.Context) {
	now := s.clock.Now()

	reminders, err := s.repo.List(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Could not load reminders", "error", err)

		return
	}

	for i := range reminders {
		rec := &reminders[i]
		if !rec.DueOn(now) {
			continue
		}

		logger.InfoKV(ctx, "Firing reminder", "id", rec.ID, "message", rec.Message)

		if err := s.speaker.Say(ctx, "¡Recordatorio! "+rec.Message); err != nil {
			logger.ErrorKV(ctx, "Could not speak reminder", "id", rec.ID, "error", err)
		}

		if err := s.repo.MarkTriggered(ctx, rec.ID, now); err != nil {
			logger.ErrorKV(ctx, "Could not persist reminder trigger date", "id", rec.ID, "error", err)
		}
	}
}

// NextMinuteDelay returns how long to sleep to wake at the start of the
// next wall-clock minute.
func NextMinuteDelay(now time.Time) time.Duration {
	return now.Truncate(time.Minute).Add(time.Minute).Sub(now)
}
