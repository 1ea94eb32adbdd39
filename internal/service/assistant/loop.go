package assistant

import (
	"context"
	"time"

	"github.com/avillegas/care-assistant/internal/domain/care"
	"github.com/avillegas/care-assistant/internal/logger"
)

// runLoop is the foreground dispatcher. Each iteration is one turn: a
// pending fall signal preempts listening entirely; otherwise one bounded
// utterance is captured and dispatched against the command table. A turn
// failing, panicking or matching nothing returns the loop to listening.
func (s *session) runLoop(ctx context.Context) {
	ctx = logger.WithName(ctx, "dispatcher")

	for ctx.Err() == nil {
		s.runTurn(ctx)
	}

	logger.Info(ctx, "Dispatcher stopped")
}

// runTurn executes a single dispatcher turn.
func (s *session) runTurn(ctx context.Context) {
	// The recover boundary sits at the turn, so a faulty handler costs one
	// turn and the assistant keeps listening.
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorKV(ctx, "Recovered from dispatcher panic", "panic", r)
			s.say(ctx, "Ha ocurrido un error inesperado, pero sigo funcionando.")
		}
	}()

	if s.state.FallSignaled() {
		s.runEmergency(ctx, care.NewAlertEvent(care.SourceFall, time.Now(), "señal del sensor de caídas"))

		return
	}

	utterance, err := s.listener.Listen(ctx, s.cfg.Voice.CommandTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return
		}

		logger.WarnKV(ctx, "Listening turn failed", "error", err)

		return
	}

	if utterance == "" {
		return
	}

	logger.InfoKV(ctx, "Utterance heard", "text", utterance)

	category, ok := matchCategory(s.table, utterance)
	if !ok {
		logger.DebugKV(ctx, "No command matched", "text", utterance)

		return
	}

	if category.Handler == nil {
		// Configuration-defined category with no bound action.
		logger.WarnKV(ctx, "Matched category has no handler", "command", category.Key)

		return
	}

	logger.InfoKV(ctx, "Dispatching command", "command", category.Key)

	if err := category.Handler(ctx, utterance); err != nil {
		logger.ErrorKV(ctx, "Command failed", "command", category.Key, "error", err)
		s.say(ctx, "Lo siento, no pude completar esa orden.")
	}
}
