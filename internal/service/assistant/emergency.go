package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/avillegas/care-assistant/internal/domain/care"
	"github.com/avillegas/care-assistant/internal/logger"
)

// Phase is a stage of the emergency alert sequence.
type Phase string

const (
	// PhaseIdle is the resting state between emergencies.
	PhaseIdle Phase = "IDLE"
	// PhaseDetected marks a fall signal or panic command being picked up.
	PhaseDetected Phase = "DETECTED"
	// PhaseTextNotified marks the unconditional text fan-out having run.
	PhaseTextNotified Phase = "TEXT_NOTIFIED"
	// PhaseAwaitingVoiceDecision marks the bounded record/decline window.
	PhaseAwaitingVoiceDecision Phase = "AWAITING_VOICE_DECISION"
	// PhaseRecording marks the bounded voice-message capture.
	PhaseRecording Phase = "RECORDING"
	// PhaseEncoding marks transcoding to the delivery codec.
	PhaseEncoding Phase = "ENCODING"
	// PhaseVoiceSent marks successful voice-note delivery.
	PhaseVoiceSent Phase = "VOICE_SENT"
	// PhaseSkipped marks the user declining (or failing) the voice message.
	PhaseSkipped Phase = "SKIPPED"
	// PhaseResolved marks the sequence end; the fall flag is cleared here.
	PhaseResolved Phase = "RESOLVED"
)

// recordKeyword is the decision phrase that starts a voice recording.
// Anything else within the decision window is treated as a decline.
const recordKeyword = "grabar"

// runEmergency executes the full alert sequence for the given event and
// returns the terminal phase before RESOLVED (VOICE_SENT or SKIPPED).
//
// The sequence is preemptive: it runs synchronously on the foreground loop,
// so no ordinary command can interleave with it. The text channels are
// always attempted first; the optional voice message degrades to "the text
// alert was already sent" at every failure point and never re-attempts the
// text channels. The fall flag is cleared only at RESOLVED, so a second
// fall signal arriving mid-sequence re-arms the flag and the next
// dispatcher turn re-enters the sequence.
func (s *session) runEmergency(ctx context.Context, event care.AlertEvent) Phase {
	ctx = logger.WithName(ctx, "emergency")

	phase := PhaseDetected
	logger.WarnKV(ctx, "Emergency sequence started", "phase", phase, "source", event.Source, "detail", event.Detail)

	s.say(ctx, "¡Alerta! Se ha detectado una emergencia. Activando protocolo de seguridad.")

	alertText := fmt.Sprintf(
		"🚨 ALERTA DE EMERGENCIA 🚨\nSe ha detectado una emergencia (%s) en el hogar a las %s. Por favor, verifique.",
		sourceDescription(event.Source),
		event.Timestamp.Format("15:04 del 02/01/2006"),
	)

	// Text first, unconditionally: the highest-reliability channel must
	// not wait for any voice interaction.
	results := s.notifier.Notify(ctx, alertText)
	phase = PhaseTextNotified
	logger.InfoKV(ctx, "Caregiver text channels attempted",
		"phase", phase, "result", results[care.ChannelText].Detail)

	if err := s.bus.PublishLights(ctx, "ON"); err != nil {
		logger.WarnKV(ctx, "Could not switch lights on during emergency", "error", err)
	}

	phase = PhaseAwaitingVoiceDecision
	logger.InfoKV(ctx, "Awaiting voice-message decision", "phase", phase)

	s.say(ctx, "¿Puedes decirme algo más sobre lo que pasó? Si quieres, puedes grabar un mensaje de voz para el cuidador.")
	s.say(ctx, "Di 'grabar mensaje' para empezar, o 'cancelar' para continuar sin mensaje de voz.")

	decision, err := s.listener.Listen(ctx, s.cfg.Voice.DecisionTimeout)
	if err != nil {
		logger.WarnKV(ctx, "Decision window failed, treating as decline", "error", err)
	}

	if err == nil && strings.Contains(decision, recordKeyword) {
		phase = s.recordAndSendVoiceNote(ctx, event)
	} else {
		phase = PhaseSkipped

		s.say(ctx, "Entendido. Se ha enviado la alerta de emergencia principal. Permaneceré atento.")
	}

	terminal := phase

	phase = PhaseResolved
	s.state.ClearFall()
	logger.WarnKV(ctx, "Emergency sequence finished", "phase", phase, "outcome", terminal)

	return terminal
}

// recordAndSendVoiceNote runs the RECORDING and ENCODING stages and reports
// the terminal phase. Every failure degrades to the already-sent text alert.
func (s *session) recordAndSendVoiceNote(ctx context.Context, event care.AlertEvent) Phase {
	logger.InfoKV(ctx, "Recording emergency voice message", "phase", PhaseRecording)

	s.say(ctx, fmt.Sprintf("Por favor, di tu mensaje de voz después de la señal. Tienes %d segundos.",
		int(s.cfg.Voice.RecordDuration.Seconds())))

	wavPath, err := s.recorder.Record(ctx, s.cfg.Voice.RecordDuration, "mensaje_emergencia")
	if err != nil {
		logger.ErrorKV(ctx, "Emergency voice capture failed", "error", err)
		s.say(ctx, "No pude grabar tu mensaje. Ya se envió una alerta de texto.")

		return PhaseSkipped
	}

	logger.InfoKV(ctx, "Encoding and delivering voice message", "phase", PhaseEncoding)

	caption := fmt.Sprintf("¡Mensaje de voz de emergencia del sistema de asistencia (%s)!",
		sourceDescription(event.Source))

	result := s.notifier.SendVoiceNote(ctx, wavPath, caption)
	if !result.OK {
		logger.ErrorKV(ctx, "Voice note delivery degraded to text-only", "detail", result.Detail)
		s.say(ctx, "No pude enviar el mensaje de voz adicional. Ya se envió una alerta de texto.")

		return PhaseSkipped
	}

	s.say(ctx, "Mensaje de voz adicional enviado al cuidador.")

	return PhaseVoiceSent
}

// sourceDescription renders the alert source for caregiver-facing text.
func sourceDescription(source care.AlertSource) string {
	switch source {
	case care.SourceFall:
		return "detección de caída"
	case care.SourcePanic:
		return "botón de pánico por voz"
	default:
		return string(source)
	}
}
