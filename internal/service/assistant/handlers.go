package assistant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avillegas/care-assistant/internal/domain/care"
	"github.com/avillegas/care-assistant/internal/logger"
	"github.com/avillegas/care-assistant/internal/sensorbus"
)

const (
	// reminderCaptureWindow bounds dictating a new reminder.
	reminderCaptureWindow = 15 * time.Second
	// deleteCaptureWindow bounds naming the reminder to delete.
	deleteCaptureWindow = 10 * time.Second
)

// builtinCategories is the built-in command table. The panic category is
// first so a cry for help wins over any other phrase in the utterance.
func (s *session) builtinCategories() []Category {
	return []Category{
		{
			Key:     "auxilio",
			Phrases: []string{"auxilio", "socorro", "emergencia"},
			Handler: s.handlePanic,
		},
		{
			Key:     "encender luz",
			Phrases: []string{"enciende la luz", "prende la luz", "enciende las luces"},
			Handler: s.handleLights("ON", "He encendido la luz."),
		},
		{
			Key:     "apagar luz",
			Phrases: []string{"apaga la luz", "apaga las luces"},
			Handler: s.handleLights("OFF", "He apagado la luz."),
		},
		{
			Key:     "temperatura",
			Phrases: []string{"temperatura"},
			Handler: s.handleTemperature,
		},
		{
			Key:     "hora",
			Phrases: []string{"qué hora es", "dime la hora"},
			Handler: s.handleTime,
		},
		{
			Key:     "fecha",
			Phrases: []string{"qué día es", "qué fecha es", "dime la fecha"},
			Handler: s.handleDate,
		},
		{
			Key:     "mensaje cuidador",
			Phrases: []string{"envía un mensaje", "manda un mensaje", "mensaje al cuidador"},
			Handler: s.handleCaregiverMessage,
		},
		{
			Key:     "pregunta",
			Phrases: []string{"tengo una pregunta", "quiero preguntar"},
			Handler: s.handleQuestion,
		},
		{
			Key:     "añadir recordatorio",
			Phrases: []string{"añade un recordatorio", "crea un recordatorio", "nuevo recordatorio"},
			Handler: s.handleAddReminder,
		},
		{
			Key:     "listar recordatorios",
			Phrases: []string{"lista los recordatorios", "qué recordatorios tengo", "mis recordatorios"},
			Handler: s.handleListReminders,
		},
		{
			Key:     "eliminar recordatorio",
			Phrases: []string{"elimina un recordatorio", "borra un recordatorio"},
			Handler: s.handleDeleteReminder,
		},
		{
			Key:     "encender sistema",
			Phrases: []string{"enciende el sistema", "reinicia el sistema"},
			Handler: s.handleStartSystem,
		},
	}
}

// handlePanic runs the full emergency sequence for a spoken cry for help.
func (s *session) handlePanic(ctx context.Context, utterance string) error {
	s.runEmergency(ctx, care.NewAlertEvent(care.SourcePanic, time.Now(), utterance))

	return nil
}

// handleLights publishes the lights state and confirms aloud. A bus outage
// is reported to the user, not returned: the command is complete either way.
func (s *session) handleLights(state, confirmation string) Handler {
	return func(ctx context.Context, _ string) error {
		err := s.bus.PublishLights(ctx, state)
		if errors.Is(err, sensorbus.ErrNotConnected) {
			s.say(ctx, "No puedo controlar la luz ahora mismo: no hay conexión con los sensores.")

			return nil
		}

		if err != nil {
			return fmt.Errorf("publish lights %s: %w", state, err)
		}

		s.say(ctx, confirmation)

		return nil
	}
}

// handleTemperature speaks the most recent temperature sample.
func (s *session) handleTemperature(ctx context.Context, _ string) error {
	value, ok := s.state.LatestTemperature()
	if !ok {
		s.say(ctx, "Todavía no tengo lecturas de temperatura.")

		return nil
	}

	s.say(ctx, fmt.Sprintf("La temperatura actual es de %.1f grados.", value))

	return nil
}

// handleTime speaks the current wall-clock time.
func (s *session) handleTime(ctx context.Context, _ string) error {
	now := time.Now()
	s.say(ctx, fmt.Sprintf("Son las %d y %d minutos.", now.Hour(), now.Minute()))

	return nil
}

var (
	weekdayNames = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	monthNames   = [...]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
)

// handleDate speaks today's date.
func (s *session) handleDate(ctx context.Context, _ string) error {
	now := time.Now()
	s.say(ctx, fmt.Sprintf("Hoy es %s, %d de %s de %d.",
		weekdayNames[now.Weekday()], now.Day(), monthNames[now.Month()-1], now.Year()))

	return nil
}

// handleCaregiverMessage captures a dictated message, confirms it aloud and
// fans it out across the text channels.
func (s *session) handleCaregiverMessage(ctx context.Context, _ string) error {
	if !s.notifier.TextConfigured() {
		s.say(ctx, "No hay ningún canal de mensajes configurado para el cuidador.")

		return nil
	}

	s.say(ctx, "Dime el mensaje para el cuidador después de la señal.")

	message, err := s.listener.Listen(ctx, s.cfg.Voice.MessageTimeout)
	if err != nil {
		return fmt.Errorf("capture caregiver message: %w", err)
	}

	if message == "" {
		s.say(ctx, "No escuché ningún mensaje. Inténtalo de nuevo cuando quieras.")

		return nil
	}

	s.say(ctx, fmt.Sprintf("He entendido: %s. ¿Lo envío? Di sí o no.", message))

	decision, err := s.listener.Listen(ctx, s.cfg.Voice.DecisionTimeout)
	if err != nil {
		return fmt.Errorf("capture send confirmation: %w", err)
	}

	// The transcriber may drop the accent, so plain "si" counts too.
	if !strings.Contains(decision, "sí") && !strings.Contains(decision, "si") {
		s.say(ctx, "De acuerdo, no envío nada.")

		return nil
	}

	results := s.notifier.Notify(ctx, fmt.Sprintf("💬 Mensaje del hogar: %s", message))
	if result := results[care.ChannelText]; !result.OK {
		logger.ErrorKV(ctx, "Caregiver message delivery failed", "detail", result.Detail)
		s.say(ctx, "No pude entregar el mensaje en ningún canal.")

		return nil
	}

	s.say(ctx, "Mensaje enviado al cuidador.")

	return nil
}

// handleQuestion captures an open question and speaks the assistant's answer.
func (s *session) handleQuestion(ctx context.Context, _ string) error {
	if !s.chat.Configured() {
		s.say(ctx, "El asistente de preguntas no está configurado.")

		return nil
	}

	s.say(ctx, "Dime tu pregunta.")

	question, err := s.listener.Listen(ctx, s.cfg.Voice.QuestionTimeout)
	if err != nil {
		return fmt.Errorf("capture question: %w", err)
	}

	if question == "" {
		s.say(ctx, "No escuché ninguna pregunta.")

		return nil
	}

	answer, err := s.chat.Ask(ctx, question)
	if err != nil {
		s.say(ctx, "No pude obtener una respuesta en este momento.")

		return fmt.Errorf("ask assistant: %w", err)
	}

	s.say(ctx, answer)

	return nil
}

// handleAddReminder captures a dictated reminder, parses its spoken time
// and stores it. An utterance without a recognizable time gets one
// re-prompt before giving up.
func (s *session) handleAddReminder(ctx context.Context, _ string) error {
	s.say(ctx, "Dime el recordatorio, por ejemplo: recuérdame tomar la pastilla a las nueve de la mañana.")

	for attempt := 0; attempt < 2; attempt++ {
		text, err := s.listener.Listen(ctx, reminderCaptureWindow)
		if err != nil {
			return fmt.Errorf("capture reminder: %w", err)
		}

		spoken, err := ParseSpokenTime(text)
		if errors.Is(err, ErrNoTime) {
			if attempt == 0 {
				s.say(ctx, "No entendí la hora. Dímelo otra vez, por ejemplo: a las ocho y media de la tarde.")

				continue
			}

			s.say(ctx, "Sigo sin entender la hora. Lo dejamos para otro momento.")

			return nil
		}

		if err != nil {
			return fmt.Errorf("parse reminder time: %w", err)
		}

		message := ExtractReminderMessage(text)

		id, err := s.repo.Insert(ctx, spoken.Hour, spoken.Minute, message)
		if err != nil {
			return fmt.Errorf("store reminder: %w", err)
		}

		logger.InfoKV(ctx, "Reminder stored", "id", id, "hour", spoken.Hour, "minute", spoken.Minute)
		s.say(ctx, fmt.Sprintf("Recordatorio guardado: %s, a las %02d:%02d.", message, spoken.Hour, spoken.Minute))

		return nil
	}

	return nil
}

// handleListReminders speaks every stored reminder.
func (s *session) handleListReminders(ctx context.Context, _ string) error {
	reminders, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list reminders: %w", err)
	}

	if len(reminders) == 0 {
		s.say(ctx, "No tienes ningún recordatorio guardado.")

		return nil
	}

	s.say(ctx, fmt.Sprintf("Tienes %d recordatorios.", len(reminders)))

	for _, r := range reminders {
		s.say(ctx, fmt.Sprintf("Recordatorio %d: a las %02d:%02d, %s.", r.ID, r.Hour, r.Minute, r.Message))
	}

	return nil
}

// handleDeleteReminder removes a reminder by spoken number or by a
// fragment of its message.
func (s *session) handleDeleteReminder(ctx context.Context, _ string) error {
	s.say(ctx, "Dime el número del recordatorio, o una parte de su texto.")

	text, err := s.listener.Listen(ctx, deleteCaptureWindow)
	if err != nil {
		return fmt.Errorf("capture deletion target: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.say(ctx, "No escuché nada que borrar.")

		return nil
	}

	// A bare number, possibly spoken as a word, selects by id; anything
	// else deletes by message fragment.
	if id, convErr := strconv.ParseInt(strings.TrimSpace(normalizeNumbers(text)), 10, 64); convErr == nil {
		existed, delErr := s.repo.DeleteByID(ctx, id)
		if delErr != nil {
			return fmt.Errorf("delete reminder %d: %w", id, delErr)
		}

		if !existed {
			s.say(ctx, fmt.Sprintf("No encontré el recordatorio número %d.", id))

			return nil
		}

		s.say(ctx, fmt.Sprintf("Recordatorio número %d eliminado.", id))

		return nil
	}

	removed, err := s.repo.DeleteByMessagePart(ctx, text)
	if err != nil {
		return fmt.Errorf("delete reminders matching %q: %w", text, err)
	}

	if removed == 0 {
		s.say(ctx, "No encontré ningún recordatorio con ese texto.")

		return nil
	}

	s.say(ctx, fmt.Sprintf("He eliminado %d recordatorios.", removed))

	return nil
}

// handleStartSystem re-runs the broker launcher and reports the bus status.
func (s *session) handleStartSystem(ctx context.Context, _ string) error {
	s.say(ctx, "Comprobando el sistema de sensores.")

	s.launcher.EnsureRunning(ctx)

	if s.bus.Connected() {
		s.say(ctx, "El sistema de sensores está funcionando.")

		return nil
	}

	s.say(ctx, "El sistema de sensores sigue sin conexión. Seguiré intentándolo.")

	return nil
}
