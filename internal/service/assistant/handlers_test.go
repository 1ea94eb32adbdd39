package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avillegas/care-assistant/internal/sensorbus"
)

func TestHandleTemperatureWithoutReadings(t *testing.T) {
	t.Parallel()

	f := newFixture()

	require.NoError(t, f.session.handleTemperature(context.Background(), ""))
	require.Contains(t, f.speaker.transcript(), "Todavía no tengo lecturas")
}

func TestHandleTemperatureSpeaksLatestSample(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.state.RecordTemperature(21.0)
	f.state.RecordTemperature(22.5)

	require.NoError(t, f.session.handleTemperature(context.Background(), ""))
	require.Contains(t, f.speaker.transcript(), "22.5 grados")
}

func TestHandleLightsReportsBusOutageInsteadOfFailing(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.bus.connected = false
	f.bus.publishErr = sensorbus.ErrNotConnected

	handler := f.session.handleLights("ON", "He encendido la luz.")

	require.NoError(t, handler(context.Background(), ""))
	require.Contains(t, f.speaker.transcript(), "no hay conexión con los sensores")
}

func TestHandleCaregiverMessageSendsAfterConfirmation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.listener.utterances = []string{"estoy bien, volveré tarde", "sí"}

	require.NoError(t, f.session.handleCaregiverMessage(context.Background(), ""))
	require.Len(t, f.notifier.texts, 1)
	require.Contains(t, f.notifier.texts[0], "estoy bien, volveré tarde")
	require.Contains(t, f.speaker.transcript(), "Mensaje enviado al cuidador.")
}

func TestHandleCaregiverMessageDeclinedConfirmation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.listener.utterances = []string{"estoy bien", "no"}

	require.NoError(t, f.session.handleCaregiverMessage(context.Background(), ""))
	require.Empty(t, f.notifier.texts)
	require.Contains(t, f.speaker.transcript(), "no envío nada")
}

func TestHandleCaregiverMessageWithoutChannels(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.notifier.textConfigured = false

	require.NoError(t, f.session.handleCaregiverMessage(context.Background(), ""))
	require.Zero(t, f.listener.calls, "nothing is captured when no channel can deliver")
}

func TestHandleQuestionSpeaksAnswer(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.chat.configured = true
	f.chat.answer = "Hoy es un buen día para pasear."
	f.listener.utterances = []string{"¿qué puedo hacer hoy?"}

	require.NoError(t, f.session.handleQuestion(context.Background(), ""))
	require.Equal(t, []string{"¿qué puedo hacer hoy?"}, f.chat.questions)
	require.Contains(t, f.speaker.transcript(), "Hoy es un buen día para pasear.")
}

func TestHandleQuestionUnconfigured(t *testing.T) {
	t.Parallel()

	f := newFixture()

	require.NoError(t, f.session.handleQuestion(context.Background(), ""))
	require.Zero(t, f.listener.calls)
	require.Contains(t, f.speaker.transcript(), "no está configurado")
}

func TestHandleAddReminderStoresParsedTime(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.listener.utterances = []string{"recuérdame tomar la pastilla a las nueve de la mañana"}

	require.NoError(t, f.session.handleAddReminder(context.Background(), ""))
	require.Len(t, f.repo.items, 1)
	require.Equal(t, 9, f.repo.items[0].Hour)
	require.Equal(t, 0, f.repo.items[0].Minute)
	require.Equal(t, "tomar la pastilla", f.repo.items[0].Message)
}

func TestHandleAddReminderKeepsMessageWordsIntact(t *testing.T) {
	t.Parallel()

	f := newFixture()
	// "desayunar" embeds "una"; the stored message must not be rewritten.
	f.listener.utterances = []string{"recuérdame desayunar a las ocho"}

	require.NoError(t, f.session.handleAddReminder(context.Background(), ""))
	require.Len(t, f.repo.items, 1)
	require.Equal(t, 8, f.repo.items[0].Hour)
	require.Equal(t, "desayunar", f.repo.items[0].Message)
}

func TestHandleAddReminderRepromptsOnceOnMissingTime(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.listener.utterances = []string{"tomar la pastilla", "tomar la pastilla a las ocho y media de la tarde"}

	require.NoError(t, f.session.handleAddReminder(context.Background(), ""))
	require.Len(t, f.repo.items, 1)
	require.Equal(t, 20, f.repo.items[0].Hour)
	require.Equal(t, 30, f.repo.items[0].Minute)
}

func TestHandleAddReminderGivesUpAfterSecondMiss(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.listener.utterances = []string{"tomar la pastilla", "por la tarde en algún momento"}

	require.NoError(t, f.session.handleAddReminder(context.Background(), ""))
	require.Empty(t, f.repo.items)
	require.Contains(t, f.speaker.transcript(), "Lo dejamos para otro momento.")
}

func TestHandleListRemindersSpeaksEveryEntry(t *testing.T) {
	t.Parallel()

	f := newFixture()

	ctx := context.Background()
	_, err := f.repo.Insert(ctx, 9, 0, "tomar la pastilla")
	require.NoError(t, err)
	_, err = f.repo.Insert(ctx, 20, 30, "cerrar la puerta")
	require.NoError(t, err)

	require.NoError(t, f.session.handleListReminders(ctx, ""))
	require.Contains(t, f.speaker.transcript(), "Tienes 2 recordatorios.")
	require.Contains(t, f.speaker.transcript(), "a las 09:00, tomar la pastilla")
	require.Contains(t, f.speaker.transcript(), "a las 20:30, cerrar la puerta")
}

func TestHandleDeleteReminderBySpokenNumber(t *testing.T) {
	t.Parallel()

	f := newFixture()

	ctx := context.Background()
	_, err := f.repo.Insert(ctx, 9, 0, "tomar la pastilla")
	require.NoError(t, err)
	_, err = f.repo.Insert(ctx, 20, 30, "cerrar la puerta")
	require.NoError(t, err)

	f.listener.utterances = []string{"dos"}

	require.NoError(t, f.session.handleDeleteReminder(ctx, ""))
	require.Len(t, f.repo.items, 1)
	require.Equal(t, "tomar la pastilla", f.repo.items[0].Message)
}

func TestHandleDeleteReminderByMessageFragment(t *testing.T) {
	t.Parallel()

	f := newFixture()

	ctx := context.Background()
	_, err := f.repo.Insert(ctx, 9, 0, "tomar la pastilla")
	require.NoError(t, err)

	f.listener.utterances = []string{"pastilla"}

	require.NoError(t, f.session.handleDeleteReminder(ctx, ""))
	require.Empty(t, f.repo.items)
	require.Contains(t, f.speaker.transcript(), "He eliminado 1 recordatorios.")
}

func TestHandleDeleteReminderUnknownNumber(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.listener.utterances = []string{"7"}

	require.NoError(t, f.session.handleDeleteReminder(context.Background(), ""))
	require.Contains(t, f.speaker.transcript(), "No encontré el recordatorio número 7.")
}
