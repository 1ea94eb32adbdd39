package assistant

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoTime is returned when no spoken time could be extracted.
var ErrNoTime = errors.New("no time found in utterance")

// SpokenTime is a wall-clock time parsed from a Spanish utterance.
type SpokenTime struct {
	Hour   int
	Minute int
}

// numberWord pairs a spoken number with its digits. Rewriting is by whole
// token, so the "una" inside "desayunar" is left alone.
type numberWord struct {
	word  string
	value int
}

// hourWords are the spoken clock hours. Spanish clock hours only go up to
// twelve; the day period resolves the rest.
var hourWords = []numberWord{
	{"una", 1}, {"dos", 2}, {"tres", 3}, {"cuatro", 4},
	{"cinco", 5}, {"seis", 6}, {"siete", 7}, {"ocho", 8},
	{"nueve", 9}, {"diez", 10}, {"once", 11}, {"doce", 12},
}

// minuteWords are the spoken minute expressions.
var minuteWords = []numberWord{
	{"treinta", 30}, {"cuarto", 15}, {"quince", 15}, {"media", 30}, {"cero", 0},
}

// timePattern matches "a las H [y M] [de la mañana|tarde|noche]".
var timePattern = regexp.MustCompile(`a las (\d+)(?: y (\d+))?(?: de la (mañana|tarde|noche))?`)

// stripPattern removes the time phrase and the "recuérdame" lead-in when
// extracting the reminder message.
var stripPattern = regexp.MustCompile(`(?i)(a las \d+(?: y \d+)?(?: de la (?:mañana|tarde|noche))?)|(recu[ée]rdame\s?)`)

// ParseSpokenTime extracts an (hour, minute) pair from natural Spanish like
// "a las ocho", "a las tres y cuarto de la tarde" or "a las diez y treinta
// de la noche". An unparseable utterance yields ErrNoTime; callers drop the
// command and re-prompt instead of guessing.
func ParseSpokenTime(text string) (SpokenTime, error) {
	text = normalizeNumbers(text)

	match := timePattern.FindStringSubmatch(text)
	if match == nil {
		return SpokenTime{}, ErrNoTime
	}

	hour, err := strconv.Atoi(match[1])
	if err != nil {
		return SpokenTime{}, ErrNoTime
	}

	minute := 0
	if match[2] != "" {
		if minute, err = strconv.Atoi(match[2]); err != nil {
			return SpokenTime{}, ErrNoTime
		}
	}

	switch match[3] {
	case "tarde":
		if hour < 12 {
			hour += 12
		}
	case "noche":
		switch {
		case hour >= 1 && hour < 12:
			hour += 12
		case hour == 12:
			// Midnight.
			hour = 0
		}
	case "mañana":
		// Noon stays noon; morning hours are already correct.
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return SpokenTime{}, ErrNoTime
	}

	return SpokenTime{Hour: hour, Minute: minute}, nil
}

// ExtractReminderMessage returns the utterance with the time phrase and
// lead-in removed, defaulting to "un evento" when nothing remains.
func ExtractReminderMessage(text string) string {
	message := strings.TrimSpace(stripPattern.ReplaceAllString(normalizeNumbers(text), ""))
	message = strings.Join(strings.Fields(message), " ")

	if message == "" {
		return "un evento"
	}

	return message
}

// normalizeNumbers replaces spoken number words with digits so a single
// pattern can match both "a las 8" and "a las ocho". Only exact tokens are
// rewritten; a message word that happens to contain a number word must
// survive unchanged, since it ends up in the stored reminder text.
func normalizeNumbers(text string) string {
	words := strings.Fields(text)

	for i, word := range words {
		if value, ok := numberValue(word); ok {
			words[i] = strconv.Itoa(value)
		}
	}

	return strings.Join(words, " ")
}

// numberValue looks a token up in the spoken-number vocabulary.
func numberValue(word string) (int, bool) {
	for _, nw := range hourWords {
		if nw.word == word {
			return nw.value, true
		}
	}

	for _, nw := range minuteWords {
		if nw.word == word {
			return nw.value, true
		}
	}

	return 0, false
}
