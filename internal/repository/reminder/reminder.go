package reminder

import (
	"context"
	"time"
)

// DateLayout is the storage format for trigger dates.
const DateLayout = "2006-01-02"

// Reminder is a persistent record fired at most once per calendar day.
type Reminder struct {
	// ID is assigned by the store on insert.
	ID int64
	// Hour is the firing hour, 0-23.
	Hour int
	// Minute is the firing minute, 0-59.
	Minute int
	// Message is the text spoken when the reminder fires.
	Message string
	// LastTriggered is the date the reminder last fired, nil if never.
	LastTriggered *time.Time
}

// DueOn reports whether the reminder should fire at the given wall-clock
// moment: the time matches and it has not fired yet on that date.
func (r *Reminder) DueOn(now time.Time) bool {
	if r.Hour != now.Hour() || r.Minute != now.Minute() {
		return false
	}

	if r.LastTriggered == nil {
		return true
	}

	return r.LastTriggered.Format(DateLayout) != now.Format(DateLayout)
}

// Repository defines persistence operations for reminder records.
type Repository interface {
	// Insert stores a new reminder and returns its assigned id.
	Insert(ctx context.Context, hour, minute int, message string) (int64, error)
	// List returns all reminders in insertion order.
	List(ctx context.Context) ([]Reminder, error)
	// MarkTriggered records the date a reminder last fired.
	MarkTriggered(ctx context.Context, id int64, date time.Time) error
	// DeleteByID removes one reminder, reporting whether it existed.
	DeleteByID(ctx context.Context, id int64) (bool, error)
	// DeleteByMessagePart removes reminders whose message contains the
	// given substring, returning how many were removed.
	DeleteByMessagePart(ctx context.Context, part string) (int64, error)
	// Close releases the underlying store.
	Close() error
}
