package care

import "time"

// AlertSource identifies what triggered an emergency alert.
type AlertSource string

const (
	// SourceFall marks an alert raised by the fall-detection sensor.
	SourceFall AlertSource = "fall"
	// SourcePanic marks an alert raised by an explicit panic voice command.
	SourcePanic AlertSource = "panic"
)

// AlertEvent is the transient value carried into the emergency sequence.
// It is constructed by whichever producer detected the condition, consumed
// once and discarded.
type AlertEvent struct {
	// Source is what triggered the alert.
	Source AlertSource
	// Timestamp is when the condition was detected.
	Timestamp time.Time
	// Detail is free text describing the condition.
	Detail string
}

// NewAlertEvent builds an alert event stamped with the provided time.
func NewAlertEvent(source AlertSource, at time.Time, detail string) AlertEvent {
	return AlertEvent{
		Source:    source,
		Timestamp: at,
		Detail:    detail,
	}
}

// Channel is an independent delivery mechanism for caregiver alerts.
type Channel string

const (
	// ChannelText is plain-text delivery (bot message, instant message).
	ChannelText Channel = "text-message"
	// ChannelVoice is voice-audio delivery (recorded note with caption).
	ChannelVoice Channel = "voice-message"
)

// ChannelResult is the per-channel outcome of a notification fan-out.
// Aggregated by the caller, never persisted.
type ChannelResult struct {
	// Channel is the delivery mechanism this result describes.
	Channel Channel
	// OK reports whether delivery succeeded.
	OK bool
	// Detail carries the failure reason or configuration state.
	Detail string
}
