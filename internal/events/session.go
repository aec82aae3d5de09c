package events

import "time"

const (
	TapasSessionsTopic = "tapas.sessions"

	EventSessionStarted = "tapas.session.started"
	EventSessionEnded   = "tapas.session.ended"
)

// SessionEvent is published when a tapas session starts or ends.
type SessionEvent struct {
	EventType        string    `json:"event_type"`
	OccurredAt       time.Time `json:"occurred_at"`
	SessionID        string    `json:"session_id"`
	PartySize        int       `json:"party_size"`
	RemainingSeconds int       `json:"remaining_seconds"`
}
