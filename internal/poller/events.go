package poller

import "time"

// Event types published on the bus.
const (
	EventCycleStarted   = "cycle.started"
	EventCycleCompleted = "cycle.completed"
	EventFetchFailed    = "fetch.failed"
	EventAlertSent      = "alert.sent"
	EventAlertFailed    = "alert.failed"
	EventAlertSkipped   = "alert.skipped"
)

// CycleReport summarizes one cycle. It is the Data of EventCycleCompleted.
type CycleReport struct {
	CycleID        string
	StartedAt      time.Time
	Duration       time.Duration
	Fetched        int
	Skipped        int // undecodable feed entries
	Matched        int
	Sent           int
	Failed         int
	AlreadyAlerted int
	// FetchErr is set when the cycle ended at the fetch step.
	FetchErr error
}

// AlertEvent is the Data of the alert.* events.
type AlertEvent struct {
	CycleID string
	MatchID string
	Teams   string
	Term    string
	At      time.Time
	Error   string
}
