package storage

import (
	"errors"
	"time"
)

var ErrClosed = errors.New("storage closed")

// Config configures storage.
//
// Driver values:
//   - "file": JSON Lines file
//   - "sqlite": SQLite database file (pure Go driver)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// AlertEntry records one notification attempt.
type AlertEntry struct {
	At      time.Time `json:"at"`
	CycleID string    `json:"cycle_id,omitempty"`
	MatchID string    `json:"match_id"`
	Teams   string    `json:"teams"`
	Term    string    `json:"term,omitempty"`
	OK      bool      `json:"ok"`
	Error   string    `json:"error,omitempty"`
}
