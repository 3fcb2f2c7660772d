package config

// Config is the full process configuration.
//
// It is assembled once at startup from compiled-in defaults, an optional
// JSON/YAML file, and environment variables (in that order of precedence,
// env last). It is never reloaded.
type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Feed     FeedConfig     `json:"feed"`
	Poll     PollConfig     `json:"poll"`
	Alert    AlertConfig    `json:"alert"`
	Logging  LoggingConfig  `json:"logging"`
	Health   HealthConfig   `json:"health"`
	Storage  StorageConfig  `json:"storage"`
}

type TelegramConfig struct {
	// Token and ChatID are credentials; they are only read from the
	// environment or the config file and never logged.
	Token  string `json:"token"`
	ChatID string `json:"chat_id"`
	APIURL string `json:"api_url,omitempty"`
	// Timeout is a Go duration string (e.g. "10s").
	Timeout    string `json:"timeout,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
	// StatusBot enables the /status and /ping command listener.
	StatusBot bool `json:"status_bot,omitempty"`
}

type FeedConfig struct {
	URL     string `json:"url"`
	Timeout string `json:"timeout,omitempty"`
}

type PollConfig struct {
	// Schedule is a Go duration ("30s"), HH:MM, or cron expression.
	Schedule   string   `json:"schedule"`
	WatchTerms []string `json:"watch_terms"`
}

type AlertConfig struct {
	TeamLabel  string `json:"team_label"`
	BookingURL string `json:"booking_url"`
	// TZOffsetHours is the fixed UTC offset used for every displayed timestamp.
	TZOffsetHours int    `json:"tz_offset_hours"`
	TZName        string `json:"tz_name"`
}

type LoggingConfig struct {
	Level   string `json:"level"`
	Console bool   `json:"console"`
	File    string `json:"file"`
}

type HealthConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// StorageConfig controls the optional alert history.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./matchwatch_history" }
type StorageConfig struct {
	Driver string `json:"driver,omitempty"`
	Path   string `json:"path,omitempty"`
}
