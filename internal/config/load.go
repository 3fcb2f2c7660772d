package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"matchwatch/internal/schedule"
)

// LookupFunc mirrors os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads .env files into the process environment when present.
// Existing variables win; a missing file is not an error.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// Load builds the config from defaults, the optional file at path, and the
// process environment, then validates it.
func Load(path string) (*Config, error) {
	return LoadFrom(path, os.LookupEnv)
}

// LoadFrom is Load with an injectable environment.
func LoadFrom(path string, env LookupFunc) (*Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, invalid("config file", err)
		}
	}
	if env != nil {
		if err := applyEnv(&cfg, env); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	jb, err := toJSON(path, b)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return errors.New("trailing data")
		}
		return err
	}
	return nil
}

func applyEnv(cfg *Config, env LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := env(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := env(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return invalid(key, err)
		}
		*dst = n
		return nil
	}
	boolean := func(key string, dst *bool) error {
		v, ok := env(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return invalid(key, err)
		}
		*dst = b
		return nil
	}

	str("TELEGRAM_BOT_TOKEN", &cfg.Telegram.Token)
	str("TELEGRAM_CHAT_ID", &cfg.Telegram.ChatID)
	str("TELEGRAM_API_URL", &cfg.Telegram.APIURL)
	str("NOTIFY_TIMEOUT", &cfg.Telegram.Timeout)
	str("FEED_URL", &cfg.Feed.URL)
	str("FETCH_TIMEOUT", &cfg.Feed.Timeout)
	str("POLL_INTERVAL", &cfg.Poll.Schedule)
	str("TEAM_LABEL", &cfg.Alert.TeamLabel)
	str("BOOKING_URL", &cfg.Alert.BookingURL)
	str("TZ_NAME", &cfg.Alert.TZName)
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FILE", &cfg.Logging.File)
	str("HEALTH_ADDR", &cfg.Health.Addr)
	str("STORAGE_DRIVER", &cfg.Storage.Driver)
	str("STORAGE_PATH", &cfg.Storage.Path)

	if v, ok := env("WATCH_TERMS"); ok && strings.TrimSpace(v) != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.Poll.WatchTerms = parts
	}

	for _, f := range []func() error{
		func() error { return integer("NOTIFY_RATE_PER_SEC", &cfg.Telegram.RatePerSec) },
		func() error { return integer("TZ_OFFSET_HOURS", &cfg.Alert.TZOffsetHours) },
		func() error { return boolean("STATUS_BOT", &cfg.Telegram.StatusBot) },
		func() error { return boolean("HEALTH_ENABLED", &cfg.Health.Enabled) },
		func() error { return boolean("LOG_CONSOLE", &cfg.Logging.Console) },
	} {
		if err := f(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks every field the process needs before the loop starts.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return missing("TELEGRAM_BOT_TOKEN")
	}
	if strings.TrimSpace(c.Telegram.ChatID) == "" {
		return missing("TELEGRAM_CHAT_ID")
	}
	if len(c.Poll.WatchTerms) == 0 {
		return invalid("watch_terms", errors.New("at least one watch term is required"))
	}
	for i, t := range c.Poll.WatchTerms {
		if strings.TrimSpace(t) == "" {
			return invalid("watch_terms", fmt.Errorf("term %d is blank", i))
		}
	}
	if strings.TrimSpace(c.Feed.URL) == "" {
		return invalid("feed.url", errors.New("required"))
	}
	if _, err := schedule.Parse(c.Poll.Schedule); err != nil {
		return invalid("poll.schedule", err)
	}
	if _, err := parseDuration(c.Feed.Timeout); err != nil {
		return invalid("feed.timeout", err)
	}
	if _, err := parseDuration(c.Telegram.Timeout); err != nil {
		return invalid("telegram.timeout", err)
	}
	if c.Telegram.RatePerSec < 0 {
		return invalid("telegram.rate_per_sec", errors.New("must be >= 0"))
	}
	if c.Alert.TZOffsetHours < -12 || c.Alert.TZOffsetHours > 14 {
		return invalid("alert.tz_offset_hours", fmt.Errorf("%d is out of range", c.Alert.TZOffsetHours))
	}
	switch strings.ToLower(strings.TrimSpace(c.Storage.Driver)) {
	case "", "none", "file", "sqlite", "sqlite3":
	default:
		return invalid("storage.driver", fmt.Errorf("unknown driver %q", c.Storage.Driver))
	}
	return nil
}

// Location is the fixed-offset zone used for log and alert timestamps.
func (c *Config) Location() *time.Location {
	name := strings.TrimSpace(c.Alert.TZName)
	if name == "" {
		name = fmt.Sprintf("UTC%+d", c.Alert.TZOffsetHours)
	}
	return time.FixedZone(name, c.Alert.TZOffsetHours*3600)
}

// FetchTimeout returns the feed request timeout (default 10s).
func (c *Config) FetchTimeout() time.Duration {
	return durationOr(c.Feed.Timeout, 10*time.Second)
}

// NotifyTimeout returns the Telegram request timeout (default 10s).
func (c *Config) NotifyTimeout() time.Duration {
	return durationOr(c.Telegram.Timeout, 10*time.Second)
}
