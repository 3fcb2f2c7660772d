package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// parseDuration reads an optional Go duration. Blank means zero; negative
// values are rejected. Callers attach the field name via ConfigError.
func parseDuration(raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, errors.New("duration must be >= 0")
	}
	return d, nil
}

// durationOr is parseDuration with def for blank, zero, or invalid input.
// Validate has already rejected invalid input by the time it is used.
func durationOr(raw string, def time.Duration) time.Duration {
	d, err := parseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
