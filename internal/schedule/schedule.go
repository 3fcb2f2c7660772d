// Package schedule turns the poll cadence setting into wake-up times.
//
// Supported forms:
//   - Interval duration: "30s", "2m"
//   - Interval HH:MM: "00:05" (5 minutes)
//   - Cron (robfig/cron): "*/1 * * * *", "@every 45s", "@hourly"
//
// Optional prefixes "cron:" and "every:" force the interpretation.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type Kind int

const (
	KindInterval Kind = iota
	KindCron
)

func (k Kind) String() string {
	if k == KindCron {
		return "cron"
	}
	return "interval"
}

// Spec is a parsed cadence.
type Spec struct {
	Kind   Kind
	Every  time.Duration
	Source string

	cron cron.Schedule
}

var (
	reHHMM = regexp.MustCompile(`^\s*(\d{1,3}):(\d{2})\s*$`)
	parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
)

// Parse parses a cadence string.
func Parse(raw string) (Spec, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Spec{}, fmt.Errorf("schedule required")
	}

	low := strings.ToLower(s)
	switch {
	case strings.HasPrefix(low, "cron:"):
		return parseCron(strings.TrimSpace(s[len("cron:"):]), raw)
	case strings.HasPrefix(low, "every:"):
		return parseInterval(strings.TrimSpace(s[len("every:"):]), raw)
	case strings.ContainsAny(s, " \t") || strings.HasPrefix(s, "@"):
		return parseCron(s, raw)
	}
	return parseInterval(s, raw)
}

func parseCron(expr, raw string) (Spec, error) {
	if expr == "" {
		return Spec{}, fmt.Errorf("cron expression required in %q", raw)
	}
	sched, err := parser.Parse(expr)
	if err != nil {
		return Spec{}, fmt.Errorf("invalid cron %q: %w", expr, err)
	}
	// robfig returns the zero time for dates that never occur (Feb 30).
	if sched.Next(time.Now()).IsZero() {
		return Spec{}, fmt.Errorf("cron %q never fires", expr)
	}
	return Spec{Kind: KindCron, Source: expr, cron: sched}, nil
}

func parseInterval(v, raw string) (Spec, error) {
	if m := reHHMM.FindStringSubmatch(v); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if mm > 59 {
			return Spec{}, fmt.Errorf("invalid minutes in %q", raw)
		}
		d := time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute
		if d <= 0 {
			return Spec{}, fmt.Errorf("interval must be > 0")
		}
		return Spec{Kind: KindInterval, Every: d, Source: v}, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return Spec{}, fmt.Errorf(
			"invalid schedule %q (use a duration like '30s', HH:MM like '00:05', or cron like '*/1 * * * *')",
			raw,
		)
	}
	if d <= 0 {
		return Spec{}, fmt.Errorf("interval must be > 0")
	}
	return Spec{Kind: KindInterval, Every: d, Source: v}, nil
}

// Next returns the next wake-up time strictly after now.
func (s Spec) Next(now time.Time) time.Time {
	if s.Kind == KindCron && s.cron != nil {
		return s.cron.Next(now)
	}
	return now.Add(s.Every)
}

// FallbackWait is slept when a spec yields no next wake-up.
const FallbackWait = 30 * time.Second

// Wait returns how long to sleep from now until the next wake-up. It never
// returns less than zero, and a spec with no next wake-up waits FallbackWait.
func (s Spec) Wait(now time.Time) time.Duration {
	next := s.Next(now)
	if next.IsZero() {
		return FallbackWait
	}
	d := next.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

func (s Spec) String() string { return s.Kind.String() + ":" + s.Source }
