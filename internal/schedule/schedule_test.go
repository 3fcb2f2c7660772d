package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		raw   string
		kind  Kind
		every time.Duration
	}{
		{name: "duration", raw: "30s", kind: KindInterval, every: 30 * time.Second},
		{name: "prefixed interval", raw: "every:2m", kind: KindInterval, every: 2 * time.Minute},
		{name: "hhmm", raw: "01:30", kind: KindInterval, every: 90 * time.Minute},
		{name: "cron", raw: "*/5 * * * *", kind: KindCron},
		{name: "prefixed cron", raw: "cron:0 0 * * *", kind: KindCron},
		{name: "descriptor", raw: "@every 45s", kind: KindCron},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.kind, got.Kind)
			if tt.kind == KindInterval {
				require.Equal(t, tt.every, got.Every)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "soon", "-5s", "0s", "00:00", "01:75", "cron:", "61 * * * *", "0 0 30 2 *", "cron:0 0 31 4 *"} {
		_, err := Parse(raw)
		require.Errorf(t, err, "expected error for %q", raw)
	}
}

func TestNextInterval(t *testing.T) {
	t.Parallel()
	s, err := Parse("30s")
	require.NoError(t, err)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	require.Equal(t, now.Add(30*time.Second), s.Next(now))
	require.Equal(t, 30*time.Second, s.Wait(now))
}

func TestNextCron(t *testing.T) {
	t.Parallel()
	s, err := Parse("*/5 * * * *")
	require.NoError(t, err)
	now := time.Date(2026, 10, 19, 12, 2, 10, 0, time.UTC)
	require.Equal(t, time.Date(2026, 10, 19, 12, 5, 0, 0, time.UTC), s.Next(now))
}

func TestNeverFiringCronIsRejected(t *testing.T) {
	t.Parallel()
	_, err := Parse("0 0 30 2 *")
	require.ErrorContains(t, err, "never fires")
}

func TestWaitFallsBackWithoutNextWakeUp(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	sched, err := parser.Parse("0 0 30 2 *")
	require.NoError(t, err)
	spec := Spec{Kind: KindCron, Source: "0 0 30 2 *", cron: sched}
	require.True(t, spec.Next(now).IsZero())
	require.Equal(t, FallbackWait, spec.Wait(now))
}
