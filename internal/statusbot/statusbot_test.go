package statusbot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"matchwatch/internal/eventbus"
	"matchwatch/internal/poller"
	"matchwatch/internal/storage"
	logx "matchwatch/pkg/logx"
)

var t0 = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestTrackerFoldsEvents(t *testing.T) {
	t.Parallel()
	tr := NewTracker(eventbus.Nop{}, t0)

	tr.apply(eventbus.Event{Type: poller.EventCycleCompleted, Data: poller.CycleReport{StartedAt: t0, Duration: time.Second, Fetched: 12}})
	tr.apply(eventbus.Event{Type: poller.EventAlertSent, Data: poller.AlertEvent{MatchID: "7", Teams: "Zamalek vs Al Ahly", At: t0}})
	tr.apply(eventbus.Event{Type: poller.EventAlertSkipped, Data: poller.AlertEvent{MatchID: "7"}})
	tr.apply(eventbus.Event{Type: poller.EventCycleCompleted, Data: poller.CycleReport{StartedAt: t0.Add(30 * time.Second), FetchErr: errors.New("timeout")}})
	tr.apply(eventbus.Event{Type: poller.EventAlertFailed, Data: poller.AlertEvent{MatchID: "8", Teams: "Al Ahly vs Pyramids", At: t0.Add(time.Minute)}})
	tr.apply(eventbus.Event{Type: "unknown"})

	s := tr.Snapshot()
	require.Equal(t, 2, s.Cycles)
	require.Equal(t, 12, s.LastFetched)
	require.Equal(t, 1, s.FetchFails)
	require.Equal(t, "timeout", s.LastFetchErr)
	require.Equal(t, 1, s.Sent)
	require.Equal(t, 1, s.Failed)
	require.Equal(t, 1, s.Skipped)
	require.Equal(t, "Al Ahly vs Pyramids", s.LastAlertTeams)
	require.False(t, s.LastAlertOK)
}

func TestTrackerRunStopsOnCancel(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	tr := NewTracker(bus, t0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx) }()

	bus.Publish(eventbus.Event{Type: poller.EventAlertSkipped})
	require.Eventually(t, func() bool { return tr.Snapshot().Skipped == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestRenderStatus(t *testing.T) {
	t.Parallel()
	s := Stats{
		StartedAt:      t0.Add(-2 * time.Hour),
		Cycles:         1240,
		LastCycleAt:    t0.Add(-10 * time.Second),
		LastFetched:    37,
		Sent:           2,
		Failed:         1,
		LastAlertAt:    t0.Add(-time.Hour),
		LastAlertTeams: "Zamalek vs <Ahly>",
		LastAlertOK:    true,
	}
	out := RenderStatus(s, t0, []storage.AlertEntry{
		{At: t0.Add(-time.Hour), MatchID: "7", Teams: "Zamalek vs Al Ahly", OK: true},
		{At: t0.Add(-3 * time.Hour), MatchID: "", Teams: "Al Ahly vs Team 2"},
	})

	require.Contains(t, out, "Up since: 2 hours ago")
	require.Contains(t, out, "Cycles: 1,240 (last 10 seconds ago)")
	require.Contains(t, out, "Last fetch: 37 matches")
	require.Contains(t, out, "Alerts: 2 sent, 1 failed")
	require.Contains(t, out, "Zamalek vs &lt;Ahly&gt;")
	require.Contains(t, out, "❌ Al Ahly vs Team 2 #?")
}

func TestRenderStatusFetchFailure(t *testing.T) {
	t.Parallel()
	out := RenderStatus(Stats{StartedAt: t0, LastFetchErr: "HTTP 503"}, t0, nil)
	require.Contains(t, out, "<code>HTTP 503</code>")
	require.Contains(t, out, "last never")
	require.NotContains(t, out, "Recent alerts")
}

func TestChatAllowed(t *testing.T) {
	t.Parallel()
	cases := []struct {
		want string
		chat *tele.Chat
		ok   bool
	}{
		{"12345", &tele.Chat{ID: 12345}, true},
		{"-100777", &tele.Chat{ID: -100777}, true},
		{"12345", &tele.Chat{ID: 999}, false},
		{"@Alerts", &tele.Chat{ID: 1, Username: "alerts"}, true},
		{"@alerts", &tele.Chat{ID: 1, Username: "other"}, false},
		{"12345", nil, false},
		{"", &tele.Chat{ID: 12345}, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.ok, ChatAllowed(tc.want, tc.chat), "%q", tc.want)
	}
}

func TestNewRequiresToken(t *testing.T) {
	t.Parallel()
	_, err := New(Config{}, NewTracker(eventbus.Nop{}, t0), nil, logx.Nop())
	require.Error(t, err)

	b, err := New(Config{Token: "123:abc", ChatID: "1"}, NewTracker(eventbus.Nop{}, t0), nil, logx.Nop())
	require.NoError(t, err)
	require.Contains(t, b.StatusText(context.Background()), "Match watcher status")
}
