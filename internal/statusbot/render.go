package statusbot

import (
	"time"

	"github.com/dustin/go-humanize"

	"matchwatch/internal/storage"
	"matchwatch/pkg/tgui"
)

func ago(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// RenderStatus renders s as Telegram HTML. recent may be nil.
func RenderStatus(s Stats, now time.Time, recent []storage.AlertEntry) string {
	lines := []tgui.H{
		tgui.B("📊 Match watcher status"),
		tgui.Concat(tgui.Raw("Up since: "), tgui.Esc(ago(s.StartedAt, now))),
		tgui.Concat(tgui.Raw("Cycles: "), tgui.Esc(humanize.Comma(int64(s.Cycles))), tgui.Raw(" (last "), tgui.Esc(ago(s.LastCycleAt, now)), tgui.Raw(")")),
	}
	if s.LastFetchErr != "" {
		lines = append(lines, tgui.Concat(tgui.Raw("⚠️ Last fetch failed: "), tgui.Code(s.LastFetchErr)))
	} else {
		lines = append(lines, tgui.Concat(tgui.Raw("Last fetch: "), tgui.Esc(humanize.Comma(int64(s.LastFetched))), tgui.Raw(" matches")))
	}
	lines = append(lines,
		tgui.Concat(tgui.Raw("Fetch failures: "), tgui.Esc(humanize.Comma(int64(s.FetchFails)))),
		tgui.Concat(tgui.Raw("Alerts: "), tgui.Esc(humanize.Comma(int64(s.Sent))), tgui.Raw(" sent, "), tgui.Esc(humanize.Comma(int64(s.Failed))), tgui.Raw(" failed")),
	)
	if !s.LastAlertAt.IsZero() {
		mark := "✅"
		if !s.LastAlertOK {
			mark = "❌"
		}
		lines = append(lines, tgui.Concat(tgui.Raw("Last alert: "+mark+" "), tgui.Esc(s.LastAlertTeams), tgui.Raw(" ("), tgui.Esc(ago(s.LastAlertAt, now)), tgui.Raw(")")))
	}

	if len(recent) > 0 {
		lines = append(lines, "", tgui.B("Recent alerts"))
		for _, e := range recent {
			mark := "✅"
			if !e.OK {
				mark = "❌"
			}
			id := e.MatchID
			if id == "" {
				id = "?"
			}
			lines = append(lines, tgui.Concat(tgui.Raw(mark+" "), tgui.Esc(e.Teams), tgui.Raw(" #"), tgui.Esc(id), tgui.Raw(" · "), tgui.Esc(ago(e.At, now))))
		}
	}
	return tgui.Lines(lines...).String()
}
