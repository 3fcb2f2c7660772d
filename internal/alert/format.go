// Package alert renders a detected match into the Telegram alert text.
package alert

import (
	"strings"
	"time"

	"matchwatch/internal/feed"
	"matchwatch/pkg/tgui"
)

// Placeholders used when a record lacks a field.
const (
	PlaceholderTeam1   = "Team 1"
	PlaceholderTeam2   = "Team 2"
	PlaceholderDate    = "Unknown date"
	PlaceholderKickoff = "Unknown"
	PlaceholderStadium = "Unknown"
	PlaceholderID      = "?"
)

// ParseMode is the Telegram parse mode the payload text is written for.
const ParseMode = "HTML"

// Payload is a rendered alert, ready to send.
type Payload struct {
	// MatchID is for log correlation only; "" when the record had none.
	MatchID string
	Text    string
}

// Formatter renders payloads. The zero value is usable and renders times in UTC.
type Formatter struct {
	TeamLabel  string
	BookingURL string
	Location   *time.Location
}

// Details is the resolved, display-ready view of a record.
type Details struct {
	Team1, Team2 string
	Date         string
	Kickoff      string
	Stadium      string
	ID           string
}

// Resolve applies the fallback chain to every displayed field: primary
// language, then secondary language, then a fixed placeholder.
func Resolve(r feed.MatchRecord) Details {
	return Details{
		Team1:   first(PlaceholderTeam1, r.TeamName1, r.TeamNameAr1),
		Team2:   first(PlaceholderTeam2, r.TeamName2, r.TeamNameAr2),
		Date:    first(PlaceholderDate, r.Date),
		Kickoff: first(PlaceholderKickoff, r.KickOffTime, r.KickoffTime),
		Stadium: first(PlaceholderStadium, r.StadiumName, r.StadiumNameAr),
		ID:      first(PlaceholderID, r.MatchID),
	}
}

func first(fallback string, vals ...feed.Text) string {
	for _, v := range vals {
		if v.Present() {
			return strings.TrimSpace(v.Value)
		}
	}
	return fallback
}

// Format renders r as observed at observedAt. The output depends only on its
// inputs and the Formatter fields.
func (f Formatter) Format(r feed.MatchRecord, observedAt time.Time) Payload {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	label := strings.TrimSpace(f.TeamLabel)
	if label == "" {
		label = "Team"
	}
	d := Resolve(r)
	at := observedAt.In(loc)

	lines := []tgui.H{
		tgui.Concat(tgui.Raw("🚨 "), tgui.B("ALERT: New "+label+" Match Detected!")),
		tgui.Concat(tgui.Raw("🕒 "), tgui.B("Detected at:"), tgui.Esc(" "+at.Format("2006-01-02 15:04:05")+" ("+loc.String()+" Time)")),
		"",
		tgui.Concat(tgui.Raw("⚽ "), tgui.B(d.Team1), tgui.Raw(" vs "), tgui.B(d.Team2)),
		tgui.Concat(tgui.Raw("📅 Date: "), tgui.Esc(d.Date)),
		tgui.Concat(tgui.Raw("⏰ Kickoff: "), tgui.Esc(d.Kickoff)),
		tgui.Concat(tgui.Raw("🏟 Stadium: "), tgui.Esc(d.Stadium)),
		tgui.Concat(tgui.Raw("🆔 Match ID: "), tgui.Esc(d.ID)),
	}
	if url := strings.TrimSpace(f.BookingURL); url != "" {
		lines = append(lines, "", tgui.Concat(tgui.Raw("🎟 "), tgui.Link("Book tickets", url)))
	}

	return Payload{MatchID: r.ID(), Text: tgui.Lines(lines...).String()}
}
