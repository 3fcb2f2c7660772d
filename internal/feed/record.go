package feed

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Text is an optional feed value. The feed is loosely typed: a field may be
// missing, null, a string, or a number. Numbers keep their literal form.
type Text struct {
	Value string
	Set   bool
}

// Of returns a present Text.
func Of(s string) Text { return Text{Value: s, Set: true} }

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = Text{}
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text{Value: s, Set: true}
	case '{', '[':
		// Structured values are not text; treat as absent.
		*t = Text{}
	default:
		// number or bool literal
		*t = Text{Value: string(b), Set: true}
	}
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Set {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

// String returns the value, or "" when absent.
func (t Text) String() string { return t.Value }

// Present reports whether the field carries non-blank text.
func (t Text) Present() bool { return t.Set && strings.TrimSpace(t.Value) != "" }

// Tournament is the nested tournament object of a match.
type Tournament struct {
	NameEn Text `json:"nameEn"`
	NameAr Text `json:"nameAr"`
}

// MatchRecord is one entry of the match listing.
//
// Every field is optional. The primary language is English, the secondary
// Arabic.
type MatchRecord struct {
	MatchID Text `json:"matchId"`

	TeamName1   Text `json:"teamName1"`
	TeamName2   Text `json:"teamName2"`
	TeamNameAr1 Text `json:"teamNameAr1"`
	TeamNameAr2 Text `json:"teamNameAr2"`

	Tournament *Tournament `json:"tournament,omitempty"`

	Date Text `json:"date"`
	// The feed has used both spellings.
	KickOffTime Text `json:"kickOffTime"`
	KickoffTime Text `json:"kickoffTime"`

	StadiumName   Text `json:"stadiumName"`
	StadiumNameAr Text `json:"stadiumNameAr"`
}

// ID is the dedup key. A record without an identifier yields "", which acts
// as one shared identifier for all such records.
func (r MatchRecord) ID() string { return strings.TrimSpace(r.MatchID.Value) }

// TournamentNames returns the English and Arabic tournament names ("" when absent).
func (r MatchRecord) TournamentNames() (en, ar string) {
	if r.Tournament == nil {
		return "", ""
	}
	return r.Tournament.NameEn.Value, r.Tournament.NameAr.Value
}

// SearchFields lists every field that may carry a team or tournament name,
// absent ones as "".
func (r MatchRecord) SearchFields() []string {
	en, ar := r.TournamentNames()
	return []string{
		r.TeamName1.Value,
		r.TeamName2.Value,
		r.TeamNameAr1.Value,
		r.TeamNameAr2.Value,
		en,
		ar,
	}
}

func (t *Tournament) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		*t = Tournament{}
		return nil
	}
	type plain Tournament
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*t = Tournament(p)
	return nil
}
