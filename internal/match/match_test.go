package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"matchwatch/internal/feed"
)

var ahly = MustTerms("Ahly", "Al Ahly", "Al-Ahly", "الأهلي")

func TestNewTermsRejectsBlank(t *testing.T) {
	t.Parallel()
	_, err := NewTerms(nil)
	require.Error(t, err)
	_, err = NewTerms([]string{"Ahly", "  "})
	require.Error(t, err)

	terms, err := NewTerms([]string{" Al Ahly ", "الأهلي"})
	require.NoError(t, err)
	require.Equal(t, []string{"Al Ahly", "الأهلي"}, terms.List())
}

func TestMatches(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		rec  feed.MatchRecord
		want bool
	}{
		{
			name: "english second team",
			rec:  feed.MatchRecord{TeamName1: feed.Of("Zamalek"), TeamName2: feed.Of("Al Ahly"), MatchID: feed.Of("7")},
			want: true,
		},
		{
			name: "case insensitive",
			rec:  feed.MatchRecord{TeamName1: feed.Of("AL-AHLY SC")},
			want: true,
		},
		{
			name: "arabic only",
			rec:  feed.MatchRecord{TeamNameAr1: feed.Of("النادي الأهلي"), TeamNameAr2: feed.Of("الزمالك")},
			want: true,
		},
		{
			name: "tournament name",
			rec:  feed.MatchRecord{Tournament: &feed.Tournament{NameEn: feed.Of("Ahly Friendly Cup")}},
			want: true,
		},
		{
			name: "substring inside longer word",
			rec:  feed.MatchRecord{TeamName1: feed.Of("Pyramids"), TeamName2: feed.Of("Alahly Youth")},
			want: true,
		},
		{
			name: "no match",
			rec:  feed.MatchRecord{TeamName1: feed.Of("Zamalek"), TeamName2: feed.Of("Pyramids")},
			want: false,
		},
		{
			name: "all fields absent",
			rec:  feed.MatchRecord{},
			want: false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ahly.Matches(tt.rec))
		})
	}
}

// Matches must agree with a plain substring search over the folded text.
func TestMatchesAgreesWithSearchText(t *testing.T) {
	t.Parallel()
	names := []string{"", "Zamalek", "AL AHLY", "al-ahly", "الأهلي", "Ismaily", "ENPPI"}
	for _, a := range names {
		for _, b := range names {
			for _, ar := range names {
				rec := feed.MatchRecord{TeamName1: feed.Of(a), TeamName2: feed.Of(b), TeamNameAr1: feed.Of(ar)}
				text := SearchText(rec)
				want := false
				for _, term := range ahly.List() {
					if strings.Contains(text, strings.ToLower(term)) {
						want = true
					}
				}
				require.Equalf(t, want, ahly.Matches(rec), "record %+v", rec)
			}
		}
	}
}

func TestFirstMatchReturnsConfiguredTerm(t *testing.T) {
	t.Parallel()
	term, ok := ahly.FirstMatch(feed.MatchRecord{TeamNameAr1: feed.Of("الأهلي")})
	require.True(t, ok)
	require.Equal(t, "الأهلي", term)
}
