// Package match decides whether a feed record concerns the watched team.
//
// Matching is a case-insensitive substring test over all name and
// tournament fields in both languages. It is deliberately permissive: a
// partial-name overlap is accepted as a false positive so that every
// spelling and script variant is caught.
package match

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"matchwatch/internal/feed"
)

// Terms is an ordered, immutable set of case-folded watch terms.
type Terms struct {
	raw    []string
	folded []string
}

// NewTerms validates and folds the watch terms. Blank terms are rejected
// because an empty substring would match every record.
func NewTerms(terms []string) (Terms, error) {
	if len(terms) == 0 {
		return Terms{}, errors.New("no watch terms")
	}
	t := Terms{
		raw:    make([]string, 0, len(terms)),
		folded: make([]string, 0, len(terms)),
	}
	for i, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			return Terms{}, fmt.Errorf("watch term %d is blank", i)
		}
		t.raw = append(t.raw, term)
		t.folded = append(t.folded, fold(term))
	}
	return t, nil
}

// MustTerms is NewTerms for compiled-in term lists.
func MustTerms(terms ...string) Terms {
	t, err := NewTerms(terms)
	if err != nil {
		panic(err)
	}
	return t
}

// List returns the terms as configured (trimmed, original case).
func (t Terms) List() []string { return append([]string(nil), t.raw...) }

func (t Terms) Len() int { return len(t.folded) }

// SearchText is the case-folded, space-joined concatenation of every name
// and tournament field of r.
func SearchText(r feed.MatchRecord) string {
	return fold(strings.Join(r.SearchFields(), " "))
}

// Matches reports whether any term occurs in r's search text.
func (t Terms) Matches(r feed.MatchRecord) bool {
	_, ok := t.FirstMatch(r)
	return ok
}

// FirstMatch returns the first configured term that occurs in r.
func (t Terms) FirstMatch(r feed.MatchRecord) (string, bool) {
	text := SearchText(r)
	for i, term := range t.folded {
		if strings.Contains(text, term) {
			return t.raw[i], true
		}
	}
	return "", false
}

// fold applies Unicode case folding. A Caser is stateful, so each call gets
// its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
