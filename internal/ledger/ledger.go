// Package ledger records which match identifiers have already been alerted.
package ledger

// Ledger is an in-memory, grow-only set of match identifiers. The zero value
// is an empty ledger.
//
// It is not safe for concurrent use; the poll loop is its only owner.
type Ledger struct {
	ids map[string]struct{}
}

func New() *Ledger {
	return &Ledger{ids: map[string]struct{}{}}
}

// Seen reports whether id was marked before.
func (l *Ledger) Seen(id string) bool {
	_, ok := l.ids[id]
	return ok
}

// Mark records id. Marking twice is a no-op.
func (l *Ledger) Mark(id string) {
	if l.ids == nil {
		l.ids = map[string]struct{}{}
	}
	l.ids[id] = struct{}{}
}

// Len is the number of distinct identifiers marked.
func (l *Ledger) Len() int { return len(l.ids) }
