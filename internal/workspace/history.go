package workspace

import "puente-backend/internal/generation"

// HistoryCapacity is how many successful requests the ledger keeps.
const HistoryCapacity = 5

// Ledger lists recent successful requests, most recent first. Identical
// requests are kept as separate entries. Not safe for concurrent use; the
// workspace guards it.
type Ledger struct {
	entries []generation.Request
}

// Record prepends req and drops entries beyond HistoryCapacity.
func (l *Ledger) Record(req generation.Request) {
	next := make([]generation.Request, 0, HistoryCapacity)
	next = append(next, req)
	next = append(next, l.entries...)
	if len(next) > HistoryCapacity {
		next = next[:HistoryCapacity]
	}
	l.entries = next
}

// Entries returns a copy of the ledger.
func (l *Ledger) Entries() []generation.Request {
	out := make([]generation.Request, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }
