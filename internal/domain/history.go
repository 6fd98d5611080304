package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// TransactionKind discriminates history entries.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

// HistoryEntry is one successfully applied transaction. Entries are
// append-only and never mutated after creation.
type HistoryEntry struct {
	ID     string          `json:"id"`
	Kind   TransactionKind `json:"kind"`
	Amount float64         `json:"amount"`
	At     time.Time       `json:"at"`
}

// History is the ordered log of an account's successful transactions.
// Insertion order is chronological order; nothing is ever removed.
type History struct {
	mu      sync.RWMutex
	entries []HistoryEntry
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append records a successfully applied transaction.
func (h *History) Append(kind TransactionKind, amount float64) HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	e := HistoryEntry{
		ID:     uuid.NewString(),
		Kind:   kind,
		Amount: amount,
		At:     time.Now(),
	}
	h.entries = append(h.entries, e)
	return e
}

// Entries returns a copy of the log, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of recorded transactions.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// WithdrawalCount counts entries of kind withdrawal over the account's
// entire lifetime. There is no statement-period reset.
func (h *History) WithdrawalCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, e := range h.entries {
		if e.Kind == KindWithdrawal {
			n++
		}
	}
	return n
}
