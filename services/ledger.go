package services

import (
	"sync"
	"time"

	"telconova-dispatch/models"
)

type ledgerEntry struct {
	command    models.Command
	recordedAt time.Time
}

// Ledger is a bounded linear undo/redo history. Entries before the cursor
// can be undone, entries from the cursor on can be redone. Recording after
// an undo discards the redo branch.
//
// A positive ttl also expires entries recorded more than ttl ago; capacity 1
// with a ttl gives a single timed undo.
type Ledger struct {
	mu       sync.Mutex
	entries  []ledgerEntry
	cursor   int
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// NewLedger creates a ledger keeping at most capacity entries. A zero ttl
// keeps entries until they are pushed out; a nil now uses time.Now.
func NewLedger(capacity int, ttl time.Duration, now func() time.Time) *Ledger {
	if capacity <= 0 {
		capacity = 1
	}
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		capacity: capacity,
		ttl:      ttl,
		now:      now,
	}
}

// Record appends a command that has already been applied.
func (l *Ledger) Record(cmd models.Command) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries[:l.cursor], ledgerEntry{command: cmd, recordedAt: l.now()})
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = append([]ledgerEntry(nil), l.entries[over:]...)
	}
	l.cursor = len(l.entries)
}

// Undo hands the newest undoable command to apply and steps back when apply
// succeeds. A PersistenceFailure from apply still counts as applied.
func (l *Ledger) Undo(apply func(models.Command) error) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expireLocked()
	if l.cursor == 0 {
		return false, nil
	}
	err := apply(l.entries[l.cursor-1].command)
	if err != nil && !models.IsKind(err, models.KindPersistenceFailure) {
		return false, err
	}
	l.cursor--
	return true, err
}

// Redo re-applies the command after the cursor, with the same rules as Undo.
func (l *Ledger) Redo(apply func(models.Command) error) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expireLocked()
	if l.cursor >= len(l.entries) {
		return false, nil
	}
	err := apply(l.entries[l.cursor].command)
	if err != nil && !models.IsKind(err, models.KindPersistenceFailure) {
		return false, err
	}
	l.cursor++
	return true, err
}

func (l *Ledger) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expireLocked()
	return l.cursor > 0
}

func (l *Ledger) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expireLocked()
	return l.cursor < len(l.entries)
}

// DescribeLast describes the command Undo would reverse, or returns nil.
func (l *Ledger) DescribeLast() *string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expireLocked()
	return l.describeLocked()
}

func (l *Ledger) describeLocked() *string {
	if l.cursor == 0 {
		return nil
	}
	desc := l.entries[l.cursor-1].command.Description()
	return &desc
}

func (l *Ledger) State() models.HistoryState {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expireLocked()
	return models.HistoryState{
		CanUndo:  l.cursor > 0,
		CanRedo:  l.cursor < len(l.entries),
		LastDesc: l.describeLocked(),
		Size:     len(l.entries),
	}
}

// Undoable returns the undoable commands, oldest first.
func (l *Ledger) Undoable() []models.Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expireLocked()
	out := make([]models.Command, l.cursor)
	for i := range out {
		out[i] = l.entries[i].command
	}
	return out
}

// References counts the live entries, undoable or redoable, that name
// technicianID as assignee or previous assignee.
func (l *Ledger) References(technicianID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expireLocked()
	n := 0
	for _, e := range l.entries {
		for _, id := range []*string{e.command.TechnicianID, e.command.PreviousTechnicianID} {
			if id != nil && *id == technicianID {
				n++
				break
			}
		}
	}
	return n
}

// Expire drops entries older than the ttl and returns how many were removed.
func (l *Ledger) Expire() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.expireLocked()
}

// entries are in recording order, so the expired ones form a prefix
func (l *Ledger) expireLocked() int {
	if l.ttl <= 0 || len(l.entries) == 0 {
		return 0
	}
	cutoff := l.now().Add(-l.ttl)
	n := 0
	for n < len(l.entries) && !l.entries[n].recordedAt.After(cutoff) {
		n++
	}
	if n == 0 {
		return 0
	}
	l.entries = append([]ledgerEntry(nil), l.entries[n:]...)
	l.cursor -= n
	if l.cursor < 0 {
		l.cursor = 0
	}
	return n
}

func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.cursor = 0
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
