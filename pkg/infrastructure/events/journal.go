package events

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// Entry kinds kept in a blend's journal
const (
	BlendCreated       = "blend.created"
	BlendStatusChanged = "blend.status_changed"
)

// ErrIncompleteEntry is returned when an entry has no blend or no kind
var ErrIncompleteEntry = errors.New("journal entry needs a blend and a kind")

// Entry is one line of a blend's journal. Seq counts from 1 within a blend;
// Position orders entries across all blends.
type Entry struct {
	Kind     string
	BlendID  string
	Seq      int
	Position int64
	At       time.Time
	// Payload is the recorded value, or its JSON encoding when the entry was
	// read back from a database
	Payload any
}

// Journal is an append-only record of what happened to each blend
type Journal interface {
	Record(ctx context.Context, blendID, kind string, payload any, at time.Time) (Entry, error)
	Entries(ctx context.Context, blendID string, afterSeq int) ([]Entry, error)
}

// MemoryJournal keeps journals in process, for the memory store
type MemoryJournal struct {
	mu      sync.RWMutex
	byBlend map[string][]Entry
	next    int64
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{byBlend: make(map[string][]Entry)}
}

var _ Journal = (*MemoryJournal)(nil)

func (j *MemoryJournal) Record(_ context.Context, blendID, kind string, payload any, at time.Time) (Entry, error) {
	if blendID == "" || kind == "" {
		return Entry{}, ErrIncompleteEntry
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.next++
	entry := Entry{
		Kind:     kind,
		BlendID:  blendID,
		Seq:      len(j.byBlend[blendID]) + 1,
		Position: j.next,
		At:       at,
		Payload:  payload,
	}
	j.byBlend[blendID] = append(j.byBlend[blendID], entry)
	return entry, nil
}

// Entries returns the blend's entries with Seq greater than afterSeq
func (j *MemoryJournal) Entries(_ context.Context, blendID string, afterSeq int) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	entries := j.byBlend[blendID]
	if afterSeq < 0 {
		afterSeq = 0
	}
	if afterSeq >= len(entries) {
		return nil, nil
	}
	return slices.Clone(entries[afterSeq:]), nil
}
