package events

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Listener receives entries after they are recorded
type Listener func(Entry)

// ObservedJournal calls listeners after the wrapped journal records an entry.
// Listeners run on the recording goroutine and may read the journal.
type ObservedJournal struct {
	Journal

	mu        sync.Mutex
	listeners map[int]listener
	nextID    int
}

type listener struct {
	kinds []string
	fn    Listener
}

func Observe(journal Journal) *ObservedJournal {
	return &ObservedJournal{Journal: journal, listeners: make(map[int]listener)}
}

var _ Journal = (*ObservedJournal)(nil)

func (o *ObservedJournal) Record(ctx context.Context, blendID, kind string, payload any, at time.Time) (Entry, error) {
	entry, err := o.Journal.Record(ctx, blendID, kind, payload, at)
	if err != nil {
		return Entry{}, err
	}
	for _, fn := range o.listenersFor(kind) {
		fn(entry)
	}
	return entry, nil
}

// Listen registers fn for the given kinds, or for every kind when none are
// given. The returned func removes the listener.
func (o *ObservedJournal) Listen(fn Listener, kinds ...string) (stop func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextID
	o.nextID++
	o.listeners[id] = listener{kinds: slices.Clone(kinds), fn: fn}

	return func() {
		o.mu.Lock()
		delete(o.listeners, id)
		o.mu.Unlock()
	}
}

// listenersFor returns matching listeners in registration order
func (o *ObservedJournal) listenersFor(kind string) []Listener {
	o.mu.Lock()
	defer o.mu.Unlock()

	ids := make([]int, 0, len(o.listeners))
	for id, l := range o.listeners {
		if len(l.kinds) == 0 || slices.Contains(l.kinds, kind) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	out := make([]Listener, len(ids))
	for i, id := range ids {
		out[i] = o.listeners[id].fn
	}
	return out
}
