package memory

import (
	"fmt"
	"slices"
	"sync"

	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	"github.com/vsinha/blendtrack/pkg/sorting"
)

// table keeps rows by key in insertion order. Rows are stored by value and
// handed out as copies so callers cannot mutate stored state.
type table[K comparable, V any] struct {
	mu    sync.RWMutex
	rows  map[K]V
	order []K
}

func newTable[K comparable, V any](expected int) *table[K, V] {
	return &table[K, V]{
		rows:  make(map[K]V, expected),
		order: make([]K, 0, expected),
	}
}

func (t *table[K, V]) insert(key K, row V) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.rows[key]; exists {
		return fmt.Errorf("%w: %v", repositories.ErrAlreadyExists, key)
	}
	t.rows[key] = row
	t.order = append(t.order, key)
	return nil
}

func (t *table[K, V]) get(key K) (*V, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, exists := t.rows[key]
	if !exists {
		return nil, fmt.Errorf("%w: %v", repositories.ErrNotFound, key)
	}
	return &row, nil
}

// update applies fn to a copy of the row and stores the result if fn succeeds
func (t *table[K, V]) update(key K, fn func(*V) error) (*V, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, exists := t.rows[key]
	if !exists {
		return nil, fmt.Errorf("%w: %v", repositories.ErrNotFound, key)
	}
	if err := fn(&row); err != nil {
		return nil, err
	}
	t.rows[key] = row
	return &row, nil
}

func (t *table[K, V]) delete(key K) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.rows[key]; !exists {
		return fmt.Errorf("%w: %v", repositories.ErrNotFound, key)
	}
	delete(t.rows, key)
	t.order = slices.DeleteFunc(t.order, func(k K) bool { return k == key })
	return nil
}

// all returns copies of every row in insertion order, optionally filtered
func (t *table[K, V]) all(keep func(*V) bool) []*V {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*V, 0, len(t.order))
	for _, key := range t.order {
		row := t.rows[key]
		if keep != nil && !keep(&row) {
			continue
		}
		out = append(out, &row)
	}
	return out
}

func (t *table[K, V]) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// list orders rows with a fresh sort manager and applies paging. Criteria
// arrive normalized, so duplicates are kept as given.
func list[V any](
	rows []*V,
	fields *sorting.Fields[*V],
	opts repositories.ListOptions,
	defaults []sorting.Criterion,
) ([]*V, error) {
	sorts := opts.Sorts
	if len(sorts) == 0 {
		sorts = defaults
	}
	manager := sorting.NewManager(fields, sorting.WithDuplicatePolicy(sorting.AppendDuplicate))
	if err := manager.SetSorts(sorts); err != nil {
		return nil, err
	}
	manager.Sort(rows)
	return paginate(rows, opts.Limit, opts.Offset), nil
}

func paginate[V any](rows []V, limit, offset int) []V {
	if offset > 0 {
		if offset >= len(rows) {
			return rows[:0]
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
