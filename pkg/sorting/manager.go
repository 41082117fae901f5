package sorting

import (
	"fmt"
	"slices"
	"strings"
)

// DuplicatePolicy decides what AddSort does when the field is already in the list
type DuplicatePolicy int

const (
	// ReplaceInPlace updates the existing entry's direction and keeps its priority
	ReplaceInPlace DuplicatePolicy = iota
	// AppendDuplicate appends unconditionally; the earlier entry shadows the later one
	AppendDuplicate
	// RejectDuplicate fails with ErrDuplicateField
	RejectDuplicate
	// MoveToEnd drops the existing entry and appends the new one at lowest priority
	MoveToEnd
)

// String method for DuplicatePolicy enum
func (p DuplicatePolicy) String() string {
	switch p {
	case ReplaceInPlace:
		return "ReplaceInPlace"
	case AppendDuplicate:
		return "AppendDuplicate"
	case RejectDuplicate:
		return "RejectDuplicate"
	case MoveToEnd:
		return "MoveToEnd"
	default:
		return "Unknown"
	}
}

// ParseDuplicatePolicy maps the configuration names replace, append, reject
// and move_to_end to a policy
func ParseDuplicatePolicy(raw string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "replace":
		return ReplaceInPlace, nil
	case "append":
		return AppendDuplicate, nil
	case "reject":
		return RejectDuplicate, nil
	case "move_to_end":
		return MoveToEnd, nil
	}
	return ReplaceInPlace, fmt.Errorf("unknown duplicate policy %q", raw)
}

// Option configures a Manager
type Option func(*managerConfig)

type managerConfig struct {
	policy DuplicatePolicy
}

// WithDuplicatePolicy overrides the default ReplaceInPlace policy
func WithDuplicatePolicy(policy DuplicatePolicy) Option {
	return func(c *managerConfig) {
		c.policy = policy
	}
}

// Manager holds a priority-ordered list of sort criteria over records of type T.
// It is owned by a single view and is not safe for concurrent use.
type Manager[T any] struct {
	fields   *Fields[T]
	policy   DuplicatePolicy
	criteria []Criterion
}

// NewManager creates an empty sort state over the given field table
func NewManager[T any](fields *Fields[T], opts ...Option) *Manager[T] {
	cfg := managerConfig{policy: ReplaceInPlace}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager[T]{
		fields:   fields,
		policy:   cfg.policy,
		criteria: make([]Criterion, 0),
	}
}

// Policy returns the duplicate-field policy in effect
func (m *Manager[T]) Policy() DuplicatePolicy {
	return m.policy
}

// AddSort appends criterion at the lowest priority, subject to the duplicate policy
func (m *Manager[T]) AddSort(criterion Criterion) error {
	if _, ok := m.fields.Lookup(criterion.Field); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, criterion.Field)
	}
	if !criterion.Direction.Valid() {
		return fmt.Errorf("%w: %q for field %s", ErrInvalidDirection, criterion.Direction, criterion.Field)
	}

	existing := m.indexOf(criterion.Field)
	if existing < 0 || m.policy == AppendDuplicate {
		m.criteria = append(m.criteria, criterion)
		return nil
	}

	switch m.policy {
	case RejectDuplicate:
		return fmt.Errorf("%w: %s", ErrDuplicateField, criterion.Field)
	case MoveToEnd:
		m.criteria = slices.Delete(m.criteria, existing, existing+1)
		m.criteria = append(m.criteria, criterion)
	default:
		m.criteria[existing].Direction = criterion.Direction
	}
	return nil
}

// RemoveSort removes the criterion at index
func (m *Manager[T]) RemoveSort(index int) error {
	if err := m.checkIndex(index); err != nil {
		return fmt.Errorf("remove sort: %w", err)
	}
	m.criteria = slices.Delete(m.criteria, index, index+1)
	return nil
}

// MoveSort removes the criterion at from and reinserts it at to, shifting the
// entries in between. Both indices refer to positions in the current list.
func (m *Manager[T]) MoveSort(from, to int) error {
	if err := m.checkIndex(from); err != nil {
		return fmt.Errorf("move sort from: %w", err)
	}
	if err := m.checkIndex(to); err != nil {
		return fmt.Errorf("move sort to: %w", err)
	}
	if from == to {
		return nil
	}
	moved := m.criteria[from]
	m.criteria = slices.Delete(m.criteria, from, from+1)
	m.criteria = slices.Insert(m.criteria, to, moved)
	return nil
}

// ReverseSortDirection toggles asc/desc on the criterion at index
func (m *Manager[T]) ReverseSortDirection(index int) error {
	if err := m.checkIndex(index); err != nil {
		return fmt.Errorf("reverse sort: %w", err)
	}
	m.criteria[index].Direction = m.criteria[index].Direction.Reverse()
	return nil
}

// ResetSorts clears all criteria
func (m *Manager[T]) ResetSorts() {
	m.criteria = m.criteria[:0]
}

// GetSorts returns a copy of the current criteria in priority order
func (m *Manager[T]) GetSorts() []Criterion {
	return slices.Clone(m.criteria)
}

// SetSorts replaces the list with criteria, applying AddSort to each in turn.
// On error the previous list is left untouched.
func (m *Manager[T]) SetSorts(criteria []Criterion) error {
	previous := m.criteria
	m.criteria = make([]Criterion, 0, len(criteria))
	for _, c := range criteria {
		if err := m.AddSort(c); err != nil {
			m.criteria = previous
			return err
		}
	}
	return nil
}

// PerformSorts compares a and b lexicographically over the criteria list
func (m *Manager[T]) PerformSorts(a, b T) int {
	for _, c := range m.criteria {
		field, ok := m.fields.Lookup(c.Field)
		if !ok {
			continue
		}
		result := field.Compare(a, b)
		if c.Direction == Desc {
			result = -result
		}
		if result != 0 {
			return result
		}
	}
	return 0
}

// Sort orders items in place. Records that tie on every criterion keep their
// relative order.
func (m *Manager[T]) Sort(items []T) {
	if len(m.criteria) == 0 {
		return
	}
	slices.SortStableFunc(items, m.PerformSorts)
}

func (m *Manager[T]) indexOf(field string) int {
	return slices.IndexFunc(m.criteria, func(c Criterion) bool {
		return c.Field == field
	})
}

func (m *Manager[T]) checkIndex(index int) error {
	if index < 0 || index >= len(m.criteria) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(m.criteria))
	}
	return nil
}
