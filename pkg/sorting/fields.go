package sorting

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Compare is a three-way comparison: negative when a sorts before b, zero on a tie
type Compare[T any] func(a, b T) int

// Field describes one sortable key of a record type
type Field[T any] struct {
	Key     string
	Label   string
	Column  string
	Compare Compare[T]
}

// FieldInfo is the display view of a Field
type FieldInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Fields is the table of sortable keys for a record type, in declaration order
type Fields[T any] struct {
	order []Field[T]
	byKey map[string]int
}

// NewFields builds a field table. Keys must be non-empty and unique.
func NewFields[T any](fields ...Field[T]) (*Fields[T], error) {
	f := &Fields[T]{
		order: make([]Field[T], 0, len(fields)),
		byKey: make(map[string]int, len(fields)),
	}
	for _, field := range fields {
		if field.Key == "" {
			return nil, fmt.Errorf("sort field key cannot be empty")
		}
		if field.Compare == nil {
			return nil, fmt.Errorf("sort field %s has no comparator", field.Key)
		}
		if _, exists := f.byKey[field.Key]; exists {
			return nil, fmt.Errorf("sort field %s declared twice", field.Key)
		}
		f.byKey[field.Key] = len(f.order)
		f.order = append(f.order, field)
	}
	return f, nil
}

// MustFields is NewFields for package-level tables; it panics on a bad declaration
func MustFields[T any](fields ...Field[T]) *Fields[T] {
	f, err := NewFields(fields...)
	if err != nil {
		panic(err)
	}
	return f
}

// Lookup returns the field registered under key
func (f *Fields[T]) Lookup(key string) (Field[T], bool) {
	i, ok := f.byKey[key]
	if !ok {
		return Field[T]{}, false
	}
	return f.order[i], true
}

// Keys returns the registered keys in declaration order
func (f *Fields[T]) Keys() []string {
	keys := make([]string, len(f.order))
	for i, field := range f.order {
		keys[i] = field.Key
	}
	return keys
}

// Infos returns key/label pairs for table headers
func (f *Fields[T]) Infos() []FieldInfo {
	infos := make([]FieldInfo, len(f.order))
	for i, field := range f.order {
		infos[i] = FieldInfo{Key: field.Key, Label: field.Label}
	}
	return infos
}

// Column returns the storage column backing key, if any
func (f *Fields[T]) Column(key string) (string, bool) {
	field, ok := f.Lookup(key)
	if !ok || field.Column == "" {
		return "", false
	}
	return field.Column, true
}

type numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Number declares a numeric field. Only the sign of a-b matters, so cmp.Compare is
// used instead of subtraction to stay clear of overflow on wide integers.
func Number[T any, N numeric](key, label, column string, get func(T) N) Field[T] {
	return Field[T]{
		Key:    key,
		Label:  label,
		Column: column,
		Compare: func(a, b T) int {
			return cmp.Compare(get(a), get(b))
		},
	}
}

// String declares a lexical field compared byte-wise, independent of locale
func String[T any](key, label, column string, get func(T) string) Field[T] {
	return Field[T]{
		Key:    key,
		Label:  label,
		Column: column,
		Compare: func(a, b T) int {
			return strings.Compare(get(a), get(b))
		},
	}
}

// Decimal declares a fixed-point field
func Decimal[T any](key, label, column string, get func(T) decimal.Decimal) Field[T] {
	return Field[T]{
		Key:    key,
		Label:  label,
		Column: column,
		Compare: func(a, b T) int {
			return get(a).Cmp(get(b))
		},
	}
}

// Time declares a chronological field
func Time[T any](key, label, column string, get func(T) time.Time) Field[T] {
	return Field[T]{
		Key:    key,
		Label:  label,
		Column: column,
		Compare: func(a, b T) int {
			return get(a).Compare(get(b))
		},
	}
}

// Custom declares a field with its own comparator over an extracted string,
// e.g. natural ordering of lot codes
func Custom[T any](key, label, column string, get func(T) string, compare func(a, b string) int) Field[T] {
	return Field[T]{
		Key:    key,
		Label:  label,
		Column: column,
		Compare: func(a, b T) int {
			return compare(get(a), get(b))
		},
	}
}
