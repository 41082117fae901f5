package sorting

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIndexOutOfRange  = errors.New("sort index out of range")
	ErrDuplicateField   = errors.New("duplicate sort field")
	ErrUnknownField     = errors.New("unknown sort field")
	ErrInvalidDirection = errors.New("invalid sort direction")
)

// Direction is the ordering applied to a single sort key
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether d is asc or desc
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// Reverse toggles asc and desc
func (d Direction) Reverse() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// ParseDirection accepts asc/desc in any case
func ParseDirection(raw string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
	}
	return d, nil
}

// Criterion is one entry of a sort state; list position is its priority
type Criterion struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// String renders the criterion in query form: "field" or "-field"
func (c Criterion) String() string {
	if c.Direction == Desc {
		return "-" + c.Field
	}
	return c.Field
}

// ParseCriteria decodes a comma separated list like "lot_code,-quantity".
// A leading '-' means descending, a leading '+' or none ascending.
func ParseCriteria(raw string) ([]Criterion, error) {
	var criteria []Criterion
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		direction := Asc
		switch part[0] {
		case '-':
			direction = Desc
			part = part[1:]
		case '+':
			part = part[1:]
		}
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: empty field in %q", ErrUnknownField, raw)
		}
		criteria = append(criteria, Criterion{Field: part, Direction: direction})
	}
	return criteria, nil
}

// FormatCriteria is the inverse of ParseCriteria
func FormatCriteria(criteria []Criterion) string {
	parts := make([]string, len(criteria))
	for i, c := range criteria {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
