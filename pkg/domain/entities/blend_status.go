package entities

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidStatus is returned for values outside the BlendStatus set
var ErrInvalidStatus = errors.New("invalid blend status")

// BlendStatus is a step of the blending workflow
type BlendStatus string

const (
	StatusCreated    BlendStatus = "CREATED"
	StatusQueued     BlendStatus = "QUEUED"
	StatusAssembling BlendStatus = "ASSEMBLING"
	StatusBlending   BlendStatus = "BLENDING"
	StatusTesting    BlendStatus = "TESTING"
	StatusAdjusting  BlendStatus = "ADJUSTING"
	StatusPassed     BlendStatus = "PASSED"
	StatusFlagged    BlendStatus = "FLAGGED"
	StatusPushed     BlendStatus = "PUSHED"
	StatusComplete   BlendStatus = "COMPLETE"
)

// workflow order
var blendStatuses = []BlendStatus{
	StatusCreated,
	StatusQueued,
	StatusAssembling,
	StatusBlending,
	StatusTesting,
	StatusAdjusting,
	StatusPassed,
	StatusFlagged,
	StatusPushed,
	StatusComplete,
}

// blends on the floor: scheduled, in a tank, or waiting on a lab result
var activeBlendStatuses = []BlendStatus{
	StatusQueued,
	StatusAssembling,
	StatusBlending,
	StatusTesting,
	StatusAdjusting,
	StatusFlagged,
}

// AllBlendStatuses returns every status in workflow order
func AllBlendStatuses() []BlendStatus {
	return slices.Clone(blendStatuses)
}

// ActiveBlendStatuses returns the in-progress subset in workflow order
func ActiveBlendStatuses() []BlendStatus {
	return slices.Clone(activeBlendStatuses)
}

// ParseBlendStatus validates raw against the closed status set
func ParseBlendStatus(raw string) (BlendStatus, error) {
	s := BlendStatus(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// IsActive reports whether status is one of the in-progress statuses
func IsActive(status BlendStatus) bool {
	return slices.Contains(activeBlendStatuses, status)
}

// String returns the wire literal
func (s BlendStatus) String() string {
	return string(s)
}

// Valid reports whether s is a recognised status
func (s BlendStatus) Valid() bool {
	return slices.Contains(blendStatuses, s)
}

// IsActive reports whether s is one of the in-progress statuses
func (s BlendStatus) IsActive() bool {
	return IsActive(s)
}

// Ordinal is the position of s in the workflow, -1 when unknown
func (s BlendStatus) Ordinal() int {
	return slices.Index(blendStatuses, s)
}

// UnmarshalText rejects unknown literals when decoding JSON or query strings
func (s *BlendStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseBlendStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
