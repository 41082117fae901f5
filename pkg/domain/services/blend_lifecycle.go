package services

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
)

// ErrInvalidTransition is returned when a status change is not in the transition table
var ErrInvalidTransition = errors.New("invalid blend status transition")

// BlendLifecycle enforces blend status transitions
type BlendLifecycle struct {
	allowedTransitions map[entities.BlendStatus][]entities.BlendStatus
	enforce            bool
}

// NewBlendLifecycle creates the plant workflow. With enforce off every valid
// status is directly assignable from any other.
func NewBlendLifecycle(enforce bool) *BlendLifecycle {
	return &BlendLifecycle{
		allowedTransitions: map[entities.BlendStatus][]entities.BlendStatus{
			entities.StatusCreated:    {entities.StatusQueued},
			entities.StatusQueued:     {entities.StatusAssembling, entities.StatusCreated},
			entities.StatusAssembling: {entities.StatusBlending},
			entities.StatusBlending:   {entities.StatusTesting},
			entities.StatusTesting:    {entities.StatusPassed, entities.StatusFlagged},
			entities.StatusFlagged:    {entities.StatusAdjusting},
			entities.StatusAdjusting:  {entities.StatusTesting},
			entities.StatusPassed:     {entities.StatusPushed},
			entities.StatusPushed:     {entities.StatusComplete},
			entities.StatusComplete:   {},
		},
		enforce: enforce,
	}
}

// Enforced reports whether the transition table is applied
func (l *BlendLifecycle) Enforced() bool {
	return l.enforce
}

// CanTransition checks if a status change is allowed
func (l *BlendLifecycle) CanTransition(from, to entities.BlendStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if !l.enforce {
		return true
	}
	return slices.Contains(l.allowedTransitions[from], to)
}

// AllowedTransitions returns the next statuses reachable from a status
func (l *BlendLifecycle) AllowedTransitions(from entities.BlendStatus) []entities.BlendStatus {
	if !from.Valid() {
		return []entities.BlendStatus{}
	}
	if !l.enforce {
		all := entities.AllBlendStatuses()
		return slices.DeleteFunc(all, func(s entities.BlendStatus) bool { return s == from })
	}
	return slices.Clone(l.allowedTransitions[from])
}

// IsTerminal reports whether no transition leaves status under the table
func (l *BlendLifecycle) IsTerminal(status entities.BlendStatus) bool {
	return len(l.allowedTransitions[status]) == 0
}

// Transition validates a change from the blend's current status to to and
// returns the change record. The blend itself is not modified.
func (l *BlendLifecycle) Transition(blend *entities.Blend, to entities.BlendStatus) (*entities.BlendStatusChange, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: %q", entities.ErrInvalidStatus, to)
	}
	if !l.CanTransition(blend.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, blend.Status, to)
	}
	return &entities.BlendStatusChange{
		BlendID: blend.ID,
		LotCode: blend.LotCode,
		From:    blend.Status,
		To:      to,
	}, nil
}
