package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
)

// Publisher announces blend status changes to interested parties
type Publisher interface {
	PublishStatusChange(ctx context.Context, change entities.BlendStatusChange) error
}

// JournalPublisher writes status changes into the blend's journal
type JournalPublisher struct {
	journal Journal
}

func NewJournalPublisher(journal Journal) *JournalPublisher {
	return &JournalPublisher{journal: journal}
}

func (p *JournalPublisher) PublishStatusChange(ctx context.Context, change entities.BlendStatusChange) error {
	_, err := p.journal.Record(ctx, change.BlendID.String(), BlendStatusChanged, change, change.At)
	return err
}

// MultiPublisher fans a change out to every publisher and joins their errors
type MultiPublisher []Publisher

func (m MultiPublisher) PublishStatusChange(ctx context.Context, change entities.BlendStatusChange) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishStatusChange(ctx, change); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StatusHistory returns the status changes recorded for a blend, oldest first
func StatusHistory(ctx context.Context, journal Journal, blendID string) ([]entities.BlendStatusChange, error) {
	entries, err := journal.Entries(ctx, blendID, 0)
	if err != nil {
		return nil, fmt.Errorf("read blend %s journal: %w", blendID, err)
	}
	history := make([]entities.BlendStatusChange, 0, len(entries))
	for _, entry := range entries {
		if entry.Kind != BlendStatusChanged {
			continue
		}
		change, err := statusChange(entry.Payload)
		if err != nil {
			return nil, fmt.Errorf("blend %s entry %d: %w", blendID, entry.Seq, err)
		}
		history = append(history, change)
	}
	return history, nil
}

func statusChange(payload any) (entities.BlendStatusChange, error) {
	var change entities.BlendStatusChange
	switch p := payload.(type) {
	case entities.BlendStatusChange:
		return p, nil
	case json.RawMessage:
		if err := json.Unmarshal(p, &change); err != nil {
			return change, fmt.Errorf("decode status change: %w", err)
		}
		return change, nil
	default:
		return change, fmt.Errorf("unexpected payload %T", payload)
	}
}
