package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	"github.com/vsinha/blendtrack/pkg/domain/sortfields"
)

// BlendRepository provides in-memory blend storage
type BlendRepository struct {
	createMu sync.Mutex
	blends   *table[uuid.UUID, entities.Blend]
	now      func() time.Time
}

// NewBlendRepository creates a new in-memory blend repository
func NewBlendRepository(expectedBlends int) *BlendRepository {
	return &BlendRepository{
		blends: newTable[uuid.UUID, entities.Blend](expectedBlends),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Verify interface compliance
var _ repositories.BlendRepository = (*BlendRepository)(nil)

// CreateBlend stores a blend; the ID and lot code must be unused
func (r *BlendRepository) CreateBlend(_ context.Context, blend *entities.Blend) error {
	r.createMu.Lock()
	defer r.createMu.Unlock()

	taken := r.blends.all(func(b *entities.Blend) bool { return b.LotCode == blend.LotCode })
	if len(taken) > 0 {
		return fmt.Errorf("%w: lot code %s", repositories.ErrAlreadyExists, blend.LotCode)
	}
	return r.blends.insert(blend.ID, *blend)
}

// GetBlend returns a blend by ID
func (r *BlendRepository) GetBlend(_ context.Context, id uuid.UUID) (*entities.Blend, error) {
	return r.blends.get(id)
}

// ListBlends filters by status and active flag, then orders by opts.Sorts
func (r *BlendRepository) ListBlends(_ context.Context, opts repositories.ListOptions) ([]*entities.Blend, error) {
	rows := r.blends.all(func(b *entities.Blend) bool {
		if opts.ActiveOnly && !b.IsActive() {
			return false
		}
		if len(opts.Statuses) > 0 && !slices.Contains(opts.Statuses, b.Status) {
			return false
		}
		return true
	})
	return list(rows, sortfields.Blends, opts, sortfields.DefaultBlendSorts)
}

// UpdateBlendStatus moves a blend from one status to another, failing with
// ErrStaleStatus when the stored status is no longer from
func (r *BlendRepository) UpdateBlendStatus(
	_ context.Context,
	id uuid.UUID,
	from, to entities.BlendStatus,
) (*entities.Blend, error) {
	return r.blends.update(id, func(b *entities.Blend) error {
		if b.Status != from {
			return fmt.Errorf("%w: expected %s, found %s", repositories.ErrStaleStatus, from, b.Status)
		}
		b.Status = to
		b.UpdatedAt = r.now()
		return nil
	})
}

// DeleteBlend removes a blend
func (r *BlendRepository) DeleteBlend(_ context.Context, id uuid.UUID) error {
	return r.blends.delete(id)
}

// LotCodes returns the lot codes of all stored blends
func (r *BlendRepository) LotCodes(_ context.Context) ([]entities.LotCode, error) {
	rows := r.blends.all(nil)
	codes := make([]entities.LotCode, len(rows))
	for i, b := range rows {
		codes[i] = b.LotCode
	}
	return codes, nil
}
