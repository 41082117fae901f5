package memory

import (
	"context"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	"github.com/vsinha/blendtrack/pkg/domain/sortfields"
)

// TankRepository provides in-memory tank storage
type TankRepository struct {
	tanks *table[entities.TankCode, entities.Tank]
}

// NewTankRepository creates a new in-memory tank repository
func NewTankRepository(expectedTanks int) *TankRepository {
	return &TankRepository{
		tanks: newTable[entities.TankCode, entities.Tank](expectedTanks),
	}
}

// Verify interface compliance
var _ repositories.TankRepository = (*TankRepository)(nil)

// LoadTanks loads tanks into the repository
func (r *TankRepository) LoadTanks(ctx context.Context, tanks []*entities.Tank) error {
	for _, tank := range tanks {
		if err := r.CreateTank(ctx, tank); err != nil {
			return err
		}
	}
	return nil
}

// CreateTank stores a tank; the code must be unused
func (r *TankRepository) CreateTank(_ context.Context, tank *entities.Tank) error {
	return r.tanks.insert(tank.Code, *tank)
}

// GetTank returns a tank by code
func (r *TankRepository) GetTank(_ context.Context, code entities.TankCode) (*entities.Tank, error) {
	return r.tanks.get(code)
}

// ListTanks returns tanks ordered by opts.Sorts, defaulting to code
func (r *TankRepository) ListTanks(_ context.Context, opts repositories.ListOptions) ([]*entities.Tank, error) {
	return list(r.tanks.all(nil), sortfields.Tanks, opts, sortfields.DefaultCodeSorts)
}

// DeleteTank removes a tank
func (r *TankRepository) DeleteTank(_ context.Context, code entities.TankCode) error {
	return r.tanks.delete(code)
}
