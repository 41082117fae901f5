package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	"github.com/vsinha/blendtrack/pkg/domain/sortfields"
)

var tankColumns = []string{"code", "description", "capacity", "location", "created_at"}

type tankRow struct {
	Code        string          `db:"code"`
	Description string          `db:"description"`
	Capacity    decimal.Decimal `db:"capacity"`
	Location    string          `db:"location"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r *tankRow) toDomain() *entities.Tank {
	return &entities.Tank{
		Code:        entities.TankCode(r.Code),
		Description: r.Description,
		Capacity:    r.Capacity,
		Location:    r.Location,
		CreatedAt:   r.CreatedAt,
	}
}

// TankRepository stores tanks in the tanks table
type TankRepository struct {
	db DB
}

func NewTankRepository(db DB) *TankRepository {
	return &TankRepository{db: db}
}

var _ repositories.TankRepository = (*TankRepository)(nil)

func (r *TankRepository) CreateTank(ctx context.Context, tank *entities.Tank) error {
	query, args, err := psql.Insert("tanks").
		Columns(tankColumns...).
		Values(string(tank.Code), tank.Description, tank.Capacity, tank.Location, tank.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build tank insert: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: tank %s", repositories.ErrAlreadyExists, tank.Code)
		}
		return fmt.Errorf("insert tank: %w", err)
	}
	return nil
}

func (r *TankRepository) GetTank(ctx context.Context, code entities.TankCode) (*entities.Tank, error) {
	query, args, err := psql.Select(tankColumns...).From("tanks").Where("code = ?", string(code)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build tank select: %w", err)
	}
	var row tankRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("%w: tank %s", repositories.ErrNotFound, code)
		}
		return nil, fmt.Errorf("get tank: %w", err)
	}
	return row.toDomain(), nil
}

func (r *TankRepository) ListTanks(ctx context.Context, opts repositories.ListOptions) ([]*entities.Tank, error) {
	order, err := orderBy(sortfields.Tanks, opts.Sorts, sortfields.DefaultCodeSorts, "code")
	if err != nil {
		return nil, err
	}
	query, args, err := paged(psql.Select(tankColumns...).From("tanks").OrderBy(order...), opts).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build tank list: %w", err)
	}
	var rows []tankRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tanks: %w", err)
	}
	tanks := make([]*entities.Tank, len(rows))
	for i := range rows {
		tanks[i] = rows[i].toDomain()
	}
	return tanks, nil
}

func (r *TankRepository) DeleteTank(ctx context.Context, code entities.TankCode) error {
	err := execOne(ctx, r.db, psql.Delete("tanks").Where("code = ?", string(code)), "delete tank")
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: tank %s holds blends", repositories.ErrInUse, code)
	}
	return err
}
