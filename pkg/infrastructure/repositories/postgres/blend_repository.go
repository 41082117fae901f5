package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	"github.com/vsinha/blendtrack/pkg/domain/sortfields"
)

var blendColumns = []string{
	"id",
	"lot_code",
	"product_code",
	"tank_code",
	"customer_id",
	"quantity",
	"status",
	"notes",
	"created_at",
	"updated_at",
}

type blendRow struct {
	ID          uuid.UUID       `db:"id"`
	LotCode     string          `db:"lot_code"`
	ProductCode string          `db:"product_code"`
	TankCode    string          `db:"tank_code"`
	CustomerID  uuid.UUID       `db:"customer_id"`
	Quantity    decimal.Decimal `db:"quantity"`
	Status      string          `db:"status"`
	Notes       string          `db:"notes"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r *blendRow) toDomain() (*entities.Blend, error) {
	status, err := entities.ParseBlendStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("blend %s: %w", r.LotCode, err)
	}
	return &entities.Blend{
		ID:          r.ID,
		LotCode:     entities.LotCode(r.LotCode),
		ProductCode: entities.ProductCode(r.ProductCode),
		TankCode:    entities.TankCode(r.TankCode),
		CustomerID:  r.CustomerID,
		Quantity:    r.Quantity,
		Status:      status,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func selectBlends() squirrel.SelectBuilder {
	return psql.Select(blendColumns...).From("blends")
}

// BlendRepository stores blends in the blends table
type BlendRepository struct {
	db  DB
	now func() time.Time
}

// NewBlendRepository creates a blend repository over db
func NewBlendRepository(db DB) *BlendRepository {
	return &BlendRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

var _ repositories.BlendRepository = (*BlendRepository)(nil)

func (r *BlendRepository) CreateBlend(ctx context.Context, blend *entities.Blend) error {
	query, args, err := psql.Insert("blends").
		Columns(blendColumns...).
		Values(
			blend.ID,
			string(blend.LotCode),
			string(blend.ProductCode),
			string(blend.TankCode),
			blend.CustomerID,
			blend.Quantity,
			string(blend.Status),
			blend.Notes,
			blend.CreatedAt,
			blend.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build blend insert: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("%w: lot code %s", repositories.ErrAlreadyExists, blend.LotCode)
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: blend %s references an unknown product, tank or customer", repositories.ErrNotFound, blend.LotCode)
		}
		return fmt.Errorf("insert blend: %w", err)
	}
	return nil
}

func (r *BlendRepository) GetBlend(ctx context.Context, id uuid.UUID) (*entities.Blend, error) {
	query, args, err := selectBlends().Where("id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build blend select: %w", err)
	}
	var row blendRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("%w: blend %s", repositories.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get blend: %w", err)
	}
	return row.toDomain()
}

// ListBlends filters on status in SQL. ActiveOnly intersects with Statuses
// when both are given.
func (r *BlendRepository) ListBlends(ctx context.Context, opts repositories.ListOptions) ([]*entities.Blend, error) {
	order, err := orderBy(sortfields.Blends, opts.Sorts, sortfields.DefaultBlendSorts, "id")
	if err != nil {
		return nil, err
	}

	builder := selectBlends()
	if opts.ActiveOnly {
		builder = builder.Where(squirrel.Eq{"status": statusStrings(entities.ActiveBlendStatuses())})
	}
	if len(opts.Statuses) > 0 {
		builder = builder.Where(squirrel.Eq{"status": statusStrings(opts.Statuses)})
	}
	query, args, err := paged(builder.OrderBy(order...), opts).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build blend list: %w", err)
	}

	var rows []blendRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list blends: %w", err)
	}
	blends := make([]*entities.Blend, 0, len(rows))
	for i := range rows {
		blend, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		blends = append(blends, blend)
	}
	return blends, nil
}

// UpdateBlendStatus is a compare-and-set on status. When no row matches it
// tells a missing blend apart from a stale status.
func (r *BlendRepository) UpdateBlendStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to entities.BlendStatus,
) (*entities.Blend, error) {
	query, args, err := psql.Update("blends").
		Set("status", string(to)).
		Set("updated_at", r.now()).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		Suffix("RETURNING " + strings.Join(blendColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build blend status update: %w", err)
	}

	var row blendRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if !pgxscan.NotFound(err) {
			return nil, fmt.Errorf("update blend status: %w", err)
		}
		current, getErr := r.GetBlend(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("%w: expected %s, found %s", repositories.ErrStaleStatus, from, current.Status)
	}
	return row.toDomain()
}

func (r *BlendRepository) DeleteBlend(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, r.db, psql.Delete("blends").Where("id = ?", id), "delete blend")
}

func (r *BlendRepository) LotCodes(ctx context.Context) ([]entities.LotCode, error) {
	query, args, err := psql.Select("lot_code").From("blends").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lot code select: %w", err)
	}
	var codes []string
	if err := pgxscan.Select(ctx, r.db, &codes, query, args...); err != nil {
		return nil, fmt.Errorf("select lot codes: %w", err)
	}
	lots := make([]entities.LotCode, len(codes))
	for i, c := range codes {
		lots[i] = entities.LotCode(c)
	}
	return lots, nil
}

func statusStrings(statuses []entities.BlendStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
