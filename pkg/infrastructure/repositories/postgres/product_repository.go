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

var productColumns = []string{"code", "name", "unit_of_measure", "density", "created_at"}

type productRow struct {
	Code          string          `db:"code"`
	Name          string          `db:"name"`
	UnitOfMeasure string          `db:"unit_of_measure"`
	Density       decimal.Decimal `db:"density"`
	CreatedAt     time.Time       `db:"created_at"`
}

func (r *productRow) toDomain() *entities.Product {
	return &entities.Product{
		Code:          entities.ProductCode(r.Code),
		Name:          r.Name,
		UnitOfMeasure: r.UnitOfMeasure,
		Density:       r.Density,
		CreatedAt:     r.CreatedAt,
	}
}

// ProductRepository stores products in the products table
type ProductRepository struct {
	db DB
}

// NewProductRepository creates a product repository over db
func NewProductRepository(db DB) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ repositories.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) CreateProduct(ctx context.Context, product *entities.Product) error {
	query, args, err := psql.Insert("products").
		Columns(productColumns...).
		Values(string(product.Code), product.Name, product.UnitOfMeasure, product.Density, product.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build product insert: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: product %s", repositories.ErrAlreadyExists, product.Code)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetProduct(ctx context.Context, code entities.ProductCode) (*entities.Product, error) {
	query, args, err := psql.Select(productColumns...).
		From("products").
		Where("code = ?", string(code)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product select: %w", err)
	}
	var row productRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("%w: product %s", repositories.ErrNotFound, code)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ProductRepository) ListProducts(ctx context.Context, opts repositories.ListOptions) ([]*entities.Product, error) {
	order, err := orderBy(sortfields.Products, opts.Sorts, sortfields.DefaultCodeSorts, "code")
	if err != nil {
		return nil, err
	}
	query, args, err := paged(psql.Select(productColumns...).From("products").OrderBy(order...), opts).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product list: %w", err)
	}
	var rows []productRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products := make([]*entities.Product, len(rows))
	for i := range rows {
		products[i] = rows[i].toDomain()
	}
	return products, nil
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, code entities.ProductCode) error {
	err := execOne(ctx, r.db, psql.Delete("products").Where("code = ?", string(code)), "delete product")
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: product %s is used by a recipe or blend", repositories.ErrInUse, code)
	}
	return err
}
