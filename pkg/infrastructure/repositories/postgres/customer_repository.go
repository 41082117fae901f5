package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	"github.com/vsinha/blendtrack/pkg/domain/sortfields"
)

var customerColumns = []string{"id", "code", "name", "contact_email", "created_at"}

type customerRow struct {
	ID           uuid.UUID `db:"id"`
	Code         string    `db:"code"`
	Name         string    `db:"name"`
	ContactEmail string    `db:"contact_email"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r *customerRow) toDomain() *entities.Customer {
	return &entities.Customer{
		ID:           r.ID,
		Code:         r.Code,
		Name:         r.Name,
		ContactEmail: r.ContactEmail,
		CreatedAt:    r.CreatedAt,
	}
}

// CustomerRepository stores customers in the customers table
type CustomerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

var _ repositories.CustomerRepository = (*CustomerRepository)(nil)

func (r *CustomerRepository) CreateCustomer(ctx context.Context, customer *entities.Customer) error {
	query, args, err := psql.Insert("customers").
		Columns(customerColumns...).
		Values(customer.ID, customer.Code, customer.Name, customer.ContactEmail, customer.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build customer insert: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: customer %s", repositories.ErrAlreadyExists, customer.Code)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetCustomer(ctx context.Context, id uuid.UUID) (*entities.Customer, error) {
	query, args, err := psql.Select(customerColumns...).From("customers").Where("id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build customer select: %w", err)
	}
	var row customerRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("%w: customer %s", repositories.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return row.toDomain(), nil
}

func (r *CustomerRepository) ListCustomers(ctx context.Context, opts repositories.ListOptions) ([]*entities.Customer, error) {
	order, err := orderBy(sortfields.Customers, opts.Sorts, sortfields.DefaultCodeSorts, "id")
	if err != nil {
		return nil, err
	}
	query, args, err := paged(psql.Select(customerColumns...).From("customers").OrderBy(order...), opts).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build customer list: %w", err)
	}
	var rows []customerRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	customers := make([]*entities.Customer, len(rows))
	for i := range rows {
		customers[i] = rows[i].toDomain()
	}
	return customers, nil
}

func (r *CustomerRepository) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	err := execOne(ctx, r.db, psql.Delete("customers").Where("id = ?", id), "delete customer")
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: customer %s has blends", repositories.ErrInUse, id)
	}
	return err
}
