package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/sorting"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	// ErrInUse is returned when deleting a record other records still reference
	ErrInUse = errors.New("record in use")
)

// ListOptions narrows and orders a list query. Sorts are applied in priority order;
// Statuses and ActiveOnly only apply to blends.
type ListOptions struct {
	Sorts      []sorting.Criterion
	Statuses   []entities.BlendStatus
	ActiveOnly bool
	Limit      int
	Offset     int
}

// CustomerRepository provides access to customer master data
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, customer *entities.Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*entities.Customer, error)
	ListCustomers(ctx context.Context, opts ListOptions) ([]*entities.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}

// ProductRepository provides access to product master data
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *entities.Product) error
	GetProduct(ctx context.Context, code entities.ProductCode) (*entities.Product, error)
	ListProducts(ctx context.Context, opts ListOptions) ([]*entities.Product, error)
	DeleteProduct(ctx context.Context, code entities.ProductCode) error
}

// TankRepository provides access to tank master data
type TankRepository interface {
	CreateTank(ctx context.Context, tank *entities.Tank) error
	GetTank(ctx context.Context, code entities.TankCode) (*entities.Tank, error)
	ListTanks(ctx context.Context, opts ListOptions) ([]*entities.Tank, error)
	DeleteTank(ctx context.Context, code entities.TankCode) error
}

// RecipeRepository provides access to product recipes
type RecipeRepository interface {
	// ReplaceRecipe swaps all lines of a product's recipe for lines
	ReplaceRecipe(ctx context.Context, product entities.ProductCode, lines []entities.RecipeLine) error
	GetRecipe(ctx context.Context, product entities.ProductCode) ([]entities.RecipeLine, error)
	GetAllRecipeLines(ctx context.Context) ([]entities.RecipeLine, error)
}

// BlendRepository provides access to production blends
type BlendRepository interface {
	CreateBlend(ctx context.Context, blend *entities.Blend) error
	GetBlend(ctx context.Context, id uuid.UUID) (*entities.Blend, error)
	ListBlends(ctx context.Context, opts ListOptions) ([]*entities.Blend, error)
	// UpdateBlendStatus sets status only if the stored status still equals from
	UpdateBlendStatus(ctx context.Context, id uuid.UUID, from, to entities.BlendStatus) (*entities.Blend, error)
	DeleteBlend(ctx context.Context, id uuid.UUID) error
	LotCodes(ctx context.Context) ([]entities.LotCode, error)
}

// ErrStaleStatus is returned by UpdateBlendStatus when the blend moved underneath the caller
var ErrStaleStatus = errors.New("blend status changed concurrently")
