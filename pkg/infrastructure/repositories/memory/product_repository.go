package memory

import (
	"context"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	"github.com/vsinha/blendtrack/pkg/domain/sortfields"
)

// ProductRepository provides in-memory product storage
type ProductRepository struct {
	products *table[entities.ProductCode, entities.Product]
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(expectedProducts int) *ProductRepository {
	return &ProductRepository{
		products: newTable[entities.ProductCode, entities.Product](expectedProducts),
	}
}

// Verify interface compliance
var _ repositories.ProductRepository = (*ProductRepository)(nil)

// LoadProducts loads products into the repository, failing on the first duplicate code
func (r *ProductRepository) LoadProducts(ctx context.Context, products []*entities.Product) error {
	for _, product := range products {
		if err := r.CreateProduct(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// CreateProduct stores a product; the code must be unused
func (r *ProductRepository) CreateProduct(_ context.Context, product *entities.Product) error {
	return r.products.insert(product.Code, *product)
}

// GetProduct returns product master data for a code
func (r *ProductRepository) GetProduct(_ context.Context, code entities.ProductCode) (*entities.Product, error) {
	return r.products.get(code)
}

// ListProducts returns products ordered by opts.Sorts, defaulting to code
func (r *ProductRepository) ListProducts(_ context.Context, opts repositories.ListOptions) ([]*entities.Product, error) {
	return list(r.products.all(nil), sortfields.Products, opts, sortfields.DefaultCodeSorts)
}

// DeleteProduct removes a product
func (r *ProductRepository) DeleteProduct(_ context.Context, code entities.ProductCode) error {
	return r.products.delete(code)
}

// Count returns the number of stored products
func (r *ProductRepository) Count() int {
	return r.products.count()
}
