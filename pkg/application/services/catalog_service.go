package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/vsinha/blendtrack/pkg/application/dto"
	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	"github.com/vsinha/blendtrack/pkg/domain/sortfields"
	"github.com/vsinha/blendtrack/pkg/infrastructure/logger"
)

// CatalogService manages the master data blends refer to: customers,
// products and tanks. Deletes are refused while a blend or recipe still
// references the record.
type CatalogService struct {
	customers repositories.CustomerRepository
	products  repositories.ProductRepository
	tanks     repositories.TankRepository
	recipes   repositories.RecipeRepository
	blends    repositories.BlendRepository
	sorts     SortPolicy
}

func NewCatalogService(
	customers repositories.CustomerRepository,
	products repositories.ProductRepository,
	tanks repositories.TankRepository,
	recipes repositories.RecipeRepository,
	blends repositories.BlendRepository,
	sorts SortPolicy,
) *CatalogService {
	return &CatalogService{
		customers: customers,
		products:  products,
		tanks:     tanks,
		recipes:   recipes,
		blends:    blends,
		sorts:     sorts,
	}
}

func (s *CatalogService) CreateCustomer(ctx context.Context, in dto.CreateCustomerInput) (*entities.Customer, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	customer, err := entities.NewCustomer(in.Code, in.Name, in.ContactEmail)
	if err != nil {
		return nil, invalid(err)
	}
	if err := s.customers.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Customer created", "code", customer.Code, "id", customer.ID)
	return customer, nil
}

func (s *CatalogService) GetCustomer(ctx context.Context, id uuid.UUID) (*entities.Customer, error) {
	return s.customers.GetCustomer(ctx, id)
}

func (s *CatalogService) ListCustomers(ctx context.Context, in dto.ListInput) ([]*entities.Customer, error) {
	opts, err := listOptions(in, sortfields.Customers, s.sorts)
	if err != nil {
		return nil, err
	}
	return s.customers.ListCustomers(ctx, opts)
}

func (s *CatalogService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if err := s.refuseIfBlended(ctx, "customer "+id.String(), func(b *entities.Blend) bool { return b.CustomerID == id }); err != nil {
		return err
	}
	if err := s.customers.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Customer deleted", "id", id)
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in dto.CreateProductInput) (*entities.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	product, err := entities.NewProduct(entities.ProductCode(in.Code), in.Name, in.UnitOfMeasure, in.Density)
	if err != nil {
		return nil, invalid(err)
	}
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Product created", "code", product.Code)
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, code entities.ProductCode) (*entities.Product, error) {
	return s.products.GetProduct(ctx, code)
}

func (s *CatalogService) ListProducts(ctx context.Context, in dto.ListInput) ([]*entities.Product, error) {
	opts, err := listOptions(in, sortfields.Products, s.sorts)
	if err != nil {
		return nil, err
	}
	return s.products.ListProducts(ctx, opts)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, code entities.ProductCode) error {
	lines, err := s.recipes.GetAllRecipeLines(ctx)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(lines, func(l entities.RecipeLine) bool { return l.ComponentCode == code }) {
		return fmt.Errorf("%w: product %s is a recipe component", repositories.ErrInUse, code)
	}
	if err := s.refuseIfBlended(ctx, "product "+string(code), func(b *entities.Blend) bool { return b.ProductCode == code }); err != nil {
		return err
	}
	if err := s.products.DeleteProduct(ctx, code); err != nil {
		return err
	}
	if err := s.recipes.ReplaceRecipe(ctx, code, nil); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Product deleted", "code", code)
	return nil
}

func (s *CatalogService) CreateTank(ctx context.Context, in dto.CreateTankInput) (*entities.Tank, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	tank, err := entities.NewTank(entities.TankCode(in.Code), in.Description, in.Capacity, in.Location)
	if err != nil {
		return nil, invalid(err)
	}
	if err := s.tanks.CreateTank(ctx, tank); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Tank created", "code", tank.Code, "capacity", tank.Capacity)
	return tank, nil
}

func (s *CatalogService) GetTank(ctx context.Context, code entities.TankCode) (*entities.Tank, error) {
	return s.tanks.GetTank(ctx, code)
}

func (s *CatalogService) ListTanks(ctx context.Context, in dto.ListInput) ([]*entities.Tank, error) {
	opts, err := listOptions(in, sortfields.Tanks, s.sorts)
	if err != nil {
		return nil, err
	}
	return s.tanks.ListTanks(ctx, opts)
}

func (s *CatalogService) DeleteTank(ctx context.Context, code entities.TankCode) error {
	if err := s.refuseIfBlended(ctx, "tank "+string(code), func(b *entities.Blend) bool { return b.TankCode == code }); err != nil {
		return err
	}
	if err := s.tanks.DeleteTank(ctx, code); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Tank deleted", "code", code)
	return nil
}

func (s *CatalogService) refuseIfBlended(ctx context.Context, what string, uses func(*entities.Blend) bool) error {
	blends, err := s.blends.ListBlends(ctx, repositories.ListOptions{})
	if err != nil {
		return err
	}
	if slices.ContainsFunc(blends, uses) {
		return fmt.Errorf("%w: %s has blends", repositories.ErrInUse, what)
	}
	return nil
}
