package services

import (
	"context"
	"fmt"

	"github.com/vsinha/blendtrack/pkg/application/dto"
	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	domain "github.com/vsinha/blendtrack/pkg/domain/services"
	"github.com/vsinha/blendtrack/pkg/infrastructure/logger"
)

// RecipeService replaces and reads product recipes. A new recipe is checked
// together with every other stored recipe so cycles across products are caught.
type RecipeService struct {
	products  repositories.ProductRepository
	recipes   repositories.RecipeRepository
	validator *domain.RecipeValidator
}

func NewRecipeService(products repositories.ProductRepository, recipes repositories.RecipeRepository) *RecipeService {
	return &RecipeService{
		products:  products,
		recipes:   recipes,
		validator: domain.NewRecipeValidator(),
	}
}

// SetRecipe replaces the recipe of product. An empty line list removes it.
func (s *RecipeService) SetRecipe(ctx context.Context, product entities.ProductCode, in dto.SetRecipeInput) ([]entities.RecipeLine, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.products.GetProduct(ctx, product); err != nil {
		return nil, err
	}

	lines := make([]entities.RecipeLine, 0, len(in.Lines))
	for i, l := range in.Lines {
		line, err := entities.NewRecipeLine(product, entities.ProductCode(l.ComponentCode), l.Fraction, l.Sequence)
		if err != nil {
			return nil, invalid(fmt.Errorf("line %d: %w", i+1, err))
		}
		lines = append(lines, *line)
	}

	if len(lines) > 0 {
		if err := s.check(ctx, product, lines); err != nil {
			return nil, err
		}
	}

	if err := s.recipes.ReplaceRecipe(ctx, product, lines); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Recipe replaced", "product", product, "lines", len(lines))
	return s.recipes.GetRecipe(ctx, product)
}

func (s *RecipeService) check(ctx context.Context, product entities.ProductCode, lines []entities.RecipeLine) error {
	stored, err := s.recipes.GetAllRecipeLines(ctx)
	if err != nil {
		return err
	}
	candidate := make([]entities.RecipeLine, 0, len(stored)+len(lines))
	for _, l := range stored {
		if l.ProductCode != product {
			candidate = append(candidate, l)
		}
	}
	candidate = append(candidate, lines...)

	products, err := s.products.ListProducts(ctx, repositories.ListOptions{})
	if err != nil {
		return err
	}
	known := make([]entities.Product, len(products))
	for i, p := range products {
		known[i] = *p
	}

	result := s.validator.ValidateRecipeProductConsistency(candidate, known)
	if !result.Valid() {
		return invalid(result.Err())
	}
	return nil
}

// GetRecipe returns the lines of an existing product in sequence order
func (s *RecipeService) GetRecipe(ctx context.Context, product entities.ProductCode) ([]entities.RecipeLine, error) {
	if _, err := s.products.GetProduct(ctx, product); err != nil {
		return nil, err
	}
	return s.recipes.GetRecipe(ctx, product)
}
