package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
)

// RecipeRepository provides in-memory recipe storage keyed by finished product
type RecipeRepository struct {
	mu      sync.RWMutex
	recipes map[entities.ProductCode][]entities.RecipeLine
}

// NewRecipeRepository creates a new in-memory recipe repository
func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{
		recipes: make(map[entities.ProductCode][]entities.RecipeLine),
	}
}

// Verify interface compliance
var _ repositories.RecipeRepository = (*RecipeRepository)(nil)

// LoadRecipeLines groups lines by product and stores each recipe
func (r *RecipeRepository) LoadRecipeLines(ctx context.Context, lines []*entities.RecipeLine) error {
	grouped := make(map[entities.ProductCode][]entities.RecipeLine)
	for _, line := range lines {
		grouped[line.ProductCode] = append(grouped[line.ProductCode], *line)
	}
	for product, recipe := range grouped {
		if err := r.ReplaceRecipe(ctx, product, recipe); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceRecipe swaps a product's recipe. An empty line set removes it.
func (r *RecipeRepository) ReplaceRecipe(_ context.Context, product entities.ProductCode, lines []entities.RecipeLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(lines) == 0 {
		delete(r.recipes, product)
		return nil
	}
	stored := slices.Clone(lines)
	slices.SortStableFunc(stored, bySequence)
	r.recipes[product] = stored
	return nil
}

// GetRecipe returns a product's lines in sequence order; an unknown product has no lines
func (r *RecipeRepository) GetRecipe(_ context.Context, product entities.ProductCode) ([]entities.RecipeLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.recipes[product]), nil
}

// GetAllRecipeLines returns every line ordered by product then sequence
func (r *RecipeRepository) GetAllRecipeLines(_ context.Context) ([]entities.RecipeLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []entities.RecipeLine
	for _, lines := range r.recipes {
		all = append(all, lines...)
	}
	slices.SortStableFunc(all, func(a, b entities.RecipeLine) int {
		if c := cmp.Compare(a.ProductCode, b.ProductCode); c != 0 {
			return c
		}
		return bySequence(a, b)
	})
	return all, nil
}

func bySequence(a, b entities.RecipeLine) int {
	return cmp.Compare(a.Sequence, b.Sequence)
}
