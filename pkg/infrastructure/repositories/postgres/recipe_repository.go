package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
)

var recipeColumns = []string{"product_code", "component_code", "fraction", "sequence"}

type recipeLineRow struct {
	ProductCode   string          `db:"product_code"`
	ComponentCode string          `db:"component_code"`
	Fraction      decimal.Decimal `db:"fraction"`
	Sequence      int             `db:"sequence"`
}

func (r *recipeLineRow) toDomain() entities.RecipeLine {
	return entities.RecipeLine{
		ProductCode:   entities.ProductCode(r.ProductCode),
		ComponentCode: entities.ProductCode(r.ComponentCode),
		Fraction:      r.Fraction,
		Sequence:      r.Sequence,
	}
}

// RecipeRepository stores recipes as rows of recipe_lines
type RecipeRepository struct {
	db DB
}

func NewRecipeRepository(db DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

var _ repositories.RecipeRepository = (*RecipeRepository)(nil)

// ReplaceRecipe deletes and reinserts the product's lines in one transaction
func (r *RecipeRepository) ReplaceRecipe(ctx context.Context, product entities.ProductCode, lines []entities.RecipeLine) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin recipe transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	query, args, err := psql.Delete("recipe_lines").Where("product_code = ?", string(product)).ToSql()
	if err != nil {
		return fmt.Errorf("build recipe delete: %w", err)
	}
	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete recipe lines: %w", err)
	}

	if len(lines) > 0 {
		insert := psql.Insert("recipe_lines").Columns(recipeColumns...)
		for _, line := range lines {
			insert = insert.Values(string(product), string(line.ComponentCode), line.Fraction, line.Sequence)
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("build recipe insert: %w", err)
		}
		if _, err = tx.Exec(ctx, query, args...); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: recipe for %s references an unknown product", repositories.ErrNotFound, product)
			}
			return fmt.Errorf("insert recipe lines: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit recipe: %w", err)
	}
	return nil
}

func (r *RecipeRepository) GetRecipe(ctx context.Context, product entities.ProductCode) ([]entities.RecipeLine, error) {
	query, args, err := psql.Select(recipeColumns...).
		From("recipe_lines").
		Where("product_code = ?", string(product)).
		OrderBy("sequence ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recipe select: %w", err)
	}
	return r.selectLines(ctx, query, args)
}

func (r *RecipeRepository) GetAllRecipeLines(ctx context.Context) ([]entities.RecipeLine, error) {
	query, args, err := psql.Select(recipeColumns...).
		From("recipe_lines").
		OrderBy("product_code ASC", "sequence ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recipe select: %w", err)
	}
	return r.selectLines(ctx, query, args)
}

func (r *RecipeRepository) selectLines(ctx context.Context, query string, args []any) ([]entities.RecipeLine, error) {
	var rows []recipeLineRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recipe lines: %w", err)
	}
	lines := make([]entities.RecipeLine, len(rows))
	for i := range rows {
		lines[i] = rows[i].toDomain()
	}
	return lines, nil
}
