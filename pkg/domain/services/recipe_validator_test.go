package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
)

func line(product, component string, fraction string) entities.RecipeLine {
	return entities.RecipeLine{
		ProductCode:   entities.ProductCode(product),
		ComponentCode: entities.ProductCode(component),
		Fraction:      decimal.RequireFromString(fraction),
		Sequence:      1,
	}
}

func TestRecipeValidator_ValidRecipe(t *testing.T) {
	v := NewRecipeValidator()
	lines := []entities.RecipeLine{
		line("GLYCOL-50", "MEG", "0.5"),
		line("GLYCOL-50", "WATER", "0.4999"),
		line("COOLANT", "GLYCOL-50", "0.95"),
		line("COOLANT", "DYE", "0.05"),
	}

	result := v.ValidateRecipes(lines)

	if !result.Valid() {
		t.Errorf("Expected valid recipes, got errors: %v", result.Errors)
	}
	if result.Err() != nil {
		t.Errorf("Expected nil error, got %v", result.Err())
	}
}

func TestRecipeValidator_DetectSimpleCycle(t *testing.T) {
	v := NewRecipeValidator()
	lines := []entities.RecipeLine{
		line("A", "B", "1"),
		line("B", "A", "1"),
	}

	result := v.ValidateRecipes(lines)

	if !result.HasCycles {
		t.Fatal("Expected cycle to be detected")
	}
	want := []entities.ProductCode{"A", "B", "A"}
	got := result.CyclePaths[0]
	if len(got) != len(want) {
		t.Fatalf("Expected cycle %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected cycle %v, got %v", want, got)
			break
		}
	}
}

func TestRecipeValidator_DetectLongerCycle(t *testing.T) {
	v := NewRecipeValidator()
	lines := []entities.RecipeLine{
		line("A", "B", "1"),
		line("B", "C", "1"),
		line("C", "A", "1"),
	}

	result := v.ValidateRecipes(lines)

	if !result.HasCycles {
		t.Error("Expected cycle to be detected")
	}
	if len(result.CyclePaths[0]) != 4 {
		t.Errorf("Expected closed path of 4, got %v", result.CyclePaths[0])
	}
}

func TestRecipeValidator_Duplicates(t *testing.T) {
	v := NewRecipeValidator()
	lines := []entities.RecipeLine{
		line("A", "B", "0.5"),
		line("A", "B", "0.5"),
	}

	result := v.ValidateRecipes(lines)

	if len(result.DuplicateLines) != 2 {
		t.Errorf("Expected both duplicate lines reported, got %d", len(result.DuplicateLines))
	}
	if result.Valid() {
		t.Error("Expected duplicates to invalidate recipe")
	}
}

func TestRecipeValidator_Unbalanced(t *testing.T) {
	v := NewRecipeValidator()
	lines := []entities.RecipeLine{
		line("A", "B", "0.5"),
		line("A", "C", "0.3"),
		line("D", "E", "1"),
	}

	result := v.ValidateRecipes(lines)

	if len(result.UnbalancedRecipes) != 1 || result.UnbalancedRecipes[0] != "A" {
		t.Errorf("Expected only A unbalanced, got %v", result.UnbalancedRecipes)
	}
}

func TestRecipeValidator_ProductConsistency(t *testing.T) {
	v := NewRecipeValidator()
	products := []entities.Product{{Code: "A"}, {Code: "B"}}
	lines := []entities.RecipeLine{
		line("A", "B", "0.5"),
		line("A", "GHOST", "0.5"),
	}

	result := v.ValidateRecipeProductConsistency(lines, products)

	if len(result.UnknownProducts) != 1 || result.UnknownProducts[0] != "GHOST" {
		t.Errorf("Expected GHOST unknown, got %v", result.UnknownProducts)
	}
	if result.Valid() {
		t.Error("Expected unknown component to invalidate recipe")
	}
}
