package services

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
)

// fractionTolerance absorbs rounding in hand-entered recipe sheets
var fractionTolerance = decimal.RequireFromString("0.0001")

// RecipeValidator provides validation for recipe structure integrity
type RecipeValidator struct{}

// NewRecipeValidator creates a new recipe validator
func NewRecipeValidator() *RecipeValidator {
	return &RecipeValidator{}
}

// ValidationResult contains the results of recipe validation
type ValidationResult struct {
	HasCycles         bool
	CyclePaths        [][]entities.ProductCode
	DuplicateLines    []entities.RecipeLine
	UnbalancedRecipes []entities.ProductCode
	UnknownProducts   []entities.ProductCode
	Errors            []string
}

// Valid reports whether no errors were found
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err joins the collected errors, for callers that need an error value
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return fmt.Errorf("recipe validation failed: %v", r.Errors)
}

// ValidateRecipes performs structural validation on a set of recipe lines:
// component cycles, duplicate components per product, and fractions summing to 1.
func (v *RecipeValidator) ValidateRecipes(lines []entities.RecipeLine) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:        make([][]entities.ProductCode, 0),
		DuplicateLines:    make([]entities.RecipeLine, 0),
		UnbalancedRecipes: make([]entities.ProductCode, 0),
		UnknownProducts:   make([]entities.ProductCode, 0),
		Errors:            make([]string, 0),
	}

	adjacencyMap := v.buildAdjacencyMap(lines)

	cycles := v.detectCycles(adjacencyMap)
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles

	result.DuplicateLines = v.detectDuplicateLines(lines)
	result.UnbalancedRecipes = v.detectUnbalanced(lines)

	if result.HasCycles {
		for _, cycle := range result.CyclePaths {
			result.Errors = append(result.Errors, fmt.Sprintf("recipe cycle detected: %v", cycle))
		}
	}

	if len(result.DuplicateLines) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("found %d duplicate recipe lines", len(result.DuplicateLines)))
	}

	for _, product := range result.UnbalancedRecipes {
		result.Errors = append(result.Errors, fmt.Sprintf("recipe for %s does not sum to 1", product))
	}

	return result
}

// ValidateRecipeProductConsistency checks that every product and component a
// recipe mentions exists in the product master
func (v *RecipeValidator) ValidateRecipeProductConsistency(
	lines []entities.RecipeLine,
	products []entities.Product,
) *ValidationResult {
	result := v.ValidateRecipes(lines)

	known := make(map[entities.ProductCode]bool, len(products))
	for _, p := range products {
		known[p.Code] = true
	}

	for _, line := range lines {
		for _, code := range []entities.ProductCode{line.ProductCode, line.ComponentCode} {
			if !known[code] && !slices.Contains(result.UnknownProducts, code) {
				result.UnknownProducts = append(result.UnknownProducts, code)
			}
		}
	}

	if len(result.UnknownProducts) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("unknown products referenced: %v", result.UnknownProducts))
	}

	return result
}

// buildAdjacencyMap creates a map of product -> components relationships
func (v *RecipeValidator) buildAdjacencyMap(lines []entities.RecipeLine) map[entities.ProductCode][]entities.ProductCode {
	adjacencyMap := make(map[entities.ProductCode][]entities.ProductCode)

	for _, line := range lines {
		components := adjacencyMap[line.ProductCode]
		if !slices.Contains(components, line.ComponentCode) {
			adjacencyMap[line.ProductCode] = append(components, line.ComponentCode)
		}
	}

	return adjacencyMap
}

// detectCycles uses DFS to find cycles in the product graph. Roots are visited
// in sorted order so the reported paths are deterministic.
func (v *RecipeValidator) detectCycles(adjacencyMap map[entities.ProductCode][]entities.ProductCode) [][]entities.ProductCode {
	visited := make(map[entities.ProductCode]bool)
	recursionStack := make(map[entities.ProductCode]bool)
	cycles := make([][]entities.ProductCode, 0)

	roots := make([]entities.ProductCode, 0, len(adjacencyMap))
	for product := range adjacencyMap {
		roots = append(roots, product)
	}
	slices.Sort(roots)

	for _, product := range roots {
		if !visited[product] {
			v.dfsDetectCycle(product, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

func (v *RecipeValidator) dfsDetectCycle(
	current entities.ProductCode,
	adjacencyMap map[entities.ProductCode][]entities.ProductCode,
	visited map[entities.ProductCode]bool,
	recursionStack map[entities.ProductCode]bool,
	path []entities.ProductCode,
	cycles *[][]entities.ProductCode,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, component := range adjacencyMap[current] {
		if !visited[component] {
			v.dfsDetectCycle(component, adjacencyMap, visited, recursionStack, path, cycles)
		} else if recursionStack[component] {
			cycleStart := slices.Index(path, component)
			if cycleStart != -1 {
				cycle := make([]entities.ProductCode, 0, len(path)-cycleStart+1)
				cycle = append(cycle, path[cycleStart:]...)
				cycle = append(cycle, component)
				*cycles = append(*cycles, cycle)
			}
		}
	}

	recursionStack[current] = false
}

// detectDuplicateLines finds lines naming the same component twice in one recipe
func (v *RecipeValidator) detectDuplicateLines(lines []entities.RecipeLine) []entities.RecipeLine {
	seen := make(map[string]entities.RecipeLine)
	duplicates := make([]entities.RecipeLine, 0)

	for _, line := range lines {
		key := fmt.Sprintf("%s|%s", line.ProductCode, line.ComponentCode)
		if existing, exists := seen[key]; exists {
			duplicates = append(duplicates, line, existing)
		} else {
			seen[key] = line
		}
	}

	return duplicates
}

// detectUnbalanced returns products whose fractions do not sum to 1
func (v *RecipeValidator) detectUnbalanced(lines []entities.RecipeLine) []entities.ProductCode {
	totals := make(map[entities.ProductCode]decimal.Decimal)
	order := make([]entities.ProductCode, 0)

	for _, line := range lines {
		total, exists := totals[line.ProductCode]
		if !exists {
			order = append(order, line.ProductCode)
		}
		totals[line.ProductCode] = total.Add(line.Fraction)
	}

	one := decimal.NewFromInt(1)
	unbalanced := make([]entities.ProductCode, 0)
	for _, product := range order {
		if totals[product].Sub(one).Abs().GreaterThan(fractionTolerance) {
			unbalanced = append(unbalanced, product)
		}
	}

	return unbalanced
}
