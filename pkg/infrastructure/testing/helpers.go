package testing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/infrastructure/repositories/memory"
)

// PlantRepos are in-memory repositories holding a small blending plant
type PlantRepos struct {
	Customers *memory.CustomerRepository
	Products  *memory.ProductRepository
	Tanks     *memory.TankRepository
	Recipes   *memory.RecipeRepository
	Blends    *memory.BlendRepository

	// Customer is the one customer of the plant
	Customer *entities.Customer
}

// BuildPlantTestData builds a coolant plant: a 50/50 glycol product blended
// from MEG and water, two tanks and one customer
func BuildPlantTestData() *PlantRepos {
	ctx := context.Background()
	repos := &PlantRepos{
		Customers: memory.NewCustomerRepository(4),
		Products:  memory.NewProductRepository(8),
		Tanks:     memory.NewTankRepository(4),
		Recipes:   memory.NewRecipeRepository(),
		Blends:    memory.NewBlendRepository(64),
	}

	customer, err := entities.NewCustomer("ACME", "Acme Chemicals", "ops@acme.test")
	if err != nil {
		panic(err)
	}
	if err := repos.Customers.CreateCustomer(ctx, customer); err != nil {
		panic(err)
	}
	repos.Customer = customer

	products := []*entities.Product{
		mustProduct("GLYCOL-50", "Glycol 50/50", "1.07"),
		mustProduct("MEG", "Monoethylene glycol", "1.11"),
		mustProduct("WATER", "Deionised water", "1"),
	}
	if err := repos.Products.LoadProducts(ctx, products); err != nil {
		panic(err)
	}

	tanks := []*entities.Tank{
		mustTank("T1", "Mixer", "5000", "North"),
		mustTank("T2", "Day tank", "800", "South"),
	}
	if err := repos.Tanks.LoadTanks(ctx, tanks); err != nil {
		panic(err)
	}

	lines := []*entities.RecipeLine{
		mustLine("GLYCOL-50", "MEG", "0.5", 1),
		mustLine("GLYCOL-50", "WATER", "0.5", 2),
	}
	if err := repos.Recipes.LoadRecipeLines(ctx, lines); err != nil {
		panic(err)
	}

	return repos
}

func mustProduct(code, name, density string) *entities.Product {
	p, err := entities.NewProduct(entities.ProductCode(code), name, "L", decimal.RequireFromString(density))
	if err != nil {
		panic(err)
	}
	return p
}

func mustTank(code, description, capacity, location string) *entities.Tank {
	t, err := entities.NewTank(entities.TankCode(code), description, decimal.RequireFromString(capacity), location)
	if err != nil {
		panic(err)
	}
	return t
}

func mustLine(product, component, fraction string, sequence int) *entities.RecipeLine {
	l, err := entities.NewRecipeLine(entities.ProductCode(product), entities.ProductCode(component), decimal.RequireFromString(fraction), sequence)
	if err != nil {
		panic(err)
	}
	return l
}
