package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vsinha/blendtrack/pkg/application/dto"
	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	"github.com/vsinha/blendtrack/pkg/infrastructure/logger"
	"github.com/vsinha/blendtrack/pkg/infrastructure/repositories/csv"
)

// SeedReport counts the records a seed created and those already present
type SeedReport struct {
	Customers int
	Products  int
	Tanks     int
	Recipes   int
	Skipped   int
}

// SeedDir loads the CSV scenario in dir and seeds it
func (a *App) SeedDir(ctx context.Context, dir string) (*SeedReport, error) {
	scenario, err := csv.NewLoader().LoadScenario(dir)
	if err != nil {
		return nil, err
	}
	return a.Seed(ctx, scenario)
}

// Seed creates the scenario's master data through the services so the same
// validation applies as for API writes. Records that already exist are
// skipped, which makes seeding repeatable.
func (a *App) Seed(ctx context.Context, scenario *csv.Scenario) (*SeedReport, error) {
	report := &SeedReport{}
	log := logger.FromContext(ctx)

	created := func(err error, counter *int, what string) error {
		switch {
		case err == nil:
			*counter++
			return nil
		case errors.Is(err, repositories.ErrAlreadyExists):
			report.Skipped++
			log.Debug("Seed record exists", "record", what)
			return nil
		default:
			return fmt.Errorf("seed %s: %w", what, err)
		}
	}

	for _, c := range scenario.Customers {
		_, err := a.Catalog.CreateCustomer(ctx, dto.CreateCustomerInput{
			Code:         c.Code,
			Name:         c.Name,
			ContactEmail: c.ContactEmail,
		})
		if err := created(err, &report.Customers, "customer "+c.Code); err != nil {
			return report, err
		}
	}
	for _, p := range scenario.Products {
		_, err := a.Catalog.CreateProduct(ctx, dto.CreateProductInput{
			Code:          string(p.Code),
			Name:          p.Name,
			UnitOfMeasure: p.UnitOfMeasure,
			Density:       p.Density,
		})
		if err := created(err, &report.Products, "product "+string(p.Code)); err != nil {
			return report, err
		}
	}
	for _, t := range scenario.Tanks {
		_, err := a.Catalog.CreateTank(ctx, dto.CreateTankInput{
			Code:        string(t.Code),
			Description: t.Description,
			Capacity:    t.Capacity,
			Location:    t.Location,
		})
		if err := created(err, &report.Tanks, "tank "+string(t.Code)); err != nil {
			return report, err
		}
	}

	var order []entities.ProductCode
	recipes := make(map[entities.ProductCode][]dto.RecipeLineInput)
	for _, line := range scenario.Recipes {
		if _, ok := recipes[line.ProductCode]; !ok {
			order = append(order, line.ProductCode)
		}
		recipes[line.ProductCode] = append(recipes[line.ProductCode], dto.RecipeLineInput{
			ComponentCode: string(line.ComponentCode),
			Fraction:      line.Fraction,
			Sequence:      line.Sequence,
		})
	}
	for _, product := range order {
		if _, err := a.Recipes.SetRecipe(ctx, product, dto.SetRecipeInput{Lines: recipes[product]}); err != nil {
			return report, fmt.Errorf("seed recipe %s: %w", product, err)
		}
		report.Recipes++
	}

	log.Info("Scenario seeded",
		"customers", report.Customers,
		"products", report.Products,
		"tanks", report.Tanks,
		"recipes", report.Recipes,
		"skipped", report.Skipped,
	)
	return report, nil
}
