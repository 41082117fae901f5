package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ProductCode represents a unique product identifier
type ProductCode string

// Product represents a finished or raw chemical product
type Product struct {
	Code          ProductCode     `json:"code"`
	Name          string          `json:"name"`
	UnitOfMeasure string          `json:"unitOfMeasure"`
	Density       decimal.Decimal `json:"density"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// NewProduct creates a validated Product. Density is in kg/L.
func NewProduct(code ProductCode, name, unitOfMeasure string, density decimal.Decimal) (*Product, error) {
	if string(code) == "" {
		return nil, fmt.Errorf("product code cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}
	if unitOfMeasure == "" {
		return nil, fmt.Errorf("unit of measure cannot be empty")
	}
	if !density.IsPositive() {
		return nil, fmt.Errorf("density must be positive, got %s", density)
	}

	return &Product{
		Code:          code,
		Name:          name,
		UnitOfMeasure: unitOfMeasure,
		Density:       density,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
