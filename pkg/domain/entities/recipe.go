package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RecipeLine represents one component of a product's recipe
type RecipeLine struct {
	ProductCode   ProductCode     `json:"productCode"`
	ComponentCode ProductCode     `json:"componentCode"`
	Fraction      decimal.Decimal `json:"fraction"`
	Sequence      int             `json:"sequence"`
}

// NewRecipeLine creates a validated RecipeLine. Fraction is the share of the
// finished product by mass, in (0, 1].
func NewRecipeLine(productCode, componentCode ProductCode, fraction decimal.Decimal, sequence int) (*RecipeLine, error) {
	if string(productCode) == "" {
		return nil, fmt.Errorf("product code cannot be empty")
	}
	if string(componentCode) == "" {
		return nil, fmt.Errorf("component code cannot be empty")
	}
	if productCode == componentCode {
		return nil, fmt.Errorf("product and component cannot be the same: %s", productCode)
	}
	if !fraction.IsPositive() || fraction.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("fraction must be in (0, 1], got %s", fraction)
	}
	if sequence <= 0 {
		return nil, fmt.Errorf("sequence must be positive, got %d", sequence)
	}

	return &RecipeLine{
		ProductCode:   productCode,
		ComponentCode: componentCode,
		Fraction:      fraction,
		Sequence:      sequence,
	}, nil
}

// ComponentQuantity scales the line to a batch size
func (l RecipeLine) ComponentQuantity(batch decimal.Decimal) decimal.Decimal {
	return batch.Mul(l.Fraction)
}
