package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TankCode represents a unique tank identifier
type TankCode string

// Tank represents a blending vessel on the plant floor
type Tank struct {
	Code        TankCode        `json:"code"`
	Description string          `json:"description"`
	Capacity    decimal.Decimal `json:"capacity"`
	Location    string          `json:"location"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewTank creates a validated Tank. Capacity is in litres.
func NewTank(code TankCode, description string, capacity decimal.Decimal, location string) (*Tank, error) {
	if string(code) == "" {
		return nil, fmt.Errorf("tank code cannot be empty")
	}
	if !capacity.IsPositive() {
		return nil, fmt.Errorf("capacity must be positive, got %s", capacity)
	}
	if location == "" {
		return nil, fmt.Errorf("location cannot be empty")
	}

	return &Tank{
		Code:        code,
		Description: description,
		Capacity:    capacity,
		Location:    location,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Fits reports whether quantity litres fit in the tank
func (t *Tank) Fits(quantity decimal.Decimal) bool {
	return quantity.LessThanOrEqual(t.Capacity)
}
