package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Customer represents a company blends are produced for
type Customer struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewCustomer creates a validated Customer with a fresh ID
func NewCustomer(code, name, contactEmail string) (*Customer, error) {
	if code == "" {
		return nil, fmt.Errorf("customer code cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("customer name cannot be empty")
	}

	return &Customer{
		ID:           uuid.New(),
		Code:         code,
		Name:         name,
		ContactEmail: contactEmail,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
