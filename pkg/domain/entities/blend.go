package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotCode represents the human-facing identifier printed on a blend ticket
type LotCode string

// Blend represents one production lot of a product mixed in a tank
type Blend struct {
	ID          uuid.UUID       `json:"id"`
	LotCode     LotCode         `json:"lotCode"`
	ProductCode ProductCode     `json:"productCode"`
	TankCode    TankCode        `json:"tankCode"`
	CustomerID  uuid.UUID       `json:"customerId"`
	Quantity    decimal.Decimal `json:"quantity"`
	Status      BlendStatus     `json:"status"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NewBlend creates a validated Blend in the CREATED status
func NewBlend(
	lotCode LotCode,
	productCode ProductCode,
	tankCode TankCode,
	customerID uuid.UUID,
	quantity decimal.Decimal,
	notes string,
) (*Blend, error) {
	if string(lotCode) == "" {
		return nil, fmt.Errorf("lot code cannot be empty")
	}
	if string(productCode) == "" {
		return nil, fmt.Errorf("product code cannot be empty")
	}
	if string(tankCode) == "" {
		return nil, fmt.Errorf("tank code cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, fmt.Errorf("customer id cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive, got %s", quantity)
	}

	now := time.Now().UTC()
	return &Blend{
		ID:          uuid.New(),
		LotCode:     lotCode,
		ProductCode: productCode,
		TankCode:    tankCode,
		CustomerID:  customerID,
		Quantity:    quantity,
		Status:      StatusCreated,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsActive reports whether the blend is in progress on the floor
func (b *Blend) IsActive() bool {
	return b.Status.IsActive()
}

// BlendStatusChange records a status update of a blend
type BlendStatusChange struct {
	BlendID uuid.UUID   `json:"blendId"`
	LotCode LotCode     `json:"lotCode"`
	From    BlendStatus `json:"from"`
	To      BlendStatus `json:"to"`
	At      time.Time   `json:"at"`
}
