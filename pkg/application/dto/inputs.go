// Package dto holds the request shapes accepted by the application services.
// Struct tags drive go-playground/validator, JSON bodies and gorilla/schema
// query decoding.
package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateCustomerInput struct {
	Code         string `json:"code"         validate:"required,max=32"`
	Name         string `json:"name"         validate:"required,max=200"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
}

type CreateProductInput struct {
	Code          string          `json:"code"          validate:"required,max=32"`
	Name          string          `json:"name"          validate:"required,max=200"`
	UnitOfMeasure string          `json:"unitOfMeasure" validate:"required,max=16"`
	Density       decimal.Decimal `json:"density"`
}

type CreateTankInput struct {
	Code        string          `json:"code"        validate:"required,max=32"`
	Description string          `json:"description" validate:"max=200"`
	Capacity    decimal.Decimal `json:"capacity"`
	Location    string          `json:"location"    validate:"required,max=100"`
}

type RecipeLineInput struct {
	ComponentCode string          `json:"componentCode" validate:"required"`
	Fraction      decimal.Decimal `json:"fraction"`
	Sequence      int             `json:"sequence"      validate:"min=1"`
}

type SetRecipeInput struct {
	Lines []RecipeLineInput `json:"lines" validate:"dive"`
}

type CreateBlendInput struct {
	ProductCode string          `json:"productCode" validate:"required"`
	TankCode    string          `json:"tankCode"    validate:"required"`
	CustomerID  uuid.UUID       `json:"customerId"  validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Notes       string          `json:"notes"       validate:"max=500"`
}

type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// ListInput is the query of a list view. Sort uses the "field,-field" form.
type ListInput struct {
	Sort   string   `schema:"sort"   validate:"max=200"`
	Status []string `schema:"status"`
	Active bool     `schema:"active"`
	Limit  int      `schema:"limit"  validate:"min=0,max=1000"`
	Offset int      `schema:"offset" validate:"min=0"`
}
