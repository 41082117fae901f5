// Package sortfields declares the sortable columns of each record type shown in a
// table view, with their display labels and storage columns.
package sortfields

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/services"
	"github.com/vsinha/blendtrack/pkg/sorting"
)

var lotCodes = services.NewLotCodeComparator()

// Customers is the field table for customer lists
var Customers = sorting.MustFields(
	sorting.String("code", "Code", "code", func(c *entities.Customer) string { return c.Code }),
	sorting.String("name", "Name", "name", func(c *entities.Customer) string { return c.Name }),
	sorting.String("contact_email", "Contact", "contact_email", func(c *entities.Customer) string { return c.ContactEmail }),
	sorting.Time("created_at", "Created", "created_at", func(c *entities.Customer) time.Time { return c.CreatedAt }),
)

// Products is the field table for product lists
var Products = sorting.MustFields(
	sorting.String("code", "Code", "code", func(p *entities.Product) string { return string(p.Code) }),
	sorting.String("name", "Name", "name", func(p *entities.Product) string { return p.Name }),
	sorting.String("unit_of_measure", "Unit", "unit_of_measure", func(p *entities.Product) string { return p.UnitOfMeasure }),
	sorting.Decimal("density", "Density (kg/L)", "density", func(p *entities.Product) decimal.Decimal { return p.Density }),
	sorting.Time("created_at", "Created", "created_at", func(p *entities.Product) time.Time { return p.CreatedAt }),
)

// Tanks is the field table for tank lists
var Tanks = sorting.MustFields(
	sorting.String("code", "Code", "code", func(t *entities.Tank) string { return string(t.Code) }),
	sorting.String("description", "Description", "description", func(t *entities.Tank) string { return t.Description }),
	sorting.Decimal("capacity", "Capacity (L)", "capacity", func(t *entities.Tank) decimal.Decimal { return t.Capacity }),
	sorting.String("location", "Location", "location", func(t *entities.Tank) string { return t.Location }),
	sorting.Time("created_at", "Created", "created_at", func(t *entities.Tank) time.Time { return t.CreatedAt }),
)

// Blends is the field table for blend lists. Status sorts in workflow order;
// the status column is a Postgres enum declared in the same order.
var Blends = sorting.MustFields(
	sorting.Custom("lot_code", "Lot", "lot_code", func(b *entities.Blend) string { return string(b.LotCode) }, lotCodes.Compare),
	sorting.String("product_code", "Product", "product_code", func(b *entities.Blend) string { return string(b.ProductCode) }),
	sorting.String("tank_code", "Tank", "tank_code", func(b *entities.Blend) string { return string(b.TankCode) }),
	sorting.Decimal("quantity", "Quantity", "quantity", func(b *entities.Blend) decimal.Decimal { return b.Quantity }),
	sorting.Number("status", "Status", "status", func(b *entities.Blend) int { return b.Status.Ordinal() }),
	sorting.Time("created_at", "Created", "created_at", func(b *entities.Blend) time.Time { return b.CreatedAt }),
	sorting.Time("updated_at", "Updated", "updated_at", func(b *entities.Blend) time.Time { return b.UpdatedAt }),
)

// DefaultBlendSorts is the order of blend lists when the caller gives none
var DefaultBlendSorts = []sorting.Criterion{
	{Field: "status", Direction: sorting.Asc},
	{Field: "lot_code", Direction: sorting.Desc},
}

// DefaultCodeSorts orders master-data lists by code
var DefaultCodeSorts = []sorting.Criterion{
	{Field: "code", Direction: sorting.Asc},
}
