package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/blendtrack/pkg/application/dto"
	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	domain "github.com/vsinha/blendtrack/pkg/domain/services"
	"github.com/vsinha/blendtrack/pkg/infrastructure/events"
	"github.com/vsinha/blendtrack/pkg/infrastructure/metrics"
	"github.com/vsinha/blendtrack/pkg/infrastructure/repositories/memory"
	testdata "github.com/vsinha/blendtrack/pkg/infrastructure/testing"
	"github.com/vsinha/blendtrack/pkg/sorting"
)

type fixture struct {
	catalog  *CatalogService
	recipes  *RecipeService
	blends   *BlendService
	journal  *events.MemoryJournal
	customer *entities.Customer
}

type recordingPublisher struct {
	changes []entities.BlendStatusChange
}

func (p *recordingPublisher) PublishStatusChange(_ context.Context, c entities.BlendStatusChange) error {
	p.changes = append(p.changes, c)
	return nil
}

func newFixture(t *testing.T, enforce bool, extra ...events.Publisher) *fixture {
	t.Helper()
	ctx := context.Background()

	customers := memory.NewCustomerRepository(4)
	products := memory.NewProductRepository(8)
	tanks := memory.NewTankRepository(4)
	recipes := memory.NewRecipeRepository()
	blends := memory.NewBlendRepository(8)
	journal := events.NewMemoryJournal()
	publisher := events.MultiPublisher{events.NewJournalPublisher(journal)}
	publisher = append(publisher, extra...)

	f := &fixture{
		catalog: NewCatalogService(customers, products, tanks, recipes, blends, SortPolicy{}),
		recipes: NewRecipeService(products, recipes),
		blends: NewBlendService(BlendServiceDeps{
			Blends:    blends,
			Products:  products,
			Tanks:     tanks,
			Customers: customers,
			Recipes:   recipes,
			Lifecycle: domain.NewBlendLifecycle(enforce),
			Journal:   journal,
			Publisher: publisher,
			Metrics:   metrics.New(prometheus.NewRegistry()),
		}),
		journal: journal,
	}

	var err error
	f.customer, err = f.catalog.CreateCustomer(ctx, dto.CreateCustomerInput{Code: "ACME", Name: "Acme Chemicals", ContactEmail: "ops@acme.test"})
	require.NoError(t, err)
	for _, p := range []dto.CreateProductInput{
		{Code: "GLYCOL-50", Name: "Glycol 50/50", UnitOfMeasure: "L", Density: decimal.RequireFromString("1.07")},
		{Code: "MEG", Name: "Monoethylene glycol", UnitOfMeasure: "L", Density: decimal.RequireFromString("1.11")},
		{Code: "WATER", Name: "Deionised water", UnitOfMeasure: "L", Density: decimal.NewFromInt(1)},
	} {
		_, err := f.catalog.CreateProduct(ctx, p)
		require.NoError(t, err)
	}
	_, err = f.catalog.CreateTank(ctx, dto.CreateTankInput{Code: "T1", Description: "Mixer", Capacity: decimal.NewFromInt(1000), Location: "North"})
	require.NoError(t, err)
	return f
}

func (f *fixture) createBlend(t *testing.T, quantity int64) *entities.Blend {
	t.Helper()
	blend, err := f.blends.Create(context.Background(), dto.CreateBlendInput{
		ProductCode: "GLYCOL-50",
		TankCode:    "T1",
		CustomerID:  f.customer.ID,
		Quantity:    decimal.NewFromInt(quantity),
	})
	require.NoError(t, err)
	return blend
}

func TestBlendService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Should assign sequential lot codes in CREATED", func(t *testing.T) {
		f := newFixture(t, true)
		first := f.createBlend(t, 500)
		second := f.createBlend(t, 200)

		assert.Equal(t, entities.LotCode("BL000001"), first.LotCode)
		assert.Equal(t, entities.LotCode("BL000002"), second.LotCode)
		assert.Equal(t, entities.StatusCreated, first.Status)

		entries, err := f.journal.Entries(ctx, first.ID.String(), 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, events.BlendCreated, entries[0].Kind)
	})

	t.Run("Should reject quantities over tank capacity", func(t *testing.T) {
		f := newFixture(t, true)
		_, err := f.blends.Create(ctx, dto.CreateBlendInput{
			ProductCode: "GLYCOL-50", TankCode: "T1", CustomerID: f.customer.ID, Quantity: decimal.NewFromInt(1001),
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Should require known references", func(t *testing.T) {
		f := newFixture(t, true)
		_, err := f.blends.Create(ctx, dto.CreateBlendInput{
			ProductCode: "NOPE", TankCode: "T1", CustomerID: f.customer.ID, Quantity: decimal.NewFromInt(1),
		})
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		_, err = f.blends.Create(ctx, dto.CreateBlendInput{
			ProductCode: "GLYCOL-50", TankCode: "T1", CustomerID: uuid.New(), Quantity: decimal.NewFromInt(1),
		})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("Should validate input", func(t *testing.T) {
		f := newFixture(t, true)
		_, err := f.blends.Create(ctx, dto.CreateBlendInput{ProductCode: "GLYCOL-50", TankCode: "T1"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestBlendService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Should walk the workflow and record history", func(t *testing.T) {
		recorder := &recordingPublisher{}
		f := newFixture(t, true, recorder)
		blend := f.createBlend(t, 500)

		for _, status := range []string{"QUEUED", "ASSEMBLING", "BLENDING", "TESTING", "FLAGGED", "ADJUSTING", "TESTING", "PASSED"} {
			updated, err := f.blends.UpdateStatus(ctx, blend.ID, dto.UpdateStatusInput{Status: status})
			require.NoError(t, err, status)
			assert.Equal(t, entities.BlendStatus(status), updated.Status)
		}

		history, err := f.blends.History(ctx, blend.ID)
		require.NoError(t, err)
		require.Len(t, history, 8)
		assert.Equal(t, entities.StatusCreated, history[0].From)
		assert.Equal(t, entities.StatusPassed, history[7].To)
		assert.Len(t, recorder.changes, 8)
		assert.False(t, history[0].At.IsZero())
	})

	t.Run("Should refuse skipping steps when enforced", func(t *testing.T) {
		f := newFixture(t, true)
		blend := f.createBlend(t, 500)

		_, err := f.blends.UpdateStatus(ctx, blend.ID, dto.UpdateStatusInput{Status: "PUSHED"})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		stored, _ := f.blends.Get(ctx, blend.ID)
		assert.Equal(t, entities.StatusCreated, stored.Status)
	})

	t.Run("Should allow any status when not enforced", func(t *testing.T) {
		f := newFixture(t, false)
		blend := f.createBlend(t, 500)

		updated, err := f.blends.UpdateStatus(ctx, blend.ID, dto.UpdateStatusInput{Status: "PUSHED"})
		require.NoError(t, err)
		assert.Equal(t, entities.StatusPushed, updated.Status)
	})

	t.Run("Should reject unknown statuses", func(t *testing.T) {
		f := newFixture(t, false)
		blend := f.createBlend(t, 500)

		_, err := f.blends.UpdateStatus(ctx, blend.ID, dto.UpdateStatusInput{Status: "BOGUS"})
		assert.ErrorIs(t, err, entities.ErrInvalidStatus)
	})

	t.Run("Should return not found for unknown blends", func(t *testing.T) {
		f := newFixture(t, true)
		_, err := f.blends.UpdateStatus(ctx, uuid.New(), dto.UpdateStatusInput{Status: "QUEUED"})
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		_, err = f.blends.History(ctx, uuid.New())
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestBlendService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	a := f.createBlend(t, 900)
	b := f.createBlend(t, 200)
	c := f.createBlend(t, 500)
	_, err := f.blends.UpdateStatus(ctx, b.ID, dto.UpdateStatusInput{Status: "BLENDING"})
	require.NoError(t, err)
	_, err = f.blends.UpdateStatus(ctx, c.ID, dto.UpdateStatusInput{Status: "PUSHED"})
	require.NoError(t, err)

	t.Run("Should default to status then newest lot", func(t *testing.T) {
		blends, err := f.blends.List(ctx, dto.ListInput{})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a.ID, b.ID, c.ID}, ids(blends))
	})

	t.Run("Should sort by the query string", func(t *testing.T) {
		blends, err := f.blends.List(ctx, dto.ListInput{Sort: "-quantity"})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a.ID, c.ID, b.ID}, ids(blends))
	})

	t.Run("Should filter active blends", func(t *testing.T) {
		blends, err := f.blends.List(ctx, dto.ListInput{Active: true})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{b.ID}, ids(blends))
	})

	t.Run("Should filter by status", func(t *testing.T) {
		blends, err := f.blends.List(ctx, dto.ListInput{Status: []string{"PUSHED", "CREATED"}})
		require.NoError(t, err)
		assert.Len(t, blends, 2)

		_, err = f.blends.List(ctx, dto.ListInput{Status: []string{"DONE"}})
		assert.ErrorIs(t, err, entities.ErrInvalidStatus)
	})

	t.Run("Should reject unknown sort fields", func(t *testing.T) {
		_, err := f.blends.List(ctx, dto.ListInput{Sort: "colour"})
		assert.ErrorIs(t, err, sorting.ErrUnknownField)
	})

	t.Run("Should apply the duplicate policy", func(t *testing.T) {
		strict := *f.blends
		strict.sorts = SortPolicy{Duplicates: sorting.RejectDuplicate}
		_, err := strict.List(ctx, dto.ListInput{Sort: "quantity,-quantity"})
		assert.ErrorIs(t, err, sorting.ErrDuplicateField)

		blends, err := f.blends.List(ctx, dto.ListInput{Sort: "quantity,-quantity"})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a.ID, c.ID, b.ID}, ids(blends), "the later direction replaces the earlier one")
	})

	t.Run("Should report the sorts a list is ordered by", func(t *testing.T) {
		applied, err := f.blends.AppliedSorts(dto.ListInput{Sort: "quantity,-quantity"})
		require.NoError(t, err)
		assert.Equal(t, []sorting.Criterion{{Field: "quantity", Direction: sorting.Desc}}, applied)

		applied, err = f.blends.AppliedSorts(dto.ListInput{})
		require.NoError(t, err)
		assert.Equal(t, "status,-lot_code", sorting.FormatCriteria(applied))

		strict := *f.blends
		strict.sorts = SortPolicy{Duplicates: sorting.RejectDuplicate}
		_, err = strict.AppliedSorts(dto.ListInput{Sort: "quantity,-quantity"})
		assert.ErrorContains(t, err, "under RejectDuplicate")
	})
}

func TestBlendService_Components(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	_, err := f.recipes.SetRecipe(ctx, "GLYCOL-50", dto.SetRecipeInput{Lines: []dto.RecipeLineInput{
		{ComponentCode: "WATER", Fraction: decimal.RequireFromString("0.5"), Sequence: 2},
		{ComponentCode: "MEG", Fraction: decimal.RequireFromString("0.5"), Sequence: 1},
	}})
	require.NoError(t, err)
	blend := f.createBlend(t, 600)

	components, err := f.blends.Components(ctx, blend.ID)
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, entities.ProductCode("MEG"), components[0].ComponentCode)
	assert.True(t, components[0].Quantity.Equal(decimal.NewFromInt(300)))
}

func TestRecipeService_SetRecipe(t *testing.T) {
	ctx := context.Background()
	half := decimal.RequireFromString("0.5")

	t.Run("Should reject fractions that do not sum to one", func(t *testing.T) {
		f := newFixture(t, true)
		_, err := f.recipes.SetRecipe(ctx, "GLYCOL-50", dto.SetRecipeInput{Lines: []dto.RecipeLineInput{
			{ComponentCode: "MEG", Fraction: half, Sequence: 1},
		}})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Should reject cycles across recipes", func(t *testing.T) {
		f := newFixture(t, true)
		_, err := f.recipes.SetRecipe(ctx, "GLYCOL-50", dto.SetRecipeInput{Lines: []dto.RecipeLineInput{
			{ComponentCode: "MEG", Fraction: decimal.NewFromInt(1), Sequence: 1},
		}})
		require.NoError(t, err)

		_, err = f.recipes.SetRecipe(ctx, "MEG", dto.SetRecipeInput{Lines: []dto.RecipeLineInput{
			{ComponentCode: "GLYCOL-50", Fraction: decimal.NewFromInt(1), Sequence: 1},
		}})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Should reject unknown components and products", func(t *testing.T) {
		f := newFixture(t, true)
		_, err := f.recipes.SetRecipe(ctx, "GLYCOL-50", dto.SetRecipeInput{Lines: []dto.RecipeLineInput{
			{ComponentCode: "UNOBTANIUM", Fraction: decimal.NewFromInt(1), Sequence: 1},
		}})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = f.recipes.GetRecipe(ctx, "NOPE")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("Should remove a recipe with no lines", func(t *testing.T) {
		f := newFixture(t, true)
		_, err := f.recipes.SetRecipe(ctx, "GLYCOL-50", dto.SetRecipeInput{Lines: []dto.RecipeLineInput{
			{ComponentCode: "MEG", Fraction: half, Sequence: 1},
			{ComponentCode: "WATER", Fraction: half, Sequence: 2},
		}})
		require.NoError(t, err)

		lines, err := f.recipes.SetRecipe(ctx, "GLYCOL-50", dto.SetRecipeInput{})
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func TestCatalogService(t *testing.T) {
	ctx := context.Background()

	t.Run("Should list products sorted by the query", func(t *testing.T) {
		f := newFixture(t, true)
		products, err := f.catalog.ListProducts(ctx, dto.ListInput{Sort: "-density"})
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, entities.ProductCode("MEG"), products[0].Code)
	})

	t.Run("Should validate customer email", func(t *testing.T) {
		f := newFixture(t, true)
		_, err := f.catalog.CreateCustomer(ctx, dto.CreateCustomerInput{Code: "X", Name: "X", ContactEmail: "not-an-email"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Should reject non-positive capacity", func(t *testing.T) {
		f := newFixture(t, true)
		_, err := f.catalog.CreateTank(ctx, dto.CreateTankInput{Code: "T2", Capacity: decimal.Zero, Location: "South"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Should refuse deleting referenced records", func(t *testing.T) {
		f := newFixture(t, true)
		f.createBlend(t, 10)
		_, err := f.recipes.SetRecipe(ctx, "GLYCOL-50", dto.SetRecipeInput{Lines: []dto.RecipeLineInput{
			{ComponentCode: "MEG", Fraction: decimal.NewFromInt(1), Sequence: 1},
		}})
		require.NoError(t, err)

		assert.ErrorIs(t, f.catalog.DeleteTank(ctx, "T1"), repositories.ErrInUse)
		assert.ErrorIs(t, f.catalog.DeleteCustomer(ctx, f.customer.ID), repositories.ErrInUse)
		assert.ErrorIs(t, f.catalog.DeleteProduct(ctx, "GLYCOL-50"), repositories.ErrInUse)
		assert.ErrorIs(t, f.catalog.DeleteProduct(ctx, "MEG"), repositories.ErrInUse)
		assert.NoError(t, f.catalog.DeleteProduct(ctx, "WATER"))
		assert.True(t, errors.Is(f.catalog.DeleteProduct(ctx, "WATER"), repositories.ErrNotFound))
	})
}

func ids(blends []*entities.Blend) []uuid.UUID {
	out := make([]uuid.UUID, len(blends))
	for i, b := range blends {
		out[i] = b.ID
	}
	return out
}

func TestBlendService_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	plant := testdata.BuildPlantTestData()
	svc := NewBlendService(BlendServiceDeps{
		Blends:    plant.Blends,
		Products:  plant.Products,
		Tanks:     plant.Tanks,
		Customers: plant.Customers,
		Recipes:   plant.Recipes,
	})

	const workers = 8
	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			_, err := svc.Create(ctx, dto.CreateBlendInput{
				ProductCode: "GLYCOL-50",
				TankCode:    "T2",
				CustomerID:  plant.Customer.ID,
				Quantity:    decimal.NewFromInt(100),
			})
			if errors.Is(err, repositories.ErrAlreadyExists) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	codes, err := plant.Blends.LotCodes(ctx)
	require.NoError(t, err)
	seen := make(map[entities.LotCode]bool)
	for _, code := range codes {
		assert.False(t, seen[code], "duplicate lot code %s", code)
		seen[code] = true
	}
	assert.NotEmpty(t, codes)
}
