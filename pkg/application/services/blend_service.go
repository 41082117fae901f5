package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/blendtrack/pkg/application/dto"
	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	domain "github.com/vsinha/blendtrack/pkg/domain/services"
	"github.com/vsinha/blendtrack/pkg/domain/sortfields"
	"github.com/vsinha/blendtrack/pkg/infrastructure/events"
	"github.com/vsinha/blendtrack/pkg/infrastructure/logger"
	"github.com/vsinha/blendtrack/pkg/infrastructure/metrics"
	"github.com/vsinha/blendtrack/pkg/sorting"
)

// maxLotCodeAttempts bounds retries when two creates race for the same lot code
const maxLotCodeAttempts = 3

// ComponentRequirement is the amount of one component a blend needs
type ComponentRequirement struct {
	ComponentCode entities.ProductCode `json:"componentCode"`
	Sequence      int                  `json:"sequence"`
	Quantity      decimal.Decimal      `json:"quantity"`
}

// BlendService runs blends through the production workflow
type BlendService struct {
	blends    repositories.BlendRepository
	products  repositories.ProductRepository
	tanks     repositories.TankRepository
	customers repositories.CustomerRepository
	recipes   repositories.RecipeRepository

	lifecycle *domain.BlendLifecycle
	lots      *domain.LotCodeComparator
	lotPrefix string

	journal   events.Journal
	publisher events.Publisher
	metrics   *metrics.Metrics
	sorts     SortPolicy
	now       func() time.Time
}

// BlendServiceDeps wires a BlendService. Journal keeps status history; Publisher
// may fan out further and should include a JournalPublisher over Journal.
type BlendServiceDeps struct {
	Blends    repositories.BlendRepository
	Products  repositories.ProductRepository
	Tanks     repositories.TankRepository
	Customers repositories.CustomerRepository
	Recipes   repositories.RecipeRepository
	Lifecycle *domain.BlendLifecycle
	Journal   events.Journal
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Sorts     SortPolicy
	LotPrefix string
}

func NewBlendService(deps BlendServiceDeps) *BlendService {
	s := &BlendService{
		blends:    deps.Blends,
		products:  deps.Products,
		tanks:     deps.Tanks,
		customers: deps.Customers,
		recipes:   deps.Recipes,
		lifecycle: deps.Lifecycle,
		lots:      domain.NewLotCodeComparator(),
		lotPrefix: deps.LotPrefix,
		journal:   deps.Journal,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		sorts:     deps.Sorts,
		now:       func() time.Time { return time.Now().UTC() },
	}
	if s.lifecycle == nil {
		s.lifecycle = domain.NewBlendLifecycle(true)
	}
	if s.lotPrefix == "" {
		s.lotPrefix = domain.DefaultLotPrefix
	}
	if s.journal == nil {
		s.journal = events.NewMemoryJournal()
	}
	if s.publisher == nil {
		s.publisher = events.NewJournalPublisher(s.journal)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewNop()
	}
	return s
}

// Lifecycle exposes the workflow the service enforces
func (s *BlendService) Lifecycle() *domain.BlendLifecycle {
	return s.lifecycle
}

// Create registers a blend in CREATED with the next free lot code. The
// product, tank and customer must exist and the quantity must fit the tank.
func (s *BlendService) Create(ctx context.Context, in dto.CreateBlendInput) (*entities.Blend, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !in.Quantity.IsPositive() {
		return nil, invalid(fmt.Errorf("quantity must be positive, got %s", in.Quantity))
	}

	productCode := entities.ProductCode(in.ProductCode)
	if _, err := s.products.GetProduct(ctx, productCode); err != nil {
		return nil, err
	}
	tank, err := s.tanks.GetTank(ctx, entities.TankCode(in.TankCode))
	if err != nil {
		return nil, err
	}
	if !tank.Fits(in.Quantity) {
		return nil, invalid(fmt.Errorf("quantity %s exceeds tank %s capacity %s", in.Quantity, tank.Code, tank.Capacity))
	}
	if _, err := s.customers.GetCustomer(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	var blend *entities.Blend
	for attempt := 1; ; attempt++ {
		existing, err := s.blends.LotCodes(ctx)
		if err != nil {
			return nil, err
		}
		lot, err := s.lots.Next(s.lotPrefix, existing)
		if err != nil {
			return nil, err
		}
		blend, err = entities.NewBlend(lot, productCode, tank.Code, in.CustomerID, in.Quantity, in.Notes)
		if err != nil {
			return nil, invalid(err)
		}
		err = s.blends.CreateBlend(ctx, blend)
		if err == nil {
			break
		}
		if !errors.Is(err, repositories.ErrAlreadyExists) || attempt == maxLotCodeAttempts {
			return nil, err
		}
	}

	if _, err := s.journal.Record(ctx, blend.ID.String(), events.BlendCreated, *blend, blend.CreatedAt); err != nil {
		logger.FromContext(ctx).Warn("Failed to record blend creation", "lot_code", blend.LotCode, "error", err)
	}
	s.metrics.BlendCreated()
	logger.FromContext(ctx).Info("Blend created",
		"lot_code", blend.LotCode,
		"product", blend.ProductCode,
		"tank", blend.TankCode,
		"quantity", blend.Quantity,
	)
	return blend, nil
}

func (s *BlendService) Get(ctx context.Context, id uuid.UUID) (*entities.Blend, error) {
	return s.blends.GetBlend(ctx, id)
}

// List applies status filters and sort criteria; with no sort given blends
// come ordered by workflow status, newest lot first
func (s *BlendService) List(ctx context.Context, in dto.ListInput) ([]*entities.Blend, error) {
	opts, err := listOptions(in, sortfields.Blends, s.sorts)
	if err != nil {
		return nil, err
	}
	return s.blends.ListBlends(ctx, opts)
}

// AppliedSorts returns the criteria List orders by for in, after the duplicate
// policy and the default order are applied
func (s *BlendService) AppliedSorts(in dto.ListInput) ([]sorting.Criterion, error) {
	opts, err := listOptions(in, sortfields.Blends, s.sorts)
	if err != nil {
		return nil, err
	}
	if len(opts.Sorts) == 0 {
		return slices.Clone(sortfields.DefaultBlendSorts), nil
	}
	return opts.Sorts, nil
}

// UpdateStatus moves a blend to the parsed status. The change is persisted
// with a compare-and-set on the current status, then published.
func (s *BlendService) UpdateStatus(ctx context.Context, id uuid.UUID, in dto.UpdateStatusInput) (*entities.Blend, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	to, err := entities.ParseBlendStatus(in.Status)
	if err != nil {
		s.metrics.StatusRejected("invalid_status")
		return nil, err
	}

	blend, err := s.blends.GetBlend(ctx, id)
	if err != nil {
		return nil, err
	}
	change, err := s.lifecycle.Transition(blend, to)
	if err != nil {
		s.metrics.StatusRejected("invalid_transition")
		return nil, err
	}

	updated, err := s.blends.UpdateBlendStatus(ctx, id, change.From, change.To)
	if err != nil {
		if errors.Is(err, repositories.ErrStaleStatus) {
			s.metrics.StatusRejected("stale_status")
		}
		return nil, err
	}
	change.At = updated.UpdatedAt
	if change.At.IsZero() {
		change.At = s.now()
	}

	s.metrics.BlendTransition(change.From, change.To)
	log := logger.FromContext(ctx).With("lot_code", updated.LotCode)
	log.Info("Blend status changed", "from", change.From, "to", change.To)
	if err := s.publisher.PublishStatusChange(ctx, *change); err != nil {
		log.Warn("Failed to publish status change", "error", err)
	}
	return updated, nil
}

func (s *BlendService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.blends.DeleteBlend(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Blend deleted", "id", id)
	return nil
}

// History returns the status changes of a blend, oldest first
func (s *BlendService) History(ctx context.Context, id uuid.UUID) ([]entities.BlendStatusChange, error) {
	if _, err := s.blends.GetBlend(ctx, id); err != nil {
		return nil, err
	}
	return events.StatusHistory(ctx, s.journal, id.String())
}

// Components scales the product's recipe to the blend quantity, in the
// order components are charged to the tank
func (s *BlendService) Components(ctx context.Context, id uuid.UUID) ([]ComponentRequirement, error) {
	blend, err := s.blends.GetBlend(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.recipes.GetRecipe(ctx, blend.ProductCode)
	if err != nil {
		return nil, err
	}
	out := make([]ComponentRequirement, len(lines))
	for i, line := range lines {
		out[i] = ComponentRequirement{
			ComponentCode: line.ComponentCode,
			Sequence:      line.Sequence,
			Quantity:      line.ComponentQuantity(blend.Quantity),
		}
	}
	return out, nil
}
