// Package app wires repositories, publishers and services from a Config.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/vsinha/blendtrack/pkg/application/services"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	domain "github.com/vsinha/blendtrack/pkg/domain/services"
	"github.com/vsinha/blendtrack/pkg/infrastructure/config"
	"github.com/vsinha/blendtrack/pkg/infrastructure/events"
	"github.com/vsinha/blendtrack/pkg/infrastructure/logger"
	"github.com/vsinha/blendtrack/pkg/infrastructure/metrics"
	"github.com/vsinha/blendtrack/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/blendtrack/pkg/infrastructure/repositories/postgres"
	"github.com/vsinha/blendtrack/pkg/interfaces/api"
	"github.com/vsinha/blendtrack/pkg/sorting"
)

// App holds the wired services and the resources they own
type App struct {
	Config   *config.Config
	Catalog  *services.CatalogService
	Recipes  *services.RecipeService
	Blends   *services.BlendService
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
	Journal  *events.ObservedJournal
	// Redis is set when status changes are published to Redis
	Redis redis.UniversalClient
	// Health is set for stores that can be probed
	Health api.HealthChecker

	closers []func() error
}

type stores struct {
	customers repositories.CustomerRepository
	products  repositories.ProductRepository
	tanks     repositories.TankRepository
	recipes   repositories.RecipeRepository
	blends    repositories.BlendRepository
	journal   events.Journal
}

// Option adjusts how New wires the application
type Option func(*options)

type options struct {
	db postgres.DB
}

// WithDB runs the postgres store over db instead of a pool opened from the
// configuration. Migrations and health checks are left to the owner of db.
func WithDB(db postgres.DB) Option {
	return func(o *options) {
		o.db = db
	}
}

// New builds the application for cfg. The caller must Close it.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	policy, err := sorting.ParseDuplicatePolicy(cfg.Sorting.DuplicatePolicy)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Registry: prometheus.NewRegistry()}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.New(a.Registry)

	st, err := a.openStores(ctx, o)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	a.Journal = events.Observe(st.journal)
	log := logger.FromContext(ctx)
	a.Journal.Listen(func(e events.Entry) {
		log.Debug("Journal entry recorded", "blend", e.BlendID, "kind", e.Kind, "seq", e.Seq)
	})
	publisher, err := a.publishers()
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	sorts := services.SortPolicy{Duplicates: policy}
	a.Catalog = services.NewCatalogService(st.customers, st.products, st.tanks, st.recipes, st.blends, sorts)
	a.Recipes = services.NewRecipeService(st.products, st.recipes)
	a.Blends = services.NewBlendService(services.BlendServiceDeps{
		Blends:    st.blends,
		Products:  st.products,
		Tanks:     st.tanks,
		Customers: st.customers,
		Recipes:   st.recipes,
		Lifecycle: domain.NewBlendLifecycle(cfg.Lifecycle.Enforce),
		Journal:   a.Journal,
		Publisher: publisher,
		Metrics:   a.Metrics,
		Sorts:     sorts,
	})
	return a, nil
}

func (a *App) openStores(ctx context.Context, o options) (*stores, error) {
	switch a.Config.Store {
	case config.StorePostgres:
		if o.db != nil {
			return postgresStores(o.db), nil
		}
		pgCfg := a.Config.Database.Postgres()
		if a.Config.Database.AutoMigrate {
			if err := postgres.ApplyMigrations(ctx, pgCfg.DSN()); err != nil {
				return nil, err
			}
		}
		store, err := postgres.NewStore(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		a.Health = store
		a.closers = append(a.closers, func() error {
			store.Close(context.Background())
			return nil
		})
		return postgresStores(store.Pool()), nil
	case config.StoreMemory, "":
		return &stores{
			customers: memory.NewCustomerRepository(64),
			products:  memory.NewProductRepository(256),
			tanks:     memory.NewTankRepository(64),
			recipes:   memory.NewRecipeRepository(),
			blends:    memory.NewBlendRepository(1024),
			journal:   events.NewMemoryJournal(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown store %q", a.Config.Store)
	}
}

func postgresStores(db postgres.DB) *stores {
	return &stores{
		customers: postgres.NewCustomerRepository(db),
		products:  postgres.NewProductRepository(db),
		tanks:     postgres.NewTankRepository(db),
		recipes:   postgres.NewRecipeRepository(db),
		blends:    postgres.NewBlendRepository(db),
		journal:   postgres.NewJournalRepository(db),
	}
}

// publishers fans status changes out to the journal and, when enabled,
// to Redis and RabbitMQ
func (a *App) publishers() (events.Publisher, error) {
	out := events.MultiPublisher{events.NewJournalPublisher(a.Journal)}

	if rc := a.Config.Redis; rc.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		a.Redis = client
		a.closers = append(a.closers, client.Close)
		out = append(out, events.NewRedisPublisher(client, rc.Channel))
	}

	if mq := a.Config.RabbitMQ; mq.Enabled {
		publisher, err := events.NewAMQPPublisher(mq.URL, mq.Exchange)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, publisher.Close)
		out = append(out, publisher)
	}
	return out, nil
}

// APIDeps returns what the HTTP router needs to serve the application
func (a *App) APIDeps(log logger.Logger) api.Deps {
	return api.Deps{
		Catalog:  a.Catalog,
		Recipes:  a.Recipes,
		Blends:   a.Blends,
		Metrics:  a.Metrics,
		Gatherer: a.Registry,
		Health:   a.Health,
		Logger:   log,
	}
}

// Close releases resources in reverse order of acquisition
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
