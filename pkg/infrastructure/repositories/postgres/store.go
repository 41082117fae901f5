package postgres

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vsinha/blendtrack/pkg/infrastructure/logger"
)

const (
	defaultMaxConns           = 10
	defaultPingTimeout        = 3 * time.Second
	defaultHealthCheckTimeout = 1 * time.Second
)

// Store owns the pgx connection pool shared by the repositories
type Store struct {
	pool *pgxpool.Pool
}

// NewStore opens the pool and pings the database
func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("postgres: config is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	poolCfg.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 && cfg.MaxConns <= math.MaxInt32 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: new pool: %w", err)
	}

	pingTimeout := defaultPingTimeout
	if cfg.PingTimeout > 0 {
		pingTimeout = cfg.PingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	logger.FromContext(ctx).Info("Store initialized",
		"store_driver", "postgres",
		"host", cfg.Host,
		"db_name", cfg.DBName,
		"max_conns", poolCfg.MaxConns,
	)
	return &Store{pool: pool}, nil
}

// Pool exposes the pool to the repositories of this package
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Close shuts down the connection pool
func (s *Store) Close(ctx context.Context) {
	s.pool.Close()
	logger.FromContext(ctx).Info("Postgres store closed")
}

// HealthCheck verifies the connection is alive
func (s *Store) HealthCheck(ctx context.Context) error {
	hctx, cancel := context.WithTimeout(ctx, defaultHealthCheckTimeout)
	defer cancel()
	if err := s.pool.Ping(hctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
