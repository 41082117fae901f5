package app

import (
	"context"
	"errors"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/infrastructure/events"
	"github.com/vsinha/blendtrack/pkg/infrastructure/logger"
)

// ErrRedisDisabled is returned by Watch when no Redis channel is configured
var ErrRedisDisabled = errors.New("redis publishing is not enabled")

// Watch streams status changes published by any server sharing the Redis
// channel until ctx is done
func (a *App) Watch(ctx context.Context, fn func(entities.BlendStatusChange)) error {
	if a.Redis == nil {
		return ErrRedisDisabled
	}
	log := logger.FromContext(ctx)
	err := events.SubscribeStatusChanges(ctx, a.Redis, a.Config.Redis.Channel, fn, func(err error) {
		log.Warn("Skipping status message", "error", err)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
