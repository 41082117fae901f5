package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/blendtrack/pkg/infrastructure/logger"
	"github.com/vsinha/blendtrack/pkg/interfaces/api"
)

// Serve runs the HTTP API until ctx is cancelled, then shuts the server down
// within the configured timeout
func (a *App) Serve(ctx context.Context) error {
	log := logger.FromContext(ctx)
	sc := a.Config.Server

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:         net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port)),
		Handler:      api.NewRouter(a.APIDeps(log)),
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting HTTP server", "address", "http://"+srv.Addr, "store", a.Config.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Debug("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), sc.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		log.Info("Server shutdown completed")
		return nil
	})
	return g.Wait()
}
