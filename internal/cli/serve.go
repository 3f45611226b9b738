package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	httpAdapter "github.com/bahrain-bp/bqa-insight-ai/pkg/adapters/http"
)

// ShutdownTimeout bounds the graceful shutdown of the HTTP server.
const ShutdownTimeout = 10 * time.Second

// NewHTTPHandler builds the webhook router with the simulator API and metrics.
func NewHTTPHandler(app *App) http.Handler {
	return httpAdapter.NewHandler(app.Bot,
		httpAdapter.WithSimulator(app.Simulator),
		httpAdapter.WithMetrics(app.Metrics.Handler()),
		httpAdapter.WithLogger(app.Logger),
	)
}

// Serve runs the HTTP server on ln until ctx is done.
func Serve(ctx context.Context, app *App, ln net.Listener) error {
	srv := &http.Server{
		Handler:           NewHTTPHandler(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("starting BQA Insight server", "addr", ln.Addr().String(), "generator", app.Config.Generator)
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		app.Logger.Info("shutdown signal received, shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}
