package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	drepo "StockSentry/internal/domain/repository"
	"StockSentry/internal/usecase"
	"StockSentry/pkg/config"
	xhttp "StockSentry/pkg/http"
	applogger "StockSentry/pkg/logger"
)

// App encapsulates the entire application lifecycle: the scheduler loop and
// the liveness HTTP server, supervised independently and sharing nothing but
// the health flag.
type App struct {
	cfg        *config.Config
	scheduler  *usecase.Scheduler
	handler    xhttp.Handler
	seen       drepo.SeenStore
	logger     *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	scheduler *usecase.Scheduler,
	handler xhttp.Handler,
	seen drepo.SeenStore,
	logger *applogger.Logger,
) *App {
	return &App{
		cfg:       cfg,
		scheduler: scheduler,
		handler:   handler,
		seen:      seen,
		logger:    logger,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(metricsPath),
	)

	// Scheduler runs until ctx is canceled; an HTTP failure never reaches it.
	go func() {
		if err := a.scheduler.Run(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("scheduler error", applogger.Error(err))
		}
	}()

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	// The Redis-backed seen store holds a connection; the memory one doesn't.
	if closer, ok := a.seen.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("seen store close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
