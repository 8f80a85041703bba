package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MacroPull/internal/service/ratelimit"
	"MacroPull/internal/usecase"
	"MacroPull/pkg/config"
	xhttp "MacroPull/pkg/http"
	applogger "MacroPull/pkg/logger"
)

const pruneInterval = time.Minute

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	httpServer *xhttp.Server
	log        *applogger.Logger
	archiver   *usecase.SeriesArchiver
	limiter    *ratelimit.Limiter
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	httpServer *xhttp.Server,
	log *applogger.Logger,
	archiver *usecase.SeriesArchiver,
	limiter *ratelimit.Limiter,
) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		httpServer: httpServer,
		log:        log,
		archiver:   archiver,
		limiter:    limiter,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("macropull started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("archive", a.cfg.Archive.Backend),
		applogger.Bool("redis", a.cfg.Cache.Redis.Enabled),
	)
	if a.cfg.Providers.FRED.APIKey == "" {
		a.log.Warn("FRED api key missing, statistical series will be unavailable")
	}

	if a.limiter != nil {
		go a.pruneLimiter(ctx)
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) pruneLimiter(ctx context.Context) {
	t := time.NewTicker(pruneInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.limiter.Prune(); n > 0 {
				a.log.Debug("rate limiter pruned", applogger.Int("keys", n))
			}
		}
	}
}

// shutdown gracefully stops all services. Infrastructure clients are closed
// afterwards by the DI cleanup.
func (a *App) shutdown() error {
	a.log.Info("shutting down...")

	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	a.archiver.Close()

	// Flushes pending aggregated errors before the producer goes away.
	a.log.RemoveCollector()

	a.log.Info("shutdown complete")
	return nil
}
