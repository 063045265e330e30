package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"StockPulse/internal/usecase"
	"StockPulse/pkg/config"
	"StockPulse/pkg/logger"
)

// closer is a named resource torn down at shutdown.
type closer struct {
	name string
	fn   func() error
}

// App runs one pipeline invocation: start the metrics listener, execute
// the run (or a single-ticker re-analysis), then tear everything down.
type App struct {
	cfg     *config.Config
	gen     *usecase.SignalGenerator
	log     *logger.Logger
	closers []closer

	metricsSrv *http.Server
}

// New creates an App.
func New(cfg *config.Config, gen *usecase.SignalGenerator, log *logger.Logger) *App {
	return &App{cfg: cfg, gen: gen, log: log}
}

// AddCloser registers a resource to close on shutdown, last-added first.
func (a *App) AddCloser(name string, fn func() error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// Run executes the pipeline and blocks until it finishes or a shutdown
// signal cancels it. When ticker is non-empty only that ticker is
// re-analyzed.
func (a *App) Run(ctx context.Context, ticker string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.cfg.Metrics.Enabled {
		a.startMetrics()
	}
	defer a.shutdown()

	if ticker != "" {
		sig, err := a.gen.Reanalyze(ctx, ticker)
		if err != nil {
			a.log.Error("reanalysis failed", logger.String("ticker", ticker), logger.Error(err))
			return err
		}
		a.log.Info("reanalysis complete",
			logger.String("ticker", sig.Ticker),
			logger.String("grade", string(sig.Grade)),
			logger.Int("total", sig.Score.Total))
		return nil
	}

	result, err := a.gen.Run(ctx)
	if err != nil {
		a.log.Error("run failed", logger.Error(err))
		return err
	}
	a.log.Info("signals emitted",
		logger.String("run_date", result.RunDate),
		logger.Int("signals", len(result.Signals)))
	return nil
}

func (a *App) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle(a.cfg.Metrics.Path, promhttp.Handler())
	a.metricsSrv = &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux}

	go func() {
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Warn("metrics listener error", logger.Error(err))
		}
	}()
	a.log.Info("metrics listening", logger.String("addr", a.cfg.Metrics.Addr))
}

func (a *App) shutdown() {
	if a.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := a.metricsSrv.Shutdown(ctx); err != nil {
			a.log.Warn("metrics shutdown error", logger.Error(err))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(); err != nil {
			a.log.Warn("close failed", logger.String("resource", c.name), logger.Error(err))
		}
	}
	a.log.Info("shutdown complete")
}
