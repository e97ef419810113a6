package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"RankGuard/internal/usecase"
	"RankGuard/pkg/config"
	applogger "RankGuard/pkg/logger"
)

// App encapsulates the engine lifecycle: the scheduled scoring loop, alert
// evaluation after each run, and the metrics endpoint.
type App struct {
	cfg       *config.Config
	batch     *usecase.BatchOrchestrator
	evaluator *usecase.AlertEvaluator
	l         *applogger.Logger

	metricsServer *http.Server
}

// New creates an App with all dependencies.
func New(
	cfg *config.Config,
	batch *usecase.BatchOrchestrator,
	evaluator *usecase.AlertEvaluator,
	l *applogger.Logger,
) *App {
	return &App{cfg: cfg, batch: batch, evaluator: evaluator, l: l}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.cfg.Metrics.Enabled {
		a.startMetricsServer()
	}

	done := make(chan struct{})
	if a.cfg.Schedule.Enabled {
		if len(a.cfg.Schedule.Subjects) == 0 {
			return fmt.Errorf("schedule enabled but no subjects configured")
		}
		go func() {
			defer close(done)
			a.scoringLoop(ctx)
		}()
		a.l.Info("scoring schedule started",
			applogger.Duration("interval", a.cfg.Schedule.Interval),
			applogger.Strings("subjects", a.cfg.Schedule.Subjects),
		)
	} else {
		close(done)
		a.l.Info("scoring schedule disabled; serving metrics only")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	cancel()
	<-done
	return a.shutdown()
}

// scoringLoop runs one batch pass immediately, then on every tick, and
// evaluates all enabled alerts after each pass.
func (a *App) scoringLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Schedule.Interval)
	defer ticker.Stop()

	a.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runOnce(ctx)
		}
	}
}

func (a *App) runOnce(ctx context.Context) {
	started := time.Now()
	result, err := a.batch.Run(ctx, usecase.BatchRequest{SubjectIDs: a.cfg.Schedule.Subjects})
	if err != nil {
		a.l.Error("scheduled batch failed", applogger.Error(err))
		return
	}
	a.l.Info("scheduled batch complete",
		applogger.Int("successful", result.Successful),
		applogger.Int("failed", result.Failed),
		applogger.Duration("elapsed", time.Since(started)),
	)

	results, err := a.evaluator.EvaluateAll(ctx, a.cfg.Schedule.Subjects)
	if err != nil {
		a.l.Error("alert evaluation failed", applogger.Error(err))
		return
	}
	triggered := 0
	for _, r := range results {
		if r.Triggered {
			triggered++
		}
	}
	a.l.Info("alerts evaluated",
		applogger.Int("alerts", len(results)),
		applogger.Int("triggered", triggered),
	)
}

func (a *App) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle(a.cfg.Metrics.Path, promhttp.Handler())
	a.metricsServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Metrics.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.l.Error("metrics server error", applogger.Error(err))
		}
	}()
	a.l.Info("metrics server started",
		applogger.Int("port", a.cfg.Metrics.Port),
		applogger.String("path", a.cfg.Metrics.Path),
	)
}

// shutdown gracefully stops the metrics server.
func (a *App) shutdown() error {
	if a.metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.l.Warn("metrics shutdown error", applogger.Error(err))
		}
	}
	a.l.Info("shutdown complete")
	return nil
}
