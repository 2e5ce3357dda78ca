package app

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrissnell/heightgrid/internal/log"
	"github.com/chrissnell/heightgrid/internal/pipeline"
	"github.com/chrissnell/heightgrid/pkg/config"
	"go.uber.org/zap"
)

// ErrInterrupted is returned when a signal or context cancellation arrives
// before the run finishes. Nothing is written in that case.
var ErrInterrupted = errors.New("run interrupted")

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
	stdout         io.Writer
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
		stdout:         os.Stdout,
	}
}

type outcome struct {
	res *pipeline.Result
	err error
}

// Run executes one heightmap run and writes its outputs. It returns early
// with ErrInterrupted on SIGINT, SIGTERM or when ctx is done, without
// writing anything.
//
// The pipeline stages take no context, so an interrupted run is abandoned
// rather than stopped: its goroutine keeps computing until the run finishes
// and its result is dropped. Long-lived callers that cancel often pay for
// every abandoned run.
func (a *App) Run(ctx context.Context) error {
	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ErrInterrupted
	}

	done := make(chan outcome, 1)
	go func() {
		res, err := pipeline.Run(cfg)
		done <- outcome{res: res, err: err}
	}()

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	var o outcome
	select {
	case o = <-done:
	case <-sigs:
		log.Info("shutdown signal received, abandoning run")
		return ErrInterrupted
	case <-ctx.Done():
		log.Info("context cancelled, abandoning run")
		return ErrInterrupted
	}
	if o.err != nil {
		return o.err
	}

	written, err := pipeline.WriteOutputs(o.res, cfg.Output, a.stdout)
	if err != nil {
		return err
	}
	a.logger.Infow("run complete",
		"run", o.res.RunID,
		"files", written,
		"points", o.res.Stats.Points,
		"nodata", o.res.Stats.NoData,
	)
	return nil
}
