package main

import (
	"context"
	"io"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xpq/observability"
	"github.com/benz9527/xpq/xlog"
)

const (
	metricsExportInterval = time.Minute
	metricsExportTimeout  = 5 * time.Second
)

type appConfig struct {
	out       io.Writer
	in        io.Reader
	metrics   bool
	desc      bool
	statsName string
}

// newAppStats installs the stdout meter provider when metrics are
// enabled and flushes it when the application stops.
func newAppStats(lc fx.Lifecycle, cfg appConfig, logger xlog.XLogger) (*observability.AppStats, error) {
	if !cfg.metrics {
		return nil, nil
	}
	shutdown, err := observability.NewConsoleMetricsExporter(cfg.out, metricsExportInterval, metricsExportTimeout)
	if err != nil {
		return nil, err
	}
	stats := observability.NewAppStats(cfg.statsName)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Debug("flush metrics", zap.String("meter", stats.Name()))
			return shutdown(ctx)
		},
	})
	return stats, nil
}

func newQueueApp(logger xlog.XLogger, cfg appConfig, loader **queueLoader) *fx.App {
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Supply(cfg),
		fx.Provide(
			func() xlog.XLogger { return logger },
			newAppStats,
			newQueueLoader,
		),
		fx.Populate(loader),
	)
}

func runQueueApp(ctx context.Context, logger xlog.XLogger, cfg appConfig, fn func(ctx context.Context, loader *queueLoader) error) error {
	var loader *queueLoader
	app := newQueueApp(logger, cfg, &loader)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, startCancel := context.WithTimeout(ctx, app.StartTimeout())
	defer startCancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	runErr := fn(ctx, loader)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer stopCancel()
	return multierr.Append(runErr, app.Stop(stopCtx))
}
