package bootstrap

import (
	"context"
	"fmt"

	coreconfig "github.com/m3rciful/coinbot/core/config"
	"github.com/m3rciful/coinbot/core/logger"
	"github.com/m3rciful/coinbot/core/metrics"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config *coreconfig.Config

	LoggerInit   func(*coreconfig.Config) error
	ServeMetrics func(ctx context.Context, listen, path string) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	// StartMetrics serves the metrics endpoint until ctx is done; it is a no-op when disabled.
	StartMetrics func(ctx context.Context)
}

// Run initializes the logger and prepares the metrics endpoint.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	serve := opts.ServeMetrics
	if serve == nil {
		serve = metrics.Serve
	}
	listen, path := opts.Config.Metrics.Listen, opts.Config.Metrics.Path
	return &Result{
		StartMetrics: func(ctx context.Context) {
			if listen == "" {
				return
			}
			go func() {
				if err := serve(ctx, listen, path); err != nil {
					logger.Error(ctx, logger.CompMetrics, "metrics.serve.fail", logger.Err(err))
				}
			}()
		},
	}, nil
}
