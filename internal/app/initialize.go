package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aatumaykin/curlloop/internal/journal"
	"github.com/aatumaykin/curlloop/internal/logger"
	"github.com/aatumaykin/curlloop/internal/loop"
	"github.com/aatumaykin/curlloop/internal/metrics"
	"github.com/aatumaykin/curlloop/internal/notify"
	"github.com/aatumaykin/curlloop/internal/runner"
	"github.com/aatumaykin/curlloop/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Initialize builds every component from the configuration. Nothing is
// started and no port is bound.
func (a *App) Initialize(ctx context.Context) error {
	cfg := a.config

	// 1. Metrics
	a.registry = a.opts.Registry
	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
	}
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.metrics = metrics.New(cfg.Metrics.Namespace, a.registry)
		metricsHandler = metrics.Handler(a.registry)
	}

	// 2. Runner
	a.runner = runner.New(runner.Config{
		Shell:          cfg.Loop.Shell,
		SilentFlag:     cfg.Loop.SilentFlag,
		MaxOutputBytes: cfg.Loop.MaxOutputBytes,
		Timeout:        cfg.CommandTimeout(),
		Dir:            cfg.Loop.WorkingDir,
	}, a.logger)

	// 3. Journal
	a.journal = journal.New(cfg.Loop.LogFile)

	// 4. Notifier
	notifyCfg := notify.Config{
		Enabled:      cfg.Notify.Enabled,
		PreviewChars: cfg.Notify.PreviewChars,
		Timeout:      cfg.NotifyTimeout(),
	}
	if a.opts.Sender != nil {
		a.notifier = notify.NewWithSender(notifyCfg, a.opts.Sender, a.logger, a.metrics)
	} else {
		a.notifier = notify.New(notifyCfg, a.logger, a.metrics)
	}

	// 5. Scheduler
	a.scheduler = loop.New(loop.Options{
		Invoker:  a.runner,
		Journal:  a.journal,
		Notifier: a.notifier,
		Logger:   a.logger,
		Metrics:  a.metrics,
		// Invocations outlive shutdown; see Shutdown.
		Context: context.WithoutCancel(ctx),
	})

	// 6. Control server
	a.server = server.New(server.Config{
		Addr:    cfg.Server.Addr,
		Metrics: metricsHandler,
	}, a.scheduler, a.logger)

	a.logger.Info("components initialized",
		logger.Field{Key: "log_file", Value: cfg.Loop.LogFile},
		logger.Field{Key: "notifications", Value: a.notifier.Enabled()},
		logger.Field{Key: "metrics", Value: cfg.Metrics.Enabled})

	return nil
}

// Start initializes the components, binds the control server and opens
// the browser when configured.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return fmt.Errorf("app already started")
	}

	if err := a.Initialize(ctx); err != nil {
		return err
	}

	if err := a.server.Start(); err != nil {
		a.scheduler.Shutdown()
		return err
	}
	a.started = true

	if a.config.Server.OpenBrowser && a.opts.OpenBrowser != nil {
		if err := a.opts.OpenBrowser(a.server.URL()); err != nil {
			a.logger.Warn("failed to open browser",
				logger.Field{Key: "url", Value: a.server.URL()},
				logger.Field{Key: "error", Value: err.Error()})
		}
	}

	return nil
}
