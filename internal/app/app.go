// Package app wires curlloop's components together and manages their
// lifecycle: runner, journal, notifier, metrics, loop scheduler and the
// HTTP control server.
package app

import (
	"context"
	"sync"

	"github.com/aatumaykin/curlloop/internal/config"
	"github.com/aatumaykin/curlloop/internal/journal"
	"github.com/aatumaykin/curlloop/internal/logger"
	"github.com/aatumaykin/curlloop/internal/loop"
	"github.com/aatumaykin/curlloop/internal/metrics"
	"github.com/aatumaykin/curlloop/internal/notify"
	"github.com/aatumaykin/curlloop/internal/runner"
	"github.com/aatumaykin/curlloop/internal/server"
	"github.com/prometheus/client_golang/prometheus"
)

// OpenFunc opens a URL in a browser.
type OpenFunc func(url string) error

// Options holds dependencies that tests replace.
type Options struct {
	// OpenBrowser is called with the control page URL when
	// server.open_browser is set. Nil disables it.
	OpenBrowser OpenFunc
	// Sender overrides the platform notification sender.
	Sender notify.Sender
	// Registry receives the collectors. Defaults to a fresh registry.
	Registry *prometheus.Registry
}

// App represents the running application.
type App struct {
	config *config.Config
	logger *logger.Logger
	opts   Options

	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	runner    *runner.Runner
	journal   *journal.Appender
	notifier  *notify.Notifier
	scheduler *loop.Scheduler
	server    *server.Server

	mu      sync.Mutex
	started bool
}

// New creates an App. Components are built by Initialize.
func New(cfg *config.Config, log *logger.Logger, opts Options) *App {
	if log == nil {
		log = logger.NewNop()
	}
	return &App{
		config: cfg,
		logger: log,
		opts:   opts,
	}
}

// Run initializes and starts everything, then blocks until ctx is
// cancelled and shuts down.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	a.logger.Info("curlloop is running", logger.Field{Key: "url", Value: a.server.URL()})

	<-ctx.Done()

	return a.Shutdown()
}

// Scheduler returns the loop scheduler, nil before Initialize.
func (a *App) Scheduler() *loop.Scheduler {
	return a.scheduler
}

// Runner returns the command runner, nil before Initialize.
func (a *App) Runner() *runner.Runner {
	return a.runner
}

// Journal returns the payload journal, nil before Initialize.
func (a *App) Journal() *journal.Appender {
	return a.journal
}

// URL returns the control page URL, empty before Initialize.
func (a *App) URL() string {
	if a.server == nil {
		return ""
	}
	return a.server.URL()
}
