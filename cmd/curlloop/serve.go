package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/aatumaykin/curlloop/internal/app"
	"github.com/aatumaykin/curlloop/internal/browser"
	"github.com/aatumaykin/curlloop/internal/logger"
	"github.com/aatumaykin/curlloop/internal/version"
	"github.com/spf13/cobra"
)

var (
	serveAddr      string
	serveNoBrowser bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the control page (default command)",
	Long: `Start the HTTP control page and wait for start/stop requests.
The default browser is opened on the page unless --no-browser is given or
server.open_browser is false. SIGINT or SIGTERM cancels the loop and exits.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serveAddr, "addr", "", "override server.addr (host:port)")
	cmd.Flags().BoolVar(&serveNoBrowser, "no-browser", false, "do not open the browser on start")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveNoBrowser {
		cfg.Server.OpenBrowser = false
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger.SetDefault(log)

	log.Info("starting "+version.FormatStartupMessage(),
		logger.Field{Key: "git_commit", Value: version.GitCommit},
		logger.Field{Key: "config", Value: configPath},
		logger.Field{Key: "addr", Value: cfg.Server.Addr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, log, app.Options{OpenBrowser: browser.Open})
	if err := a.Run(ctx); err != nil {
		log.Error("curlloop stopped with error", err)
		return err
	}

	log.Info("curlloop stopped")
	return nil
}
