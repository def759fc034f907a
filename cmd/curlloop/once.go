package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/aatumaykin/curlloop/internal/journal"
	"github.com/aatumaykin/curlloop/internal/logger"
	"github.com/aatumaykin/curlloop/internal/notify"
	"github.com/aatumaykin/curlloop/internal/runner"
	"github.com/spf13/cobra"
)

var (
	onceJournal bool
	onceNotify  bool
	onceRaw     bool
)

// onceCmd represents the once command
var onceCmd = &cobra.Command{
	Use:   "once <curl command>",
	Short: "Run a command one time and print its payload",
	Long: `Run a curl command once through the same pipeline as the loop:
the silent flag is forced, the output is captured and the {...} payload
is printed. With --journal the payload is also appended to the log file.`,
	Example: `  curlloop once "curl -i https://api.example.com/status"`,
	Args:    cobra.ExactArgs(1),
	RunE:    runOnce,
}

func init() {
	onceCmd.Flags().BoolVar(&onceJournal, "journal", false, "append the payload to loop.log_file")
	onceCmd.Flags().BoolVar(&onceNotify, "notify", false, "show the payload as a desktop notification")
	onceCmd.Flags().BoolVar(&onceRaw, "raw", false, "print the full output instead of the payload")
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := runner.New(runner.Config{
		Shell:          cfg.Loop.Shell,
		SilentFlag:     cfg.Loop.SilentFlag,
		MaxOutputBytes: cfg.Loop.MaxOutputBytes,
		Timeout:        cfg.CommandTimeout(),
		Dir:            cfg.Loop.WorkingDir,
	}, log)

	res := r.RunSync(ctx, args[0])

	out := res.Payload
	if onceRaw {
		out = res.Output
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if onceJournal {
		if err := journal.New(cfg.Loop.LogFile).Append(res.Payload); err != nil {
			return fmt.Errorf("failed to append to journal: %w", err)
		}
	}

	if onceNotify {
		n := notify.New(notify.Config{
			Enabled:      true,
			PreviewChars: cfg.Notify.PreviewChars,
			Timeout:      cfg.NotifyTimeout(),
		}, log, nil)
		if err := n.Send("cURL Response", res.Payload); err != nil {
			log.Warn("notification not shown", logger.Field{Key: "error", Value: err.Error()})
		}
	}

	if res.Failed() {
		return fmt.Errorf("command exited with code %d", res.ExitCode)
	}
	return nil
}
