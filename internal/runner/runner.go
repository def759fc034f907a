// Package runner executes an operator-supplied shell command once and turns
// whatever it printed into a payload.
//
// The command is run verbatim through a shell after silent-flag
// normalization. Failures never surface as Go errors to the caller: they are
// folded into the payload text so that every invocation produces exactly one
// Result.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/aatumaykin/curlloop/internal/extract"
	"github.com/aatumaykin/curlloop/internal/logger"
	"github.com/google/uuid"
)

// DefaultMaxOutputBytes caps how much of each stream is kept in memory.
const DefaultMaxOutputBytes = 10 * 1024 * 1024

// waitDelay bounds how long pipes are drained after a cancelled command.
const waitDelay = 2 * time.Second

// FailureFormat is the payload produced when the command fails without
// printing anything.
const FailureFormat = "curl failed with code %d"

// Config holds runner settings.
type Config struct {
	Shell          string        // Shell binary used as `<shell> -c <command>` (default: sh)
	SilentFlag     string        // Flag forced onto every command (default: -s)
	MaxOutputBytes int           // Per-stream capture ceiling (default: 10 MiB)
	Timeout        time.Duration // Per-invocation deadline, 0 means none
	Dir            string        // Working directory, empty means the current one
}

// Result is the outcome of one invocation.
type Result struct {
	ID        string
	Command   string // Normalized command that was executed
	Output    string // Trimmed stdout, else stderr, else the synthesized failure text
	Payload   string // extract.Extract(Output)
	ExitCode  int
	Err       error // Process error, informational only
	StartedAt time.Time
	Duration  time.Duration
}

// Failed reports whether the process did not exit cleanly.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Runner launches commands.
type Runner struct {
	cfg    Config
	logger *logger.Logger
}

// New creates a Runner, filling zero config fields with defaults.
func New(cfg Config, log *logger.Logger) *Runner {
	if cfg.Shell == "" {
		cfg.Shell = "sh"
	}
	if cfg.SilentFlag == "" {
		cfg.SilentFlag = DefaultSilentFlag
	}
	if cfg.MaxOutputBytes <= 0 {
		cfg.MaxOutputBytes = DefaultMaxOutputBytes
	}
	return &Runner{cfg: cfg, logger: log}
}

// Run starts the command in the background and returns immediately.
// onComplete is called exactly once with the Result, including when the
// process cannot be launched.
func (r *Runner) Run(ctx context.Context, command string, onComplete func(Result)) {
	go func() {
		onComplete(r.RunSync(ctx, command))
	}()
}

// RunSync runs the command and blocks until it finishes.
func (r *Runner) RunSync(ctx context.Context, command string) (res Result) {
	res = Result{
		ID:        uuid.NewString(),
		Command:   Normalize(command, r.cfg.SilentFlag),
		StartedAt: time.Now(),
	}

	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("panic: %v", p)
			res.ExitCode = -1
			res.Output = fmt.Sprintf(FailureFormat, res.ExitCode)
			res.Payload = extract.Extract(res.Output)
			r.logger.Error("command runner panic recovered", res.Err,
				logger.Field{Key: "invocation_id", Value: res.ID})
		}
		res.Duration = time.Since(res.StartedAt)
	}()

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	r.logger.Debug("executing command",
		logger.Field{Key: "invocation_id", Value: res.ID},
		logger.Field{Key: "command", Value: res.Command})

	stdout, stderr, err := r.execute(ctx, res.Command)

	res.Err = err
	res.ExitCode = exitCode(err)
	res.Output = selectOutput(stdout, stderr, err)
	res.Payload = extract.Extract(res.Output)

	if err != nil {
		r.logger.Warn("command exited with error",
			logger.Field{Key: "invocation_id", Value: res.ID},
			logger.Field{Key: "exit_code", Value: res.ExitCode},
			logger.Field{Key: "error", Value: err.Error()})
	}

	return res
}

// execute runs `<shell> -c command` and captures both streams.
func (r *Runner) execute(ctx context.Context, command string) (string, string, error) {
	cmd := exec.CommandContext(ctx, r.cfg.Shell, "-c", command)
	cmd.Dir = r.cfg.Dir
	// Grandchildren may keep the pipes open after the shell is killed.
	cmd.WaitDelay = waitDelay

	stdout := newCappedBuffer(r.cfg.MaxOutputBytes)
	stderr := newCappedBuffer(r.cfg.MaxOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if stdout.Truncated() || stderr.Truncated() {
		r.logger.Warn("command output exceeded capture limit and was truncated",
			logger.Field{Key: "limit_bytes", Value: r.cfg.MaxOutputBytes})
	}

	return stdout.String(), stderr.String(), err
}

// selectOutput prefers stdout, then stderr, then a failure message.
func selectOutput(stdout, stderr string, err error) string {
	if out := strings.TrimSpace(stdout); out != "" {
		return out
	}
	if out := strings.TrimSpace(stderr); out != "" {
		return out
	}
	if err != nil {
		return fmt.Sprintf(FailureFormat, exitCode(err))
	}
	return ""
}

// exitCode extracts the exit code from an error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	// Launch failures, timeouts and other errors
	return -1
}

// cappedBuffer keeps the first limit bytes written to it and silently drops
// the rest, so a huge response cannot make the invocation fail.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	room := c.limit - c.buf.Len()
	if room <= 0 {
		if len(p) > 0 {
			c.truncated = true
		}
		return len(p), nil
	}
	if len(p) > room {
		c.buf.Write(p[:room])
		c.truncated = true
		return len(p), nil
	}
	return c.buf.Write(p)
}

func (c *cappedBuffer) String() string {
	return c.buf.String()
}

func (c *cappedBuffer) Truncated() bool {
	return c.truncated
}
