// Package loop owns the recurring command job.
//
// At most one job exists at a time. Start runs the command once right away
// and then on a fixed period; Stop cancels the timer. Every invocation
// appends its payload to the journal and then sends a notification.
// Invocations are not serialized: when a command outlives the period,
// several may be in flight and finish in any order. Stop does not cancel
// invocations already running; their results are still journaled.
package loop

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aatumaykin/curlloop/internal/logger"
	"github.com/aatumaykin/curlloop/internal/metrics"
	"github.com/aatumaykin/curlloop/internal/runner"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Options wires the scheduler's collaborators.
type Options struct {
	Invoker  Invoker
	Journal  Journal
	Notifier Notifier
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	// Context is passed to every invocation. Defaults to context.Background().
	Context context.Context
}

// Scheduler manages the loop job.
type Scheduler struct {
	cron     *cron.Cron
	invoker  Invoker
	journal  Journal
	notifier Notifier
	logger   *logger.Logger
	metrics  *metrics.Metrics
	ctx      context.Context

	mu       sync.Mutex
	job      *Job // nil iff idle
	shutdown bool

	triggered       uint64
	completed       uint64
	lastCompletedAt time.Time
	lastExitCode    int
	lastPayload     string
}

// New creates a scheduler and starts its timer engine.
func New(opts Options) *Scheduler {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	s := &Scheduler{
		cron:     cron.New(),
		invoker:  opts.Invoker,
		journal:  opts.Journal,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		ctx:      opts.Context,
	}
	s.cron.Start()
	return s
}

// Start validates the request, replaces any running job, runs the command
// once immediately and schedules it every minutes.
func (s *Scheduler) Start(command string, minutes float64) (Result, error) {
	if strings.TrimSpace(command) == "" {
		return Result{}, errors.Wrap(ErrInvalidInput, "command is empty")
	}
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes <= 0 {
		return Result{}, errors.Wrapf(ErrInvalidInput, "minutes must be a positive number, got %v", minutes)
	}
	if minutes > MaxMinutes {
		return Result{}, errors.Wrapf(ErrInvalidInput, "minutes must be at most %d, got %v", int64(MaxMinutes), minutes)
	}

	period := time.Duration(minutes * float64(time.Minute))

	s.mu.Lock()

	if s.shutdown {
		s.mu.Unlock()
		return Result{}, errors.New("scheduler is shut down")
	}

	if s.job != nil {
		s.cron.Remove(s.job.entryID)
		s.logger.Info("replacing running loop",
			logger.Field{Key: "job_id", Value: s.job.ID})
		s.job = nil
	}

	job := &Job{
		ID:        uuid.NewString(),
		Command:   command,
		Minutes:   minutes,
		Period:    period,
		StartedAt: time.Now(),
	}
	job.entryID = s.cron.Schedule(cron.Every(period), cron.FuncJob(func() {
		s.tick(job)
	}))
	s.job = job
	s.triggered++
	snapshot := *job
	s.mu.Unlock()

	s.metrics.LoopStarted()
	s.logger.Info("loop started",
		logger.Field{Key: "job_id", Value: job.ID},
		logger.Field{Key: "period", Value: period.String()},
		logger.Field{Key: "entry_id", Value: job.entryID})

	// The first tick is at least one period away, so this runs first.
	s.invoke(job, metrics.TriggerInitial, TitleFirst)

	return Result{
		Message: fmt.Sprintf(MsgStartedFmt, formatMinutes(minutes)),
		Job:     &snapshot,
	}, nil
}

// Stop cancels the timer of the running job. Invocations already in flight
// are left to finish.
func (s *Scheduler) Stop() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.job == nil {
		return Result{}, ErrNoActiveLoop
	}

	s.cron.Remove(s.job.entryID)
	s.logger.Info("loop stopped", logger.Field{Key: "job_id", Value: s.job.ID})
	s.job = nil
	s.metrics.LoopStopped()

	return Result{Message: MsgStopped}, nil
}

// Running reports whether a job is scheduled.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.job != nil
}

// Status returns a snapshot of the scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Running:      s.job != nil,
		Triggered:    s.triggered,
		Completed:    s.completed,
		LastExitCode: s.lastExitCode,
		LastPayload:  s.lastPayload,
	}
	if !s.lastCompletedAt.IsZero() {
		at := s.lastCompletedAt
		st.LastCompletedAt = &at
	}
	if s.job != nil {
		job := *s.job
		st.Job = &job
		if next := s.cron.Entry(s.job.entryID).Next; !next.IsZero() {
			st.NextRun = &next
		}
	}
	return st
}

// Shutdown clears the job and stops the timer engine. In-flight
// invocations are not awaited.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	if s.job != nil {
		s.cron.Remove(s.job.entryID)
		s.logger.Info("loop cancelled on shutdown", logger.Field{Key: "job_id", Value: s.job.ID})
		s.job = nil
		s.metrics.LoopStopped()
	}
	s.shutdown = true
	s.mu.Unlock()

	s.cron.Stop()
}

// tick is the timer callback for job.
func (s *Scheduler) tick(job *Job) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("loop tick panic recovered", fmt.Errorf("panic: %v", r),
				logger.Field{Key: "job_id", Value: job.ID})
		}
	}()

	s.mu.Lock()
	// A tick dispatched just before Stop or a replacing Start is dropped.
	if s.job != job {
		s.mu.Unlock()
		return
	}
	s.triggered++
	s.mu.Unlock()

	s.invoke(job, metrics.TriggerTick, TitleTick)
}

// invoke starts one invocation without holding s.mu.
func (s *Scheduler) invoke(job *Job, trigger, title string) {
	s.logger.Debug("invocation triggered",
		logger.Field{Key: "job_id", Value: job.ID},
		logger.Field{Key: "trigger", Value: trigger})

	s.invoker.Run(s.ctx, job.Command, func(res runner.Result) {
		s.complete(job, trigger, title, res)
	})
}

// complete journals the payload and then notifies. Failures of either step
// are logged and never affect the loop.
func (s *Scheduler) complete(job *Job, trigger, title string, res runner.Result) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("invocation completion panic recovered", fmt.Errorf("panic: %v", r),
				logger.Field{Key: "job_id", Value: job.ID})
		}
	}()

	s.metrics.ObserveInvocation(trigger, res.Failed(), res.Duration)

	if err := s.journal.Append(res.Payload); err != nil {
		s.metrics.JournalFailed()
		s.logger.Error("failed to append payload to journal", err,
			logger.Field{Key: "job_id", Value: job.ID},
			logger.Field{Key: "invocation_id", Value: res.ID})
	}

	s.notifier.Notify(title, res.Payload)

	s.mu.Lock()
	s.completed++
	s.lastCompletedAt = time.Now()
	s.lastExitCode = res.ExitCode
	s.lastPayload = res.Payload
	s.mu.Unlock()

	s.logger.Info("invocation completed",
		logger.Field{Key: "job_id", Value: job.ID},
		logger.Field{Key: "invocation_id", Value: res.ID},
		logger.Field{Key: "trigger", Value: trigger},
		logger.Field{Key: "exit_code", Value: res.ExitCode},
		logger.Field{Key: "duration", Value: res.Duration.String()})
}

// formatMinutes renders minutes the way the operator typed them: 5, 0.5.
func formatMinutes(minutes float64) string {
	return strconv.FormatFloat(minutes, 'f', -1, 64)
}
