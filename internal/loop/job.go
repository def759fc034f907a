package loop

import (
	"context"
	"math"
	"time"

	"github.com/aatumaykin/curlloop/internal/runner"
	"github.com/robfig/cron/v3"
)

// Notification titles.
const (
	TitleFirst = "First cURL Response"
	TitleTick  = "API Response"
)

// MaxMinutes is the longest period a time.Duration can hold, in whole minutes.
const MaxMinutes = float64(math.MaxInt64 / int64(time.Minute))

// Invoker runs a command in the background and reports exactly once.
type Invoker interface {
	Run(ctx context.Context, command string, onComplete func(runner.Result))
}

// Journal records payloads.
type Journal interface {
	Append(payload string) error
}

// Notifier delivers payload previews without blocking.
type Notifier interface {
	Notify(title, body string)
}

// Job is the single active schedule.
type Job struct {
	ID        string        `json:"id"`
	Command   string        `json:"command"`
	Minutes   float64       `json:"minutes"`
	Period    time.Duration `json:"period"`
	StartedAt time.Time     `json:"started_at"`

	entryID cron.EntryID
}

// Result is returned by successful Start and Stop calls.
type Result struct {
	Message string `json:"message"`
	Job     *Job   `json:"job,omitempty"`
}

// Status is a read-only view of the scheduler.
type Status struct {
	Running         bool       `json:"running"`
	Job             *Job       `json:"job,omitempty"`
	NextRun         *time.Time `json:"next_run,omitempty"`
	Triggered       uint64     `json:"triggered"`
	Completed       uint64     `json:"completed"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
	LastExitCode    int        `json:"last_exit_code"`
	LastPayload     string     `json:"last_payload,omitempty"`
}
