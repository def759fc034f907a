package loop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aatumaykin/curlloop/internal/logger"
	"github.com/aatumaykin/curlloop/internal/runner"
)

// recorder collects journal and notify events in the order they happen.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// fakeInvoker completes every Run in its own goroutine with a canned
// payload. When hold is set, completions wait until release is called.
type fakeInvoker struct {
	mu       sync.Mutex
	commands []string
	payload  string
	exitCode int
	hold     bool
	pending  []func()
}

func (f *fakeInvoker) Run(_ context.Context, command string, onComplete func(runner.Result)) {
	f.mu.Lock()
	f.commands = append(f.commands, command)
	res := runner.Result{
		ID:       fmt.Sprintf("inv-%d", len(f.commands)),
		Command:  command,
		Payload:  f.payload,
		ExitCode: f.exitCode,
	}
	if f.exitCode != 0 {
		res.Err = errors.New("exit status")
	}
	if f.hold {
		f.pending = append(f.pending, func() { onComplete(res) })
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	go onComplete(res)
}

func (f *fakeInvoker) release() {
	f.mu.Lock()
	pending := f.pending
	f.pending = nil
	f.mu.Unlock()

	for _, fn := range pending {
		go fn()
	}
}

func (f *fakeInvoker) runs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

type fakeJournal struct {
	rec *recorder
	err error
}

func (j *fakeJournal) Append(payload string) error {
	j.rec.add("journal:" + payload)
	return j.err
}

type fakeNotifier struct {
	rec *recorder
}

func (n *fakeNotifier) Notify(title, body string) {
	n.rec.add("notify:" + title + ":" + body)
}

type fixture struct {
	scheduler *Scheduler
	invoker   *fakeInvoker
	journal   *fakeJournal
	rec       *recorder
}

func newFixture() *fixture {
	rec := &recorder{}
	inv := &fakeInvoker{payload: `{"a":1}`}
	j := &fakeJournal{rec: rec}

	s := New(Options{
		Invoker:  inv,
		Journal:  j,
		Notifier: &fakeNotifier{rec: rec},
		Logger:   logger.NewNop(),
	})

	return &fixture{scheduler: s, invoker: inv, journal: j, rec: rec}
}
