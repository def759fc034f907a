package runner

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(cfg Config) *Runner {
	return New(cfg, testLogger())
}

func TestNew_Defaults(t *testing.T) {
	r := newTestRunner(Config{})

	assert.Equal(t, "sh", r.cfg.Shell)
	assert.Equal(t, DefaultSilentFlag, r.cfg.SilentFlag)
	assert.Equal(t, DefaultMaxOutputBytes, r.cfg.MaxOutputBytes)
	assert.Zero(t, r.cfg.Timeout)
}

func TestRunSync_ExtractsJSONFromNoise(t *testing.T) {
	r := newTestRunner(Config{})

	res := r.RunSync(context.Background(), `echo 'noise {"a":1,"b":{"c":2}} trailing'`)

	assert.NoError(t, res.Err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, `{"a":1,"b":{"c":2}}`, res.Payload)
	assert.True(t, strings.HasSuffix(res.Command, " -s"))
	assert.NotEmpty(t, res.ID)
}

func TestRunSync_FailureCodeWithoutOutput(t *testing.T) {
	r := newTestRunner(Config{})

	res := r.RunSync(context.Background(), `sh -c 'exit 7'`)

	assert.True(t, res.Failed())
	assert.Equal(t, 7, res.ExitCode)
	assert.Equal(t, "curl failed with code 7", res.Output)
	assert.Equal(t, "curl failed with code 7", res.Payload)
}

func TestRunSync_StderrFallback(t *testing.T) {
	r := newTestRunner(Config{})

	res := r.RunSync(context.Background(), `sh -c 'echo "  oops  " >&2; exit 3'`)

	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "oops", res.Output)
	assert.Equal(t, "oops", res.Payload)
}

func TestRunSync_StdoutPreferredOverStderr(t *testing.T) {
	r := newTestRunner(Config{})

	res := r.RunSync(context.Background(), `sh -c 'echo "{\"ok\":true}"; echo warn >&2'`)

	assert.NoError(t, res.Err)
	assert.Equal(t, `{"ok":true}`, res.Payload)
}

func TestRunSync_SuccessWithoutOutput(t *testing.T) {
	r := newTestRunner(Config{})

	res := r.RunSync(context.Background(), "true")

	assert.NoError(t, res.Err)
	assert.Equal(t, "", res.Output)
	assert.Equal(t, "", res.Payload)
}

func TestRunSync_LaunchFailure(t *testing.T) {
	r := newTestRunner(Config{Shell: "/nonexistent/shell-for-tests"})

	res := r.RunSync(context.Background(), "curl https://x/y")

	assert.Error(t, res.Err)
	assert.Equal(t, -1, res.ExitCode)
	assert.Equal(t, "curl failed with code -1", res.Payload)
}

func TestRunSync_Timeout(t *testing.T) {
	r := newTestRunner(Config{Timeout: 100 * time.Millisecond})

	start := time.Now()
	res := r.RunSync(context.Background(), `sh -c 'sleep 5'`)

	assert.Less(t, time.Since(start), 4*time.Second)
	assert.True(t, res.Failed())
	assert.Equal(t, "curl failed with code -1", res.Payload)
}

func TestRunSync_OutputCapped(t *testing.T) {
	r := newTestRunner(Config{MaxOutputBytes: 16})

	res := r.RunSync(context.Background(), `sh -c 'printf "%0100d" 0'`)

	assert.NoError(t, res.Err)
	assert.Len(t, res.Output, 16)
}

func TestRun_CallsBackExactlyOnce(t *testing.T) {
	r := newTestRunner(Config{})

	var calls atomic.Int32
	done := make(chan Result, 2)

	r.Run(context.Background(), `sh -c 'exit 2'`, func(res Result) {
		calls.Add(1)
		done <- res
	})

	select {
	case res := <-done:
		assert.Equal(t, "curl failed with code 2", res.Payload)
	case <-time.After(5 * time.Second):
		t.Fatal("callback was not invoked")
	}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRun_ReturnsImmediately(t *testing.T) {
	r := newTestRunner(Config{})

	done := make(chan struct{})
	start := time.Now()
	r.Run(context.Background(), `sh -c 'sleep 1'`, func(Result) { close(done) })

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	<-done
}

func TestSelectOutput(t *testing.T) {
	assert.Equal(t, "out", selectOutput(" out ", "err", nil))
	assert.Equal(t, "err", selectOutput(" \n", " err ", nil))
	assert.Equal(t, "", selectOutput("", "", nil))
}

func TestCappedBuffer(t *testing.T) {
	b := newCappedBuffer(5)

	n, err := b.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.False(t, b.Truncated())

	n, err = b.Write([]byte("defgh"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.True(t, b.Truncated())

	n, err = b.Write([]byte("ij"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "abcde", b.String())
}
