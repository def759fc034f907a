package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aatumaykin/curlloop/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSender records notifications and returns a configured error.
type mockSender struct {
	mu        sync.Mutex
	err       error
	available bool
	calls     []Notification
	sent      chan Notification
}

func newMockSender() *mockSender {
	return &mockSender{available: true, sent: make(chan Notification, 10)}
}

func (m *mockSender) SendVisual(_ context.Context, n Notification) error {
	m.mu.Lock()
	m.calls = append(m.calls, n)
	m.mu.Unlock()
	m.sent <- n
	return m.err
}

func (m *mockSender) VisualAvailable() bool { return m.available }

func (m *mockSender) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		body string
		max  int
		want string
	}{
		{name: "short", body: "hello", max: 300, want: "hello"},
		{name: "exact length", body: strings.Repeat("a", 300), max: 300, want: strings.Repeat("a", 300)},
		{name: "truncated", body: strings.Repeat("a", 301), max: 300, want: strings.Repeat("a", 300) + "..."},
		{name: "multibyte counted as runes", body: "ééééé", max: 3, want: "ééé..."},
		{name: "decomposed input normalized", body: "e\u0301e\u0301", max: 1, want: "\u00e9..."},
		{name: "zero max uses default", body: strings.Repeat("b", 301), max: 0, want: strings.Repeat("b", 300) + "..."},
		{name: "empty", body: "", max: 300, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preview(tt.body, tt.max))
		})
	}
}

func TestNotifier_Send(t *testing.T) {
	sender := newMockSender()
	n := NewWithSender(Config{Enabled: true}, sender, logger.NewNop(), nil)

	err := n.Send("API Response", strings.Repeat("x", 400))
	require.NoError(t, err)

	require.Equal(t, 1, sender.callCount())
	got := sender.calls[0]
	assert.Equal(t, "API Response", got.Title)
	assert.Len(t, got.Body, 303)
	assert.True(t, strings.HasSuffix(got.Body, "..."))
}

func TestNotifier_SendErrorIsReturnedNotPanicking(t *testing.T) {
	sender := newMockSender()
	sender.err = errors.New("dbus not running")
	n := NewWithSender(Config{Enabled: true}, sender, logger.NewNop(), nil)

	err := n.Send("t", "b")
	assert.EqualError(t, err, "dbus not running")
}

func TestNotifier_NotifyIsAsync(t *testing.T) {
	sender := newMockSender()
	n := NewWithSender(Config{Enabled: true}, sender, logger.NewNop(), nil)

	n.Notify("First cURL Response", `{"a":1}`)

	select {
	case got := <-sender.sent:
		assert.Equal(t, "First cURL Response", got.Title)
		assert.Equal(t, `{"a":1}`, got.Body)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
}

func TestNotifier_Disabled(t *testing.T) {
	sender := newMockSender()
	n := NewWithSender(Config{Enabled: false}, sender, logger.NewNop(), nil)

	n.Notify("t", "b")
	assert.NoError(t, n.Send("t", "b"))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, sender.callCount())
	assert.False(t, n.Enabled())
}

func TestNewWithSender_Defaults(t *testing.T) {
	n := NewWithSender(Config{Enabled: true}, newMockSender(), logger.NewNop(), nil)

	assert.Equal(t, DefaultPreviewChars, n.cfg.PreviewChars)
	assert.Equal(t, DefaultTimeout, n.cfg.Timeout)
}

func TestNoopSender(t *testing.T) {
	var s Sender = noopSender{}
	assert.False(t, s.VisualAvailable())
	assert.ErrorIs(t, s.SendVisual(context.Background(), Notification{}), ErrUnavailable)
}

func TestAppleScriptString(t *testing.T) {
	assert.Equal(t, `"say \"hi\" \\ bye"`, appleScriptString(`say "hi" \ bye`))
}
