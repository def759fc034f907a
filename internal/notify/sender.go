package notify

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
)

// ErrUnavailable is returned by senders that have no way to display
// notifications on this system.
var ErrUnavailable = errors.New("desktop notifications unavailable")

// Sender delivers a notification to the OS notification system.
type Sender interface {
	SendVisual(ctx context.Context, n Notification) error
	VisualAvailable() bool
}

// NewSender returns the sender for the current OS.
func NewSender() Sender {
	return newPlatformSender()
}

// Platform returns the current operating system name.
func Platform() string {
	return runtime.GOOS
}

// toolAvailable checks if a command-line tool is available in PATH.
func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// hasDisplay checks for an X11 or Wayland session.
func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// noopSender is used on platforms without a supported notification tool.
type noopSender struct{}

func (noopSender) SendVisual(context.Context, Notification) error { return ErrUnavailable }
func (noopSender) VisualAvailable() bool                          { return false }
