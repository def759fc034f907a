//go:build darwin

package notify

import (
	"context"
	"os/exec"
)

// darwinSender implements Sender with osascript.
type darwinSender struct {
	available bool
}

func newPlatformSender() Sender {
	return &darwinSender{
		available: toolAvailable("osascript"),
	}
}

func (s *darwinSender) SendVisual(ctx context.Context, n Notification) error {
	if !s.available {
		return ErrUnavailable
	}
	script := "display notification " + appleScriptString(n.Body) +
		" with title " + appleScriptString(n.Title)
	return exec.CommandContext(ctx, "osascript", "-e", script).Run()
}

func (s *darwinSender) VisualAvailable() bool {
	return s.available
}
