//go:build linux

package notify

import (
	"context"
	"os/exec"
)

// linuxSender implements Sender with notify-send.
type linuxSender struct {
	available bool
}

func newPlatformSender() Sender {
	return &linuxSender{
		available: toolAvailable("notify-send") && hasDisplay(),
	}
}

// SendVisual runs `notify-send -- title body`. Arguments are passed as argv,
// so the body needs no shell escaping.
func (s *linuxSender) SendVisual(ctx context.Context, n Notification) error {
	if !s.available {
		return ErrUnavailable
	}
	return exec.CommandContext(ctx, "notify-send", "--", n.Title, n.Body).Run()
}

func (s *linuxSender) VisualAvailable() bool {
	return s.available
}
