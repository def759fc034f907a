package loop

import "github.com/cockroachdb/errors"

// Sentinel errors for the two synchronous failure paths.
// Use errors.Is to match them; Start wraps ErrInvalidInput with the reason.
var (
	// ErrInvalidInput is returned by Start for an empty command or a
	// non-positive period. Nothing is changed when it is returned.
	ErrInvalidInput = errors.New("invalid curl or minutes")

	// ErrNoActiveLoop is returned by Stop when nothing is scheduled.
	ErrNoActiveLoop = errors.New("no loop running")
)

// Operator-facing messages, kept identical to what the control page shows.
const (
	MsgInvalidInput = "Invalid curl or minutes."
	MsgStopped      = "Loop stopped."
	MsgNoLoop       = "No loop running."
	MsgStartedFmt   = "Loop started every %s minute(s)."
)

// Message maps an error returned by Start or Stop to its operator message.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return MsgInvalidInput
	case errors.Is(err, ErrNoActiveLoop):
		return MsgNoLoop
	case err != nil:
		return err.Error()
	default:
		return ""
	}
}
