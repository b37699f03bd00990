package pulse

import (
	"errors"
	"fmt"

	"github.com/shaban/gatecv/devices"
)

// ErrNoActiveChannels reports a trigger with an empty channel set. Benign:
// nothing is scheduled and the engine is left untouched.
var ErrNoActiveChannels = errors.New("no channels configured for gate output")

// EngineInitError is a graph construction, connection or start failure.
// Non-fatal: the engine stays Uninitialized with no partial graph and setup
// is retried lazily on the next trigger.
type EngineInitError struct {
	Stage string
	Err   error
}

func (e *EngineInitError) Error() string {
	return fmt.Sprintf("engine init failed during %s: %v", e.Stage, e.Err)
}

func (e *EngineInitError) Unwrap() error {
	return e.Err
}

// BindingWarning reports that an explicit device binding could not be
// confirmed by reading the hardware unit back. Some interfaces confirm
// asynchronously, so this is reported, not treated as a setup failure.
type BindingWarning struct {
	Want devices.ID
	Got  devices.ID
	Err  error
}

func (w BindingWarning) Error() string {
	if w.Err != nil {
		return fmt.Sprintf("device binding unverified (want %d): %v", w.Want, w.Err)
	}
	return fmt.Sprintf("device binding unverified: hardware unit reports %d, want %d", w.Got, w.Want)
}
