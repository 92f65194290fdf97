package playback

import (
	"errors"
	"fmt"
)

// ErrProtocol matches every *ProtocolError through errors.Is.
var ErrProtocol = errors.New("playback protocol violation")

// ProtocolError is returned when an operation is called from a state that does not allow it.
// The controller is left in StateError and only Reset is accepted afterwards.
type ProtocolError struct {
	Op    string
	State State
	// Message is the text carried by the matching error event.
	Message string
}

func newProtocolError(op string, state State) *ProtocolError {
	return &ProtocolError{
		Op:      op,
		State:   state,
		Message: fmt.Sprintf("Cannot %s while in the '%s' state", op, state),
	}
}

func (e *ProtocolError) Error() string {
	return "api error: " + e.Message
}

func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocol
}
