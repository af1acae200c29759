package led

import (
	"errors"
	"fmt"
	"strings"
)

// ButtonState is the logical state of a button which selects
// the animation queue of its LED.
type ButtonState uint8

// Button states, values are used on the wire.
const (
	Idle ButtonState = iota
	Pressed
	Held
	Released
)

// NumButtonStates is the number of logical button states.
const NumButtonStates = 4

// AllButtonStates lists every state in wire order.
var AllButtonStates = []ButtonState{Idle, Pressed, Held, Released}

// ErrInvalidButtonState indicates a value outside the known states.
var ErrInvalidButtonState = errors.New("invalid button state")

var buttonStateNames = [NumButtonStates]string{"idle", "pressed", "held", "released"}

// ButtonStateFrom validates a raw state value.
func ButtonStateFrom(v uint8) (ButtonState, error) {
	if v >= NumButtonStates {
		return Idle, ErrInvalidButtonState
	}
	return ButtonState(v), nil
}

// ParseButtonState parses the name of a state.
func ParseButtonState(name string) (ButtonState, error) {
	name = strings.ToLower(name)
	for n, s := range buttonStateNames {
		if s == name {
			return ButtonState(n), nil
		}
	}
	return Idle, fmt.Errorf("%w: %q", ErrInvalidButtonState, name)
}

// IsValid checks the state is one of the known states.
func (s ButtonState) IsValid() bool {
	return s < NumButtonStates
}

// String implements fmt.Stringer.
func (s ButtonState) String() string {
	if s.IsValid() {
		return buttonStateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}
