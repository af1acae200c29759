package comm

import (
	"fmt"

	"github.com/robotalks/keypad.go/pkg/led"
)

// AllStates selects every button state in ClearStates.
const AllStates = 0x0f

// Request is a decoded request frame. Fields not used by Command are zero.
type Request struct {
	Command    Command
	LED        int
	Slot       int
	State      led.ButtonState
	AllStates  bool
	Transition led.Transition
}

// Target receives the mutations of requests.
type Target interface {
	EnableKeyboardInput(enabled bool)
	AddState(ledIndex, slot int, t led.Transition, s led.ButtonState)
	RemoveState(ledIndex, slot int, s led.ButtonState)
	ClearStates(ledIndex int, states ...led.ButtonState)
	LockLED(ledIndex int, s led.ButtonState)
	LockAll(s led.ButtonState)
	UnlockLED(ledIndex int)
	UnlockAll()
}

// Request constructors.

// Ping creates a Ping request.
func Ping() *Request { return &Request{Command: CmdPing} }

// Sync creates a SyncRequest.
func Sync() *Request { return &Request{Command: CmdSyncRequest} }

// Reset creates a DeviceReset request.
func Reset() *Request { return &Request{Command: CmdDeviceReset} }

// KeyboardInput creates an Enable/DisableKeyboardInput request.
func KeyboardInput(enabled bool) *Request {
	if enabled {
		return &Request{Command: CmdEnableKeyboardInput}
	}
	return &Request{Command: CmdDisableKeyboardInput}
}

// AddState creates an AddState request.
func AddState(ledIndex, slot int, s led.ButtonState, t led.Transition) *Request {
	return &Request{Command: CmdAddState, LED: ledIndex, Slot: slot, State: s, Transition: t}
}

// RemoveState creates a RemoveState request.
func RemoveState(ledIndex, slot int, s led.ButtonState) *Request {
	return &Request{Command: CmdRemoveState, LED: ledIndex, Slot: slot, State: s}
}

// ClearStates creates a ClearStates request for one state.
func ClearStates(ledIndex int, s led.ButtonState) *Request {
	return &Request{Command: CmdClearStates, LED: ledIndex, State: s}
}

// ClearAllStates creates a ClearStates request for every state.
func ClearAllStates(ledIndex int) *Request {
	return &Request{Command: CmdClearStates, LED: ledIndex, AllStates: true}
}

// Lock creates a LockButtonState request.
func Lock(ledIndex int, s led.ButtonState) *Request {
	return &Request{Command: CmdLockButtonState, LED: ledIndex, State: s}
}

// LockAll creates a LockAllButtonStates request.
func LockAll(s led.ButtonState) *Request {
	return &Request{Command: CmdLockAllButtonStates, State: s}
}

// Unlock creates an UnlockButtonState request.
func Unlock(ledIndex int) *Request {
	return &Request{Command: CmdUnlockButtonState, LED: ledIndex}
}

// UnlockAll creates an UnlockAllButtonStates request.
func UnlockAll() *Request {
	return &Request{Command: CmdUnlockAllButtonStates}
}

func ledSlot(v int) byte {
	return byte(led.SlotIndex(v))
}

// Encode builds the request frame.
func (r *Request) Encode() (*Frame, error) {
	f := NewFrame(r.Command)
	switch r.Command {
	case CmdAddState:
		desc, err := r.Transition.Encode()
		if err != nil {
			return nil, err
		}
		copy(f.Data[:], desc[:])
		f.Data[0] |= ledSlot(r.LED)
		f.Data[1] |= ledSlot(r.Slot) << 4
		f.Data[2] = f.Data[2]&led.BrightnessMask | byte(r.State)<<5
	case CmdRemoveState:
		f.Data[0] = byte(r.State)<<4 | ledSlot(r.LED)
		f.Data[1] = ledSlot(r.Slot) << 4
	case CmdClearStates:
		state := byte(r.State)
		if r.AllStates {
			state = AllStates
		}
		f.Data[0] = state<<4 | ledSlot(r.LED)
	case CmdLockButtonState:
		f.Data[0] = byte(r.State)<<4 | ledSlot(r.LED)
	case CmdLockAllButtonStates:
		f.Data[0] = byte(r.State) << 4
	case CmdUnlockButtonState:
		f.Data[0] = ledSlot(r.LED)
	case CmdSyncRequest, CmdPing, CmdDeviceReset,
		CmdEnableKeyboardInput, CmdDisableKeyboardInput,
		CmdUnlockAllButtonStates:
	default:
		return nil, fmt.Errorf("%s is not a request", r.Command)
	}
	if !r.State.IsValid() {
		return nil, led.ErrInvalidButtonState
	}
	return f, nil
}

// DecodeRequest decodes a parsed frame. It never mutates anything, so a
// request is either fully decoded or rejected.
func DecodeRequest(f *Frame) (*Request, error) {
	r := &Request{Command: f.Command}
	d := f.Data
	var err error
	switch f.Command {
	case CmdAddState:
		state := d[2] >> 5
		desc := d
		desc[2] &= led.BrightnessMask
		r.LED, r.Slot = int(d[0]&0x0f), int(d[1]>>4)
		if r.State, err = led.ButtonStateFrom(state); err != nil {
			return nil, rejectRequest(f, ReasonInvalidButtonState)
		}
		if r.Transition, err = led.DecodeTransition(desc); err != nil {
			return nil, rejectRequest(f, ReasonInvalidTransition)
		}
	case CmdRemoveState:
		r.LED, r.Slot = int(d[0]&0x0f), int(d[1]>>4)
		if r.State, err = led.ButtonStateFrom(d[0] >> 4); err != nil {
			return nil, rejectRequest(f, ReasonInvalidButtonState)
		}
	case CmdClearStates:
		r.LED = int(d[0] & 0x0f)
		if d[0]>>4 == AllStates {
			r.AllStates = true
		} else if r.State, err = led.ButtonStateFrom(d[0] >> 4); err != nil {
			return nil, rejectRequest(f, ReasonInvalidButtonState)
		}
	case CmdLockButtonState, CmdLockAllButtonStates:
		if f.Command == CmdLockButtonState {
			r.LED = int(d[0] & 0x0f)
		}
		if r.State, err = led.ButtonStateFrom(d[0] >> 4); err != nil {
			return nil, rejectRequest(f, ReasonInvalidButtonState)
		}
	case CmdUnlockButtonState:
		r.LED = int(d[0] & 0x0f)
	default:
		if !f.Command.IsRequest() {
			e := rejectRequest(f, ReasonInvalidCommand)
			e.Nack = CmdNackInvalidCommand
			return nil, e
		}
	}
	return r, nil
}

func rejectRequest(f *Frame, reason Reason) *ParseError {
	return &ParseError{
		Nack:    CmdNackParseError,
		Reason:  reason,
		Command: byte(f.Command),
		Data:    append([]byte(nil), f.Data[:]...),
	}
}

// Apply runs the mutation of the request.
func (r *Request) Apply(t Target) {
	switch r.Command {
	case CmdEnableKeyboardInput:
		t.EnableKeyboardInput(true)
	case CmdDisableKeyboardInput:
		t.EnableKeyboardInput(false)
	case CmdAddState:
		t.AddState(r.LED, r.Slot, r.Transition, r.State)
	case CmdRemoveState:
		t.RemoveState(r.LED, r.Slot, r.State)
	case CmdClearStates:
		if r.AllStates {
			t.ClearStates(r.LED, led.AllButtonStates...)
		} else {
			t.ClearStates(r.LED, r.State)
		}
	case CmdLockButtonState:
		t.LockLED(r.LED, r.State)
	case CmdLockAllButtonStates:
		t.LockAll(r.State)
	case CmdUnlockButtonState:
		t.UnlockLED(r.LED)
	case CmdUnlockAllButtonStates:
		t.UnlockAll()
	}
}

// Mutates tells if Apply changes the target.
func (r *Request) Mutates() bool {
	return r.Command >= CmdDisableKeyboardInput && r.Command <= CmdUnlockAllButtonStates
}
