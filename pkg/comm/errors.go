package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceReset is returned by Server.Run after a DeviceReset
	// request was acknowledged.
	ErrDeviceReset = errors.New("device reset requested")
	// ErrNoReply indicates no reply received from peer in time.
	ErrNoReply = errors.New("no reply")
	// ErrUnexpectedReply indicates a reply which is neither Ack nor NACK.
	ErrUnexpectedReply = errors.New("unexpected reply")
)

// Reason is the first payload byte of a NACK.
type Reason byte

// Reasons.
const (
	ReasonInvalidCommand       Reason = 0
	ReasonInvalidData          Reason = 1
	ReasonInvalidEndByte       Reason = 2
	ReasonInvalidMessageLength Reason = 3
	ReasonInvalidButtonState   Reason = 4
	ReasonInvalidTransition    Reason = 5
)

var reasonNames = map[Reason]string{
	ReasonInvalidCommand:       "invalid command",
	ReasonInvalidData:          "invalid data",
	ReasonInvalidEndByte:       "invalid end byte",
	ReasonInvalidMessageLength: "invalid message length",
	ReasonInvalidButtonState:   "invalid button state",
	ReasonInvalidTransition:    "invalid transition",
}

// String implements fmt.Stringer.
func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("reason %d", byte(r))
}

// ParseError rejects a received frame.
type ParseError struct {
	// Nack is the NACK kind of the reply.
	Nack    Command
	Reason  Reason
	Command byte
	Data    []byte
}

func newParseError(reason Reason, pkt []byte) *ParseError {
	e := &ParseError{Nack: CmdNackParseError, Reason: reason}
	if len(pkt) > 0 {
		e.Command = pkt[0]
		e.Data = append([]byte(nil), pkt[1:]...)
	}
	return e
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", Command(e.Command), e.Reason)
}

// Reply builds the NACK frame: [nack][reason, command, data0..data5][end].
func (e *ParseError) Reply() *Frame {
	f := NewFrame(e.Nack, byte(e.Reason), e.Command)
	copy(f.Data[2:], e.Data)
	return f
}

// NackError is a NACK received by a client.
type NackError struct {
	Nack    Command
	Reason  Reason
	Command Command
}

// Error implements error.
func (e *NackError) Error() string {
	return fmt.Sprintf("%s for %s: %s", e.Nack, e.Command, e.Reason)
}

// NackErrorFrom converts a NACK frame to an error.
func NackErrorFrom(f *Frame) *NackError {
	return &NackError{Nack: f.Command, Reason: Reason(f.Data[0]), Command: Command(f.Data[1])}
}
