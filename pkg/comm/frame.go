package comm

import (
	"fmt"
	"io"
)

const (
	// FrameSize is the size of every frame.
	FrameSize = 10
	// PayloadSize is the size of the payload.
	PayloadSize = 8
)

// Frame is a protocol unit.
type Frame struct {
	Command Command
	Data    [PayloadSize]byte
	End     Command
}

// NewFrame creates a terminated frame, data beyond the payload is dropped.
func NewFrame(cmd Command, data ...byte) *Frame {
	f := &Frame{Command: cmd, End: CmdEndOfStream}
	copy(f.Data[:], data)
	return f
}

// ParseFrame checks length and terminator of a received packet.
// The command is not validated.
func ParseFrame(pkt []byte) (*Frame, error) {
	if len(pkt) != FrameSize {
		return nil, newParseError(ReasonInvalidMessageLength, pkt)
	}
	if Command(pkt[FrameSize-1]) != CmdEndOfStream {
		return nil, newParseError(ReasonInvalidEndByte, pkt)
	}
	f := &Frame{Command: Command(pkt[0]), End: Command(pkt[FrameSize-1])}
	copy(f.Data[:], pkt[1:])
	return f, nil
}

// AckFrame acknowledges a request: [ack][command, data0..data6][end].
func AckFrame(req *Frame) *Frame {
	f := NewFrame(CmdAck, byte(req.Command))
	copy(f.Data[1:], req.Data[:])
	return f
}

// Bytes returns encoded bytes for sending.
func (f *Frame) Bytes() []byte {
	b := make([]byte, FrameSize)
	b[0] = byte(f.Command)
	copy(b[1:], f.Data[:])
	b[FrameSize-1] = byte(f.End)
	return b
}

// WriteTo implements io.WriterTo.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}

// String implements fmt.Stringer.
func (f *Frame) String() string {
	return fmt.Sprintf("%s[% x]", f.Command, f.Data[:])
}
