package stream

// TimerAction defines what to do with the gap timer.
type TimerAction int

const (
	// TimerNoChange indicates keep the timer as-is.
	TimerNoChange TimerAction = iota
	// TimerRestart to restart the timer.
	TimerRestart
	// TimerStop to stop/cancel the timer.
	TimerStop
)

// Framer cuts a byte stream into fixed size packets. A packet
// which is not complete when the gap timer expires is flushed short,
// so the receiver can answer it with a length error instead of
// staying out of step with the sender forever.
type Framer struct {
	Size int

	buf []byte
}

// NewFramer creates a Framer producing packets of size bytes.
func NewFramer(size int) *Framer {
	return &Framer{Size: size}
}

// Pending returns the number of bytes received for the next packet.
func (f *Framer) Pending() int {
	return len(f.buf)
}

// Parse consumes one byte. A packet is returned once Size bytes are
// accumulated.
func (f *Framer) Parse(b byte) (pkt []byte, action TimerAction) {
	f.buf = append(f.buf, b)
	if len(f.buf) < f.Size {
		return nil, TimerRestart
	}
	pkt, f.buf = f.buf, nil
	return pkt, TimerStop
}

// Timeout notifies the framer the gap timer expires. The partial
// packet is returned, if any.
func (f *Framer) Timeout() []byte {
	if len(f.buf) == 0 {
		return nil
	}
	pkt := f.buf
	f.buf = nil
	return pkt
}

// Reset drops partially received bytes.
func (f *Framer) Reset() {
	f.buf = nil
}
