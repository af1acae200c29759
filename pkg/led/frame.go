package led

const (
	// FrameHeader is the fixed 3-bit header of the brightness byte.
	FrameHeader uint8 = 0xe0
	// BrightnessMask selects the 5-bit brightness.
	BrightnessMask uint8 = 0x1f
	// FrameSize is the encoded size of one LED record.
	FrameSize = 4
)

// Frame is the transmit-ready state of one LED.
type Frame struct {
	Brightness uint8
	Blue       uint8
	Green      uint8
	Red        uint8
}

// NewFrame packs brightness with the header and the colour.
func NewFrame(brightness uint8, c Colour) Frame {
	return Frame{
		Brightness: brightness | FrameHeader,
		Blue:       c.B,
		Green:      c.G,
		Red:        c.R,
	}
}

// Level returns the 5-bit brightness.
func (f Frame) Level() uint8 {
	return f.Brightness & BrightnessMask
}

// Colour returns the colour channels.
func (f Frame) Colour() Colour {
	return Colour{R: f.Red, G: f.Green, B: f.Blue}
}

// Bytes encodes the record as brightness, blue, green, red.
func (f Frame) Bytes() [FrameSize]byte {
	return [FrameSize]byte{f.Brightness | FrameHeader, f.Blue, f.Green, f.Red}
}
