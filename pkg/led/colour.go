package led

import "fmt"

// Colour is an RGB colour with 8-bit channels.
type Colour struct {
	R uint8
	G uint8
	B uint8
}

// Predefined colours.
var (
	Black = Colour{}
	White = Colour{R: 0xff, G: 0xff, B: 0xff}
)

// RGB creates a Colour.
func RGB(r, g, b uint8) Colour {
	return Colour{R: r, G: g, B: b}
}

// Invert complements every channel.
func (c Colour) Invert() Colour {
	return Colour{R: ^c.R, G: ^c.G, B: ^c.B}
}

// String implements fmt.Stringer.
func (c Colour) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
