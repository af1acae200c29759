// Package hw binds the board to real or simulated hardware.
package hw

import (
	"io"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Defaults of the keypad wiring.
const (
	ExpanderAddr     uint16 = 0x20
	InputPortReg     byte   = 1
	DefaultSPISpeed         = 4 * physic.MegaHertz
	DefaultBusName          = ""
	DefaultPortName         = ""
)

// Init loads the host drivers.
func Init() error {
	_, err := host.Init()
	return errors.Wrap(err, "host init")
}

// I2CInput reads the button matrix from an I/O expander.
type I2CInput struct {
	Dev *i2c.Dev

	closer io.Closer
}

// NewI2CInput creates an I2CInput on an opened bus.
func NewI2CInput(bus i2c.Bus, addr uint16) *I2CInput {
	return &I2CInput{Dev: &i2c.Dev{Addr: addr, Bus: bus}}
}

// OpenI2CInput opens the I2C bus by name, "" for the first one.
func OpenI2CInput(busName string, addr uint16) (*I2CInput, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c %q", busName)
	}
	in := NewI2CInput(bus, addr)
	in.closer = bus
	return in, nil
}

// ReadButtons implements board.Input. The value is the raw active-low
// port state, port 0 in the low byte.
func (in *I2CInput) ReadButtons() (uint16, error) {
	var r [2]byte
	if err := in.Dev.Tx([]byte{InputPortReg}, r[:]); err != nil {
		return 0, err
	}
	return uint16(r[0]) | uint16(r[1])<<8, nil
}

// Close implements io.Closer.
func (in *I2CInput) Close() error {
	if in.closer != nil {
		return in.closer.Close()
	}
	return nil
}

// SPIOutput writes LED packets to an SPI connection, one transaction
// per Write.
type SPIOutput struct {
	Conn spi.Conn

	closer io.Closer
}

// NewSPIOutput connects an SPI port in mode 0 with 8 bit words.
func NewSPIOutput(port spi.Port, speed physic.Frequency) (*SPIOutput, error) {
	conn, err := port.Connect(speed, spi.Mode0, 8)
	if err != nil {
		return nil, errors.Wrap(err, "spi connect")
	}
	return &SPIOutput{Conn: conn}, nil
}

// OpenSPIOutput opens the SPI port by name, "" for the first one.
func OpenSPIOutput(portName string, speed physic.Frequency) (*SPIOutput, error) {
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, errors.Wrapf(err, "open spi %q", portName)
	}
	out, err := NewSPIOutput(port, speed)
	if err != nil {
		port.Close()
		return nil, err
	}
	out.closer = port
	return out, nil
}

// Write implements io.Writer.
func (out *SPIOutput) Write(p []byte) (int, error) {
	if err := out.Conn.Tx(p, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close implements io.Closer.
func (out *SPIOutput) Close() error {
	if out.closer != nil {
		return out.closer.Close()
	}
	return nil
}
