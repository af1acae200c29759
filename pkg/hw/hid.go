package hw

import (
	"io"
	"os"
	"sync"
)

// ReportSize is the size of a boot keyboard report.
const ReportSize = 8

// DefaultHIDPath is the HID gadget device of the keyboard function.
const DefaultHIDPath = "/dev/hidg0"

// HIDKeyboard writes boot keyboard reports. A report is only written
// when the set of keys changes.
type HIDKeyboard struct {
	Writer io.Writer

	last    []byte
	written bool
	lock    sync.Mutex
}

// NewHIDKeyboard creates a HIDKeyboard.
func NewHIDKeyboard(w io.Writer) *HIDKeyboard {
	return &HIDKeyboard{Writer: w}
}

// OpenHIDKeyboard opens a HID gadget device.
func OpenHIDKeyboard(path string) (*HIDKeyboard, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	return NewHIDKeyboard(f), nil
}

// Report builds the report of up to 6 scancodes, extra ones are dropped.
func Report(keys []byte) [ReportSize]byte {
	var r [ReportSize]byte
	copy(r[2:], keys)
	return r
}

// WriteKeys implements keypad.Keyboard.
func (k *HIDKeyboard) WriteKeys(keys []byte) error {
	k.lock.Lock()
	defer k.lock.Unlock()
	if k.written && string(k.last) == string(keys) {
		return nil
	}
	r := Report(keys)
	if _, err := k.Writer.Write(r[:]); err != nil {
		return err
	}
	k.last, k.written = append(k.last[:0], keys...), true
	return nil
}

// Close implements io.Closer.
func (k *HIDKeyboard) Close() error {
	if closer, ok := k.Writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
