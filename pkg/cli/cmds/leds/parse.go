package leds

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/keypad.go/pkg/led"
)

// ParseIndex parses an LED or slot index in 0..15.
func ParseIndex(s string) (int, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil || v > 15 {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return int(v), nil
}

// ParseKind parses a transition kind name.
func ParseKind(s string) (led.Kind, error) {
	for _, k := range []led.Kind{led.KindSolid, led.KindFadeOut, led.KindFadeIn} {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("invalid kind %q", s)
}

// ParseColour parses #rrggbb, rrggbb or r,g,b.
func ParseColour(s string) (led.Colour, error) {
	if parts := strings.Split(s, ","); len(parts) == 3 {
		var ch [3]uint8
		for n, p := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 0, 8)
			if err != nil {
				return led.Black, fmt.Errorf("invalid colour %q", s)
			}
			ch[n] = uint8(v)
		}
		return led.RGB(ch[0], ch[1], ch[2]), nil
	}
	hex := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return led.Black, fmt.Errorf("invalid colour %q", s)
	}
	return led.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// ParseTransition parses KIND BRIGHTNESS COLOUR [DURATION [NEXT]].
func ParseTransition(args []string) (t led.Transition, err error) {
	if len(args) < 3 {
		return t, fmt.Errorf("KIND BRIGHTNESS COLOUR required")
	}
	if t.Kind, err = ParseKind(args[0]); err != nil {
		return
	}
	b, err := strconv.ParseUint(args[1], 0, 8)
	if err != nil || b > uint64(led.BrightnessMask) {
		return t, fmt.Errorf("invalid brightness %q", args[1])
	}
	t.Brightness = uint8(b)
	if t.Colour, err = ParseColour(args[2]); err != nil {
		return
	}
	if len(args) > 3 {
		d, err := strconv.ParseUint(args[3], 0, 16)
		if err != nil {
			return t, fmt.Errorf("invalid duration %q", args[3])
		}
		t.Duration = uint16(d)
	}
	if len(args) > 4 {
		next, err := ParseIndex(args[4])
		if err != nil {
			return t, err
		}
		t.Next = uint8(next)
	}
	return t, nil
}
