// Package all registers all padctl commands.
package all

import (
	// command sets register themselves.
	_ "github.com/robotalks/keypad.go/pkg/cli/cmds/device"
	_ "github.com/robotalks/keypad.go/pkg/cli/cmds/leds"
)
