package device

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/keypad.go/pkg/cli/sh"
	"github.com/robotalks/keypad.go/pkg/comm"
)

var (
	// PingCmd checks the keypad answers.
	PingCmd = ishell.Cmd{
		Name: "ping",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoRequest(c, comm.Ping())
		}),
	}

	// SyncCmd sends a SyncRequest.
	SyncCmd = ishell.Cmd{
		Name: "sync",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoRequest(c, comm.Sync())
		}),
	}

	// ResetCmd restarts the keypad.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoRequest(c, comm.Reset())
		}),
	}

	// KeyboardCmd switches keyboard input.
	KeyboardCmd = ishell.Cmd{
		Name:    "keyboard",
		Aliases: []string{"kbd"},
		Help:    "on|off",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("on|off required"))
				return
			}
			switch strings.ToLower(c.Args[0]) {
			case "on", "enable", "1":
				sh.DoRequest(c, comm.KeyboardInput(true))
			case "off", "disable", "0":
				sh.DoRequest(c, comm.KeyboardInput(false))
			default:
				c.Err(fmt.Errorf("invalid switch %q", c.Args[0]))
			}
		}),
	}

	// RawCmd sends a raw frame, the end byte is appended when missing.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "HEX...",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			data, err := hex.DecodeString(strings.Join(c.Args, ""))
			if err != nil {
				c.Err(fmt.Errorf("invalid hex: %v", err))
				return
			}
			if len(data) == 0 {
				c.Err(fmt.Errorf("HEX required"))
				return
			}
			f := comm.NewFrame(comm.Command(data[0]), data[1:]...)
			if len(data) == comm.FrameSize {
				f.End = comm.Command(data[comm.FrameSize-1])
			}
			sh.SendFrame(c, f)
		}),
	}
)

func init() {
	sh.AddCmds(
		&PingCmd,
		&SyncCmd,
		&ResetCmd,
		&KeyboardCmd,
		&RawCmd,
	)
}
