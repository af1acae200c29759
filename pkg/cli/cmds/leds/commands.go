package leds

import (
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/keypad.go/pkg/cli/sh"
	"github.com/robotalks/keypad.go/pkg/comm"
	"github.com/robotalks/keypad.go/pkg/led"
)

func isAll(s string) bool {
	return strings.EqualFold(s, "all") || s == "*"
}

var (
	// AddStateCmd installs a transition.
	AddStateCmd = ishell.Cmd{
		Name:    "add",
		Aliases: []string{"a"},
		Help:    "LED SLOT STATE KIND BRIGHTNESS COLOUR [DURATION [NEXT]]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 6 {
				c.Err(fmt.Errorf("LED SLOT STATE KIND BRIGHTNESS COLOUR required"))
				return
			}
			index, err := ParseIndex(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			slot, err := ParseIndex(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			state, err := led.ParseButtonState(c.Args[2])
			if err != nil {
				c.Err(err)
				return
			}
			t, err := ParseTransition(c.Args[3:])
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoRequest(c, comm.AddState(index, slot, state, t))
		}),
	}

	// RemoveStateCmd removes a transition.
	RemoveStateCmd = ishell.Cmd{
		Name:    "rm",
		Aliases: []string{"remove"},
		Help:    "LED SLOT STATE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("LED SLOT STATE required"))
				return
			}
			index, err := ParseIndex(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			slot, err := ParseIndex(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			state, err := led.ParseButtonState(c.Args[2])
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoRequest(c, comm.RemoveState(index, slot, state))
		}),
	}

	// ClearStatesCmd clears the queues of an LED.
	ClearStatesCmd = ishell.Cmd{
		Name: "clear",
		Help: "LED [STATE|all]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("LED required"))
				return
			}
			index, err := ParseIndex(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) < 2 || isAll(c.Args[1]) {
				sh.DoRequest(c, comm.ClearAllStates(index))
				return
			}
			state, err := led.ParseButtonState(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoRequest(c, comm.ClearStates(index, state))
		}),
	}

	// LockCmd pins LEDs to a state.
	LockCmd = ishell.Cmd{
		Name: "lock",
		Help: "LED|all STATE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("LED|all STATE required"))
				return
			}
			state, err := led.ParseButtonState(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			if isAll(c.Args[0]) {
				sh.DoRequest(c, comm.LockAll(state))
				return
			}
			index, err := ParseIndex(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoRequest(c, comm.Lock(index, state))
		}),
	}

	// UnlockCmd releases locked LEDs.
	UnlockCmd = ishell.Cmd{
		Name: "unlock",
		Help: "LED|all",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 || isAll(c.Args[0]) {
				sh.DoRequest(c, comm.UnlockAll())
				return
			}
			index, err := ParseIndex(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoRequest(c, comm.Unlock(index))
		}),
	}
)

func init() {
	sh.AddCmds(
		&AddStateCmd,
		&RemoveStateCmd,
		&ClearStatesCmd,
		&LockCmd,
		&UnlockCmd,
	)
}
