package board

import (
	"fmt"

	"github.com/robotalks/keypad.go/pkg/anim"
	"github.com/robotalks/keypad.go/pkg/led"
)

// ActionKind enumerates the things a button callback can do.
type ActionKind int

// Action kinds.
const (
	ActionClearAll ActionKind = iota
	ActionLockAll
	ActionUnlockAll
	ActionEnableKeyboard
	ActionDisableKeyboard
	ActionAnimate
	ActionArmPress
	ActionArmRelease
)

var actionNames = map[ActionKind]string{
	ActionClearAll:        "clear-all",
	ActionLockAll:         "lock-all",
	ActionUnlockAll:       "unlock-all",
	ActionEnableKeyboard:  "enable-keyboard",
	ActionDisableKeyboard: "disable-keyboard",
	ActionAnimate:         "animate",
	ActionArmPress:        "arm-press",
	ActionArmRelease:      "arm-release",
}

// String implements fmt.Stringer.
func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// Action is a board mutation run by a callback. Fields other than
// Kind are used by the kinds that need them.
type Action struct {
	Kind ActionKind
	// State for ActionLockAll.
	State led.ButtonState
	// Preset and Params for ActionAnimate.
	Preset string
	Params anim.Params
	// Button and Callback for ActionArmPress/ActionArmRelease.
	Button   int
	Callback *Callback
}

// Callback is armed on a button edge. It is removed after firing
// unless Keep is set.
type Callback struct {
	Actions []Action
	Keep    bool
	// Fired counts the edges the callback fired on.
	Fired int
}

// Do creates a one-shot Callback.
func Do(actions ...Action) *Callback {
	return &Callback{Actions: actions}
}

// Animate creates an ActionAnimate.
func Animate(preset string, params anim.Params) Action {
	return Action{Kind: ActionAnimate, Preset: preset, Params: params}
}

// LockAll creates an ActionLockAll.
func LockAll(state led.ButtonState) Action {
	return Action{Kind: ActionLockAll, State: state}
}

// Apply runs an action against the board.
func (b *Board) Apply(a Action) error {
	switch a.Kind {
	case ActionClearAll:
		b.Strip.ClearAll()
	case ActionLockAll:
		b.Strip.LockAll(a.State)
	case ActionUnlockAll:
		b.Strip.UnlockAll()
	case ActionEnableKeyboard:
		b.keyboardEnabled = true
	case ActionDisableKeyboard:
		b.keyboardEnabled = false
	case ActionAnimate:
		return anim.Apply(b.Strip, a.Preset, a.Params)
	case ActionArmPress:
		b.OnPress(a.Button, a.Callback)
	case ActionArmRelease:
		b.OnRelease(a.Button, a.Callback)
	default:
		return fmt.Errorf("unknown action %s", a.Kind)
	}
	return nil
}
