// Package framework runs the periodic tasks of the keypad: loops of
// controllers ticking at a fixed interval and background runners.
package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// RunnableFunc is the func form of Runnable.
type RunnableFunc func(context.Context) error

// Run implements Runnable.
func (f RunnableFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Message is passed between controllers of the same loop.
type Message interface{}

// Controller defines the abstract controlling logic run on every tick.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc defines the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(ctx ControlContext) error {
	return f(ctx)
}

// ControlContext provides the context of current tick.
type ControlContext interface {
	// Context retrieves context.Context.
	Context() context.Context
	// Time is when the tick started.
	Time() time.Time
	// PriorityLevel gets the current priority level.
	PriorityLevel() int
	// Messages retrieves the messages posted before this tick
	// and by controllers of higher priority in this tick.
	Messages() MessageStore

	LoopControl
}

// PriorityLevels is the total levels of priorities.
const PriorityLevels int = 16

// Predefine priority levels
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1

	// PrLvSense is the alias of priority level for reading inputs.
	PrLvSense = PrLvHigh
	// PrLvControl is the alias of priority level for controllers.
	PrLvControl = PrLvNormal
	// PrLvAcuate is the alias of priority level for writing outputs.
	PrLvAcuate = PrLvLow
	// PrLvPostProc is the alias of priority level for post-processing.
	PrLvPostProc = PrLvIdle - 1
)

// LoopControl exposes access to the controlling loop.
type LoopControl interface {
	// PostMessage enqueues the message for the next tick.
	PostMessage(Message)
	// TriggerNext schedules the next tick to be executed
	// immediately after the current one.
	TriggerNext()
}

// MessageStore provides access to the messages of a tick.
type MessageStore interface {
	// ProcessMessages calls fn for every message, messages for which
	// fn returns true are removed.
	ProcessMessages(fn func(Message) bool)
	// AddMessages appends messages for lower priority controllers.
	AddMessages(msgs ...Message)
}
