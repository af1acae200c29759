package led

// Controller drives one LED with a queue per button state.
type Controller struct {
	queues [NumButtonStates]Queue
	state  ButtonState
	lock   ButtonState
	locked bool
	frame  Frame
}

// Queue returns the queue of a state.
func (c *Controller) Queue(s ButtonState) *Queue {
	return &c.queues[s%NumButtonStates]
}

// AddState inserts a transition into the queue of a state.
func (c *Controller) AddState(slot int, t Transition, s ButtonState) {
	c.Queue(s).Insert(slot, t)
}

// RemoveState resets a slot in the queue of a state.
func (c *Controller) RemoveState(slot int, s ButtonState) {
	c.Queue(s).Remove(slot)
}

// Clear wipes the queues of the states.
func (c *Controller) Clear(states ...ButtonState) {
	for _, s := range states {
		c.Queue(s).Clear()
	}
}

// Lock pins rendering to the queue of a state.
func (c *Controller) Lock(s ButtonState) {
	c.lock, c.locked = s%NumButtonStates, true
}

// Unlock removes the lock.
func (c *Controller) Unlock() {
	c.locked = false
}

// Locked returns the pinned state if locked.
func (c *Controller) Locked() (ButtonState, bool) {
	return c.lock, c.locked
}

// ButtonState returns the current button state.
func (c *Controller) ButtonState() ButtonState {
	return c.state
}

// SetButtonState switches to the queue of a new state, restarting it.
// It does nothing while locked or when the state is unchanged.
func (c *Controller) SetButtonState(s ButtonState) {
	s %= NumButtonStates
	if c.locked || s == c.state {
		return
	}
	c.state = s
	c.Queue(c.state).Restart()
}

// Governing returns the state whose queue is rendered.
func (c *Controller) Governing() ButtonState {
	if c.locked {
		return c.lock
	}
	return c.state
}

// Render ticks the governing queue. The previous frame is kept on a
// tick where the queue moves to another slot.
func (c *Controller) Render() Frame {
	if f, ok := c.Queue(c.Governing()).Tick(); ok {
		c.frame = f
	}
	return c.frame
}

// Frame returns the last rendered frame.
func (c *Controller) Frame() Frame {
	return c.frame
}
