package led

// NumSlots is the number of transition slots in a Queue.
const NumSlots = 16

// Queue is a fixed array of transition slots with a cursor. The cursor
// is moved by the Next index of the finished transition, so the slots
// form a graph rather than a list.
// The zero value is an inert queue where every slot forwards to the next.
type Queue struct {
	slots   [NumSlots]Transition
	set     [NumSlots]bool
	cursor  int
	counter int
}

// SlotIndex maps any index into [0, NumSlots).
func SlotIndex(i int) int {
	return int(uint(i) % NumSlots)
}

// Slot returns the transition in a slot.
func (q *Queue) Slot(slot int) Transition {
	slot = SlotIndex(slot)
	if !q.set[slot] {
		return Forward(uint8(slot+1) % NumSlots)
	}
	return q.slots[slot]
}

// Insert overwrites a slot.
func (q *Queue) Insert(slot int, t Transition) {
	slot = SlotIndex(slot)
	q.slots[slot], q.set[slot] = t, true
}

// Remove resets a slot to forward to the next slot.
func (q *Queue) Remove(slot int) {
	slot = SlotIndex(slot)
	q.slots[slot], q.set[slot] = Transition{}, false
}

// Clear removes all slots and restarts.
func (q *Queue) Clear() {
	*q = Queue{}
}

// Advance moves the cursor and resets the counter.
func (q *Queue) Advance(to int) {
	q.cursor, q.counter = SlotIndex(to), 0
}

// Restart moves the cursor to slot 0 and resets the counter.
func (q *Queue) Restart() {
	q.Advance(0)
}

// Cursor returns the current slot.
func (q *Queue) Cursor() int {
	return q.cursor
}

// Counter returns the ticks elapsed in the current slot.
func (q *Queue) Counter() int {
	return q.counter
}

// Tick evaluates the current slot. It returns false when the slot
// finished, in which case the cursor moved and the next slot is
// evaluated on the following tick.
func (q *Queue) Tick() (Frame, bool) {
	res := q.Slot(q.cursor).Eval(q.counter)
	if res.Finished {
		q.Advance(int(res.Next))
		return Frame{}, false
	}
	q.counter++
	return res.Frame, true
}
