// Package keypad runs a board: the refresh loop rendering LEDs, the
// poll loop reading buttons and the protocol servers mutating states.
// All of them share the board through the Device lock.
package keypad

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/keypad.go/pkg/board"
	"github.com/robotalks/keypad.go/pkg/comm"
	fx "github.com/robotalks/keypad.go/pkg/framework"
	"github.com/robotalks/keypad.go/pkg/msgs"
)

// Default intervals.
const (
	DefaultRefreshInterval = time.Millisecond
	DefaultPollInterval    = 10 * time.Millisecond
)

// Keyboard receives the scancodes of pressed keys after every poll.
type Keyboard interface {
	WriteKeys(keys []byte) error
}

// StatusPublisher receives status events when the board changes.
type StatusPublisher interface {
	PublishStatus(*msgs.KeypadStatus) error
}

// Device owns a Board.
type Device struct {
	ID              string
	Board           *board.Board
	Keyboard        Keyboard
	Publishers      []StatusPublisher
	RefreshInterval time.Duration
	PollInterval    time.Duration

	lock    sync.Mutex
	faultCh chan error
}

// New creates a Device.
func New(id string, b *board.Board) *Device {
	return &Device{
		ID:              id,
		Board:           b,
		RefreshInterval: DefaultRefreshInterval,
		PollInterval:    DefaultPollInterval,
		faultCh:         make(chan error, 1),
	}
}

// Lock implements sync.Locker.
func (d *Device) Lock() { d.lock.Lock() }

// Unlock implements sync.Locker.
func (d *Device) Unlock() { d.lock.Unlock() }

// Do runs fn with the board locked.
func (d *Device) Do(fn func(*board.Board) error) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	return fn(d.Board)
}

// Status takes a snapshot of the board.
func (d *Device) Status() board.Status {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.Board.Status()
}

// Dispatcher creates a protocol Dispatcher applying requests under the
// Device lock.
func (d *Device) Dispatcher() *comm.Dispatcher {
	return comm.NewDispatcher(d.Board, d)
}

// AddPublisher registers a StatusPublisher.
func (d *Device) AddPublisher(p StatusPublisher) *Device {
	d.Publishers = append(d.Publishers, p)
	return d
}

// RefreshLoop creates the loop rendering the LEDs.
func (d *Device) RefreshLoop() *fx.Loop {
	return fx.NewLoop("refresh", d.RefreshInterval).
		AddController(fx.PrLvAcuate, fx.ControlFunc(d.refresh))
}

// PollLoop creates the loop reading the buttons. It stops with the
// first bus fault of either loop.
func (d *Device) PollLoop() *fx.Loop {
	l := fx.NewLoop("poll", d.PollInterval)
	l.AddRunnable(fx.NamedRun("faults", fx.RunnableFunc(d.watchFaults)))
	l.AddController(fx.PrLvSense, fx.ControlFunc(d.sense))
	l.AddController(fx.PrLvAcuate, fx.ControlFunc(d.acuate))
	l.AddController(fx.PrLvPostProc, &statusNotifier{device: d})
	return l
}

func (d *Device) fault(err error) {
	select {
	case d.faultCh <- err:
	default:
	}
}

func (d *Device) watchFaults(ctx context.Context) error {
	select {
	case err := <-d.faultCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Device) refresh(cc fx.ControlContext) error {
	d.lock.Lock()
	err := d.Board.Refresh()
	d.lock.Unlock()
	if err != nil {
		d.fault(err)
	}
	return err
}

type keysMsg struct {
	keys []byte
}

type statusMsg struct {
	status board.Status
}

func (d *Device) sense(cc fx.ControlContext) error {
	d.lock.Lock()
	keys, err := d.Board.Poll()
	status := d.Board.Status()
	d.lock.Unlock()
	if err != nil {
		d.fault(err)
		return err
	}
	cc.Messages().AddMessages(&keysMsg{keys: keys}, &statusMsg{status: status})
	return nil
}

func (d *Device) acuate(cc fx.ControlContext) (err error) {
	cc.Messages().ProcessMessages(func(msg fx.Message) bool {
		m, ok := msg.(*keysMsg)
		if !ok {
			return false
		}
		if d.Keyboard != nil {
			if err = d.Keyboard.WriteKeys(m.keys); err != nil {
				glog.Warningf("write keys: %v", err)
			}
		}
		return true
	})
	return
}

type statusNotifier struct {
	device  *Device
	last    board.Status
	hasLast bool
}

// Control implements Controller.
func (n *statusNotifier) Control(cc fx.ControlContext) error {
	var changed *board.Status
	cc.Messages().ProcessMessages(func(msg fx.Message) bool {
		m, ok := msg.(*statusMsg)
		if !ok {
			return false
		}
		if !n.hasLast || m.status != n.last {
			n.last, n.hasLast = m.status, true
			st := m.status
			changed = &st
		}
		return true
	})
	if changed == nil {
		return nil
	}
	var errs fx.AggregatedError
	ev := msgs.StatusFrom(n.device.ID, *changed)
	for _, p := range n.device.Publishers {
		errs.Add(p.PublishStatus(ev))
	}
	return errs.Aggregate()
}
