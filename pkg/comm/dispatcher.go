package comm

import (
	"sync"

	"github.com/golang/glog"
)

// Dispatcher validates frames and applies requests to a Target.
type Dispatcher struct {
	Target Target
	// Locker guards Target, it is held only while a request is applied.
	Locker sync.Locker
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(t Target, l sync.Locker) *Dispatcher {
	return &Dispatcher{Target: t, Locker: l}
}

// Handle processes one received packet and returns the reply. reset is
// true when the peer asked for a device reset.
func (d *Dispatcher) Handle(pkt []byte) (reply *Frame, reset bool) {
	f, err := ParseFrame(pkt)
	if err != nil {
		glog.V(2).Infof("reject % x: %v", pkt, err)
		return err.(*ParseError).Reply(), false
	}
	return d.Dispatch(f)
}

// Dispatch decodes and applies a parsed frame.
func (d *Dispatcher) Dispatch(f *Frame) (reply *Frame, reset bool) {
	req, err := DecodeRequest(f)
	if err != nil {
		glog.V(2).Infof("reject %s: %v", f, err)
		return err.(*ParseError).Reply(), false
	}
	glog.V(2).Infof("request %s", f)
	if req.Mutates() {
		if d.Locker != nil {
			d.Locker.Lock()
		}
		req.Apply(d.Target)
		if d.Locker != nil {
			d.Locker.Unlock()
		}
	}
	return AckFrame(f), req.Command == CmdDeviceReset
}
