package comm

import (
	"context"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/keypad.go/pkg/framework"
)

// Server answers requests received from a PacketReadWriter.
type Server struct {
	Name       string
	ReadWriter PacketReadWriter
	Dispatcher *Dispatcher
	// OnReset is called after a DeviceReset request is acknowledged.
	OnReset func()
}

// NewServer creates a Server.
func NewServer(name string, rw PacketReadWriter, d *Dispatcher) *Server {
	return &Server{Name: name, ReadWriter: rw, Dispatcher: d}
}

// Run implements Runnable. It returns ErrDeviceReset after a reset
// request, otherwise the error of the channel.
func (s *Server) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, s, s.serve)
}

func (s *Server) serve() error {
	for {
		pkt, err := s.ReadWriter.ReadPacket()
		if err != nil {
			return err
		}
		reply, reset := s.Dispatcher.Handle(pkt)
		if err := s.ReadWriter.WritePacket(reply.Bytes()); err != nil {
			return err
		}
		if reset {
			glog.Infof("%s: device reset requested", s.Name)
			if s.OnReset != nil {
				s.OnReset()
			}
			return ErrDeviceReset
		}
	}
}

// Close implements io.Closer.
func (s *Server) Close() error {
	if closer, ok := s.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(loop *fx.Loop) {
	if adder, ok := s.ReadWriter.(fx.LoopAdder); ok {
		loop.Add(adder)
	} else if runnable, ok := s.ReadWriter.(fx.Runnable); ok {
		loop.AddRunnable(runnable)
	}
	loop.AddRunnable(fx.NamedRun(s.Name, s))
}
