package websocket

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/keypad.go/pkg/comm"
	fx "github.com/robotalks/keypad.go/pkg/framework"
)

// DefaultPath is where the keypad accepts websocket connections.
const DefaultPath = "/keypad"

// Listener serves every websocket connection with its own comm.Server
// sharing one Dispatcher.
type Listener struct {
	Addr       string
	Path       string
	Dispatcher *comm.Dispatcher

	ctx     context.Context
	resetCh chan struct{}
	once    sync.Once
	addrCh  chan net.Addr
}

// NewListener creates a Listener.
func NewListener(addr string, d *comm.Dispatcher) *Listener {
	return &Listener{
		Addr:       addr,
		Path:       DefaultPath,
		Dispatcher: d,
		resetCh:    make(chan struct{}),
		addrCh:     make(chan net.Addr, 1),
	}
}

// Handler returns the http.Handler accepting connections.
func (l *Listener) Handler() http.Handler {
	return websocket.Handler(l.serveConn)
}

// BoundAddr waits for the listening address, useful with port 0.
func (l *Listener) BoundAddr() net.Addr {
	addr := <-l.addrCh
	l.addrCh <- addr
	return addr
}

// Run implements Runnable. It returns comm.ErrDeviceReset after any
// connection requested a reset.
func (l *Listener) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.Addr)
	if err != nil {
		return err
	}
	l.addrCh <- ln.Addr()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	l.ctx = ctx

	path := l.Path
	if path == "" {
		path = DefaultPath
	}
	mux := http.NewServeMux()
	mux.Handle(path, l.Handler())
	srv := &http.Server{Handler: mux}
	glog.Infof("websocket listening on %s%s", ln.Addr(), path)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	select {
	case err = <-errCh:
		return err
	case <-l.resetCh:
		err = comm.ErrDeviceReset
	case <-ctx.Done():
		err = ctx.Err()
	}
	srv.Close()
	<-errCh
	return err
}

// AddToLoop implements LoopAdder.
func (l *Listener) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(fx.NamedRun("websocket", l))
}

func (l *Listener) serveConn(conn *websocket.Conn) {
	conn.PayloadType = websocket.BinaryFrame
	ctx := l.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	name := "ws:" + conn.Request().RemoteAddr
	glog.V(2).Infof("%s connected", name)
	err := comm.NewServer(name, New(conn), l.Dispatcher).Run(ctx)
	if errors.Is(err, comm.ErrDeviceReset) {
		l.once.Do(func() { close(l.resetCh) })
	}
	glog.V(2).Infof("%s disconnected: %v", name, err)
}
