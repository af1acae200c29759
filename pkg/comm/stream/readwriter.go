// Package stream carries protocol frames over a raw byte stream,
// like the tty of a USB serial gadget.
package stream

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/keypad.go/pkg/comm"
)

// DefaultGapTimeout is the longest silence allowed inside a frame.
const DefaultGapTimeout = 50 * time.Millisecond

// ReadWriter implements comm.PacketReadWriter on an io.ReadWriter.
// Frames are not delimited on the wire, Run cuts them by size and
// flushes partial frames after GapTimeout of silence.
type ReadWriter struct {
	Stream     io.ReadWriter
	GapTimeout time.Duration

	framer  Framer
	pktCh   chan []byte
	errCh   chan error
	closeCh chan struct{}

	writeLock sync.Mutex
	closeOnce sync.Once
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{
		Stream:     s,
		GapTimeout: DefaultGapTimeout,
		framer:     Framer{Size: comm.FrameSize},
		pktCh:      make(chan []byte, 4),
		errCh:      make(chan error, 1),
		closeCh:    make(chan struct{}),
	}
}

// Open opens a tty device, e.g. /dev/ttyGS0.
func Open(path string) (*ReadWriter, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return New(f), nil
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.pktCh:
		return pkt, nil
	case err := <-p.errCh:
		// keep the error for subsequent readers.
		p.errCh <- err
		return nil, err
	case <-p.closeCh:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	p.writeLock.Lock()
	defer p.writeLock.Unlock()
	_, err := p.Stream.Write(pkt)
	return err
}

// Close implements io.Closer.
func (p *ReadWriter) Close() (err error) {
	p.closeOnce.Do(func() {
		close(p.closeCh)
		if closer, ok := p.Stream.(io.Closer); ok {
			err = closer.Close()
		}
	})
	return
}

// Run implements Runnable, it reads the stream and cuts frames.
func (p *ReadWriter) Run(ctx context.Context) error {
	byteCh, errCh := make(chan byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go p.readLoop(subCtx, byteCh, errCh)

	var gapTimer <-chan time.Time
	for {
		select {
		case b := <-byteCh:
			pkt, action := p.framer.Parse(b)
			switch action {
			case TimerRestart:
				gapTimer = time.After(p.gapTimeout())
			case TimerStop:
				gapTimer = nil
			}
			if pkt != nil && !p.deliver(ctx, pkt) {
				return ctx.Err()
			}
		case <-gapTimer:
			gapTimer = nil
			if pkt := p.framer.Timeout(); pkt != nil {
				glog.V(2).Infof("stream: flush %d bytes after gap", len(pkt))
				if !p.deliver(ctx, pkt) {
					return ctx.Err()
				}
			}
		case err := <-errCh:
			select {
			case p.errCh <- err:
			default:
			}
			return err
		case <-p.closeCh:
			return io.EOF
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *ReadWriter) deliver(ctx context.Context, pkt []byte) bool {
	select {
	case p.pktCh <- pkt:
		return true
	case <-p.closeCh:
		return true
	case <-ctx.Done():
		return false
	}
}

func (p *ReadWriter) gapTimeout() time.Duration {
	if p.GapTimeout == 0 {
		return DefaultGapTimeout
	}
	return p.GapTimeout
}

func (p *ReadWriter) readLoop(ctx context.Context, byteCh chan byte, errCh chan error) {
	buf := make([]byte, comm.FrameSize)
	for {
		n, err := p.Stream.Read(buf)
		for _, b := range buf[:n] {
			select {
			case byteCh <- b:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}
