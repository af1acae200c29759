package comm

import (
	"context"
	"sync"
	"time"

	fx "github.com/robotalks/keypad.go/pkg/framework"
)

// DefaultTimeout is how long a Client waits for a reply.
const DefaultTimeout = time.Second

// Client sends requests to a keypad, one at a time.
type Client struct {
	ReadWriter PacketReadWriter
	Timeout    time.Duration

	replyCh chan []byte
	lock    sync.Mutex
}

// NewClient creates a Client. Run must be running to receive replies.
func NewClient(rw PacketReadWriter) *Client {
	return &Client{
		ReadWriter: rw,
		Timeout:    DefaultTimeout,
		replyCh:    make(chan []byte, 1),
	}
}

// Run implements Runnable, it receives replies.
func (c *Client) Run(ctx context.Context) error {
	return fx.RunWithContext(ctx, func() error {
		for {
			pkt, err := c.ReadWriter.ReadPacket()
			if err != nil {
				return err
			}
			select {
			case c.replyCh <- pkt:
			default:
				// nobody waits, drop late replies.
			}
		}
	})
}

// Do sends a request and waits for the Ack.
func (c *Client) Do(ctx context.Context, req *Request) (*Frame, error) {
	f, err := req.Encode()
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, f)
}

// Send sends a frame and waits for the reply. A NACK is returned as
// *NackError.
func (c *Client) Send(ctx context.Context, f *Frame) (*Frame, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	select {
	case <-c.replyCh:
	default:
	}
	if err := c.ReadWriter.WritePacket(f.Bytes()); err != nil {
		return nil, err
	}
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	select {
	case pkt := <-c.replyCh:
		reply, err := ParseFrame(pkt)
		if err != nil {
			return nil, err
		}
		switch {
		case reply.Command == CmdAck:
			return reply, nil
		case reply.Command.IsNack():
			return reply, NackErrorFrom(reply)
		}
		return reply, ErrUnexpectedReply
	case <-time.After(timeout):
		return nil, ErrNoReply
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AddToLoop implements LoopAdder.
func (c *Client) AddToLoop(loop *fx.Loop) {
	if adder, ok := c.ReadWriter.(fx.LoopAdder); ok {
		loop.Add(adder)
	} else if runnable, ok := c.ReadWriter.(fx.Runnable); ok {
		loop.AddRunnable(runnable)
	}
	loop.AddRunnable(c)
}
