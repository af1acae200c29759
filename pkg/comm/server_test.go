package comm

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/keypad.go/pkg/led"
)

// testPipe is one end of an in-memory packet channel.
type testPipe struct {
	in     <-chan []byte
	out    chan<- []byte
	closed chan struct{}
	once   sync.Once
}

func newTestPipes() (*testPipe, *testPipe) {
	a, b := make(chan []byte, 4), make(chan []byte, 4)
	return &testPipe{in: a, out: b, closed: make(chan struct{})},
		&testPipe{in: b, out: a, closed: make(chan struct{})}
}

func (p *testPipe) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.in:
		return pkt, nil
	case <-p.closed:
		return nil, io.EOF
	}
}

func (p *testPipe) WritePacket(pkt []byte) error {
	select {
	case p.out <- append([]byte(nil), pkt...):
		return nil
	case <-p.closed:
		return io.ErrClosedPipe
	}
}

func (p *testPipe) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func TestServerRepliesAndResets(t *testing.T) {
	d, b, _ := newTestDispatcher(t)
	host, device := newTestPipes()
	srv := NewServer("test", device, d)
	var resetCalled bool
	srv.OnReset = func() { resetCalled = true }
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(context.Background()) }()

	require.NoError(t, host.WritePacket([]byte{0xfe, 0, 0, 0, 0, 0, 0, 0, 0}))
	reply, err := host.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0xf2, 3, 0xfe, 0, 0, 0, 0, 0, 0, 0x80}, reply)

	require.NoError(t, host.WritePacket(mustEncode(t, Lock(5, led.Held))))
	reply, err = host.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0xb3, 0x25, 0, 0, 0, 0, 0, 0, 0x80}, reply)

	require.NoError(t, host.WritePacket(mustEncode(t, Reset())))
	reply, err = host.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, byte(CmdAck), reply[0])

	select {
	case err = <-errCh:
		require.Equal(t, ErrDeviceReset, err)
	case <-time.After(time.Second):
		t.Fatal("server did not stop after reset")
	}
	require.True(t, resetCalled)
	state, locked := b.Strip.LED(5).Locked()
	require.True(t, locked)
	require.Equal(t, led.Held, state)
}

func TestServerCancel(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	_, device := newTestPipes()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- NewServer("test", device, d).Run(ctx) }()
	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("server did not stop")
	}
}

func TestClientServer(t *testing.T) {
	d, b, _ := newTestDispatcher(t)
	host, device := newTestPipes()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewServer("test", device, d).Run(ctx)
	client := NewClient(host)
	go client.Run(ctx)

	reply, err := client.Do(ctx, Ping())
	require.NoError(t, err)
	require.Equal(t, CmdAck, reply.Command)

	_, err = client.Do(ctx, KeyboardInput(true))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		d.Locker.Lock()
		defer d.Locker.Unlock()
		return b.KeyboardEnabled()
	}, time.Second, time.Millisecond)

	_, err = client.Send(ctx, NewFrame(CmdLockAllButtonStates, 0x70))
	require.Error(t, err)
	nack, ok := err.(*NackError)
	require.True(t, ok)
	require.Equal(t, CmdNackParseError, nack.Nack)
	require.Equal(t, ReasonInvalidButtonState, nack.Reason)
	require.Equal(t, CmdLockAllButtonStates, nack.Command)
}

func TestClientTimeout(t *testing.T) {
	host, _ := newTestPipes()
	client := NewClient(host)
	client.Timeout = 10 * time.Millisecond
	_, err := client.Do(context.Background(), Ping())
	require.Equal(t, ErrNoReply, err)
}
