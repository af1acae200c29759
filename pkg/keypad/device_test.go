package keypad

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/keypad.go/pkg/board"
	"github.com/robotalks/keypad.go/pkg/comm"
	"github.com/robotalks/keypad.go/pkg/hw"
	"github.com/robotalks/keypad.go/pkg/led"
	"github.com/robotalks/keypad.go/pkg/msgs"
)

type recordingKeyboard struct {
	reports [][]byte
}

func (k *recordingKeyboard) WriteKeys(keys []byte) error {
	k.reports = append(k.reports, append([]byte(nil), keys...))
	return nil
}

type recordingPublisher struct {
	events []*msgs.KeypadStatus
}

func (p *recordingPublisher) PublishStatus(st *msgs.KeypadStatus) error {
	p.events = append(p.events, st)
	return nil
}

type faultyInput struct{}

func (faultyInput) ReadButtons() (uint16, error) { return 0, errors.New("nak") }

type faultyWriter struct{}

func (faultyWriter) Write([]byte) (int, error) { return 0, errors.New("spi gone") }

func newTestDevice(input board.Input) (*Device, *bytes.Buffer, *recordingKeyboard, *recordingPublisher) {
	var out bytes.Buffer
	d := New("pad0", board.New(input, led.NewStrip(&out)))
	kbd, pub := &recordingKeyboard{}, &recordingPublisher{}
	d.Keyboard = kbd
	d.AddPublisher(pub)
	return d, &out, kbd, pub
}

func TestPollLoopReportsKeysAndStatus(t *testing.T) {
	var in hw.SimInput
	d, _, kbd, pub := newTestDevice(&in)
	d.Board.EnableKeyboardInput(true)
	loop := d.PollLoop()
	ctx := context.Background()

	loop.RunIteration(ctx)
	require.Equal(t, [][]byte{nil}, kbd.reports)
	require.Len(t, pub.events, 1)

	in.Press(3)
	loop.RunIteration(ctx)
	require.Equal(t, []byte{byte(board.LEDIndex(3) + board.ScancodeBase)}, kbd.reports[1])
	require.Len(t, pub.events, 2)
	require.True(t, pub.events[1].IsPressed(3))
	require.Equal(t, led.Pressed, pub.events[1].State(board.LEDIndex(3)))

	// Held differs from Pressed, then nothing changes.
	loop.RunIteration(ctx)
	loop.RunIteration(ctx)
	require.Len(t, pub.events, 3)
	require.Equal(t, led.Held, pub.events[2].State(board.LEDIndex(3)))
	require.Equal(t, "pad0", pub.events[2].ID)
	require.Len(t, kbd.reports, 4)
}

func TestRefreshLoopWritesPacket(t *testing.T) {
	var in hw.SimInput
	d, out, _, _ := newTestDevice(&in)
	d.Board.Strip.Full(0x1f, led.RGB(1, 2, 3))
	d.RefreshLoop().RunIteration(context.Background())
	require.Equal(t, led.PacketSize, out.Len())
}

func TestBusFaultStopsPollLoop(t *testing.T) {
	d, _, _, _ := newTestDevice(faultyInput{})
	err := d.PollLoop().Run(context.Background())
	require.Error(t, err)
	require.True(t, board.IsBusFault(err))

	var in hw.SimInput
	d, _, _, _ = newTestDevice(&in)
	d.Board.Strip.Writer = faultyWriter{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.RefreshLoop().Run(ctx)
	select {
	case err = <-runLoop(ctx, d):
		require.True(t, board.IsBusFault(err))
	case <-time.After(time.Second):
		t.Fatal("refresh fault not reported")
	}
}

func runLoop(ctx context.Context, d *Device) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- d.PollLoop().Run(ctx) }()
	return ch
}

func TestDispatcherUsesDeviceLock(t *testing.T) {
	var in hw.SimInput
	d, _, _, _ := newTestDevice(&in)
	disp := d.Dispatcher()
	f, err := comm.Lock(4, led.Held).Encode()
	require.NoError(t, err)

	d.Lock()
	done := make(chan struct{})
	go func() {
		disp.Dispatch(f)
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("request applied while the device is locked")
	case <-time.After(20 * time.Millisecond):
	}
	d.Unlock()
	<-done
	st := d.Status()
	require.Equal(t, uint16(1<<4), st.Locked)
	require.NoError(t, d.Do(func(b *board.Board) error {
		b.UnlockAll()
		return nil
	}))
	require.Zero(t, d.Status().Locked)
}
