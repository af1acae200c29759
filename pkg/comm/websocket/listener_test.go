package websocket

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/keypad.go/pkg/board"
	"github.com/robotalks/keypad.go/pkg/comm"
	"github.com/robotalks/keypad.go/pkg/led"
)

type idleInput struct{}

func (idleInput) ReadButtons() (uint16, error) { return 0xffff, nil }

func TestListenerServesConnections(t *testing.T) {
	b := board.New(idleInput{}, led.NewStrip(&bytes.Buffer{}))
	l := NewListener("127.0.0.1:0", comm.NewDispatcher(b, &sync.Mutex{}))
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()
	url := "ws://" + l.BoundAddr().String() + DefaultPath

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rw, err := Dial(url)
	require.NoError(t, err)
	client := comm.NewClient(rw)
	go client.Run(ctx)

	_, err = client.Do(ctx, comm.Lock(3, led.Pressed))
	require.NoError(t, err)
	s, locked := b.Strip.LED(3).Locked()
	require.True(t, locked)
	require.Equal(t, led.Pressed, s)

	// a bad frame gets a NACK and the connection stays open.
	_, err = client.Send(ctx, comm.NewFrame(0xf9))
	var nack *comm.NackError
	require.ErrorAs(t, err, &nack)
	_, err = client.Do(ctx, comm.Ping())
	require.NoError(t, err)

	// a second connection is served concurrently.
	rw2, err := Dial(url)
	require.NoError(t, err)
	client2 := comm.NewClient(rw2)
	go client2.Run(ctx)
	_, err = client2.Do(ctx, comm.Reset())
	require.NoError(t, err)

	select {
	case err = <-done:
		require.Equal(t, comm.ErrDeviceReset, err)
	case <-time.After(time.Second):
		t.Fatal("listener did not stop after reset")
	}
	rw.Close()
	rw2.Close()
}
