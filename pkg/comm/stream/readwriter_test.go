package stream

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startReadWriter(t *testing.T) (*ReadWriter, net.Conn, func()) {
	device, host := net.Pipe()
	rw := New(device)
	rw.GapTimeout = 20 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rw.Run(ctx) }()
	return rw, host, func() {
		cancel()
		<-done
		rw.Close()
		host.Close()
	}
}

func TestReadWriterFrames(t *testing.T) {
	rw, host, stop := startReadWriter(t)
	defer stop()

	frame := []byte{0xfe, 0, 0, 0, 0, 0, 0, 0, 0, 0x80}
	go func() {
		// split across writes, and two frames back to back.
		host.Write(frame[:3])
		host.Write(append(frame[3:], frame...))
	}()
	for n := 0; n < 2; n++ {
		pkt, err := rw.ReadPacket()
		require.NoError(t, err)
		require.Equal(t, frame, pkt)
	}

	replyCh := make(chan []byte, 1)
	go func() {
		buf := make([]byte, len(frame))
		n, _ := io.ReadFull(host, buf)
		replyCh <- buf[:n]
	}()
	require.NoError(t, rw.WritePacket(frame))
	require.Equal(t, frame, <-replyCh)
}

func TestReadWriterFlushesShortFrame(t *testing.T) {
	rw, host, stop := startReadWriter(t)
	defer stop()

	go host.Write([]byte{0xfe, 0, 0x80})
	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0xfe, 0, 0x80}, pkt)
}

func TestReadWriterStreamError(t *testing.T) {
	device, host := net.Pipe()
	rw := New(device)
	done := make(chan error, 1)
	go func() { done <- rw.Run(context.Background()) }()
	host.Close()
	_, err := rw.ReadPacket()
	require.Equal(t, io.EOF, err)
	require.Equal(t, io.EOF, <-done)
	rw.Close()
}
