package mqtt

import (
	"context"
	"io"
	"sync"
)

// ReadWriter implements comm.PacketReadWriter over a pair of topics.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh  chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once
	sub       *Subscription
	subLock   sync.Mutex
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		packetCh: make(chan []byte, 4),
		closeCh:  make(chan struct{}),
	}
}

// WithTopics specifies the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForHost sets topics for talking to keypad id: publish to cmd,
// receive from msg.
func (p *ReadWriter) ForHost(id string) *ReadWriter {
	t := TopicsFor(id)
	return p.WithTopics(t.Msg(), t.Cmd())
}

// ForDevice sets topics for serving as keypad id: receive from cmd,
// publish to msg.
func (p *ReadWriter) ForDevice(id string) *ReadWriter {
	t := TopicsFor(id)
	return p.WithTopics(t.Cmd(), t.Msg())
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.closeCh:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// Close implements io.Closer. The Queue is not closed.
func (p *ReadWriter) Close() error {
	p.closeOnce.Do(func() { close(p.closeCh) })
	return nil
}

// Subscribe subscribes SubTopic if not yet. Packets received before
// Run are kept.
func (p *ReadWriter) Subscribe() *Subscription {
	p.subLock.Lock()
	defer p.subLock.Unlock()
	if p.sub == nil {
		p.sub = p.Queue.Sub(p.SubTopic, Handler(p.handleMsg))
	}
	return p.sub
}

// Run implements Runnable.
func (p *ReadWriter) Run(ctx context.Context) error {
	sub := p.Subscribe()
	defer func() {
		p.subLock.Lock()
		p.sub = nil
		p.subLock.Unlock()
		sub.Close()
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.closeCh:
		return nil
	}
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	pkt := append([]byte(nil), payload...)
	select {
	case p.packetCh <- pkt:
	case <-p.closeCh:
	}
}
