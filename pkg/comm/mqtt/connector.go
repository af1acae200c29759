package mqtt

import (
	"context"
	"encoding/json"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/keypad.go/pkg/comm"
	"github.com/robotalks/keypad.go/pkg/msgs"
)

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Connector finds keypads on a broker and connects to them.
type Connector struct {
	DiscoverTimeout time.Duration

	options     *paho.ClientOptions
	topicPrefix string
	newQueue    func() *Queue
}

// NewConnector creates a Connector.
func NewConnector(brokerURL string) (*Connector, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	c := &Connector{
		DiscoverTimeout: DefaultDiscoverTimeout,
		options:         opts,
		topicPrefix:     topicPrefix,
	}
	c.newQueue = func() *Queue { return NewQueue(c.options, c.topicPrefix) }
	return c, nil
}

func connect(q *Queue) error {
	token := q.Connect()
	token.Wait()
	return token.Error()
}

// Discover collects the meta of online keypads.
func (c *Connector) Discover(ctx context.Context) (res []Meta, err error) {
	q := c.newQueue()
	if err = connect(q); err != nil {
		return nil, err
	}
	defer q.Close()
	resCh := make(chan Meta, 1)
	sub := q.Sub(MetaPattern, Handler(func(topic string, payload []byte) {
		id, ok := KeypadIDFrom(topic)
		if !ok || len(payload) == 0 {
			return
		}
		meta := Meta{ID: id}
		if err := json.Unmarshal(payload, &meta); err != nil {
			glog.Warningf("keypad %s: invalid meta: %v", id, err)
		}
		select {
		case resCh <- meta:
		case <-time.After(time.Second):
		}
	}))
	defer sub.Close()

	dur := c.DiscoverTimeout
	if dur == 0 {
		dur = DefaultDiscoverTimeout
	}
	timeout := time.After(dur)
	for {
		select {
		case meta := <-resCh:
			res = append(res, meta)
		case <-timeout:
			return
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
	}
}

// Conn is a connection to one keypad.
type Conn struct {
	*comm.Client
	Queue *Queue
	ID    string
}

// Connect connects to keypad id. The returned Conn must be run
// (or added to a loop) to receive replies.
func (c *Connector) Connect(ctx context.Context, id string) (*Conn, error) {
	q := c.newQueue()
	if err := connect(q); err != nil {
		return nil, err
	}
	rw := NewPacketReadWriter(q).ForHost(id)
	token := rw.Subscribe().Token
	token.Wait()
	if err := token.Error(); err != nil {
		q.Close()
		return nil, err
	}
	return &Conn{
		Client: comm.NewClient(rw),
		Queue:  q,
		ID:     id,
	}, nil
}

// Close implements io.Closer.
func (c *Conn) Close() error {
	if closer, ok := c.Client.ReadWriter.(*ReadWriter); ok {
		closer.Close()
	}
	return c.Queue.Close()
}

// Run receives replies until the context is done.
func (c *Conn) Run(ctx context.Context) error {
	rw := c.Client.ReadWriter.(*ReadWriter)
	errCh := make(chan error, 2)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { errCh <- rw.Run(subCtx) }()
	go func() { errCh <- c.Client.Run(subCtx) }()
	err := <-errCh
	cancel()
	<-errCh
	return err
}

// WatchStatus calls fn with the status events of keypad id, or of
// all keypads if id is "+", until the context is done.
func (c *Connector) WatchStatus(ctx context.Context, id string, fn func(*msgs.KeypadStatus)) error {
	q := c.newQueue()
	if err := connect(q); err != nil {
		return err
	}
	defer q.Close()
	sub := q.Sub(TopicsFor(id).Status(), Handler(func(topic string, payload []byte) {
		st, err := msgs.UnmarshalStatus(payload)
		if err != nil {
			glog.Warningf("%s: invalid status: %v", topic, err)
			return
		}
		if st.ID == "" {
			st.ID, _ = KeypadIDFrom(topic)
		}
		fn(st)
	}))
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}
