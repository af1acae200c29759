package mqtt

import (
	"context"
	"encoding/json"

	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/keypad.go/pkg/framework"
	"github.com/robotalks/keypad.go/pkg/msgs"
)

// Meta describes a keypad, published retained on the meta topic.
type Meta struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Buttons     int    `json:"buttons"`
	Version     string `json:"version,omitempty"`
}

// Registrar announces a keypad on the broker and carries its command
// channel and status events.
type Registrar struct {
	Queue *Queue
	Meta  Meta

	topics   Topics
	metaJSON []byte
	rw       *ReadWriter
}

// NewRegistrar creates a Registrar. The meta topic is cleared by the
// broker when the keypad disconnects unexpectedly.
func NewRegistrar(brokerURL string, meta Meta) (*Registrar, error) {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	topics := TopicsFor(meta.ID)
	opts.SetBinaryWill(topicPrefix+topics.Meta(), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("keypad:" + meta.ID)
	}
	return newRegistrar(NewQueue(opts, topicPrefix), meta, metaJSON), nil
}

func newRegistrar(q *Queue, meta Meta, metaJSON []byte) *Registrar {
	r := &Registrar{
		Queue:    q,
		Meta:     meta,
		topics:   TopicsFor(meta.ID),
		metaJSON: metaJSON,
	}
	r.rw = NewPacketReadWriter(q).ForDevice(meta.ID)
	q.OnConnect = func(*Queue) { r.announce() }
	return r
}

// ReadWriter is the command channel to be served.
func (r *Registrar) ReadWriter() *ReadWriter {
	return r.rw
}

// PublishStatus publishes a status event, without waiting.
func (r *Registrar) PublishStatus(st *msgs.KeypadStatus) error {
	payload, err := proto.Marshal(st)
	if err != nil {
		return err
	}
	r.Queue.Pub(r.topics.Status(), payload)
	return nil
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(fx.NamedRun("mqtt-registrar", r))
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	token := r.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	<-ctx.Done()
	r.Queue.PubWith(r.topics.Meta(), nil, 1, true).Wait()
	r.Queue.Close()
	return nil
}

func (r *Registrar) announce() {
	r.Queue.PubWith(r.topics.Meta(), r.metaJSON, 1, true)
}
