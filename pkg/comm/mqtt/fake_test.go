package mqtt

import (
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// fakeBroker delivers publishes to every attached Queue in process.
type fakeBroker struct {
	lock     sync.Mutex
	queues   []*Queue
	retained map[string][]byte
	pubs     []fakePub
}

type fakePub struct {
	topic   string
	payload []byte
	retain  bool
}

type fakeClient struct {
	paho.Client
	broker *fakeBroker
	queue  *Queue
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{retained: make(map[string][]byte)}
}

func (b *fakeBroker) newQueue(prefix string) *Queue {
	q := &Queue{TopicPrefix: prefix, subs: make(map[string][]*Subscription)}
	q.Client = &fakeClient{broker: b, queue: q}
	b.lock.Lock()
	b.queues = append(b.queues, q)
	b.lock.Unlock()
	return q
}

func (b *fakeBroker) published() []fakePub {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]fakePub(nil), b.pubs...)
}

func (c *fakeClient) Connect() paho.Token {
	c.queue.onConnect(c)
	return &paho.DummyToken{}
}

func (c *fakeClient) Disconnect(uint) {}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	data := append([]byte(nil), payload.([]byte)...)
	b := c.broker
	b.lock.Lock()
	b.pubs = append(b.pubs, fakePub{topic: topic, payload: data, retain: retained})
	if retained {
		if len(data) == 0 {
			delete(b.retained, topic)
		} else {
			b.retained[topic] = data
		}
	}
	queues := append([]*Queue(nil), b.queues...)
	b.lock.Unlock()
	for _, q := range queues {
		q.Dispatch(topic, data)
	}
	return &paho.DummyToken{}
}

func (c *fakeClient) Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token {
	b := c.broker
	b.lock.Lock()
	retained := make(map[string][]byte)
	for t, payload := range b.retained {
		if MatchTopic(t, topic) {
			retained[t] = payload
		}
	}
	b.lock.Unlock()
	for t, payload := range retained {
		c.queue.Dispatch(t, payload)
	}
	return &paho.DummyToken{}
}

func (c *fakeClient) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token {
	return &paho.DummyToken{}
}

func (c *fakeClient) Unsubscribe(...string) paho.Token {
	return &paho.DummyToken{}
}
