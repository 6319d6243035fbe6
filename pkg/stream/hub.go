package stream

import (
	"context"
	"sort"
	"sync"

	"github.com/c9s/chartsync/pkg/types"
)

// Hub is an in-process StreamSource. Publishers push raw payloads to a
// topic and every observer of the topic receives them in publish order.
type Hub struct {
	mu        sync.Mutex
	seq       uint64
	observers map[string]map[uint64]types.Observer
}

func NewHub() *Hub {
	return &Hub{
		observers: make(map[string]map[uint64]types.Observer),
	}
}

func (h *Hub) OpenStream(_ context.Context, req types.StreamRequest) (types.Stream, error) {
	return &hubStream{hub: h, topic: req.Topic()}, nil
}

// Publish delivers payload to the observers of the topic and returns the
// number of observers that received it.
func (h *Hub) Publish(topic string, payload []byte) int {
	observers := h.snapshot(topic)
	for _, o := range observers {
		if o.Next != nil {
			o.Next(payload)
		}
	}
	return len(observers)
}

// PublishEvent encodes the event and publishes it to the topic of req.
func (h *Hub) PublishEvent(req types.StreamRequest, event types.Event) (int, error) {
	payload, err := EncodeEvent(event)
	if err != nil {
		return 0, err
	}
	return h.Publish(req.Topic(), payload), nil
}

// Fail delivers a transport error to the observers of the topic.
func (h *Hub) Fail(topic string, err error) {
	for _, o := range h.snapshot(topic) {
		if o.Error != nil {
			o.Error(err)
		}
	}
}

// Topics returns the topics that have at least one observer.
func (h *Hub) Topics() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var topics []string
	for topic := range h.observers {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

func (h *Hub) NumObservers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers[topic])
}

// snapshot copies the observers so callbacks run without the hub lock,
// they may unsubscribe from inside Next.
func (h *Hub) snapshot(topic string) []types.Observer {
	h.mu.Lock()
	defer h.mu.Unlock()

	m := h.observers[topic]
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	observers := make([]types.Observer, 0, len(ids))
	for _, id := range ids {
		observers = append(observers, m[id])
	}
	return observers
}

func (h *Hub) subscribe(topic string, o types.Observer) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	m, ok := h.observers[topic]
	if !ok {
		m = make(map[uint64]types.Observer)
		h.observers[topic] = m
	}
	m[h.seq] = o
	return h.seq
}

func (h *Hub) unsubscribe(topic string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.observers[topic]; ok {
		delete(m, id)
		if len(m) == 0 {
			delete(h.observers, topic)
		}
	}
}

type hubStream struct {
	hub   *Hub
	topic string
}

func (s *hubStream) Subscribe(o types.Observer) (types.Subscription, error) {
	id := s.hub.subscribe(s.topic, o)

	var once sync.Once
	return types.SubscriptionFunc(func() error {
		once.Do(func() { s.hub.unsubscribe(s.topic, id) })
		return nil
	}), nil
}

// PublishPayload implements Publisher.
func (h *Hub) PublishPayload(_ context.Context, topic string, payload []byte) error {
	h.Publish(topic, payload)
	return nil
}
