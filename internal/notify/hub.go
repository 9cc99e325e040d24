// Package notify fans order and waiter-call events out to connected viewers.
//
// Delivery is best-effort and at-most-once: an event reaches the subscribers
// registered when it is published, with no acknowledgement and no replay.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	EventNewOrder          = "new_order"
	EventOrderReady        = "order_ready"
	EventOrderCompleted    = "order_completed"
	EventOrderUpdated      = "order_updated"
	EventNewWaiterCall     = "new_waiter_call"
	EventWaiterCallUpdated = "waiter_call_updated"
)

const defaultBufferSize = 32

// Event is the wire message: {"type": ..., "data": ...}.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Publisher accepts events for fan-out.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Registry is the subscriber set the broadcaster delivers to.
type Registry interface {
	Publisher
	Subscribe() *Subscription
	Unsubscribe(id string)
}

// Subscription is one connected viewer. Close it when the viewer goes away.
type Subscription struct {
	ID     string
	events chan []byte
	hub    *Hub
	once   sync.Once
}

// Events delivers encoded events. The channel is closed on unsubscribe.
func (s *Subscription) Events() <-chan []byte {
	return s.events
}

// Close unsubscribes. Safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(func() { s.hub.Unsubscribe(s.ID) })
	return nil
}

// Hub is the in-process subscriber registry.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscription
	bufferSize  int
	log         logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger, bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Hub{
		subscribers: make(map[string]*Subscription),
		bufferSize:  bufferSize,
		log:         log,
	}
}

func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		ID:     uuid.NewString(),
		events: make(chan []byte, h.bufferSize),
		hub:    h,
	}

	h.mu.Lock()
	h.subscribers[sub.ID] = sub
	h.mu.Unlock()

	h.log.WithField("subscriber", sub.ID).Debug("subscriber connected")
	return sub
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
		close(sub.events)
	}
	h.mu.Unlock()

	if ok {
		h.log.WithField("subscriber", id).Debug("subscriber disconnected")
	}
}

// Publish encodes the event and delivers it to current subscribers.
func (h *Hub) Publish(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	h.Broadcast(payload)
	return nil
}

// Broadcast delivers an already encoded event. A subscriber whose queue is full
// misses this event.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, sub := range h.subscribers {
		select {
		case sub.events <- payload:
		default:
			h.log.WithField("subscriber", id).Warn("subscriber queue full, event dropped")
		}
	}
}

// Count reports the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Notify publishes an arbitrary event type and logs failures instead of returning them.
func Notify(ctx context.Context, publisher Publisher, log logrus.FieldLogger, eventType string, data interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, Event{Type: eventType, Data: data}); err != nil {
		log.WithError(err).WithField("event", eventType).Warn("failed to publish event")
	}
}
