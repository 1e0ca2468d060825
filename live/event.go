// Package live carries order change notifications from the backend to the
// client so dashboards refresh on change instead of waiting for the next tick.
package live

import (
	"context"
	"sync"
	"time"

	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

type EventType string

const (
	EventOrderCreated EventType = "order_created"
	EventOrderStatus  EventType = "order_status"
	EventItemStatus   EventType = "item_status"
)

type Event struct {
	Type        EventType          `json:"type"`
	OrderID     uint               `json:"order_id"`
	ItemID      uint               `json:"item_id,omitempty"`
	TableNumber int                `json:"table_number,omitempty"`
	Status      models.OrderStatus `json:"status"`
	At          time.Time          `json:"at"`
}

// Source delivers events until ctx is done, then closes the channel. Each
// call is an independent subscription.
type Source interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// Publisher is the backend side of a Source
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// Bus is an in-process Source and Publisher, used when backend and client
// share a process (tests, the local demo).
type Bus struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewBus() *Bus { return &Bus{subs: make(map[chan Event]struct{})} }

func (b *Bus) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch, nil
}

// Publish never blocks: a subscriber whose buffer is full misses the event
// and catches up on its next poll.
func (b *Bus) Publish(_ context.Context, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (b *Bus) Close() error { return nil }
