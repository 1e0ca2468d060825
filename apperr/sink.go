package apperr

import (
	"context"
	"time"
)

// Event is the record forwarded to analytics/logging sinks
type Event struct {
	Kind       Kind      `json:"kind"`
	Severity   Level     `json:"severity"`
	Status     int       `json:"status,omitempty"`
	Op         string    `json:"op,omitempty"`
	Message    string    `json:"message"`
	Cause      string    `json:"cause,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(e *Error) Event {
	ev := Event{
		Kind:       e.Kind,
		Severity:   Severity(e.Kind),
		Status:     e.Status,
		Op:         e.Op,
		Message:    e.Message,
		OccurredAt: time.Now().UTC(),
	}
	if ev.Message == "" {
		ev.Message = DefaultMessage(e.Kind)
	}
	if e.Err != nil {
		ev.Cause = e.Err.Error()
	}
	return ev
}

// Sink receives handled errors. Delivery is best-effort.
type Sink interface {
	Send(ctx context.Context, ev Event) error
	Close() error
}

type NopSink struct{}

func (NopSink) Send(context.Context, Event) error { return nil }
func (NopSink) Close() error                      { return nil }
