package valuation

import (
	"context"
	"time"
)

// Event describes a completed valuation, published for downstream consumers
// (market dashboards, pricing feeds). Events are fire-and-forget: a publish
// failure is logged, never surfaced to the requester.
type Event struct {
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	Price     float64   `json:"price"`
	Condition float64   `json:"condition"`
	At        time.Time `json:"at"`
}

// EventPublisher delivers valuation events to a message bus.
type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}
