// Package events defines the outbound event port. Services publish
// lifecycle facts here; the Kafka producer in infra implements it and a
// nop keeps memory mode and tests broker-free.
package events

import (
	"context"
	"time"
)

const (
	TypeBookingRequested = "booking.requested"
	TypeBookingCancelled = "booking.cancelled"
	TypeListingCreated   = "listing.created"
	TypeListingDeleted   = "listing.deleted"
)

type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"-"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
