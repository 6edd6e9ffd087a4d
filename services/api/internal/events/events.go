// Package events publishes admin decisions so other services (notifications,
// analytics) can react to them.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	VendorVerified      = "vendor.verified"
	VendorStatusChanged = "vendor.status_changed"
	TripApproved        = "trip.approved"
	TripRejected        = "trip.rejected"
)

// Event is one admin decision.
type Event struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	EntityID string    `json:"entity_id"`
	Status   string    `json:"status"`
	Detail   string    `json:"detail,omitempty"` // notes or rejection reason
	Actor    string    `json:"actor,omitempty"`  // admin email
	At       time.Time `json:"at"`
}

// New stamps an event with an ID and the current time.
func New(typ, entityID, status, detail, actor string) Event {
	return Event{
		ID:       uuid.NewString(),
		Type:     typ,
		EntityID: entityID,
		Status:   status,
		Detail:   detail,
		Actor:    actor,
		At:       time.Now().UTC(),
	}
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns what has been published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Close() error { return nil }
