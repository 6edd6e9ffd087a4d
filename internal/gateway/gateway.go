// Package gateway is the client side of the marketplace REST API.
//
// List calls return a tagged Result so callers can tell "the API answered
// with nothing" apart from "the API could not be reached". Mutations return
// the updated record or an error; there are no retries.
package gateway

import (
	"context"

	"github.com/jredh-dev/tripmarket/pkg/models"
)

// Gateway is the set of remote operations the admin state store depends on.
type Gateway interface {
	PendingVendors(ctx context.Context) Result[models.Vendor]
	PendingTrips(ctx context.Context) Result[models.Trip]
	Campaigns(ctx context.Context) Result[models.Campaign]

	VerifyVendor(ctx context.Context, id string, status models.VendorStatus, notes string) (models.Vendor, error)
	ApproveTrip(ctx context.Context, id string, promoted bool) (models.Trip, error)
	RejectTrip(ctx context.Context, id, reason string) (models.Trip, error)
}

// Outcome tags a list fetch.
type Outcome int

const (
	Loaded Outcome = iota // non-empty items
	Empty                 // call succeeded with zero items
	Failed                // transport or HTTP failure, Err is set
)

func (o Outcome) String() string {
	switch o {
	case Loaded:
		return "loaded"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is the tagged outcome of a list fetch.
type Result[T any] struct {
	Outcome Outcome
	Items   []T
	Err     error
}

// NewResult tags items and err from a fetch.
func NewResult[T any](items []T, err error) Result[T] {
	switch {
	case err != nil:
		return Result[T]{Outcome: Failed, Err: err}
	case len(items) == 0:
		return Result[T]{Outcome: Empty}
	default:
		return Result[T]{Outcome: Loaded, Items: items}
	}
}

// Session is what a successful login yields.
type Session struct {
	Token string      `json:"token"`
	Role  models.Role `json:"role"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
}

// TokenSource supplies the bearer token for each request. An empty token
// sends no Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed bearer token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }
