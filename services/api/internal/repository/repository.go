// Package repository stores marketplace entities for the API.
package repository

import (
	"context"
	"errors"

	"github.com/jredh-dev/tripmarket/pkg/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Repository is implemented by every storage backend. Status changes go
// through the model transition methods so all backends agree on them.
type Repository interface {
	PendingVendors(ctx context.Context) ([]models.Vendor, error)
	PendingTrips(ctx context.Context) ([]models.Trip, error)
	Campaigns(ctx context.Context) ([]models.Campaign, error)

	VerifyVendor(ctx context.Context, id string, status models.VendorStatus, notes string) (models.Vendor, error)
	ApproveTrip(ctx context.Context, id string, promoted bool) (models.Trip, error)
	RejectTrip(ctx context.Context, id, reason string) (models.Trip, error)

	PutVendor(ctx context.Context, v models.Vendor) error
	PutTrip(ctx context.Context, t models.Trip) error
	PutCampaign(ctx context.Context, c models.Campaign) error

	UserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error

	// Empty reports whether no vendors or trips are stored yet.
	Empty(ctx context.Context) (bool, error)
	Close() error
}
