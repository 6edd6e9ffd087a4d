package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/jredh-dev/tripmarket/internal/fallback"
	"github.com/jredh-dev/tripmarket/pkg/models"
)

// Static serves a fallback dataset from memory. The console uses it in
// offline mode.
type Static struct {
	mu   sync.Mutex
	data fallback.Dataset
}

var _ Gateway = (*Static)(nil)

// NewStatic returns a gateway over a private copy of d.
func NewStatic(d fallback.Dataset) *Static {
	return &Static{data: d.Clone()}
}

func (s *Static) PendingVendors(context.Context) Result[models.Vendor] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewResult(s.data.PendingVendors(), nil)
}

func (s *Static) PendingTrips(context.Context) Result[models.Trip] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewResult(s.data.PendingTrips(), nil)
}

func (s *Static) Campaigns(context.Context) Result[models.Campaign] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewResult(append([]models.Campaign(nil), s.data.Campaigns...), nil)
}

func (s *Static) VerifyVendor(_ context.Context, id string, status models.VendorStatus, notes string) (models.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Vendors {
		if s.data.Vendors[i].ID != id {
			continue
		}
		if err := s.data.Vendors[i].SetStatus(status, notes); err != nil {
			return models.Vendor{}, err
		}
		return s.data.Vendors[i], nil
	}
	return models.Vendor{}, fmt.Errorf("vendor %s: %w", id, ErrNotFound)
}

func (s *Static) ApproveTrip(_ context.Context, id string, promoted bool) (models.Trip, error) {
	return s.updateTrip(id, func(t *models.Trip) { t.Approve(promoted) })
}

func (s *Static) RejectTrip(_ context.Context, id, reason string) (models.Trip, error) {
	return s.updateTrip(id, func(t *models.Trip) { t.Reject(reason) })
}

func (s *Static) updateTrip(id string, fn func(*models.Trip)) (models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Trips {
		if s.data.Trips[i].ID == id {
			fn(&s.data.Trips[i])
			return s.data.Trips[i], nil
		}
	}
	return models.Trip{}, fmt.Errorf("trip %s: %w", id, ErrNotFound)
}
