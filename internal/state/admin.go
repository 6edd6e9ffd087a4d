package state

import (
	"context"
	"fmt"

	"github.com/jredh-dev/tripmarket/pkg/models"
)

// VerifyVendor sets a vendor's verification status. The vendor must be
// loaded. Nothing changes locally unless the gateway accepts the call.
func (s *Store) VerifyVendor(ctx context.Context, id string, status models.VendorStatus, notes string) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if _, ok := s.Snapshot().Vendor(id); !ok {
		return fmt.Errorf("verify vendor %s: %w", id, ErrVendorNotFound)
	}
	if _, err := s.gw.VerifyVendor(ctx, id, status, notes); err != nil {
		s.logf("state: verify vendor failed: id=%s status=%s err=%v", id, status, err)
		return fmt.Errorf("verify vendor %s: %w", id, err)
	}

	s.update(func(st State) State {
		var ok bool
		st.Vendors, ok = patch(st.Vendors, id, vendorID, func(v *models.Vendor) {
			v.Status = status
			v.VerificationNotes = notes
		})
		if !ok {
			return st
		}
		s.touch("vendor", id)
		return s.research(st)
	})
	s.logf("state: vendor verified: id=%s status=%s", id, status)
	return nil
}

// ApproveTrip approves a loaded trip after the gateway confirms.
func (s *Store) ApproveTrip(ctx context.Context, id string, promoted bool) error {
	if _, ok := s.Snapshot().Trip(id); !ok {
		return fmt.Errorf("approve trip %s: %w", id, ErrTripNotFound)
	}
	if _, err := s.gw.ApproveTrip(ctx, id, promoted); err != nil {
		s.logf("state: approve trip failed: id=%s err=%v", id, err)
		return fmt.Errorf("approve trip %s: %w", id, err)
	}
	s.patchTrip(id, func(t *models.Trip) { t.Approve(promoted) })
	s.logf("state: trip approved: id=%s promoted=%t", id, promoted)
	return nil
}

// RejectTrip rejects a loaded trip with reason after the gateway confirms.
func (s *Store) RejectTrip(ctx context.Context, id, reason string) error {
	if _, ok := s.Snapshot().Trip(id); !ok {
		return fmt.Errorf("reject trip %s: %w", id, ErrTripNotFound)
	}
	if _, err := s.gw.RejectTrip(ctx, id, reason); err != nil {
		s.logf("state: reject trip failed: id=%s err=%v", id, err)
		return fmt.Errorf("reject trip %s: %w", id, err)
	}
	s.patchTrip(id, func(t *models.Trip) { t.Reject(reason) })
	s.logf("state: trip rejected: id=%s reason=%q", id, reason)
	return nil
}

func (s *Store) patchTrip(id string, fn func(*models.Trip)) {
	s.update(func(st State) State {
		var ok bool
		st.Trips, ok = patch(st.Trips, id, tripID, fn)
		if !ok {
			return st
		}
		s.touch("trip", id)
		return s.research(st)
	})
}
