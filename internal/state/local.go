package state

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/jredh-dev/tripmarket/pkg/models"
)

// AddTrip lists a new trip in local state. An empty ID gets a UUID and an
// empty status defaults to PENDING. The trip is not sent to the API.
func (s *Store) AddTrip(t models.Trip) (models.Trip, error) {
	if strings.TrimSpace(t.Title) == "" || strings.TrimSpace(t.Destination) == "" {
		return models.Trip{}, ErrInvalidTrip
	}
	if t.Status == "" {
		t.Status = models.TripPending
	}
	if !t.Status.Valid() {
		return models.Trip{}, ErrInvalidStatus
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	var dup bool
	s.update(func(st State) State {
		if _, dup = st.Trip(t.ID); dup {
			return st
		}
		st.Trips = append([]models.Trip{t}, st.Trips...)
		s.touch("trip", t.ID)
		s.origins["trip:"+t.ID] = fromLocal
		delete(s.deleted, t.ID)
		return s.research(st)
	})
	if dup {
		return models.Trip{}, fmt.Errorf("add trip %s: duplicate id: %w", t.ID, ErrInvalidTrip)
	}
	return t, nil
}

// DeleteTrip removes a trip from local state only. Refreshes do not bring it
// back while the API keeps listing it.
func (s *Store) DeleteTrip(id string) error {
	var found bool
	s.update(func(st State) State {
		i := slices.IndexFunc(st.Trips, func(t models.Trip) bool { return t.ID == id })
		if i < 0 {
			return st
		}
		found = true
		st.Trips = slices.Delete(slices.Clone(st.Trips), i, i+1)
		s.touch("trip", id)
		if s.originOf("trip", id) != fromLocal {
			s.deleted[id] = true
		}
		delete(s.origins, "trip:"+id)
		if st.SelectedTripID == id {
			st.SelectedTripID = ""
		}
		return s.research(st)
	})
	if !found {
		return fmt.Errorf("delete trip %s: %w", id, ErrTripNotFound)
	}
	return nil
}

// ResolveTicket closes a support ticket. Resolving a resolved ticket is a
// no-op.
func (s *Store) ResolveTicket(id string) error {
	var found bool
	s.update(func(st State) State {
		st.Tickets, found = patch(st.Tickets, id, ticketID, func(t *models.SupportTicket) {
			t.Resolve()
		})
		return st
	})
	if !found {
		return fmt.Errorf("resolve ticket %s: %w", id, ErrTicketNotFound)
	}
	return nil
}

// CheckoutRequest is a customer's booking form.
type CheckoutRequest struct {
	TripID       string
	CustomerName string
	Date         string
	Guests       int
	Sharing      models.Sharing
}

// Checkout creates a PENDING booking priced at the trip's per-person rate for
// the chosen sharing tier times the guest count, and moves to the
// confirmation screen. Payment is not taken.
func (s *Store) Checkout(req CheckoutRequest) (models.Booking, error) {
	if strings.TrimSpace(req.CustomerName) == "" || req.Guests < 1 {
		return models.Booking{}, ErrInvalidBooking
	}

	var (
		booking models.Booking
		err     error
	)
	s.update(func(st State) State {
		trip, ok := st.Trip(req.TripID)
		if !ok {
			err = fmt.Errorf("checkout %s: %w", req.TripID, ErrTripNotFound)
			return st
		}
		price, ok := trip.Pricing.For(req.Sharing)
		if !ok {
			err = fmt.Errorf("checkout %s: %s: %w", req.TripID, req.Sharing, ErrSharingUnavailable)
			return st
		}
		if len(trip.AvailableDates) > 0 && !slices.Contains(trip.AvailableDates, req.Date) {
			err = fmt.Errorf("checkout %s: %s: %w", req.TripID, req.Date, ErrDateUnavailable)
			return st
		}

		booking = models.Booking{
			ID:           uuid.NewString(),
			TripID:       trip.ID,
			CustomerName: req.CustomerName,
			Date:         req.Date,
			Guests:       req.Guests,
			Sharing:      req.Sharing,
			TotalPrice:   price * float64(req.Guests),
			Status:       models.BookingPending,
		}
		st.Bookings = append(slices.Clone(st.Bookings), booking)
		st.LastBookingID = booking.ID
		st.View = ViewBookingConfirmation
		st.ScrollEpoch++
		return st
	})
	if err != nil {
		return models.Booking{}, err
	}
	return booking, nil
}

// UpdateBookingStatus moves a booking along PENDING -> CONFIRMED -> CANCELLED
// (or PENDING -> CANCELLED).
func (s *Store) UpdateBookingStatus(id string, status models.BookingStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	var err error
	s.update(func(st State) State {
		b, ok := st.Booking(id)
		if !ok {
			err = fmt.Errorf("update booking %s: %w", id, ErrBookingNotFound)
			return st
		}
		if !b.Status.CanTransition(status) {
			err = fmt.Errorf("update booking %s: %s -> %s: %w", id, b.Status, status, ErrInvalidTransition)
			return st
		}
		if b.Status == status {
			return st
		}
		st.Bookings, _ = patch(st.Bookings, id, bookingID, func(b *models.Booking) { b.Status = status })
		return st
	})
	return err
}

// PromotionRequest buys a campaign with vendor credits.
type PromotionRequest struct {
	VendorID string
	TripID   string // optional; the trip is flagged as promoted
	Title    string
	Type     string
	Budget   float64
}

// PurchasePromotion deducts Budget from the vendor's credits and starts an
// ACTIVE campaign.
func (s *Store) PurchasePromotion(req PromotionRequest) (models.Campaign, error) {
	if req.Budget <= 0 {
		return models.Campaign{}, ErrInvalidPromotion
	}

	var (
		campaign models.Campaign
		err      error
	)
	s.update(func(st State) State {
		v, ok := st.Vendor(req.VendorID)
		if !ok {
			err = fmt.Errorf("purchase promotion: %s: %w", req.VendorID, ErrVendorNotFound)
			return st
		}
		if req.TripID != "" {
			if _, ok := st.Trip(req.TripID); !ok {
				err = fmt.Errorf("purchase promotion: %s: %w", req.TripID, ErrTripNotFound)
				return st
			}
		}
		if v.Credits < req.Budget {
			err = fmt.Errorf("purchase promotion: have %.0f, need %.0f: %w", v.Credits, req.Budget, ErrInsufficientCredits)
			return st
		}

		campaign = models.Campaign{
			ID:       uuid.NewString(),
			Title:    req.Title,
			VendorID: req.VendorID,
			TripID:   req.TripID,
			Type:     req.Type,
			Budget:   req.Budget,
			Status:   models.CampaignActive,
		}
		st.Vendors, _ = patch(st.Vendors, req.VendorID, vendorID, func(v *models.Vendor) {
			v.Credits -= req.Budget
		})
		s.touch("vendor", req.VendorID)
		if req.TripID != "" {
			st.Trips, _ = patch(st.Trips, req.TripID, tripID, func(t *models.Trip) { t.IsPromoted = true })
			s.touch("trip", req.TripID)
		}
		st.Campaigns = append([]models.Campaign{campaign}, st.Campaigns...)
		s.touch("campaign", campaign.ID)
		s.origins["campaign:"+campaign.ID] = fromLocal
		return s.research(st)
	})
	if err != nil {
		return models.Campaign{}, err
	}
	return campaign, nil
}
