package state

import (
	"time"

	"github.com/jredh-dev/tripmarket/internal/search"
	"github.com/jredh-dev/tripmarket/pkg/models"
)

// View names the active screen.
type View string

// Customer portal.
const (
	ViewHome                View = "HOME"
	ViewTripList            View = "TRIP_LIST"
	ViewTripDetail          View = "TRIP_DETAIL"
	ViewCheckout            View = "CHECKOUT"
	ViewBookingConfirmation View = "BOOKING_CONFIRMATION"
	ViewMyBookings          View = "MY_BOOKINGS"
	ViewLogin               View = "LOGIN"
	ViewSignup              View = "SIGNUP"
)

// Vendor portal.
const (
	ViewVendorDashboard  View = "VENDOR_DASHBOARD"
	ViewVendorTrips      View = "VENDOR_TRIPS"
	ViewVendorAddTrip    View = "VENDOR_ADD_TRIP"
	ViewVendorBookings   View = "VENDOR_BOOKINGS"
	ViewVendorPayouts    View = "VENDOR_PAYOUTS"
	ViewVendorPromotions View = "VENDOR_PROMOTIONS"
	ViewVendorKYC        View = "VENDOR_KYC"
	ViewVendorProfile    View = "VENDOR_PROFILE"
)

// Admin console.
const (
	ViewAdminLogin        View = "ADMIN_LOGIN"
	ViewAdminDashboard    View = "ADMIN_DASHBOARD"
	ViewAdminVendors      View = "ADMIN_VENDORS"
	ViewAdminVendorDetail View = "ADMIN_VENDOR_DETAIL"
	ViewAdminTrips        View = "ADMIN_TRIPS"
	ViewAdminTripDetail   View = "ADMIN_TRIP_DETAIL"
	ViewAdminPayouts      View = "ADMIN_PAYOUTS"
	ViewAdminPayoutDetail View = "ADMIN_PAYOUT_DETAIL"
	ViewAdminSupport      View = "ADMIN_SUPPORT"
	ViewAdminMarketing    View = "ADMIN_MARKETING"
	ViewAdminSearch       View = "ADMIN_SEARCH"
	ViewAdminSettings     View = "ADMIN_SETTINGS"
)

// DetailKind is the entity type an admin detail view is bound to.
type DetailKind string

const (
	DetailVendor DetailKind = "VENDOR"
	DetailTrip   DetailKind = "TRIP"
	DetailPayout DetailKind = "PAYOUT"
)

// View returns the detail screen for k.
func (k DetailKind) View() (View, bool) {
	switch k {
	case DetailVendor:
		return ViewAdminVendorDetail, true
	case DetailTrip:
		return ViewAdminTripDetail, true
	case DetailPayout:
		return ViewAdminPayoutDetail, true
	}
	return "", false
}

// State is one immutable snapshot of the application. Slices are never
// modified after a snapshot is published; callers must not modify them either.
type State struct {
	View             View
	SelectedDetailID string // admin detail views
	SelectedTripID   string // customer TRIP_DETAIL and CHECKOUT
	LastBookingID    string // BOOKING_CONFIRMATION
	ScrollEpoch      uint64 // bumped on every navigation; views reset scroll when it changes

	SearchQuery   string
	SearchResults []search.Result

	Vendors   []models.Vendor
	Trips     []models.Trip
	Bookings  []models.Booking
	Tickets   []models.SupportTicket
	Campaigns []models.Campaign
	Payouts   []models.Payout

	LastRefresh time.Time
	RefreshErr  error // error of the last Refresh, nil when it succeeded
}

// Vendor looks up a loaded vendor by ID.
func (s State) Vendor(id string) (models.Vendor, bool) {
	return find(s.Vendors, id, vendorID)
}

// Trip looks up a loaded trip by ID.
func (s State) Trip(id string) (models.Trip, bool) {
	return find(s.Trips, id, tripID)
}

// Payout looks up a loaded payout by ID.
func (s State) Payout(id string) (models.Payout, bool) {
	return find(s.Payouts, id, func(p models.Payout) string { return p.ID })
}

// Booking looks up a booking by ID.
func (s State) Booking(id string) (models.Booking, bool) {
	return find(s.Bookings, id, bookingID)
}

// Ticket looks up a support ticket by ID.
func (s State) Ticket(id string) (models.SupportTicket, bool) {
	return find(s.Tickets, id, ticketID)
}

// PendingVendors returns vendors awaiting verification, in collection order.
func (s State) PendingVendors() []models.Vendor {
	var out []models.Vendor
	for _, v := range s.Vendors {
		if v.Status == models.VendorPending {
			out = append(out, v)
		}
	}
	return out
}

// PendingTrips returns trips awaiting approval, in collection order.
func (s State) PendingTrips() []models.Trip {
	var out []models.Trip
	for _, t := range s.Trips {
		if t.Status == models.TripPending {
			out = append(out, t)
		}
	}
	return out
}

// OpenTickets returns unresolved support tickets.
func (s State) OpenTickets() []models.SupportTicket {
	var out []models.SupportTicket
	for _, t := range s.Tickets {
		if t.Status == models.TicketOpen {
			out = append(out, t)
		}
	}
	return out
}

func vendorID(v models.Vendor) string        { return v.ID }
func tripID(t models.Trip) string            { return t.ID }
func bookingID(b models.Booking) string      { return b.ID }
func ticketID(t models.SupportTicket) string { return t.ID }
func campaignID(c models.Campaign) string    { return c.ID }

func find[T any](items []T, id string, key func(T) string) (T, bool) {
	for _, it := range items {
		if key(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// patch returns a copy of items with fn applied to the element whose key is
// id. items itself is never modified.
func patch[T any](items []T, id string, key func(T) string, fn func(*T)) ([]T, bool) {
	for i := range items {
		if key(items[i]) == id {
			out := append([]T(nil), items...)
			fn(&out[i])
			return out, true
		}
	}
	return items, false
}
