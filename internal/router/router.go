// Package router maps a state snapshot to the screen that should be shown.
package router

import (
	"github.com/jredh-dev/tripmarket/internal/state"
	"github.com/jredh-dev/tripmarket/pkg/models"
)

// ViewNotFound is the screen shown for an unknown view tag.
const ViewNotFound state.View = "NOT_FOUND"

// Portal groups the views of one user-facing application.
type Portal string

const (
	PortalCustomer Portal = "customer"
	PortalVendor   Portal = "vendor"
	PortalAdmin    Portal = "admin"
)

// Page describes one screen.
type Page struct {
	View   state.View
	Portal Portal
	Title  string
	Detail bool // bound to a selected entity
}

var pages = []Page{
	{state.ViewHome, PortalCustomer, "Home", false},
	{state.ViewTripList, PortalCustomer, "Trips", false},
	{state.ViewTripDetail, PortalCustomer, "Trip", true},
	{state.ViewCheckout, PortalCustomer, "Checkout", true},
	{state.ViewBookingConfirmation, PortalCustomer, "Booking confirmed", true},
	{state.ViewMyBookings, PortalCustomer, "My bookings", false},
	{state.ViewLogin, PortalCustomer, "Log in", false},
	{state.ViewSignup, PortalCustomer, "Sign up", false},

	{state.ViewVendorDashboard, PortalVendor, "Dashboard", false},
	{state.ViewVendorTrips, PortalVendor, "My trips", false},
	{state.ViewVendorAddTrip, PortalVendor, "Add trip", false},
	{state.ViewVendorBookings, PortalVendor, "Bookings", false},
	{state.ViewVendorPayouts, PortalVendor, "Payouts", false},
	{state.ViewVendorPromotions, PortalVendor, "Promotions", false},
	{state.ViewVendorKYC, PortalVendor, "KYC", false},
	{state.ViewVendorProfile, PortalVendor, "Profile", false},

	{state.ViewAdminLogin, PortalAdmin, "Admin login", false},
	{state.ViewAdminDashboard, PortalAdmin, "Dashboard", false},
	{state.ViewAdminVendors, PortalAdmin, "Vendors", false},
	{state.ViewAdminVendorDetail, PortalAdmin, "Vendor", true},
	{state.ViewAdminTrips, PortalAdmin, "Trips", false},
	{state.ViewAdminTripDetail, PortalAdmin, "Trip", true},
	{state.ViewAdminPayouts, PortalAdmin, "Payouts", false},
	{state.ViewAdminPayoutDetail, PortalAdmin, "Payout", true},
	{state.ViewAdminSupport, PortalAdmin, "Support", false},
	{state.ViewAdminMarketing, PortalAdmin, "Marketing", false},
	{state.ViewAdminSearch, PortalAdmin, "Search", false},
	{state.ViewAdminSettings, PortalAdmin, "Settings", false},
}

var byView = func() map[state.View]Page {
	m := make(map[state.View]Page, len(pages))
	for _, p := range pages {
		m[p.View] = p
	}
	return m
}()

// Lookup returns the page registered for v.
func Lookup(v state.View) (Page, bool) {
	p, ok := byView[v]
	return p, ok
}

// Pages returns the pages of one portal in menu order.
func Pages(portal Portal) []Page {
	var out []Page
	for _, p := range pages {
		if p.Portal == portal {
			out = append(out, p)
		}
	}
	return out
}

// Route is the resolved screen. For detail pages exactly one entity pointer is
// set, unless NotFound is true.
type Route struct {
	Page     Page
	NotFound bool

	Vendor  *models.Vendor
	Trip    *models.Trip
	Payout  *models.Payout
	Booking *models.Booking
}

// Resolve picks the screen for st. A detail view whose selection is empty or
// not loaded resolves with NotFound set; an unknown view resolves to the
// NOT_FOUND page.
func Resolve(st state.State) Route {
	p, ok := byView[st.View]
	if !ok {
		return Route{Page: Page{View: ViewNotFound, Title: "Not found"}, NotFound: true}
	}
	r := Route{Page: p}
	if !p.Detail {
		return r
	}

	switch st.View {
	case state.ViewAdminVendorDetail:
		if v, ok := st.Vendor(st.SelectedDetailID); ok && st.SelectedDetailID != "" {
			r.Vendor = &v
		}
	case state.ViewAdminTripDetail:
		if t, ok := st.Trip(st.SelectedDetailID); ok && st.SelectedDetailID != "" {
			r.Trip = &t
		}
	case state.ViewAdminPayoutDetail:
		if po, ok := st.Payout(st.SelectedDetailID); ok && st.SelectedDetailID != "" {
			r.Payout = &po
		}
	case state.ViewTripDetail, state.ViewCheckout:
		if t, ok := st.Trip(st.SelectedTripID); ok && st.SelectedTripID != "" {
			r.Trip = &t
		}
	case state.ViewBookingConfirmation:
		if b, ok := st.Booking(st.LastBookingID); ok && st.LastBookingID != "" {
			r.Booking = &b
			if t, ok := st.Trip(b.TripID); ok {
				r.Trip = &t
			}
		}
	}
	r.NotFound = r.Vendor == nil && r.Trip == nil && r.Payout == nil && r.Booking == nil
	return r
}
