package router

import (
	"io"
	"log"
	"testing"

	"github.com/jredh-dev/tripmarket/internal/fallback"
	"github.com/jredh-dev/tripmarket/internal/gateway"
	"github.com/jredh-dev/tripmarket/internal/state"
	"github.com/jredh-dev/tripmarket/pkg/models"
)

func snapshot() state.State {
	return state.State{
		Vendors:  []models.Vendor{{ID: "v2", BusinessName: "Goa Explores"}},
		Trips:    []models.Trip{{ID: "1", Title: "Manali Snow Escape"}},
		Payouts:  []models.Payout{{ID: "P1", Amount: 42000}},
		Bookings: []models.Booking{{ID: "B1", TripID: "1"}},
	}
}

func TestPages_CoverEveryPortal(t *testing.T) {
	counts := map[Portal]int{PortalCustomer: 8, PortalVendor: 8, PortalAdmin: 12}
	for portal, want := range counts {
		if got := len(Pages(portal)); got != want {
			t.Errorf("%s: %d pages, want %d", portal, got, want)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		view         state.View
		detailID     string
		tripID       string
		bookingID    string
		wantNotFound bool
		check        func(t *testing.T, r Route)
	}{
		{
			name: "list page",
			view: state.ViewAdminVendors,
		},
		{
			name:     "vendor detail",
			view:     state.ViewAdminVendorDetail,
			detailID: "v2",
			check: func(t *testing.T, r Route) {
				if r.Vendor == nil || r.Vendor.BusinessName != "Goa Explores" {
					t.Errorf("vendor = %+v", r.Vendor)
				}
			},
		},
		{
			name:     "trip detail",
			view:     state.ViewAdminTripDetail,
			detailID: "1",
			check: func(t *testing.T, r Route) {
				if r.Trip == nil || r.Trip.ID != "1" {
					t.Errorf("trip = %+v", r.Trip)
				}
			},
		},
		{
			name:     "payout detail",
			view:     state.ViewAdminPayoutDetail,
			detailID: "P1",
			check: func(t *testing.T, r Route) {
				if r.Payout == nil || r.Payout.Amount != 42000 {
					t.Errorf("payout = %+v", r.Payout)
				}
			},
		},
		{
			name:   "customer trip page",
			view:   state.ViewTripDetail,
			tripID: "1",
		},
		{
			name:      "booking confirmation carries its trip",
			view:      state.ViewBookingConfirmation,
			bookingID: "B1",
			check: func(t *testing.T, r Route) {
				if r.Booking == nil || r.Trip == nil {
					t.Errorf("booking=%v trip=%v", r.Booking, r.Trip)
				}
			},
		},
		{
			name:         "detail without selection",
			view:         state.ViewAdminTripDetail,
			wantNotFound: true,
		},
		{
			name:         "detail with unknown id",
			view:         state.ViewAdminVendorDetail,
			detailID:     "v404",
			wantNotFound: true,
		},
		{
			name:         "selection of the wrong kind",
			view:         state.ViewAdminPayoutDetail,
			detailID:     "v2",
			wantNotFound: true,
		},
		{
			name:         "unknown view",
			view:         "ADMIN_TELEPORTER",
			wantNotFound: true,
			check: func(t *testing.T, r Route) {
				if r.Page.View != ViewNotFound {
					t.Errorf("page = %s", r.Page.View)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := snapshot()
			st.View = tt.view
			st.SelectedDetailID = tt.detailID
			st.SelectedTripID = tt.tripID
			st.LastBookingID = tt.bookingID

			r := Resolve(st)
			if r.NotFound != tt.wantNotFound {
				t.Fatalf("NotFound = %v, want %v", r.NotFound, tt.wantNotFound)
			}
			if !tt.wantNotFound && r.Page.View != tt.view {
				t.Errorf("page = %s, want %s", r.Page.View, tt.view)
			}
			if tt.check != nil {
				tt.check(t, r)
			}
		})
	}
}

func TestResolve_AfterNavigateToDetail(t *testing.T) {
	d := fallback.Default()
	s := state.New(gateway.NewStatic(d), state.WithFallback(d), state.WithLogger(log.New(io.Discard, "", 0)))

	if err := s.NavigateToDetail(state.DetailTrip, d.Trips[0].ID); err != nil {
		t.Fatalf("NavigateToDetail: %v", err)
	}
	r := Resolve(s.Snapshot())
	if r.NotFound || r.Trip == nil || r.Trip.ID != d.Trips[0].ID {
		t.Errorf("got %+v", r)
	}

	s.Navigate(state.ViewAdminVendorDetail)
	if r := Resolve(s.Snapshot()); !r.NotFound {
		t.Error("trip id under vendor detail should resolve as not found")
	}
}
