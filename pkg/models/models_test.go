package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestVendorMarshalJSON_DerivesIsVerified(t *testing.T) {
	tests := []struct {
		status VendorStatus
		want   string
	}{
		{VendorPending, `"isVerified":false`},
		{VendorVerified, `"isVerified":true`},
		{VendorRejected, `"isVerified":false`},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b, err := json.Marshal(Vendor{ID: "v1", BusinessName: "Goa Explores", Status: tt.status})
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if !strings.Contains(string(b), tt.want) {
				t.Errorf("got %s, want it to contain %s", b, tt.want)
			}
			if !strings.Contains(string(b), `"businessName":"Goa Explores"`) {
				t.Errorf("embedded fields lost: %s", b)
			}
		})
	}
}

func TestVendorUnmarshal_IgnoresIncomingIsVerified(t *testing.T) {
	var v Vendor
	if err := json.Unmarshal([]byte(`{"id":"v1","status":"PENDING","isVerified":true}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.IsVerified() {
		t.Error("isVerified on the wire should not override status")
	}
}

func TestVendorSetStatus(t *testing.T) {
	v := Vendor{Status: VendorVerified}
	if err := v.SetStatus(VendorRejected, "blurry documents"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if v.Status != VendorRejected || v.VerificationNotes != "blurry documents" {
		t.Errorf("got %+v", v)
	}
	if err := v.SetStatus("MAYBE", ""); err != ErrInvalidStatus {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if v.Status != VendorRejected {
		t.Error("invalid status should leave vendor untouched")
	}
}

func TestTripApproveReject(t *testing.T) {
	tr := Trip{ID: "3", Status: TripPending}
	tr.Reject("missing itinerary")
	if tr.Status != TripRejected || tr.RejectionReason != "missing itinerary" {
		t.Fatalf("reject: got %+v", tr)
	}
	tr.Approve(true)
	if tr.Status != TripApproved || !tr.IsPromoted || tr.RejectionReason != "" {
		t.Fatalf("approve: got %+v", tr)
	}
}

func TestPricingFor(t *testing.T) {
	double := 18000.0
	p := Pricing{Double: &double}
	if got, ok := p.For(SharingDouble); !ok || got != 18000 {
		t.Errorf("double: got %v, %v", got, ok)
	}
	if _, ok := p.For(SharingQuad); ok {
		t.Error("quad should be unavailable")
	}
	if _, ok := p.For("penthouse"); ok {
		t.Error("unknown tier should be unavailable")
	}
}

func TestBookingCanTransition(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCancelled, BookingCancelled, true},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTicketResolve_Idempotent(t *testing.T) {
	tk := SupportTicket{ID: "TK1", Status: TicketOpen}
	if !tk.Resolve() {
		t.Error("first resolve should report a change")
	}
	if tk.Resolve() {
		t.Error("second resolve should be a no-op")
	}
	if tk.Status != TicketResolved {
		t.Errorf("got %s", tk.Status)
	}
}

func TestStatusValid(t *testing.T) {
	if !TripDraft.Valid() || TripStatus("ARCHIVED").Valid() {
		t.Error("TripStatus.Valid")
	}
	if !VendorPending.Valid() || VendorStatus("").Valid() {
		t.Error("VendorStatus.Valid")
	}
	if !BookingCancelled.Valid() || BookingStatus("LOST").Valid() {
		t.Error("BookingStatus.Valid")
	}
}
