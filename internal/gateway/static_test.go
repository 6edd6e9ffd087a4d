package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/jredh-dev/tripmarket/internal/fallback"
	"github.com/jredh-dev/tripmarket/pkg/models"
)

func TestStatic_VerifyRemovesFromPending(t *testing.T) {
	gw := NewStatic(fallback.Default())
	ctx := context.Background()

	before := gw.PendingVendors(ctx)
	if before.Outcome != Loaded {
		t.Fatalf("expected pending vendors in dataset, got %v", before.Outcome)
	}
	id := before.Items[0].ID

	v, err := gw.VerifyVendor(ctx, id, models.VendorVerified, "")
	if err != nil {
		t.Fatalf("VerifyVendor: %v", err)
	}
	if !v.IsVerified() {
		t.Error("expected verified vendor")
	}
	after := gw.PendingVendors(ctx)
	if len(after.Items) != len(before.Items)-1 {
		t.Errorf("pending count %d -> %d", len(before.Items), len(after.Items))
	}
}

func TestStatic_UnknownIDs(t *testing.T) {
	gw := NewStatic(fallback.Dataset{})
	ctx := context.Background()
	if _, err := gw.VerifyVendor(ctx, "nope", models.VendorVerified, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("vendor: got %v", err)
	}
	if _, err := gw.ApproveTrip(ctx, "nope", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("trip: got %v", err)
	}
	if r := gw.PendingTrips(ctx); r.Outcome != Empty {
		t.Errorf("empty dataset: got %v", r.Outcome)
	}
}
