package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jredh-dev/tripmarket/internal/fallback"
	"github.com/jredh-dev/tripmarket/pkg/models"
)

// exercise runs the behaviour every backend must share. IDs are unique per
// run so the suite can point at a shared emulator or database.
func exercise(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()
	suffix := uuid.NewString()[:8]
	vID, tID, cID := "v-"+suffix, "t-"+suffix, "c-"+suffix

	if err := repo.PutVendor(ctx, models.Vendor{ID: vID, BusinessName: "Goa Explores", Status: models.VendorPending}); err != nil {
		t.Fatalf("PutVendor: %v", err)
	}
	if err := repo.PutTrip(ctx, models.Trip{ID: tID, Title: "Beach Hopper", Destination: "North Goa", Status: models.TripPending}); err != nil {
		t.Fatalf("PutTrip: %v", err)
	}
	if err := repo.PutCampaign(ctx, models.Campaign{ID: cID, Title: "Winter", Status: models.CampaignActive}); err != nil {
		t.Fatalf("PutCampaign: %v", err)
	}

	vendors, err := repo.PendingVendors(ctx)
	if err != nil {
		t.Fatalf("PendingVendors: %v", err)
	}
	if !containsID(vendors, vID, func(v models.Vendor) string { return v.ID }) {
		t.Errorf("pending vendors missing %s", vID)
	}

	v, err := repo.VerifyVendor(ctx, vID, models.VendorVerified, "docs ok")
	if err != nil {
		t.Fatalf("VerifyVendor: %v", err)
	}
	if !v.IsVerified() || v.VerificationNotes != "docs ok" {
		t.Errorf("got %+v", v)
	}
	vendors, _ = repo.PendingVendors(ctx)
	if containsID(vendors, vID, func(v models.Vendor) string { return v.ID }) {
		t.Error("verified vendor still pending")
	}
	if _, err := repo.VerifyVendor(ctx, vID, "BOGUS", ""); !errors.Is(err, models.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := repo.VerifyVendor(ctx, "missing-"+suffix, models.VendorVerified, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	trips, err := repo.PendingTrips(ctx)
	if err != nil || !containsID(trips, tID, func(t models.Trip) string { return t.ID }) {
		t.Fatalf("PendingTrips: %v, %d trips", err, len(trips))
	}
	tr, err := repo.RejectTrip(ctx, tID, "missing itinerary")
	if err != nil || tr.Status != models.TripRejected || tr.RejectionReason != "missing itinerary" {
		t.Fatalf("RejectTrip: %+v, %v", tr, err)
	}
	tr, err = repo.ApproveTrip(ctx, tID, true)
	if err != nil || tr.Status != models.TripApproved || !tr.IsPromoted {
		t.Fatalf("ApproveTrip: %+v, %v", tr, err)
	}
	if _, err := repo.ApproveTrip(ctx, "missing-"+suffix, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	campaigns, err := repo.Campaigns(ctx)
	if err != nil || !containsID(campaigns, cID, func(c models.Campaign) string { return c.ID }) {
		t.Errorf("Campaigns: %v, %d campaigns", err, len(campaigns))
	}

	email := "Admin-" + suffix + "@TripMarket.dev"
	u := &models.User{ID: uuid.NewString(), Email: email, Name: "Admin", Role: models.RoleAdmin, PasswordHash: "hash", CreatedAt: time.Now().UTC().Truncate(time.Millisecond)}
	if err := repo.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := repo.CreateUser(ctx, u); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate user: expected ErrConflict, got %v", err)
	}
	got, err := repo.UserByEmail(ctx, email)
	if err != nil {
		t.Fatalf("UserByEmail: %v", err)
	}
	if got.ID != u.ID || got.PasswordHash != "hash" || !got.IsAdmin() {
		t.Errorf("got %+v", got)
	}
	if _, err := repo.UserByEmail(ctx, "nobody-"+suffix+"@tripmarket.dev"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func containsID[T any](items []T, id string, key func(T) string) bool {
	for _, it := range items {
		if key(it) == id {
			return true
		}
	}
	return false
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemory_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, id := range []string{"c", "a", "b"} {
		m.PutVendor(ctx, models.Vendor{ID: id, Status: models.VendorPending}) //nolint:errcheck
	}
	m.PutVendor(ctx, models.Vendor{ID: "a", BusinessName: "updated", Status: models.VendorPending}) //nolint:errcheck

	vendors, _ := m.PendingVendors(ctx)
	if len(vendors) != 3 || vendors[0].ID != "c" || vendors[1].ID != "a" || vendors[2].ID != "b" {
		t.Fatalf("got %+v", vendors)
	}
	if vendors[1].BusinessName != "updated" {
		t.Error("re-put should replace in place")
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	d := fallback.Default()

	seeded, err := Seed(ctx, m, d)
	if err != nil || !seeded {
		t.Fatalf("Seed: %v, %v", seeded, err)
	}
	pending, _ := m.PendingVendors(ctx)
	if len(pending) != len(d.PendingVendors()) {
		t.Errorf("pending vendors = %d, want %d", len(pending), len(d.PendingVendors()))
	}

	seeded, err = Seed(ctx, m, d)
	if err != nil || seeded {
		t.Errorf("second Seed should be a no-op, got %v, %v", seeded, err)
	}
}

func TestFirestore(t *testing.T) {
	host := os.Getenv("FIRESTORE_EMULATOR_HOST")
	if host == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	repo, err := NewFirestore(context.Background(), FirestoreConfig{ProjectID: "tripmarket-test", EmulatorHost: host})
	if err != nil {
		t.Fatalf("NewFirestore: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	exercise(t, repo)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	repo, err := NewPostgres(context.Background(), PostgresConfig{DSN: dsn, MaxConns: 2})
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	exercise(t, repo)
}
