package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jredh-dev/tripmarket/pkg/models"
)

const (
	colVendors   = "vendors"
	colTrips     = "trips"
	colCampaigns = "campaigns"
	colUsers     = "users"
)

// FirestoreConfig selects the project and database to use.
type FirestoreConfig struct {
	ProjectID       string
	Database        string // "" or "(default)" for the default database
	CredentialsPath string
	EmulatorHost    string // set to talk to the local emulator
}

// Firestore stores each entity as a document keyed by its ID.
type Firestore struct {
	client *firestore.Client
}

var _ Repository = (*Firestore)(nil)

// NewFirestore connects to Firestore. The default database goes through the
// Firebase app so it shares project discovery with other Firebase services;
// named databases use the Firestore client directly.
func NewFirestore(ctx context.Context, cfg FirestoreConfig) (*Firestore, error) {
	if cfg.EmulatorHost != "" {
		// The client library reads this variable and skips credentials.
		os.Setenv("FIRESTORE_EMULATOR_HOST", cfg.EmulatorHost)
	}
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" && cfg.EmulatorHost == "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	var (
		client *firestore.Client
		err    error
	)
	if cfg.Database == "" || cfg.Database == firestore.DefaultDatabaseID {
		app, aerr := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
		if aerr != nil {
			return nil, fmt.Errorf("firebase app: %w", aerr)
		}
		client, err = app.Firestore(ctx)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, cfg.ProjectID, cfg.Database, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &Firestore{client: client}, nil
}

func (f *Firestore) PendingVendors(ctx context.Context) ([]models.Vendor, error) {
	q := f.client.Collection(colVendors).Where("status", "==", string(models.VendorPending))
	return queryAll[models.Vendor](ctx, q)
}

func (f *Firestore) PendingTrips(ctx context.Context) ([]models.Trip, error) {
	q := f.client.Collection(colTrips).Where("status", "==", string(models.TripPending))
	return queryAll[models.Trip](ctx, q)
}

func (f *Firestore) Campaigns(ctx context.Context) ([]models.Campaign, error) {
	return queryAll[models.Campaign](ctx, f.client.Collection(colCampaigns).Query)
}

func (f *Firestore) VerifyVendor(ctx context.Context, id string, st models.VendorStatus, notes string) (models.Vendor, error) {
	var out models.Vendor
	ref := f.client.Collection(colVendors).Doc(id)
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		v, err := getDoc[models.Vendor](tx, ref)
		if err != nil {
			return err
		}
		if err := v.SetStatus(st, notes); err != nil {
			return err
		}
		out = v
		return tx.Set(ref, v)
	})
	if err != nil {
		return models.Vendor{}, fmt.Errorf("verify vendor %s: %w", id, err)
	}
	return out, nil
}

func (f *Firestore) ApproveTrip(ctx context.Context, id string, promoted bool) (models.Trip, error) {
	return f.updateTrip(ctx, id, func(t *models.Trip) { t.Approve(promoted) })
}

func (f *Firestore) RejectTrip(ctx context.Context, id, reason string) (models.Trip, error) {
	return f.updateTrip(ctx, id, func(t *models.Trip) { t.Reject(reason) })
}

func (f *Firestore) updateTrip(ctx context.Context, id string, fn func(*models.Trip)) (models.Trip, error) {
	var out models.Trip
	ref := f.client.Collection(colTrips).Doc(id)
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		t, err := getDoc[models.Trip](tx, ref)
		if err != nil {
			return err
		}
		fn(&t)
		out = t
		return tx.Set(ref, t)
	})
	if err != nil {
		return models.Trip{}, fmt.Errorf("update trip %s: %w", id, err)
	}
	return out, nil
}

func (f *Firestore) PutVendor(ctx context.Context, v models.Vendor) error {
	_, err := f.client.Collection(colVendors).Doc(v.ID).Set(ctx, v)
	return err
}

func (f *Firestore) PutTrip(ctx context.Context, t models.Trip) error {
	_, err := f.client.Collection(colTrips).Doc(t.ID).Set(ctx, t)
	return err
}

func (f *Firestore) PutCampaign(ctx context.Context, c models.Campaign) error {
	_, err := f.client.Collection(colCampaigns).Doc(c.ID).Set(ctx, c)
	return err
}

// Users are keyed by lower-cased email so lookups and uniqueness are one read.
func (f *Firestore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	snap, err := f.client.Collection(colUsers).Doc(strings.ToLower(email)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	var u models.User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

func (f *Firestore) CreateUser(ctx context.Context, u *models.User) error {
	_, err := f.client.Collection(colUsers).Doc(strings.ToLower(u.Email)).Create(ctx, u)
	if status.Code(err) == codes.AlreadyExists {
		return ErrConflict
	}
	return err
}

func (f *Firestore) Empty(ctx context.Context) (bool, error) {
	for _, col := range []string{colVendors, colTrips} {
		docs, err := f.client.Collection(col).Limit(1).Documents(ctx).GetAll()
		if err != nil {
			return false, fmt.Errorf("check %s: %w", col, err)
		}
		if len(docs) > 0 {
			return false, nil
		}
	}
	return true, nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

func getDoc[T any](tx *firestore.Transaction, ref *firestore.DocumentRef) (T, error) {
	var v T
	snap, err := tx.Get(ref)
	if status.Code(err) == codes.NotFound {
		return v, ErrNotFound
	}
	if err != nil {
		return v, err
	}
	if err := snap.DataTo(&v); err != nil {
		return v, fmt.Errorf("decode %s: %w", ref.ID, err)
	}
	return v, nil
}

func queryAll[T any](ctx context.Context, q firestore.Query) ([]T, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []T
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var v T
		if err := snap.DataTo(&v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", snap.Ref.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}
