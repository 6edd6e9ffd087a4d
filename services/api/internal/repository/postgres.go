package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jredh-dev/tripmarket/pkg/models"
)

// Entities are stored as JSONB documents with the status pulled out into its
// own column for the pending queries. seq keeps insertion order.
const schema = `
CREATE TABLE IF NOT EXISTS vendors (
	seq    BIGSERIAL,
	id     TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	doc    JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS trips (
	seq    BIGSERIAL,
	id     TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	doc    JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS campaigns (
	seq    BIGSERIAL,
	id     TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	doc    JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	role          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS vendors_status_idx ON vendors (status);
CREATE INDEX IF NOT EXISTS trips_status_idx ON trips (status);
`

// PostgresConfig configures the connection pool.
type PostgresConfig struct {
	DSN      string
	MaxConns int32
}

// Postgres is a Repository backed by PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Repository = (*Postgres)(nil)

// NewPostgres connects, pings and applies the schema.
func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pcfg.ConnConfig.RuntimeParams["application_name"] = "tripmarket-api"
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	pcfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (p *Postgres) PendingVendors(ctx context.Context) ([]models.Vendor, error) {
	return listDocs[models.Vendor](ctx, p.pool, "vendors", string(models.VendorPending))
}

func (p *Postgres) PendingTrips(ctx context.Context) ([]models.Trip, error) {
	return listDocs[models.Trip](ctx, p.pool, "trips", string(models.TripPending))
}

func (p *Postgres) Campaigns(ctx context.Context) ([]models.Campaign, error) {
	return listDocs[models.Campaign](ctx, p.pool, "campaigns", "")
}

func (p *Postgres) VerifyVendor(ctx context.Context, id string, st models.VendorStatus, notes string) (models.Vendor, error) {
	var out models.Vendor
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		v, err := lockDoc[models.Vendor](ctx, tx, "vendors", id)
		if err != nil {
			return err
		}
		if err := v.SetStatus(st, notes); err != nil {
			return err
		}
		out = v
		return putDoc(ctx, tx, "vendors", v.ID, string(v.Status), v)
	})
	if err != nil {
		return models.Vendor{}, fmt.Errorf("verify vendor %s: %w", id, err)
	}
	return out, nil
}

func (p *Postgres) ApproveTrip(ctx context.Context, id string, promoted bool) (models.Trip, error) {
	return p.updateTrip(ctx, id, func(t *models.Trip) { t.Approve(promoted) })
}

func (p *Postgres) RejectTrip(ctx context.Context, id, reason string) (models.Trip, error) {
	return p.updateTrip(ctx, id, func(t *models.Trip) { t.Reject(reason) })
}

func (p *Postgres) updateTrip(ctx context.Context, id string, fn func(*models.Trip)) (models.Trip, error) {
	var out models.Trip
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		t, err := lockDoc[models.Trip](ctx, tx, "trips", id)
		if err != nil {
			return err
		}
		fn(&t)
		out = t
		return putDoc(ctx, tx, "trips", t.ID, string(t.Status), t)
	})
	if err != nil {
		return models.Trip{}, fmt.Errorf("update trip %s: %w", id, err)
	}
	return out, nil
}

func (p *Postgres) PutVendor(ctx context.Context, v models.Vendor) error {
	return putDoc(ctx, p.pool, "vendors", v.ID, string(v.Status), v)
}

func (p *Postgres) PutTrip(ctx context.Context, t models.Trip) error {
	return putDoc(ctx, p.pool, "trips", t.ID, string(t.Status), t)
}

func (p *Postgres) PutCampaign(ctx context.Context, c models.Campaign) error {
	return putDoc(ctx, p.pool, "campaigns", c.ID, string(c.Status), c)
}

func (p *Postgres) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	var role string
	err := p.pool.QueryRow(ctx,
		`SELECT id, email, name, role, password_hash, created_at FROM users WHERE email = $1`,
		strings.ToLower(email),
	).Scan(&u.ID, &u.Email, &u.Name, &role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Role = models.Role(role)
	return &u, nil
}

func (p *Postgres) CreateUser(ctx context.Context, u *models.User) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (id, email, name, role, password_hash, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, strings.ToLower(u.Email), u.Name, string(u.Role), u.PasswordHash, u.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	return err
}

func (p *Postgres) Empty(ctx context.Context) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM vendors) OR EXISTS (SELECT 1 FROM trips)`,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Table names passed to the helpers below are package constants, never user input.

func listDocs[T any](ctx context.Context, q querier, table, status string) ([]T, error) {
	sql := "SELECT doc FROM " + table + " ORDER BY seq"
	var args []any
	if status != "" {
		sql = "SELECT doc FROM " + table + " WHERE status = $1 ORDER BY seq"
		args = append(args, status)
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	docs, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := json.Unmarshal(d, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", table, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func lockDoc[T any](ctx context.Context, q querier, table, id string) (T, error) {
	var v T
	var doc []byte
	err := q.QueryRow(ctx, "SELECT doc FROM "+table+" WHERE id = $1 FOR UPDATE", id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return v, ErrNotFound
	}
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(doc, &v); err != nil {
		return v, fmt.Errorf("decode %s %s: %w", table, id, err)
	}
	return v, nil
}

func putDoc(ctx context.Context, q querier, table, id, status string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", table, id, err)
	}
	_, err = q.Exec(ctx,
		"INSERT INTO "+table+" (id, status, doc) VALUES ($1, $2, $3) "+
			"ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, doc = EXCLUDED.doc",
		id, status, doc,
	)
	if err != nil {
		return fmt.Errorf("put %s %s: %w", table, id, err)
	}
	return nil
}
