package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/jredh-dev/tripmarket/pkg/models"
)

// collection is an insertion-ordered map.
type collection[T any] struct {
	items map[string]T
	order []string
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) put(id string, v T) {
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = v
}

func (c *collection[T]) list(keep func(T) bool) []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		if v := c.items[id]; keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Memory is an in-process Repository for development and tests.
type Memory struct {
	mu sync.RWMutex

	vendors   *collection[models.Vendor]
	trips     *collection[models.Trip]
	campaigns *collection[models.Campaign]
	users     map[string]*models.User // by lower-cased email
}

var _ Repository = (*Memory)(nil)

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		vendors:   newCollection[models.Vendor](),
		trips:     newCollection[models.Trip](),
		campaigns: newCollection[models.Campaign](),
		users:     make(map[string]*models.User),
	}
}

func (m *Memory) PendingVendors(context.Context) ([]models.Vendor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vendors.list(func(v models.Vendor) bool { return v.Status == models.VendorPending }), nil
}

func (m *Memory) PendingTrips(context.Context) ([]models.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips.list(func(t models.Trip) bool { return t.Status == models.TripPending }), nil
}

func (m *Memory) Campaigns(context.Context) ([]models.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.campaigns.list(nil), nil
}

func (m *Memory) VerifyVendor(_ context.Context, id string, status models.VendorStatus, notes string) (models.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vendors.items[id]
	if !ok {
		return models.Vendor{}, ErrNotFound
	}
	if err := v.SetStatus(status, notes); err != nil {
		return models.Vendor{}, err
	}
	m.vendors.put(id, v)
	return v, nil
}

func (m *Memory) ApproveTrip(_ context.Context, id string, promoted bool) (models.Trip, error) {
	return m.updateTrip(id, func(t *models.Trip) { t.Approve(promoted) })
}

func (m *Memory) RejectTrip(_ context.Context, id, reason string) (models.Trip, error) {
	return m.updateTrip(id, func(t *models.Trip) { t.Reject(reason) })
}

func (m *Memory) updateTrip(id string, fn func(*models.Trip)) (models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips.items[id]
	if !ok {
		return models.Trip{}, ErrNotFound
	}
	fn(&t)
	m.trips.put(id, t)
	return t, nil
}

func (m *Memory) PutVendor(_ context.Context, v models.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vendors.put(v.ID, v)
	return nil
}

func (m *Memory) PutTrip(_ context.Context, t models.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips.put(t.ID, t)
	return nil
}

func (m *Memory) PutCampaign(_ context.Context, c models.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.campaigns.put(c.ID, c)
	return nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := m.users[key]; ok {
		return ErrConflict
	}
	cp := *u
	m.users[key] = &cp
	return nil
}

func (m *Memory) Empty(context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vendors.order) == 0 && len(m.trips.order) == 0, nil
}

func (m *Memory) Close() error { return nil }
