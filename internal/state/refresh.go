package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jredh-dev/tripmarket/internal/gateway"
	"github.com/jredh-dev/tripmarket/pkg/models"
)

// Refresh fetches pending vendors and pending trips concurrently and
// reconciles them with state. A loaded response is the API's pending set:
// placeholders from the fallback dataset are dropped, as are pending items
// the API no longer lists. Failures are logged, recorded in
// State.RefreshErr and returned, but never clear data.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	start := s.seq
	s.running++
	s.mu.Unlock()

	var (
		vendors gateway.Result[models.Vendor]
		trips   gateway.Result[models.Trip]
		g       errgroup.Group
	)
	g.Go(func() error {
		vendors = s.gw.PendingVendors(ctx)
		return nil
	})
	g.Go(func() error {
		trips = s.gw.PendingTrips(ctx)
		return nil
	})
	_ = g.Wait()

	var errs []error
	if vendors.Err != nil {
		errs = append(errs, fmt.Errorf("pending vendors: %w", vendors.Err))
	}
	if trips.Err != nil {
		errs = append(errs, fmt.Errorf("pending trips: %w", trips.Err))
	}
	err := errors.Join(errs...)

	var vd, td Decision
	s.update(func(st State) State {
		vm := Merge[models.Vendor]{
			Key:  vendorID,
			Skip: s.touchedSince("vendor", start),
			Drop: func(v models.Vendor) bool { return s.stale("vendor", v.ID, v.Status == models.VendorPending) },
		}
		st.Vendors, vd = ApplyFallback(st.Vendors, s.fallback.Vendors, vendors, vm)
		settle(s.origins, "vendor", vd, vendors, s.fallback.Vendors, vm)

		touched := s.touchedSince("trip", start)
		tm := Merge[models.Trip]{
			Key:  tripID,
			Skip: func(id string) bool { return s.deleted[id] || touched(id) },
			Drop: func(t models.Trip) bool { return s.stale("trip", t.ID, t.Status == models.TripPending) },
		}
		st.Trips, td = ApplyFallback(st.Trips, s.fallback.Trips, trips, tm)
		settle(s.origins, "trip", td, trips, s.fallback.Trips, tm)
		switch {
		case trips.Outcome == gateway.Loaded:
			s.pruneDeleted(trips.Items)
		case td == UsedFallback:
			for _, t := range s.fallback.Trips {
				delete(s.deleted, t.ID)
			}
		}

		st.LastRefresh = time.Now()
		st.RefreshErr = err
		s.finish()
		return s.research(st)
	})

	if vendors.Err != nil {
		s.logf("state: refresh vendors failed: decision=%s err=%v", vd, vendors.Err)
	}
	if trips.Err != nil {
		s.logf("state: refresh trips failed: decision=%s err=%v", td, trips.Err)
	}
	return err
}

// LoadCampaigns fetches all campaigns through the same fallback policy. A
// loaded response replaces every campaign except local purchases and those
// changed while the fetch was in flight.
func (s *Store) LoadCampaigns(ctx context.Context) error {
	s.mu.Lock()
	start := s.seq
	s.running++
	s.mu.Unlock()

	res := s.gw.Campaigns(ctx)
	var d Decision
	s.update(func(st State) State {
		m := Merge[models.Campaign]{
			Key:  campaignID,
			Skip: s.touchedSince("campaign", start),
			Drop: func(c models.Campaign) bool { return s.originOf("campaign", c.ID) != fromLocal },
		}
		st.Campaigns, d = ApplyFallback(st.Campaigns, s.fallback.Campaigns, res, m)
		settle(s.origins, "campaign", d, res, s.fallback.Campaigns, m)
		s.finish()
		return st
	})
	if res.Err != nil {
		s.logf("state: load campaigns failed: decision=%s err=%v", d, res.Err)
		return fmt.Errorf("campaigns: %w", res.Err)
	}
	return nil
}

// finish ends one in-flight fetch. Must be called inside update.
func (s *Store) finish() {
	s.running--
	if s.running == 0 {
		clear(s.touched)
	}
}

// stale reports whether a loaded item the API did not return should go.
// Must be called inside update.
func (s *Store) stale(kind, id string, pending bool) bool {
	switch s.originOf(kind, id) {
	case fromFallback:
		return true
	case fromLocal:
		return false
	}
	return pending
}

// pruneDeleted forgets deleted trips the API has stopped listing. Must be
// called inside update.
func (s *Store) pruneDeleted(listed []models.Trip) {
	ids := make(map[string]bool, len(listed))
	for _, t := range listed {
		ids[t.ID] = true
	}
	for id := range s.deleted {
		if !ids[id] {
			delete(s.deleted, id)
		}
	}
}

// settle records the origin of whatever ApplyFallback took in.
func settle[T any](origins map[string]origin, kind string, d Decision, res gateway.Result[T], fallback []T, m Merge[T]) {
	switch d {
	case Merged:
		for _, it := range res.Items {
			if id := m.Key(it); !m.skip(id) {
				delete(origins, kind+":"+id)
			}
		}
	case UsedFallback:
		markOrigin(origins, kind, fallback, m.Key, fromFallback)
	}
}

// touchedSince returns a predicate reporting whether an entity of kind was
// changed by a user after seq. Must be called inside update.
func (s *Store) touchedSince(kind string, seq uint64) func(string) bool {
	return func(id string) bool {
		return s.touched[kind+":"+id] > seq
	}
}

// Start refreshes immediately and then on every interval until ctx is
// cancelled or Stop is called. Calling Start on a running store does nothing.
func (s *Store) Start(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
}

// Stop cancels the refresh loop, including any in-flight fetch, and waits for
// it to exit.
func (s *Store) Stop() {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

func (s *Store) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		// Errors are already logged by Refresh.
		_ = s.Refresh(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
