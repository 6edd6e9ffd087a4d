// Package state is the single source of truth for the marketplace portals.
//
// A Store owns one State value. Every change is a single replace-whole-state
// transition taken under one lock, so readers and subscribers only ever see
// complete snapshots. Admin decisions are sent to the gateway first and
// applied locally only after the gateway confirms them.
package state

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jredh-dev/tripmarket/internal/fallback"
	"github.com/jredh-dev/tripmarket/internal/gateway"
	"github.com/jredh-dev/tripmarket/internal/search"
)

// DefaultRefreshInterval is how often Start re-fetches pending items.
const DefaultRefreshInterval = 30 * time.Second

// Store holds application state. Create one with New; the zero value is not
// usable.
type Store struct {
	gw       gateway.Gateway
	searcher search.Searcher
	logger   *log.Logger
	interval time.Duration
	fallback fallback.Dataset
	seeded   bool // fallback set by an option

	mu      sync.Mutex
	state   State
	seq     uint64            // incremented by every transition
	touched map[string]uint64 // "kind:id" -> seq of the last user change
	origins map[string]origin // "kind:id" -> where the entity came from; absent means the API
	deleted map[string]bool   // trip IDs deleted locally and still listed by the API
	running int               // refreshes in flight
	subs    map[int]chan State
	nextSub int

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithFallback replaces the embedded fallback dataset. The dataset is also
// the store's initial content.
func WithFallback(d fallback.Dataset) Option {
	return func(s *Store) {
		s.fallback = d.Clone()
		s.seeded = true
	}
}

// WithRefreshInterval sets the period used by Start.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets where refresh and mutation failures are logged.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMatcher swaps the search predicate.
func WithMatcher(m search.Matcher) Option {
	return func(s *Store) { s.searcher = search.Searcher{Matcher: m} }
}

// WithView sets the initial view (HOME by default).
func WithView(v View) Option {
	return func(s *Store) { s.state.View = v }
}

// New creates a store backed by gw, seeded with the fallback dataset.
func New(gw gateway.Gateway, opts ...Option) *Store {
	s := &Store{
		gw:       gw,
		logger:   log.Default(),
		interval: DefaultRefreshInterval,
		touched:  make(map[string]uint64),
		origins:  make(map[string]origin),
		deleted:  make(map[string]bool),
		subs:     make(map[int]chan State),
		state:    State{View: ViewHome},
	}
	for _, o := range opts {
		o(s)
	}
	if !s.seeded {
		s.fallback = fallback.Default()
	}

	d := s.fallback.Clone()
	s.state.Vendors = d.Vendors
	s.state.Trips = d.Trips
	s.state.Bookings = d.Bookings
	s.state.Tickets = d.Tickets
	s.state.Campaigns = d.Campaigns
	s.state.Payouts = d.Payouts
	markOrigin(s.origins, "vendor", d.Vendors, vendorID, fromFallback)
	markOrigin(s.origins, "trip", d.Trips, tripID, fromFallback)
	markOrigin(s.origins, "campaign", d.Campaigns, campaignID, fromFallback)
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a channel that receives the state after every transition.
// Delivery is latest-wins: a slow reader skips intermediate snapshots but
// always sees the newest one. The returned func unsubscribes and closes the
// channel.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// update applies fn as one transition and notifies subscribers. fn runs with
// the lock held and must not call back into the Store.
func (s *Store) update(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.state = fn(s.state)
	for _, ch := range s.subs {
		publish(ch, s.state)
	}
	return s.state
}

func publish(ch chan State, st State) {
	select {
	case ch <- st:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

// touch records a user change to an entity. Must be called inside update.
func (s *Store) touch(kind, id string) {
	s.touched[kind+":"+id] = s.seq
}

// origin says where a loaded entity came from. Fallback entities are
// placeholders the API has never confirmed; local ones exist only in this
// store.
type origin int

const (
	fromAPI origin = iota
	fromFallback
	fromLocal
)

func markOrigin[T any](origins map[string]origin, kind string, items []T, key func(T) string, o origin) {
	for _, it := range items {
		origins[kind+":"+key(it)] = o
	}
}

func (s *Store) originOf(kind, id string) origin {
	return s.origins[kind+":"+id]
}

// Navigate switches to view. It does not check that the view's selection is
// set; a detail view without one renders as not found.
func (s *Store) Navigate(view View) {
	s.update(func(st State) State {
		st.View = view
		st.ScrollEpoch++
		return st
	})
}

// NavigateToDetail opens the admin detail screen for one entity. View and
// selection change in the same transition.
func (s *Store) NavigateToDetail(kind DetailKind, id string) error {
	view, ok := kind.View()
	if !ok {
		return ErrUnknownDetailKind
	}
	s.update(func(st State) State {
		st.View = view
		st.SelectedDetailID = id
		st.ScrollEpoch++
		return st
	})
	return nil
}

// ViewTrip opens the customer trip page for id.
func (s *Store) ViewTrip(id string) {
	s.update(func(st State) State {
		st.View = ViewTripDetail
		st.SelectedTripID = id
		st.ScrollEpoch++
		return st
	})
}

// SetSearchQuery stores q and recomputes results over the loaded vendors and
// trips. A blank query clears the results.
func (s *Store) SetSearchQuery(q string) {
	s.update(func(st State) State {
		st.SearchQuery = q
		return s.research(st)
	})
}

// research recomputes search results for the current query. Transitions that
// change vendors or trips call it so results never show stale statuses.
func (s *Store) research(st State) State {
	if strings.TrimSpace(st.SearchQuery) == "" {
		st.SearchResults = nil
		return st
	}
	st.SearchResults = s.searcher.Search(st.SearchQuery, st.Vendors, st.Trips)
	return st
}

func (s *Store) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
