// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 Jared Redh. All rights reserved.

// Package app is the terminal admin console. It renders whatever screen the
// router resolves from the store's current state and turns key presses into
// store operations.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jredh-dev/tripmarket/internal/gateway"
	"github.com/jredh-dev/tripmarket/internal/router"
	"github.com/jredh-dev/tripmarket/internal/state"
	"github.com/jredh-dev/tripmarket/pkg/models"
)

// Store is the part of *state.Store the console drives.
type Store interface {
	Snapshot() state.State
	Subscribe() (<-chan state.State, func())
	Navigate(view state.View)
	NavigateToDetail(kind state.DetailKind, id string) error
	SetSearchQuery(q string)
	Start(ctx context.Context)
	Stop()
	Refresh(ctx context.Context) error
	LoadCampaigns(ctx context.Context) error
	VerifyVendor(ctx context.Context, id string, status models.VendorStatus, notes string) error
	ApproveTrip(ctx context.Context, id string, promoted bool) error
	RejectTrip(ctx context.Context, id, reason string) error
	ResolveTicket(id string) error
}

// Authenticator exchanges admin credentials for a session.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (gateway.Session, error)
}

// TokenSaver persists the session token between runs.
type TokenSaver interface {
	Save(token string) error
	Clear() error
}

// Options wires optional collaborators. A nil Auth means no login screen
// (offline mode).
type Options struct {
	Auth     Authenticator
	Tokens   TokenSaver
	LoggedIn bool // a stored token was found
	APIURL   string
	Offline  bool
}

// sections are the admin screens reachable with tab and the number keys.
var sections = []state.View{
	state.ViewAdminDashboard,
	state.ViewAdminVendors,
	state.ViewAdminTrips,
	state.ViewAdminPayouts,
	state.ViewAdminSupport,
	state.ViewAdminMarketing,
	state.ViewAdminSearch,
	state.ViewAdminSettings,
}

// parents maps each detail screen to the list it was opened from.
var parents = map[state.View]state.View{
	state.ViewAdminVendorDetail: state.ViewAdminVendors,
	state.ViewAdminTripDetail:   state.ViewAdminTrips,
	state.ViewAdminPayoutDetail: state.ViewAdminPayouts,
}

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputReason
)

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
)

// Model is the bubbletea model.
type Model struct {
	ctx   context.Context
	store Store
	opts  Options

	st          state.State
	route       router.Route
	epoch       uint64
	updates     <-chan state.State
	unsubscribe func()
	lastRefresh time.Time // LastRefresh of the newest published snapshot seen

	cursor int

	input     inputMode
	buf       string
	pendingID string // trip awaiting a rejection reason

	email     string
	password  string
	focus     loginField
	signingIn bool

	flash    string
	flashErr bool
	busy     bool

	keys   KeyMap
	help   help.Model
	width  int
	height int
}

// New builds the console over store. ctx bounds every gateway call the
// console makes and the refresh loop started after sign-in.
func New(ctx context.Context, store Store, opts Options) Model {
	updates, unsubscribe := store.Subscribe()
	m := Model{
		ctx:         ctx,
		store:       store,
		opts:        opts,
		updates:     updates,
		unsubscribe: unsubscribe,
		keys:        DefaultKeyMap,
		help:        help.New(),
	}

	switch {
	case opts.Auth != nil && !opts.LoggedIn:
		store.Navigate(state.ViewAdminLogin)
	default:
		if p, ok := router.Lookup(store.Snapshot().View); !ok || p.Portal != router.PortalAdmin || p.View == state.ViewAdminLogin {
			store.Navigate(state.ViewAdminDashboard)
		}
	}
	m.setState(store.Snapshot())
	return m
}

// Init starts listening for store updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForState(m.updates), tea.SetWindowTitle("tripmarket admin"))
}

// setState adopts a snapshot. A new navigation resets the cursor.
func (m *Model) setState(st state.State) {
	m.st = st
	m.route = router.Resolve(st)
	if st.ScrollEpoch != m.epoch {
		m.epoch = st.ScrollEpoch
		m.cursor = 0
	}
	if n := len(m.rows()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *Model) sync() { m.setState(m.store.Snapshot()) }

func (m *Model) setFlash(msg string, isErr bool) {
	m.flash = msg
	m.flashErr = isErr
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

// row is one line of a list screen. kind is empty when the row has no detail
// screen.
type row struct {
	id    string
	kind  state.DetailKind
	cells []string
}

func (m Model) rows() []row {
	st := m.st
	var out []row
	switch st.View {
	case state.ViewAdminVendors:
		for _, v := range st.Vendors {
			out = append(out, row{v.ID, state.DetailVendor, []string{v.ID, v.BusinessName, string(v.Status), v.Email}})
		}
	case state.ViewAdminTrips:
		for _, t := range st.Trips {
			title := t.Title
			if t.IsPromoted {
				title += " *"
			}
			out = append(out, row{t.ID, state.DetailTrip, []string{t.ID, title, t.Destination, string(t.Status)}})
		}
	case state.ViewAdminPayouts:
		for _, p := range st.Payouts {
			out = append(out, row{p.ID, state.DetailPayout, []string{p.ID, vendorName(st, p.VendorID), money(p.Amount), string(p.Status)}})
		}
	case state.ViewAdminSupport:
		for _, t := range st.Tickets {
			out = append(out, row{t.ID, "", []string{t.ID, t.Subject, t.UserName, string(t.Status)}})
		}
	case state.ViewAdminMarketing:
		for _, c := range st.Campaigns {
			out = append(out, row{c.ID, "", []string{c.ID, c.Title, vendorName(st, c.VendorID), string(c.Status)}})
		}
	case state.ViewAdminSearch:
		for _, r := range st.SearchResults {
			out = append(out, row{r.ID, state.DetailKind(r.Type), []string{string(r.Type), r.Title, r.Subtitle, r.Status}})
		}
	}
	return out
}

// selected returns the row under the cursor.
func (m Model) selected() (row, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return row{}, false
	}
	return rows[m.cursor], true
}

// target resolves the entity an action applies to: the open detail screen's
// entity, or the selected row of a matching kind.
func (m Model) target(kind state.DetailKind) (string, bool) {
	switch {
	case kind == state.DetailVendor && m.route.Vendor != nil:
		return m.route.Vendor.ID, true
	case kind == state.DetailTrip && m.route.Trip != nil:
		return m.route.Trip.ID, true
	case kind == state.DetailPayout && m.route.Payout != nil:
		return m.route.Payout.ID, true
	}
	if r, ok := m.selected(); ok && r.kind == kind {
		return r.id, true
	}
	return "", false
}

func vendorName(st state.State, id string) string {
	if v, ok := st.Vendor(id); ok {
		return v.BusinessName
	}
	return id
}
