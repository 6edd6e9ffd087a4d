// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 Jared Redh. All rights reserved.

package app_test

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jredh-dev/tripmarket/cmd/console/internal/app"
	"github.com/jredh-dev/tripmarket/internal/fallback"
	"github.com/jredh-dev/tripmarket/internal/gateway"
	"github.com/jredh-dev/tripmarket/internal/state"
	"github.com/jredh-dev/tripmarket/pkg/models"
)

// --- Fakes ---

type fakeAuth struct {
	session gateway.Session
	err     error
	calls   int
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (gateway.Session, error) {
	f.calls++
	if f.err != nil {
		return gateway.Session{}, f.err
	}
	s := f.session
	s.Email = email
	return s, nil
}

type memTokens struct {
	token   string
	cleared bool
}

func (t *memTokens) Save(token string) error { t.token = token; return nil }
func (t *memTokens) Clear() error            { t.token = ""; t.cleared = true; return nil }

// failingGateway rejects every admin decision with err.
type failingGateway struct {
	gateway.Gateway
	err error
}

func (g failingGateway) VerifyVendor(context.Context, string, models.VendorStatus, string) (models.Vendor, error) {
	return models.Vendor{}, g.err
}

// expiredGateway answers every refresh with 401.
type expiredGateway struct {
	gateway.Gateway
}

func (expiredGateway) PendingVendors(context.Context) gateway.Result[models.Vendor] {
	return gateway.NewResult[models.Vendor](nil, &gateway.StatusError{Method: "GET", Path: "/api/vendors/pending", Code: http.StatusUnauthorized})
}

// loopStore records refresh loop starts and stops instead of running one.
type loopStore struct {
	*state.Store
	starts, stops int
}

func (s *loopStore) Start(context.Context) { s.starts++ }
func (s *loopStore) Stop()                 { s.stops++ }

// --- Test helpers ---

func newStore(t *testing.T, gw gateway.Gateway) *state.Store {
	t.Helper()
	if gw == nil {
		gw = gateway.NewStatic(fallback.Default())
	}
	return state.New(gw, state.WithLogger(log.New(io.Discard, "", 0)))
}

func newModel(t *testing.T, store app.Store, opts app.Options) app.Model {
	t.Helper()
	m := app.New(context.Background(), store, opts)
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func update(m app.Model, msg tea.Msg) (app.Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(app.Model), cmd
}

func typeKeys(m app.Model, s string) app.Model {
	for _, r := range s {
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(m app.Model, k tea.KeyType) (app.Model, tea.Cmd) {
	return update(m, tea.KeyMsg{Type: k})
}

func sendKey(m app.Model, r rune) (app.Model, tea.Cmd) {
	return update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// deliver runs cmd, dispatches every message it yields into the model and
// returns the follow-up command, if any.
func deliver(t *testing.T, m app.Model, cmd tea.Cmd) (app.Model, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return update(m, msg)
	}
	var next tea.Cmd
	for _, c := range batch {
		var n tea.Cmd
		m, n = update(m, c())
		if n != nil {
			next = n
		}
	}
	return m, next
}

// runCmd executes a tea.Cmd and dispatches the resulting message into the model.
func runCmd(t *testing.T, m app.Model, cmd tea.Cmd) (app.Model, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return update(m, cmd())
}

func viewContains(t *testing.T, m app.Model, want string) {
	t.Helper()
	if v := m.View(); !strings.Contains(v, want) {
		t.Errorf("view does not contain %q:\n%s", want, v)
	}
}

// --- Tests ---

func TestNew_OfflineStartsOnDashboard(t *testing.T) {
	store := newStore(t, nil)
	m := newModel(t, store, app.Options{Offline: true})

	if got := store.Snapshot().View; got != state.ViewAdminDashboard {
		t.Errorf("view = %s, want ADMIN_DASHBOARD", got)
	}
	viewContains(t, m, "Overview")
	viewContains(t, m, "Pending KYC")
	viewContains(t, m, "OFFLINE")
}

func TestNew_WithoutTokenShowsLogin(t *testing.T) {
	store := newStore(t, nil)
	m := newModel(t, store, app.Options{Auth: &fakeAuth{}})

	if got := store.Snapshot().View; got != state.ViewAdminLogin {
		t.Errorf("view = %s, want ADMIN_LOGIN", got)
	}
	viewContains(t, m, "Password")
}

func TestLogin_Success(t *testing.T) {
	store := &loopStore{Store: newStore(t, nil)}
	auth := &fakeAuth{session: gateway.Session{Token: "tok-123", Role: "admin"}}
	tokens := &memTokens{}
	m := newModel(t, store, app.Options{Auth: auth, Tokens: tokens})

	m = typeKeys(m, "admin@tripmarket.dev")
	m, _ = press(m, tea.KeyEnter) // to password
	m = typeKeys(m, "hunter2")
	m, cmd := press(m, tea.KeyEnter)
	if store.starts != 0 {
		t.Fatalf("refresh loop started before sign-in")
	}
	m, cmd = runCmd(t, m, cmd) // loginResultMsg, fires refresh
	m, _ = runCmd(t, m, cmd)   // refreshResultMsg

	if store.starts != 1 {
		t.Errorf("refresh loop starts = %d, want 1", store.starts)
	}
	if auth.calls != 1 {
		t.Errorf("login calls = %d, want 1", auth.calls)
	}
	if tokens.token != "tok-123" {
		t.Errorf("saved token = %q, want tok-123", tokens.token)
	}
	if got := store.Snapshot().View; got != state.ViewAdminDashboard {
		t.Errorf("view = %s, want ADMIN_DASHBOARD", got)
	}
	viewContains(t, m, "refreshed")
}

func TestLogin_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not admin", gateway.ErrNotAdmin, "not an admin"},
		{"bad credentials", &gateway.StatusError{Method: "POST", Path: "/api/auth/login", Code: http.StatusUnauthorized}, "invalid email or password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t, nil)
			tokens := &memTokens{}
			m := newModel(t, store, app.Options{Auth: &fakeAuth{err: tt.err}, Tokens: tokens})

			m = typeKeys(m, "someone@tripmarket.dev")
			m, _ = press(m, tea.KeyTab)
			m = typeKeys(m, "pw")
			m, cmd := press(m, tea.KeyEnter)
			m, _ = runCmd(t, m, cmd)

			if got := store.Snapshot().View; got != state.ViewAdminLogin {
				t.Errorf("view = %s, want ADMIN_LOGIN", got)
			}
			if tokens.token != "" {
				t.Errorf("token saved on failure: %q", tokens.token)
			}
			viewContains(t, m, tt.want)
		})
	}
}

func TestLogin_RequiresBothFields(t *testing.T) {
	auth := &fakeAuth{}
	m := newModel(t, newStore(t, nil), app.Options{Auth: auth})
	m, _ = press(m, tea.KeyEnter)
	m, cmd := press(m, tea.KeyEnter)
	if cmd != nil {
		t.Error("expected no login command with empty fields")
	}
	viewContains(t, m, "required")
	if auth.calls != 0 {
		t.Errorf("login called %d times", auth.calls)
	}
}

func TestSections_NumberAndTab(t *testing.T) {
	store := newStore(t, nil)
	m := newModel(t, store, app.Options{Offline: true})

	m, _ = sendKey(m, '2')
	if got := store.Snapshot().View; got != state.ViewAdminVendors {
		t.Fatalf("view = %s, want ADMIN_VENDORS", got)
	}
	viewContains(t, m, "Himalayan Trails Co.")

	m, _ = press(m, tea.KeyTab)
	if got := store.Snapshot().View; got != state.ViewAdminTrips {
		t.Errorf("after tab view = %s, want ADMIN_TRIPS", got)
	}

	m, _ = sendKey(m, '1')
	m, _ = press(m, tea.KeyShiftTab)
	if got := store.Snapshot().View; got != state.ViewAdminSettings {
		t.Errorf("shift+tab from dashboard = %s, want ADMIN_SETTINGS", got)
	}
	_ = m
}

func TestOpenDetailAndBack(t *testing.T) {
	store := newStore(t, nil)
	m := newModel(t, store, app.Options{Offline: true})

	m, _ = sendKey(m, '3')
	m, _ = press(m, tea.KeyEnter)

	st := store.Snapshot()
	if st.View != state.ViewAdminTripDetail || st.SelectedDetailID != "1" {
		t.Fatalf("view=%s id=%q, want ADMIN_TRIP_DETAIL 1", st.View, st.SelectedDetailID)
	}
	viewContains(t, m, "Manali Snow Escape")
	viewContains(t, m, "Pricing")

	m, _ = press(m, tea.KeyEsc)
	if got := store.Snapshot().View; got != state.ViewAdminTrips {
		t.Errorf("after esc view = %s, want ADMIN_TRIPS", got)
	}
	m, _ = press(m, tea.KeyEsc)
	if got := store.Snapshot().View; got != state.ViewAdminDashboard {
		t.Errorf("after second esc view = %s, want ADMIN_DASHBOARD", got)
	}
}

func TestVerifyVendor_FromList(t *testing.T) {
	store := newStore(t, nil)
	m := newModel(t, store, app.Options{Offline: true})

	m, _ = sendKey(m, '2')
	m, _ = sendKey(m, 'j') // v2
	m, cmd := sendKey(m, 'v')
	m, _ = runCmd(t, m, cmd)

	v, _ := store.Snapshot().Vendor("v2")
	if !v.IsVerified() {
		t.Errorf("v2 status = %s, want VERIFIED", v.Status)
	}
	viewContains(t, m, "vendor v2 is now VERIFIED")
}

func TestRejectVendor_FromDetail(t *testing.T) {
	store := newStore(t, nil)
	m := newModel(t, store, app.Options{Offline: true})

	m, _ = sendKey(m, '2')
	m, _ = sendKey(m, 'j')
	m, _ = sendKey(m, 'j') // v3
	m, _ = press(m, tea.KeyEnter)
	m, cmd := sendKey(m, 'x')
	_, _ = runCmd(t, m, cmd)

	v, _ := store.Snapshot().Vendor("v3")
	if v.Status != models.VendorRejected {
		t.Errorf("v3 status = %s, want REJECTED", v.Status)
	}
}

func TestVerifyVendor_GatewayFailureLeavesState(t *testing.T) {
	gw := failingGateway{Gateway: gateway.NewStatic(fallback.Default()), err: errors.New("connection refused")}
	store := newStore(t, gw)
	m := newModel(t, store, app.Options{Offline: true})

	m, _ = sendKey(m, '2')
	m, _ = sendKey(m, 'j')
	m, cmd := sendKey(m, 'v')
	m, _ = runCmd(t, m, cmd)

	v, _ := store.Snapshot().Vendor("v2")
	if v.Status != models.VendorPending {
		t.Errorf("v2 status = %s, want PENDING", v.Status)
	}
	viewContains(t, m, "connection refused")
}

func TestUnauthorizedAction_ReturnsToLogin(t *testing.T) {
	gw := failingGateway{
		Gateway: gateway.NewStatic(fallback.Default()),
		err:     &gateway.StatusError{Method: "PUT", Path: "/api/vendors/v2/verify", Code: http.StatusUnauthorized},
	}
	store := newStore(t, gw)
	tokens := &memTokens{token: "stale"}
	m := newModel(t, store, app.Options{Auth: &fakeAuth{}, Tokens: tokens, LoggedIn: true})

	m, _ = sendKey(m, '2')
	m, _ = sendKey(m, 'j')
	m, cmd := sendKey(m, 'v')
	m, _ = runCmd(t, m, cmd)

	if got := store.Snapshot().View; got != state.ViewAdminLogin {
		t.Errorf("view = %s, want ADMIN_LOGIN", got)
	}
	if !tokens.cleared {
		t.Error("expected stale token to be cleared")
	}
	viewContains(t, m, "session expired")
}

func TestRejectTrip_RequiresReason(t *testing.T) {
	store := newStore(t, nil)
	m := newModel(t, store, app.Options{Offline: true})

	m, _ = sendKey(m, '3')
	m, _ = sendKey(m, 'j')
	m, _ = sendKey(m, 'j') // trip 3
	m, _ = sendKey(m, 'r')
	m, cmd := press(m, tea.KeyEnter)
	if cmd != nil {
		t.Fatal("expected no command for an empty reason")
	}
	viewContains(t, m, "reason is required")

	m = typeKeys(m, "blurry photos")
	m, cmd = press(m, tea.KeyEnter)
	_, _ = runCmd(t, m, cmd)

	tr, _ := store.Snapshot().Trip("3")
	if tr.Status != models.TripRejected || tr.RejectionReason != "blurry photos" {
		t.Errorf("trip 3 = %s %q, want REJECTED with reason", tr.Status, tr.RejectionReason)
	}
}

func TestRejectTrip_EscCancels(t *testing.T) {
	store := newStore(t, nil)
	m := newModel(t, store, app.Options{Offline: true})

	m, _ = sendKey(m, '3')
	m, _ = sendKey(m, 'r')
	m = typeKeys(m, "nope")
	m, _ = press(m, tea.KeyEsc)
	viewContains(t, m, "rejection cancelled")

	tr, _ := store.Snapshot().Trip("1")
	if tr.Status != models.TripApproved {
		t.Errorf("trip 1 status = %s, want unchanged APPROVED", tr.Status)
	}
}

func TestApproveTrip_Promoted(t *testing.T) {
	store := newStore(t, nil)
	m := newModel(t, store, app.Options{Offline: true})

	m, _ = sendKey(m, '3')
	for range 3 {
		m, _ = sendKey(m, 'j') // trip 4
	}
	m, cmd := sendKey(m, 'p')
	m, _ = runCmd(t, m, cmd)

	tr, _ := store.Snapshot().Trip("4")
	if tr.Status != models.TripApproved || !tr.IsPromoted {
		t.Errorf("trip 4 = %s promoted=%t, want APPROVED promoted", tr.Status, tr.IsPromoted)
	}
	viewContains(t, m, "approved and promoted")
}

func TestSearch_TypeAndOpen(t *testing.T) {
	store := newStore(t, nil)
	m := newModel(t, store, app.Options{Offline: true})

	m, _ = sendKey(m, '/')
	m = typeKeys(m, "goa")

	st := store.Snapshot()
	if st.View != state.ViewAdminSearch || st.SearchQuery != "goa" {
		t.Fatalf("view=%s query=%q", st.View, st.SearchQuery)
	}
	if len(st.SearchResults) == 0 {
		t.Fatal("expected search results for goa")
	}
	viewContains(t, m, "Goa Explores")

	m, _ = press(m, tea.KeyEnter) // leave input
	m, _ = press(m, tea.KeyEnter) // open first result
	st = store.Snapshot()
	if st.View != state.ViewAdminVendorDetail || st.SelectedDetailID != "v2" {
		t.Errorf("view=%s id=%q, want ADMIN_VENDOR_DETAIL v2", st.View, st.SelectedDetailID)
	}
	_ = m
}

func TestSearch_NoMatches(t *testing.T) {
	m := newModel(t, newStore(t, nil), app.Options{Offline: true})
	m, _ = sendKey(m, '/')
	m = typeKeys(m, "zzzz")
	viewContains(t, m, "No results")
}

func TestResolveTicket(t *testing.T) {
	store := newStore(t, nil)
	m := newModel(t, store, app.Options{Offline: true})

	m, _ = sendKey(m, '5')
	m, cmd := sendKey(m, 's')
	m, _ = runCmd(t, m, cmd)

	tk, _ := store.Snapshot().Ticket("TK1")
	if tk.Status != models.TicketResolved {
		t.Errorf("TK1 status = %s, want RESOLVED", tk.Status)
	}
	viewContains(t, m, "ticket TK1 resolved")
}

func TestActionWithoutSelection(t *testing.T) {
	m := newModel(t, newStore(t, nil), app.Options{Offline: true})
	m, cmd := sendKey(m, 'v') // dashboard has no vendor rows
	if cmd != nil {
		t.Error("expected no command")
	}
	viewContains(t, m, "select a vendor first")
}

func TestStateMsgFromSubscription(t *testing.T) {
	store := newStore(t, nil)
	m := newModel(t, store, app.Options{Offline: true})
	m, _ = sendKey(m, '2')
	before := strings.Count(m.View(), "VERIFIED")

	// A change made outside the console reaches it through the subscription.
	if err := store.VerifyVendor(context.Background(), "v3", models.VendorVerified, ""); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(m.View(), "VERIFIED"); got != before {
		t.Fatalf("view changed before the update was delivered")
	}

	m, _ = deliver(t, m, m.Init())

	if got := strings.Count(m.View(), "VERIFIED"); got != before+1 {
		t.Errorf("VERIFIED count = %d, want %d", got, before+1)
	}
}

func TestBackgroundRefreshUnauthorized_ReturnsToLogin(t *testing.T) {
	store := &loopStore{Store: newStore(t, expiredGateway{Gateway: gateway.NewStatic(fallback.Default())})}
	tokens := &memTokens{token: "stale"}
	auth := &fakeAuth{session: gateway.Session{Token: "tok-456", Role: "admin"}}
	m := newModel(t, store, app.Options{Auth: auth, Tokens: tokens, LoggedIn: true})

	// The refresh loop hits 401 while the admin is on the dashboard.
	if err := store.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh to fail")
	}
	m, next := deliver(t, m, m.Init())

	if got := store.Snapshot().View; got != state.ViewAdminLogin {
		t.Fatalf("view = %s, want ADMIN_LOGIN", got)
	}
	if !tokens.cleared {
		t.Error("expected stale token to be cleared")
	}
	if store.stops != 1 {
		t.Errorf("refresh loop stops = %d, want 1", store.stops)
	}
	viewContains(t, m, "session expired")

	// Signing in again is not undone by the error of the old refresh.
	m = typeKeys(m, "admin@tripmarket.dev")
	m, _ = press(m, tea.KeyEnter)
	m = typeKeys(m, "hunter2")
	m, cmd := press(m, tea.KeyEnter)
	m, _ = runCmd(t, m, cmd)
	m, _ = deliver(t, m, next)
	if got := store.Snapshot().View; got != state.ViewAdminDashboard {
		t.Errorf("view after sign-in = %s, want ADMIN_DASHBOARD", got)
	}
	if store.starts != 1 {
		t.Errorf("refresh loop starts = %d, want 1", store.starts)
	}
}

func TestAction_IgnoredWhileBusy(t *testing.T) {
	store := newStore(t, nil)
	m := newModel(t, store, app.Options{Offline: true})

	m, _ = sendKey(m, '2')
	m, _ = sendKey(m, 'j') // v2
	m, first := sendKey(m, 'v')
	if first == nil {
		t.Fatal("expected a verify command")
	}
	for _, r := range "vx" {
		if _, cmd := sendKey(m, r); cmd != nil {
			t.Errorf("%q while a decision is in flight returned a command", r)
		}
	}
	m, _ = sendKey(m, '3')
	for _, r := range "ap" {
		if _, cmd := sendKey(m, r); cmd != nil {
			t.Errorf("%q while a decision is in flight returned a command", r)
		}
	}
	m, _ = sendKey(m, 'r')
	m = typeKeys(m, "dup")
	if _, cmd := press(m, tea.KeyEnter); cmd != nil {
		t.Error("rejection submitted while a decision is in flight")
	}
	m, _ = press(m, tea.KeyEsc)
	m, _ = sendKey(m, '5')
	if _, cmd := sendKey(m, 's'); cmd != nil {
		t.Error("resolve while a decision is in flight returned a command")
	}

	m, _ = runCmd(t, m, first)
	if _, cmd := sendKey(m, 's'); cmd == nil {
		t.Error("expected actions to resume after the result arrived")
	}
}

func TestQuit(t *testing.T) {
	m := newModel(t, newStore(t, nil), app.Options{Offline: true})
	_, cmd := sendKey(m, 'q')
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
