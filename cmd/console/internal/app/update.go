// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 Jared Redh. All rights reserved.

package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jredh-dev/tripmarket/internal/gateway"
	"github.com/jredh-dev/tripmarket/internal/state"
	"github.com/jredh-dev/tripmarket/pkg/models"
)

// Update is the bubbletea update function.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		return m.handleState(msg)

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case refreshResultMsg:
		return m.handleRefreshResult(msg)

	case actionResultMsg:
		return m.handleActionResult(msg)
	}

	return m, nil
}

// --- Key Handling ---

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.st.View == state.ViewAdminLogin {
		return m.handleLoginKey(msg)
	}
	if m.input != inputNone {
		return m.handleInputKey(msg)
	}
	return m.handleMainKey(msg)
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.signingIn {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		return m.quit()
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.focus = 1 - m.focus
	case tea.KeyEnter:
		if m.focus == fieldEmail {
			m.focus = fieldPassword
			return m, nil
		}
		if strings.TrimSpace(m.email) == "" || m.password == "" {
			m.setFlash("email and password are required", true)
			return m, nil
		}
		m.signingIn = true
		m.setFlash("signing in...", false)
		return m, m.doLogin(strings.TrimSpace(m.email), m.password)
	case tea.KeyBackspace:
		if m.focus == fieldEmail {
			m.email = dropLast(m.email)
		} else {
			m.password = dropLast(m.password)
		}
	case tea.KeyRunes, tea.KeySpace:
		if m.focus == fieldEmail {
			m.email += string(msg.Runes)
		} else {
			m.password += string(msg.Runes)
		}
	}
	return m, nil
}

// handleInputKey edits the search query or the rejection reason.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.input == inputReason {
			m.setFlash("rejection cancelled", false)
		}
		m.input = inputNone
		m.buf = ""
		m.pendingID = ""
		return m, nil
	case tea.KeyEnter:
		return m.submitInput()
	case tea.KeyBackspace:
		m.buf = dropLast(m.buf)
	case tea.KeyRunes, tea.KeySpace:
		m.buf += string(msg.Runes)
	default:
		return m, nil
	}
	if m.input == inputSearch {
		m.store.SetSearchQuery(m.buf)
		m.sync()
	}
	return m, nil
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	switch m.input {
	case inputSearch:
		m.input = inputNone
		m.buf = ""
		return m, nil
	case inputReason:
		if m.busy {
			return m, nil
		}
		reason := strings.TrimSpace(m.buf)
		if reason == "" {
			m.setFlash("a rejection reason is required", true)
			return m, nil
		}
		id := m.pendingID
		m.input = inputNone
		m.buf = ""
		m.pendingID = ""
		m.busy = true
		return m, m.doRejectTrip(id, reason)
	}
	return m, nil
}

func (m Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m.quit()

	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}

	case key.Matches(msg, k.Next):
		m.goSection(m.sectionIndex() + 1)
	case key.Matches(msg, k.Prev):
		m.goSection(m.sectionIndex() - 1)
	case key.Matches(msg, k.Section):
		m.goSection(int(msg.Runes[0] - '1'))

	case key.Matches(msg, k.Open):
		return m.openSelected()
	case key.Matches(msg, k.Back):
		m.back()

	case key.Matches(msg, k.Search):
		m.store.Navigate(state.ViewAdminSearch)
		m.sync()
		m.input = inputSearch
		m.buf = m.st.SearchQuery

	case key.Matches(msg, k.Verify):
		return m.vendorAction(models.VendorVerified)
	case key.Matches(msg, k.RejectVendor):
		return m.vendorAction(models.VendorRejected)

	case key.Matches(msg, k.Approve):
		return m.approveAction(false)
	case key.Matches(msg, k.ApprovePromo):
		return m.approveAction(true)
	case key.Matches(msg, k.RejectTrip):
		id, ok := m.target(state.DetailTrip)
		if !ok {
			m.setFlash("select a trip first", true)
			return m, nil
		}
		m.input = inputReason
		m.pendingID = id
		m.buf = ""

	case key.Matches(msg, k.ResolveTicket):
		if m.busy {
			return m, nil
		}
		r, ok := m.selected()
		if !ok || m.st.View != state.ViewAdminSupport {
			m.setFlash("select a ticket first", true)
			return m, nil
		}
		m.busy = true
		return m, m.doResolveTicket(r.id)

	case key.Matches(msg, k.Refresh):
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.setFlash("refreshing...", false)
		return m, m.doRefresh()

	case key.Matches(msg, k.Logout):
		if m.st.View == state.ViewAdminSettings && m.opts.Auth != nil {
			return m.logout("logged out")
		}
	}
	return m, nil
}

func (m Model) sectionIndex() int {
	view := m.st.View
	if p, ok := parents[view]; ok {
		view = p
	}
	for i, v := range sections {
		if v == view {
			return i
		}
	}
	return 0
}

func (m *Model) goSection(i int) {
	n := len(sections)
	i = ((i % n) + n) % n
	m.store.Navigate(sections[i])
	m.sync()
}

func (m Model) openSelected() (tea.Model, tea.Cmd) {
	r, ok := m.selected()
	if !ok || r.kind == "" {
		return m, nil
	}
	if err := m.store.NavigateToDetail(r.kind, r.id); err != nil {
		m.setFlash(fmt.Sprintf("%s %s has no detail screen", strings.ToLower(string(r.kind)), r.id), true)
		return m, nil
	}
	m.sync()
	return m, nil
}

func (m *Model) back() {
	switch view := m.st.View; {
	case parents[view] != "":
		m.store.Navigate(parents[view])
	case view != state.ViewAdminDashboard:
		m.store.Navigate(state.ViewAdminDashboard)
	default:
		return
	}
	m.sync()
}

func (m Model) vendorAction(status models.VendorStatus) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	id, ok := m.target(state.DetailVendor)
	if !ok {
		m.setFlash("select a vendor first", true)
		return m, nil
	}
	m.busy = true
	return m, m.doVerifyVendor(id, status)
}

func (m Model) approveAction(promoted bool) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	id, ok := m.target(state.DetailTrip)
	if !ok {
		m.setFlash("select a trip first", true)
		return m, nil
	}
	m.busy = true
	return m, m.doApproveTrip(id, promoted)
}

// logout stops background refreshes and returns to the login screen.
func (m Model) logout(reason string) (tea.Model, tea.Cmd) {
	m.store.Stop()
	if m.opts.Tokens != nil {
		if err := m.opts.Tokens.Clear(); err != nil {
			m.setFlash(err.Error(), true)
		}
	}
	m.password = ""
	m.focus = fieldEmail
	m.store.Navigate(state.ViewAdminLogin)
	m.sync()
	m.setFlash(reason, false)
	return m, nil
}

// --- Async Commands ---

func waitForState(ch <-chan state.State) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg{st: st}
	}
}

func (m Model) doLogin(email, password string) tea.Cmd {
	ctx, auth := m.ctx, m.opts.Auth
	return func() tea.Msg {
		if auth == nil {
			return loginResultMsg{err: fmt.Errorf("login not available offline")}
		}
		s, err := auth.Login(ctx, email, password)
		return loginResultMsg{session: s, err: err}
	}
}

func (m Model) doRefresh() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		err := errors.Join(store.Refresh(ctx), store.LoadCampaigns(ctx))
		return refreshResultMsg{err: err}
	}
}

func (m Model) doVerifyVendor(id string, status models.VendorStatus) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		err := store.VerifyVendor(ctx, id, status, "")
		return actionResultMsg{done: fmt.Sprintf("vendor %s is now %s", id, status), err: err}
	}
}

func (m Model) doApproveTrip(id string, promoted bool) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		err := store.ApproveTrip(ctx, id, promoted)
		done := fmt.Sprintf("trip %s approved", id)
		if promoted {
			done += " and promoted"
		}
		return actionResultMsg{done: done, err: err}
	}
}

func (m Model) doRejectTrip(id, reason string) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		err := store.RejectTrip(ctx, id, reason)
		return actionResultMsg{done: fmt.Sprintf("trip %s rejected", id), err: err}
	}
}

func (m Model) doResolveTicket(id string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		err := store.ResolveTicket(id)
		return actionResultMsg{done: fmt.Sprintf("ticket %s resolved", id), err: err}
	}
}

// --- Message Handlers ---

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.signingIn = false
	switch {
	case errors.Is(msg.err, gateway.ErrNotAdmin):
		m.setFlash("this account is not an admin", true)
		return m, nil
	case errors.Is(msg.err, gateway.ErrUnauthorized):
		m.setFlash("invalid email or password", true)
		return m, nil
	case msg.err != nil:
		m.setFlash(msg.err.Error(), true)
		return m, nil
	}

	if m.opts.Tokens != nil {
		if err := m.opts.Tokens.Save(msg.session.Token); err != nil {
			m.setFlash(fmt.Sprintf("signed in, but the token was not saved: %v", err), true)
		}
	}
	m.password = ""
	m.store.Start(m.ctx)
	m.store.Navigate(state.ViewAdminDashboard)
	m.sync()
	if !m.flashErr {
		m.setFlash("signed in as "+msg.session.Email, false)
	}
	m.busy = true
	return m, m.doRefresh()
}

// handleState adopts a published snapshot. A background refresh rejected
// with 401 ends the session like a failed action does.
func (m Model) handleState(msg stateMsg) (tea.Model, tea.Cmd) {
	fresh := msg.st.LastRefresh.After(m.lastRefresh)
	if fresh {
		m.lastRefresh = msg.st.LastRefresh
	}
	m.setState(msg.st)
	wait := waitForState(m.updates)
	if fresh && m.opts.Auth != nil && m.st.View != state.ViewAdminLogin &&
		errors.Is(msg.st.RefreshErr, gateway.ErrUnauthorized) {
		next, _ := m.logout("session expired, sign in again")
		return next, wait
	}
	return m, wait
}

func (m Model) handleRefreshResult(msg refreshResultMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.sync()
	switch {
	case errors.Is(msg.err, gateway.ErrUnauthorized) && m.opts.Auth != nil:
		return m.logout("session expired, sign in again")
	case msg.err != nil:
		m.setFlash("refresh failed, showing cached data: "+msg.err.Error(), true)
	default:
		m.setFlash("refreshed", false)
	}
	return m, nil
}

func (m Model) handleActionResult(msg actionResultMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.sync()
	switch {
	case errors.Is(msg.err, gateway.ErrUnauthorized) && m.opts.Auth != nil:
		return m.logout("session expired, sign in again")
	case msg.err != nil:
		m.setFlash(msg.err.Error(), true)
	default:
		m.setFlash(msg.done, false)
	}
	return m, nil
}

func dropLast(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
