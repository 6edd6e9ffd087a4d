// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 Jared Redh. All rights reserved.

package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jredh-dev/tripmarket/internal/router"
	"github.com/jredh-dev/tripmarket/internal/state"
	"github.com/jredh-dev/tripmarket/pkg/models"
)

// View renders the screen the router resolved.
func (m Model) View() string {
	if m.st.View == state.ViewAdminLogin {
		return m.viewLogin()
	}

	var b strings.Builder
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	switch {
	case m.route.NotFound:
		b.WriteString(headerStyle.Render("Not found"))
		b.WriteString("\n\n")
		b.WriteString(faintStyle.Render("Nothing is loaded under this selection. Press esc to go back."))
	case m.route.Vendor != nil:
		b.WriteString(m.viewVendor(*m.route.Vendor))
	case m.route.Trip != nil:
		b.WriteString(m.viewTrip(*m.route.Trip))
	case m.route.Payout != nil:
		b.WriteString(m.viewPayout(*m.route.Payout))
	default:
		b.WriteString(m.viewSection())
	}

	b.WriteString("\n\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("tripmarket admin"))
	b.WriteString("\n\n")

	field := func(label, value string, focused bool) string {
		cursor := "  "
		if focused {
			cursor = "> "
			value += "█"
		}
		return cursor + labelStyle.Render(label) + value
	}
	b.WriteString(field("Email", m.email, m.focus == fieldEmail))
	b.WriteString("\n")
	b.WriteString(field("Password", strings.Repeat("•", len([]rune(m.password))), m.focus == fieldPassword))
	b.WriteString("\n\n")
	b.WriteString(faintStyle.Render("tab switch field · enter submit · esc quit"))
	if m.opts.APIURL != "" {
		b.WriteString("\n")
		b.WriteString(faintStyle.Render("api " + m.opts.APIURL))
	}
	if m.flash != "" {
		b.WriteString("\n\n")
		b.WriteString(m.viewFlash())
	}
	return boxStyle.Render(b.String())
}

func (m Model) viewTabs() string {
	active := m.sectionIndex()
	tabs := make([]string, 0, len(sections))
	for i, v := range sections {
		p, _ := router.Lookup(v)
		label := fmt.Sprintf("%d %s", i+1, p.Title)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	title := titleStyle.Render("tripmarket admin")
	if m.opts.Offline {
		title += " " + flashErrStyle.Render("OFFLINE")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) viewSection() string {
	switch m.st.View {
	case state.ViewAdminDashboard:
		return m.viewDashboard()
	case state.ViewAdminSettings:
		return m.viewSettings()
	case state.ViewAdminSearch:
		return m.viewSearch()
	}
	return m.viewTable(m.columns(), m.rows())
}

func (m Model) viewDashboard() string {
	st := m.st
	var active int
	for _, c := range st.Campaigns {
		if c.Status == models.CampaignActive {
			active++
		}
	}
	var revenue float64
	for _, v := range st.Vendors {
		revenue += v.Revenue
	}

	lines := []string{
		kv("Pending KYC", fmt.Sprint(len(st.PendingVendors()))),
		kv("Pending trips", fmt.Sprint(len(st.PendingTrips()))),
		kv("Open tickets", fmt.Sprint(len(st.OpenTickets()))),
		kv("Live campaigns", fmt.Sprint(active)),
		kv("Vendor revenue", money(revenue)),
		kv("Vendors", fmt.Sprint(len(st.Vendors))),
		kv("Trips", fmt.Sprint(len(st.Trips))),
		kv("Last refresh", since(st.LastRefresh)),
	}
	return headerStyle.Render("Overview") + "\n\n" + strings.Join(lines, "\n")
}

func (m Model) viewSettings() string {
	mode := "online"
	if m.opts.Offline {
		mode = "offline (fallback data)"
	}
	lines := []string{
		kv("API", orDash(m.opts.APIURL)),
		kv("Mode", mode),
		kv("Last refresh", since(m.st.LastRefresh)),
	}
	if m.opts.Auth != nil {
		lines = append(lines, "", faintStyle.Render("o log out"))
	}
	return headerStyle.Render("Settings") + "\n\n" + strings.Join(lines, "\n")
}

func (m Model) viewSearch() string {
	prompt := "/ " + m.st.SearchQuery
	if m.input == inputSearch {
		prompt = "/ " + m.buf + "█"
	}
	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\n")
	switch {
	case strings.TrimSpace(m.st.SearchQuery) == "":
		b.WriteString(faintStyle.Render("Type to search vendors and trips."))
	case len(m.st.SearchResults) == 0:
		b.WriteString(faintStyle.Render(fmt.Sprintf("No results for %q.", m.st.SearchQuery)))
	default:
		b.WriteString(m.viewTable(m.columns(), m.rows()))
	}
	return b.String()
}

func (m Model) columns() []string {
	switch m.st.View {
	case state.ViewAdminVendors:
		return []string{"ID", "BUSINESS", "STATUS", "EMAIL"}
	case state.ViewAdminTrips:
		return []string{"ID", "TITLE", "DESTINATION", "STATUS"}
	case state.ViewAdminPayouts:
		return []string{"ID", "VENDOR", "AMOUNT", "STATUS"}
	case state.ViewAdminSupport:
		return []string{"ID", "SUBJECT", "USER", "STATUS"}
	case state.ViewAdminMarketing:
		return []string{"ID", "CAMPAIGN", "VENDOR", "STATUS"}
	case state.ViewAdminSearch:
		return []string{"TYPE", "TITLE", "DETAIL", "STATUS"}
	}
	return nil
}

// Column widths; the last column takes the rest.
var widths = []int{8, 30, 24}

func (m Model) viewTable(cols []string, rows []row) string {
	if len(rows) == 0 {
		return faintStyle.Render("Nothing here.")
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(formatRow(cols)))
	for i, r := range rows {
		b.WriteString("\n")
		line := formatRow(r.cells)
		if last := len(r.cells) - 1; last >= 0 {
			status := r.cells[last]
			line = strings.TrimSuffix(line, status) + statusStyle(status).Render(status)
		}
		if i == m.cursor {
			line = selectedStyle.Render("> " + formatRow(r.cells))
		} else {
			line = "  " + line
		}
		b.WriteString(line)
	}
	return b.String()
}

func formatRow(cells []string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		if i < len(widths) {
			parts[i] = pad(c, widths[i])
		} else {
			parts[i] = c
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) viewVendor(v models.Vendor) string {
	lines := []string{
		headerStyle.Render(v.BusinessName),
		"",
		kv("ID", v.ID),
		kv("Status", statusStyle(string(v.Status)).Render(string(v.Status))),
		kv("Email", v.Email),
		kv("Phone", orDash(v.Phone)),
		kv("Joined", orDash(v.JoinedDate)),
		kv("Revenue", money(v.Revenue)),
		kv("Credits", money(v.Credits)),
		kv("Notes", orDash(v.VerificationNotes)),
		"",
		headerStyle.Render("Documents"),
	}
	if len(v.Documents) == 0 {
		lines = append(lines, faintStyle.Render("none submitted"))
	}
	for _, d := range v.Documents {
		lines = append(lines, "  "+d.Type)
		for _, u := range d.URLs {
			lines = append(lines, faintStyle.Render("    "+u))
		}
	}
	lines = append(lines, "", faintStyle.Render("v verify · x reject · esc back"))
	return strings.Join(lines, "\n")
}

func (m Model) viewTrip(t models.Trip) string {
	promoted := "no"
	if t.IsPromoted {
		promoted = "yes"
	}
	lines := []string{
		headerStyle.Render(t.Title),
		"",
		kv("ID", t.ID),
		kv("Status", statusStyle(string(t.Status)).Render(string(t.Status))),
		kv("Vendor", vendorName(m.st, t.VendorID)),
		kv("Destination", t.Destination),
		kv("Duration", fmt.Sprintf("%d days", t.Duration)),
		kv("Category", orDash(string(t.Category))),
		kv("Promoted", promoted),
	}
	if t.RejectionReason != "" {
		lines = append(lines, kv("Rejected for", t.RejectionReason))
	}

	lines = append(lines, "", headerStyle.Render("Pricing (per person)"))
	for _, s := range []models.Sharing{models.SharingSingle, models.SharingDouble, models.SharingTriple, models.SharingQuad} {
		price := "-"
		if p, ok := t.Pricing.For(s); ok {
			price = money(p)
		}
		lines = append(lines, kv(string(s), price))
	}
	if len(t.AvailableDates) > 0 {
		lines = append(lines, "", kv("Dates", strings.Join(t.AvailableDates, ", ")))
	}
	if len(t.Itinerary) > 0 {
		lines = append(lines, "", headerStyle.Render("Itinerary"))
		for _, d := range t.Itinerary {
			lines = append(lines, fmt.Sprintf("  Day %d  %s", d.Day, d.Title))
		}
	}

	if m.input == inputReason {
		lines = append(lines, "", "Reason: "+m.buf+"█", faintStyle.Render("enter reject · esc cancel"))
	} else {
		lines = append(lines, "", faintStyle.Render("a approve · p approve + promote · r reject · esc back"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewPayout(p models.Payout) string {
	lines := []string{
		headerStyle.Render("Payout " + p.ID),
		"",
		kv("Vendor", vendorName(m.st, p.VendorID)),
		kv("Amount", money(p.Amount)),
		kv("Status", statusStyle(string(p.Status)).Render(string(p.Status))),
		kv("Requested", orDash(p.RequestedAt)),
		"",
		faintStyle.Render("esc back"),
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewFooter() string {
	var b strings.Builder
	if m.input == inputReason && m.route.Trip == nil {
		b.WriteString("Reject " + m.pendingID + " because: " + m.buf + "█\n")
	}
	if m.flash != "" {
		b.WriteString(m.viewFlash())
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) viewFlash() string {
	if m.flashErr {
		return flashErrStyle.Render(m.flash)
	}
	return flashOKStyle.Render(m.flash)
}

// --- Formatting ---

func kv(label, value string) string {
	return labelStyle.Render(label) + value
}

func money(v float64) string {
	return fmt.Sprintf("₹%.0f", v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func since(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("15:04:05")
}

// pad truncates or right-pads s to width runes.
func pad(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}
