// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 Jared Redh. All rights reserved.

package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the console key bindings.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Next    key.Binding // next section
	Prev    key.Binding // previous section
	Section key.Binding // jump to section 1-8
	Open    key.Binding
	Back    key.Binding

	Verify        key.Binding // vendor -> VERIFIED
	RejectVendor  key.Binding // vendor -> REJECTED
	Approve       key.Binding
	ApprovePromo  key.Binding
	RejectTrip    key.Binding // prompts for a reason
	ResolveTicket key.Binding

	Search  key.Binding
	Refresh key.Binding
	Logout  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next section"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev section"),
	),
	Section: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"),
		key.WithHelp("1-8", "section"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Verify: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "verify vendor"),
	),
	RejectVendor: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reject vendor"),
	),
	Approve: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "approve trip"),
	),
	ApprovePromo: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "approve + promote"),
	),
	RejectTrip: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reject trip"),
	),
	ResolveTicket: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "resolve ticket"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "refresh"),
	),
	Logout: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "log out"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Open, k.Back, k.Search, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev, k.Section},
		{k.Open, k.Back, k.Search, k.Refresh},
		{k.Verify, k.RejectVendor, k.Approve, k.ApprovePromo, k.RejectTrip, k.ResolveTicket},
		{k.Logout, k.Quit},
	}
}
