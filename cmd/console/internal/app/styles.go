// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 Jared Redh. All rights reserved.

package app

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#7D56F4")
	colorOK     = lipgloss.Color("#04B575")
	colorWarn   = lipgloss.Color("#E5C07B")
	colorErr    = lipgloss.Color("#E06C75")
	colorFaint  = lipgloss.Color("#626262")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(colorAccent).
			Padding(0, 1)

	tabStyle       = lipgloss.NewStyle().Foreground(colorFaint).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Padding(0, 1).Underline(true)

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#3C3C3C"))
	labelStyle    = lipgloss.NewStyle().Foreground(colorFaint).Width(14)
	faintStyle    = lipgloss.NewStyle().Foreground(colorFaint)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(1, 2)

	flashOKStyle  = lipgloss.NewStyle().Foreground(colorOK)
	flashErrStyle = lipgloss.NewStyle().Foreground(colorErr).Bold(true)
)

// statusStyle colours a status value by its meaning.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "VERIFIED", "APPROVED", "RESOLVED", "ACTIVE", "CONFIRMED", "PROCESSED":
		return lipgloss.NewStyle().Foreground(colorOK)
	case "PENDING", "DRAFT", "OPEN", "PAUSED":
		return lipgloss.NewStyle().Foreground(colorWarn)
	case "REJECTED", "CANCELLED", "FAILED", "ENDED":
		return lipgloss.NewStyle().Foreground(colorErr)
	}
	return lipgloss.NewStyle()
}
