// Package styles provides shared lipgloss styles for UI components.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette used throughout the UI
var (
	// Primary is the main accent color (cyan/teal)
	Primary color.Color = lipgloss.Color("62")

	// Accent is the highlight color (pink)
	Accent color.Color = lipgloss.Color("212")

	// Success marks healthy items (green)
	Success color.Color = lipgloss.Color("82")

	// Warning marks items that work but deserve attention (amber)
	Warning color.Color = lipgloss.Color("214")

	// Error marks broken items (red)
	Error color.Color = lipgloss.Color("196")

	// Muted is used for secondary text (gray)
	Muted color.Color = lipgloss.Color("240")
)

// Common styles
var (
	Bold         = lipgloss.NewStyle().Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
)

// Status renders a node version health label: OK, OK (link) or the problem.
func Status(ok, link bool, problem string) string {
	switch {
	case ok && link:
		return WarningStyle.Render("OK (link)")
	case ok:
		return SuccessStyle.Render("OK")
	default:
		return ErrorStyle.Render(problem)
	}
}

// Dirty marks a branch with uncommitted changes.
func Dirty(branch string, dirty bool) string {
	if !dirty {
		return branch
	}
	return branch + WarningStyle.Render("*")
}
