package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptest/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for cards so stacked
// boxes visually align.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Center places content in the middle of the given area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Card wraps content in a rounded-border card of the given outer width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(1, 2).
		Render(content)
}

// Button renders a bordered button, highlighted when focused.
func Button(label string, focused bool, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if focused {
		return style.
			Bold(true).
			Foreground(theme.Text).
			Background(theme.Primary).
			BorderForeground(theme.Primary).
			Render("▸ " + label)
	}
	return style.
		Foreground(theme.Text).
		BorderForeground(theme.Border).
		Render(label)
}

// ButtonRow renders labels side by side with the focused one highlighted.
func ButtonRow(labels []string, focused int) string {
	width := 0
	for _, l := range labels {
		width = max(width, lipgloss.Width(l)+4)
	}
	buttons := make([]string, len(labels))
	for i, l := range labels {
		buttons[i] = Button(l, i == focused, width)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

// Stat renders a label above a large value, for dashboard tiles.
func Stat(label, value string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(label) + "\n" +
				lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(value),
		)
}
