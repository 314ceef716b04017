package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptest/internal/ui/theme"
)

// OptionList shows a question's answer choices. The cursor moves with the
// arrow keys and space picks the option under it; a letter or number picks
// directly. Enter is left to the caller.
type OptionList struct {
	Options  []string
	Cursor   int
	Selected int // -1 when nothing is picked

	// Correct highlights the right answer in read-only previews; -1 hides it.
	Correct  int
	Disabled bool
}

// NewOptionList creates an option list with nothing selected.
func NewOptionList(options []string) OptionList {
	return OptionList{Options: options, Selected: -1, Correct: -1}
}

// Label returns the letter used for option i.
func Label(i int) string {
	return string(rune('A' + i))
}

// Update handles option navigation and selection keys.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || o.Disabled || len(o.Options) == 0 {
		return o, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
		return o, nil
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
		return o, nil
	case "space", " ":
		o.Selected = o.Cursor
		return o, nil
	}

	if idx, ok := o.keyIndex(key); ok {
		o.Cursor = idx
		o.Selected = idx
	}
	return o, nil
}

func (o OptionList) keyIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := strings.ToLower(key)[0]
	var idx int
	switch {
	case c >= 'a' && c <= 'z':
		idx = int(c - 'a')
	case c >= '1' && c <= '9':
		idx = int(c - '1')
	default:
		return 0, false
	}
	return idx, idx < len(o.Options)
}

// View renders the options, one per line.
func (o OptionList) View(width int) string {
	var b strings.Builder
	for i, opt := range o.Options {
		marker := "○"
		if i == o.Selected {
			marker = "●"
		}
		pointer := "  "
		if i == o.Cursor && !o.Disabled {
			pointer = "▸ "
		}
		line := fmt.Sprintf("%s%s %s) %s", pointer, marker, Label(i), opt)

		style := theme.Unselected
		switch {
		case o.Correct >= 0 && i == o.Correct:
			style = theme.Correct
		case i == o.Selected:
			style = theme.Selected
		case o.Disabled:
			style = theme.Label
		}
		if width > 0 {
			style = style.Width(width)
		}
		b.WriteString(style.Render(line))
		if i < len(o.Options)-1 {
			b.WriteString("\n")
		}
	}
	if len(o.Options) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("(no options)"))
	}
	return b.String()
}
