package questions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptest/internal/api"
	"github.com/abhisek/adaptest/internal/router"
	"github.com/abhisek/adaptest/internal/screen"
	"github.com/abhisek/adaptest/internal/ui/components"
	"github.com/abhisek/adaptest/internal/ui/layout"
	"github.com/abhisek/adaptest/internal/ui/theme"
)

// Field indexes into the form.
const (
	fieldText = iota
	fieldOptionA
	fieldOptionB
	fieldOptionC
	fieldOptionD
	fieldCorrect
	fieldDifficulty
	fieldWeight
	fieldCategory
	fieldCount
)

// FormScreen creates a new bank question or edits an existing one.
type FormScreen struct {
	backend Backend
	id      string

	inputs []components.TextInput
	focus  int
	busy   bool
	errMsg string
}

var _ screen.Screen = (*FormScreen)(nil)
var _ screen.KeyHintProvider = (*FormScreen)(nil)

// NewForm creates the form. A nil q starts an empty question.
func NewForm(backend Backend, q *api.BankQuestion) *FormScreen {
	inputs := make([]components.TextInput, fieldCount)
	inputs[fieldText] = components.NewTextInput("Question", "What is 2 + 2?", 500)
	for i := range api.OptionCount {
		inputs[fieldOptionA+i] = components.NewTextInput("Option "+components.Label(i), "", 200)
	}
	inputs[fieldCorrect] = components.NewNumericInput("Correct option (1-4)", "1", 1)
	inputs[fieldDifficulty] = components.NewNumericInput("Difficulty (1-10)", "5", 2)
	inputs[fieldWeight] = components.NewTextInput("Weight", "1", 8)
	inputs[fieldCategory] = components.NewTextInput("Category", "optional", 50)

	f := &FormScreen{backend: backend, inputs: inputs}
	if q != nil {
		f.id = q.ID
		f.inputs[fieldText].SetValue(q.Text)
		for i, o := range q.Options {
			if i < api.OptionCount {
				f.inputs[fieldOptionA+i].SetValue(o)
			}
		}
		f.inputs[fieldCorrect].SetValue(strconv.Itoa(q.CorrectIndex + 1))
		f.inputs[fieldDifficulty].SetValue(strconv.Itoa(q.Difficulty))
		f.inputs[fieldWeight].SetValue(strconv.FormatFloat(q.Weight, 'f', -1, 64))
		f.inputs[fieldCategory].SetValue(q.Category)
	}
	return f
}

func (f *FormScreen) Init() tea.Cmd {
	return f.focusField(0)
}

func (f *FormScreen) Title() string {
	if f.id == "" {
		return "New Question"
	}
	return "Edit Question"
}

func (f *FormScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Ctrl+S", Description: "Save"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (f *FormScreen) focusField(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *FormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		f.busy = false
		if msg.Err != nil {
			f.errMsg = api.Message(msg.Err)
			return f, screen.Expired(msg.Err)
		}
		return f, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyMsg:
		if f.busy {
			return f, nil
		}
		switch msg.String() {
		case "tab", "down":
			return f, f.focusField(f.focus + 1)
		case "shift+tab", "up":
			return f, f.focusField(f.focus - 1)
		case "ctrl+s":
			return f.save()
		case "enter":
			if f.focus < fieldCount-1 {
				return f, f.focusField(f.focus + 1)
			}
			return f.save()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// Question builds the bank question from the current field values.
func (f *FormScreen) Question() (api.BankQuestion, error) {
	q := api.BankQuestion{
		ID:       f.id,
		Text:     strings.TrimSpace(f.inputs[fieldText].Value()),
		Category: strings.TrimSpace(f.inputs[fieldCategory].Value()),
	}
	for i := range api.OptionCount {
		q.Options = append(q.Options, strings.TrimSpace(f.inputs[fieldOptionA+i].Value()))
	}

	correct, err := f.inputs[fieldCorrect].NumericValue()
	if err != nil {
		return q, errors.New("correct option is required")
	}
	q.CorrectIndex = correct - 1

	if q.Difficulty, err = f.inputs[fieldDifficulty].NumericValue(); err != nil {
		return q, errors.New("difficulty is required")
	}

	weight := strings.TrimSpace(f.inputs[fieldWeight].Value())
	if weight == "" {
		q.Weight = 1
	} else if q.Weight, err = strconv.ParseFloat(weight, 64); err != nil {
		return q, fmt.Errorf("weight %q is not a number", weight)
	}

	return q, Validate(q)
}

// Validate checks a bank question before it is sent.
func Validate(q api.BankQuestion) error {
	if q.Text == "" {
		return errors.New("question text is required")
	}
	if len(q.Options) != api.OptionCount {
		return fmt.Errorf("exactly %d options are required", api.OptionCount)
	}
	for i, o := range q.Options {
		if o == "" {
			return fmt.Errorf("option %s is empty", components.Label(i))
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= api.OptionCount {
		return fmt.Errorf("correct option must be between 1 and %d", api.OptionCount)
	}
	if q.Difficulty < 1 || q.Difficulty > MaxDifficulty {
		return fmt.Errorf("difficulty must be between 1 and %d", MaxDifficulty)
	}
	if q.Weight <= 0 {
		return errors.New("weight must be positive")
	}
	return nil
}

func (f *FormScreen) save() (screen.Screen, tea.Cmd) {
	q, err := f.Question()
	if err != nil {
		f.errMsg = err.Error()
		return f, nil
	}
	f.busy = true
	f.errMsg = ""
	backend := f.backend
	if q.ID == "" {
		return f, func() tea.Msg {
			return savedMsg{Err: backend.CreateQuestion(context.Background(), q)}
		}
	}
	return f, func() tea.Msg {
		return savedMsg{Err: backend.UpdateQuestion(context.Background(), q)}
	}
}

func (f *FormScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString(f.inputs[fieldText].View() + "\n\n")
	for i := range api.OptionCount {
		b.WriteString(f.inputs[fieldOptionA+i].View() + "\n")
	}
	b.WriteString("\n")
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width((cw-6)/3).Render(f.inputs[fieldCorrect].View()),
		lipgloss.NewStyle().Width((cw-6)/3).Render(f.inputs[fieldDifficulty].View()),
		lipgloss.NewStyle().Width((cw-6)/3).Render(f.inputs[fieldWeight].View()),
	)
	b.WriteString(row + "\n\n")
	b.WriteString(f.inputs[fieldCategory].View())

	switch {
	case f.busy:
		b.WriteString("\n\n" + theme.Hint.Render("Saving..."))
	case f.errMsg != "":
		b.WriteString("\n\n" + theme.ErrorText.Render(f.errMsg))
	}

	return components.Center(components.Card(b.String(), cw), width, height)
}
