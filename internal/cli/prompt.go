package cli

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	promptActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Width(14)
	promptCursor      = lipgloss.NewStyle().Foreground(colorCyan).Render("▏")
)

// promptField is one line of a prompt form.
type promptField struct {
	Label   string
	Value   string
	Numeric bool // accept digits only; must parse to a positive int
}

// =============================================================================
// promptModel - line-per-field form
// =============================================================================

// promptModel is the bubbletea model behind runPrompt.
type promptModel struct {
	Title     string
	Fields    []promptField
	Focus     int
	Err       string
	Done      bool
	Cancelled bool
}

func newPromptModel(title string, fields []promptField) promptModel {
	return promptModel{Title: title, Fields: fields}
}

func (m promptModel) Init() tea.Cmd {
	return nil
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	f := &m.Fields[m.Focus]
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Cancelled = true
		return m, tea.Quit
	case tea.KeyUp, tea.KeyShiftTab:
		if m.Focus > 0 {
			m.Focus--
		}
		m.Err = ""
	case tea.KeyDown, tea.KeyTab:
		if m.Focus < len(m.Fields)-1 {
			m.Focus++
		}
		m.Err = ""
	case tea.KeyBackspace:
		if r := []rune(f.Value); len(r) > 0 {
			f.Value = string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		f.Value = ""
	case tea.KeySpace:
		if !f.Numeric {
			f.Value += " "
		}
	case tea.KeyRunes:
		for _, r := range key.Runes {
			if f.Numeric && (r < '0' || r > '9') {
				continue
			}
			f.Value += string(r)
		}
	case tea.KeyEnter:
		if msg := validateField(*f); msg != "" {
			m.Err = msg
			return m, nil
		}
		m.Err = ""
		if m.Focus < len(m.Fields)-1 {
			m.Focus++
			return m, nil
		}
		for i, other := range m.Fields {
			if msg := validateField(other); msg != "" {
				m.Focus, m.Err = i, msg
				return m, nil
			}
		}
		m.Done = true
		return m, tea.Quit
	}
	return m, nil
}

func validateField(f promptField) string {
	v := strings.TrimSpace(f.Value)
	if v == "" {
		return f.Label + " is required"
	}
	if f.Numeric {
		if n, err := strconv.Atoi(v); err != nil || n <= 0 {
			return f.Label + " must be a positive number"
		}
	}
	return ""
}

func (m promptModel) View() string {
	if m.Done || m.Cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n\n")
	for i, f := range m.Fields {
		label := promptLabelStyle.Render(f.Label)
		value := StyleValue.Render(f.Value)
		if i == m.Focus {
			label = promptActiveStyle.Render(f.Label)
			value += promptCursor
		}
		b.WriteString(label + " " + value + "\n")
	}
	if m.Err != "" {
		b.WriteString("\n" + StyleError.Render(m.Err) + "\n")
	}
	b.WriteString("\n" + StyleDim.Render("⏎ next/confirm  ↑/↓ move  esc cancel") + "\n")
	return b.String()
}

// values returns the trimmed field values in order.
func (m promptModel) values() []string {
	out := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		out[i] = strings.TrimSpace(f.Value)
	}
	return out
}

// runPrompt shows the form on the terminal and returns the entered values.
// Cancelling returns context.Canceled.
func runPrompt(title string, fields []promptField) ([]string, error) {
	p := tea.NewProgram(newPromptModel(title, fields))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(promptModel)
	if !ok || !m.Done {
		return nil, context.Canceled
	}
	return m.values(), nil
}
