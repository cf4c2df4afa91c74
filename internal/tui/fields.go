package tui

import (
	"strings"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const multilineRows = 3

// fieldInput edits one form field: a single-line input with optional suggestions, or a
// small text area for address-like fields.
type fieldInput struct {
	field schema.Field
	line  textinput.Model
	area  textarea.Model
}

func newFieldInput(f schema.Field) fieldInput {
	fi := fieldInput{field: f}
	if f.Multiline() {
		ta := textarea.New()
		ta.ShowLineNumbers = false
		ta.Prompt = ""
		ta.CharLimit = 0
		ta.SetHeight(multilineRows)
		fi.area = ta
		return fi
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0
	if opts := f.Options(); len(opts) > 0 {
		ti.ShowSuggestions = true
		ti.SetSuggestions(opts)
		// tab moves between fields, so completion is on the right arrow.
		ti.KeyMap.AcceptSuggestion = key.NewBinding(key.WithKeys("right"))
	}
	fi.line = ti
	return fi
}

func (fi *fieldInput) multiline() bool { return fi.field.Multiline() }

func (fi *fieldInput) Value() string {
	if fi.multiline() {
		return fi.area.Value()
	}
	return fi.line.Value()
}

func (fi *fieldInput) SetValue(v string) {
	if fi.multiline() {
		fi.area.SetValue(v)
		return
	}
	fi.line.SetValue(v)
	fi.line.CursorEnd()
}

func (fi *fieldInput) SetWidth(w int) {
	if w < 10 {
		w = 10
	}
	if fi.multiline() {
		fi.area.SetWidth(w)
		return
	}
	fi.line.Width = w - 3
}

func (fi *fieldInput) Focus() tea.Cmd {
	if fi.multiline() {
		return fi.area.Focus()
	}
	return fi.line.Focus()
}

func (fi *fieldInput) Blur() {
	if fi.multiline() {
		fi.area.Blur()
		return
	}
	fi.line.Blur()
}

func (fi *fieldInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if fi.multiline() {
		fi.area, cmd = fi.area.Update(msg)
	} else {
		fi.line, cmd = fi.line.Update(msg)
	}
	return cmd
}

// View renders the editor, or the plain value for locked fields.
func (fi *fieldInput) View(width int) string {
	if fi.field.Locked() {
		v := strings.TrimSpace(fi.Value())
		if v == "" {
			v = "-"
		}
		lines := strings.Split(v, "\n")
		for i := range lines {
			lines[i] = clampLine("  "+lines[i], width)
		}
		return styleMuted().Render(strings.Join(lines, "\n"))
	}
	if fi.multiline() {
		return fi.area.View()
	}
	return renderInputLine(width, fi.line.View())
}

// Height is the number of lines View produces.
func (fi *fieldInput) Height() int {
	switch {
	case fi.field.Locked():
		return strings.Count(strings.TrimSpace(fi.Value()), "\n") + 1
	case fi.multiline():
		return multilineRows
	default:
		return 1
	}
}
