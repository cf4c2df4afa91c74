package tui

import (
	"fmt"
	"strings"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/session"

	"github.com/charmbracelet/lipgloss"
)

const (
	appTitle      = "SK SRI AMAN · Maklumat Staf"
	offlineBanner = "Offline: changes will NOT be kept on reload. Download the CSV with ctrl+e."
)

func (m appModel) View() string {
	parts := []string{m.viewHeader()}
	if !m.ctl.Connected() {
		parts = append(parts, clampLine(styleBanner().Render(offlineBanner), m.width))
	}

	var body string
	switch {
	case m.modal != modalNone:
		body = lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, m.viewModal())
	case m.screen == screenForm:
		body = m.form.View()
	default:
		body = lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, m.viewLogin())
	}
	parts = append(parts, body, m.viewStatus(), m.help.View(m.keys.helpFor(m.screen, m.modal)))
	return strings.Join(parts, "\n")
}

func (m appModel) viewHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render(appTitle)

	var badge string
	switch {
	case m.loading:
		badge = styleMuted().Render("◌ loading…")
	case m.ctl.Connected():
		badge = lipgloss.NewStyle().Foreground(colorOK).Render("● spreadsheet")
	case m.ctl.Source() == session.SourceFallback:
		badge = lipgloss.NewStyle().Foreground(colorWarn).Render("○ built-in data")
	default:
		badge = lipgloss.NewStyle().Foreground(colorWarn).Render("○ offline")
	}

	if rec, ok := m.ctl.Active(); ok {
		title += styleMuted().Render(fmt.Sprintf("  Bil %s · %s", rec.Key(), rec.Name()))
	}

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	return clampLine(title+strings.Repeat(" ", gap)+badge, m.width)
}

func (m appModel) viewLogin() string {
	bodyW := modalBodyWidth(m.width)
	body := strings.Join([]string{
		"Enter your identity card number (No. Kad Pengenalan).",
		styleMuted().Render("Dashes and spaces are ignored."),
		"",
		renderInputLine(bodyW, m.login.View()),
		"",
		styleMuted().Render(fmt.Sprintf("%d records available", len(m.ctl.Roster()))),
	}, "\n")
	return renderModalBox(m.width, "Log in", body)
}

func (m appModel) viewModal() string {
	switch m.modal {
	case modalConfig:
		bodyW := modalBodyWidth(m.width)
		current := m.ctl.Endpoint()
		if current == "" {
			current = "(none, using built-in data)"
		}
		body := strings.Join([]string{
			"Spreadsheet web app URL",
			"",
			renderInputLine(bodyW, m.url.View()),
			"",
			styleMuted().Width(bodyW).Render("Current: " + current),
		}, "\n")
		return renderModalBox(m.width, "Spreadsheet connection", body)
	case modalConfirmLogout:
		return renderConfirmModal(m.width, "Unsaved changes", "You have unsaved changes. Log out and lose them?", "Log out", "Stay", m.confirmFocus)
	case modalConfirmDiscard:
		return renderConfirmModal(m.width, "Discard changes", "Reload this record and throw away your unsaved changes?", "Discard", "Keep editing", m.confirmFocus)
	case modalConfirmDisconnect:
		return renderConfirmModal(m.width, "Disconnect spreadsheet", "Forget the spreadsheet URL and switch to the built-in data?", "Disconnect", "Cancel", m.confirmFocus)
	case modalConfirmQuit:
		return renderConfirmModal(m.width, "Unsaved changes", "You have unsaved changes. Quit anyway?", "Quit", "Stay", m.confirmFocus)
	}
	return ""
}

func (m appModel) viewStatus() string {
	var segs []string
	if m.screen == screenForm {
		switch m.ctl.SaveState() {
		case session.SaveSaving:
			segs = append(segs, styleFor(msgInfo).Render("Saving…"))
		case session.SaveSaved:
			segs = append(segs, styleFor(msgOK).Render("Saved ✓"))
		case session.SaveError:
			segs = append(segs, styleFor(msgError).Render("Save failed"))
		}
		if m.ctl.Dirty() {
			segs = append(segs, styleFor(msgWarn).Render("● unsaved changes"))
		}
	}
	if s := trimStatus(m.status); s != "" {
		segs = append(segs, styleFor(m.statusKind).Render(s))
	}
	return clampLine(strings.Join(segs, "  "), m.width)
}

// refreshForm re-renders the form into the viewport and scrolls so the focused field is
// fully visible.
func (m *appModel) refreshForm() {
	if m.screen != screenForm {
		return
	}
	w := m.fieldWidth()
	var b strings.Builder
	line := 0
	focusTop, focusBottom := 0, 0
	emit := func(s string) {
		b.WriteString(s)
		b.WriteString("\n")
		line += strings.Count(s, "\n") + 1
	}

	i := 0
	for _, s := range schema.Sections() {
		emit(styleSection().Render(s.Title()))
		for range schema.SectionFields(s) {
			fi := &m.inputs[i]
			focused := i == m.focus
			label := fi.field.Label()
			if fi.field.Locked() {
				label += " (read-only)"
			}
			if focused {
				focusTop = line
			}
			emit(styleLabel(focused).Render(label))
			emit(fi.View(w))
			if focused {
				focusBottom = line
			}
			i++
		}
		emit("")
	}

	m.form.SetContent(strings.TrimRight(b.String(), "\n"))
	switch {
	case focusTop < m.form.YOffset:
		m.form.SetYOffset(focusTop)
	case focusBottom > m.form.YOffset+m.form.Height:
		m.form.SetYOffset(focusBottom - m.form.Height)
	}
}
