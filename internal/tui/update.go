package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/session"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/store"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/tabular"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), msg.Type == tea.KeyEsc:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Login):
		if err := m.ctl.Login(m.login.Value()); err != nil {
			if errors.Is(err, session.ErrLookupMiss) {
				m.setStatus("Identity number not found. Check the number and try again.", msgError)
			} else {
				m.setStatus(err.Error(), msgError)
			}
			return m, nil
		}
		rec, _ := m.ctl.Active()
		m.setStatus("Editing "+rec.Name(), msgInfo)
		return m, m.openForm()
	case key.Matches(msg, m.keys.Reload):
		return m, m.startReload()
	case key.Matches(msg, m.keys.Export):
		m.export()
		return m, nil
	case key.Matches(msg, m.keys.Config):
		return m, m.openConfig()
	}

	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)
	return m, cmd
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fi := &m.inputs[m.focus]
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.ctl.Dirty() {
			m.openConfirm(modalConfirmQuit)
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Save):
		return m, m.startSave()
	case key.Matches(msg, m.keys.Reload):
		if m.ctl.Dirty() {
			m.openConfirm(modalConfirmDiscard)
			return m, nil
		}
		return m, m.startDiscard()
	case key.Matches(msg, m.keys.Export):
		m.export()
		return m, nil
	case key.Matches(msg, m.keys.Config):
		return m, m.openConfig()
	case key.Matches(msg, m.keys.Logout):
		if m.ctl.Dirty() {
			m.openConfirm(modalConfirmLogout)
			return m, nil
		}
		m.logout()
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m, m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		return m, m.moveFocus(-1)
	case !fi.multiline() && (msg.Type == tea.KeyEnter || msg.Type == tea.KeyDown):
		return m, m.moveFocus(1)
	case !fi.multiline() && msg.Type == tea.KeyUp:
		return m, m.moveFocus(-1)
	}

	before := fi.Value()
	cmd := fi.Update(msg)
	if after := fi.Value(); after != before {
		if err := m.ctl.Edit(fi.field, after); err != nil {
			m.setStatus(err.Error(), msgError)
		}
	}
	m.refreshForm()
	return m, cmd
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal == modalConfig {
		return m.updateConfig(msg)
	}

	switch msg.String() {
	case "esc", "n", "ctrl+g":
		m.modal = modalNone
		return m, nil
	case "tab", "shift+tab", "left", "right":
		m.confirmFocus = m.confirmFocus.toggle()
		return m, nil
	case "y":
		return m.confirm()
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.confirm()
		}
		m.modal = modalNone
		return m, nil
	}
	return m, nil
}

func (m appModel) confirm() (tea.Model, tea.Cmd) {
	kind := m.modal
	m.modal = modalNone
	switch kind {
	case modalConfirmLogout:
		m.logout()
	case modalConfirmDiscard:
		return m, m.startDiscard()
	case modalConfirmDisconnect:
		if err := m.ctl.Disconnect(m.ctx); err != nil {
			m.setStatus(err.Error(), msgError)
			return m, nil
		}
		m.loading = false
		m.discarding = false
		m.url.Reset()
		m.setStatus("Spreadsheet disconnected; using built-in data", msgWarn)
	case modalConfirmQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m appModel) updateConfig(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		m.closeConfig()
		return m, nil
	case msg.Type == tea.KeyEnter:
		if err := m.ctl.SetEndpoint(m.ctx, m.url.Value()); err != nil {
			m.setStatus(err.Error(), msgError)
			return m, nil
		}
		m.closeConfig()
		if m.screen == screenForm && m.ctl.Dirty() {
			m.setStatus("Spreadsheet URL stored; press ctrl+r to reload when your changes are saved", msgInfo)
			return m, nil
		}
		if m.screen == screenForm {
			return m, m.startDiscard()
		}
		return m, m.startReload()
	case key.Matches(msg, m.keys.Disconnect):
		if m.ctl.Endpoint() == "" {
			m.setStatus("No spreadsheet is connected", msgInfo)
			return m, nil
		}
		m.closeConfig()
		m.openConfirm(modalConfirmDisconnect)
		return m, nil
	}

	var cmd tea.Cmd
	m.url, cmd = m.url.Update(msg)
	return m, cmd
}

func (m *appModel) openConfig() tea.Cmd {
	m.modal = modalConfig
	m.url.SetValue(m.ctl.Endpoint())
	m.url.CursorEnd()
	if m.screen == screenForm {
		m.inputs[m.focus].Blur()
	} else {
		m.login.Blur()
	}
	return m.url.Focus()
}

func (m *appModel) closeConfig() {
	m.modal = modalNone
	m.url.Blur()
	if m.screen == screenForm {
		m.inputs[m.focus].Focus()
	} else {
		m.login.Focus()
	}
}

func (m *appModel) openConfirm(kind modalKind) {
	m.modal = kind
	m.confirmFocus = confirmFocusConfirm
	if kind == modalConfirmDiscard || kind == modalConfirmQuit {
		m.confirmFocus = confirmFocusCancel
	}
}

func (m *appModel) logout() {
	if err := m.ctl.Logout(true); err != nil {
		m.setStatus(err.Error(), msgError)
		return
	}
	m.toLogin()
	m.setStatus("Logged out", msgInfo)
}

// export writes the whole roster, local-only saves included, next to the working files.
func (m *appModel) export() {
	path := filepath.Join(m.exportDir, tabular.ExportFilename)
	n := len(m.ctl.Roster())
	if err := store.WriteFileAtomic(path, []byte(m.ctl.ExportCSV()), 0o644); err != nil {
		m.log.WithError(err).WithField("op", "export").Warn("csv export failed")
		m.setStatus("Export failed: "+err.Error(), msgError)
		return
	}
	m.log.WithFields(logrus.Fields{"op": "export", "path": path, "records": n}).Info("csv exported")
	m.setStatus(fmt.Sprintf("Exported %d records to %s", n, strings.TrimPrefix(path, "./")), msgOK)
}
