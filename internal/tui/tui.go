package tui

import (
	"context"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/session"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/tabular"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// Controller must already be prepared (session.Controller.Prepare); the TUI starts the
	// remote load itself.
	Controller *session.Controller
	// ExportDir is where ctrl+e writes the CSV. Empty means the working directory.
	ExportDir string
	Logger    logrus.FieldLogger
	// Warnings from decoding the fallback roster, shown once at startup.
	Warnings []tabular.Warning
}

func Run(ctx context.Context, opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
