package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/session"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/store"

	"github.com/spf13/cobra"
)

type remoteStatus struct {
	Endpoint  string `json:"endpoint"`
	Stored    bool   `json:"stored"`
	Connected bool   `json:"connected"`
	Source    string `json:"source"`
	Records   int    `json:"records"`
	Error     string `json:"error,omitempty"`
}

func (s remoteStatus) TableHeaders() []string {
	return []string{"ENDPOINT", "STORED", "CONNECTED", "SOURCE", "RECORDS", "ERROR"}
}

func (s remoteStatus) TableRows() [][]string {
	return [][]string{{
		s.Endpoint,
		fmt.Sprint(s.Stored),
		fmt.Sprint(s.Connected),
		s.Source,
		fmt.Sprint(s.Records),
		s.Error,
	}}
}

func statusOf(ctl *session.Controller, stored bool, rep session.LoadReport) remoteStatus {
	st := remoteStatus{
		Endpoint:  ctl.Endpoint(),
		Stored:    stored,
		Connected: ctl.Connected(),
		Source:    ctl.Source().String(),
		Records:   len(ctl.Roster()),
	}
	if rep.Err != nil {
		st.Error = rep.Err.Error()
	}
	return st
}

func newRemoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage the spreadsheet endpoint",
		Long: strings.TrimSpace(`
The spreadsheet endpoint is the web app URL the roster is read from and saved to.
A URL set with "remote connect" is remembered in the settings database and takes
precedence over --sheet-url and MAKLUMAT_SHEET_URL.
`),
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the endpoint and try a load from it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, stored, err := store.NewSQLiteSettings(app.cfg.Dir).Get(contextOf(cmd), store.SheetURLKey)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctl, rep, err := app.startController(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": statusOf(ctl, stored, rep)})
		},
	}

	connectCmd := &cobra.Command{
		Use:   "connect <url>",
		Short: "Store a spreadsheet URL and load the roster from it",
		Long:  "The URL is stored even when the first load fails, as the editor does; the command then exits non-zero.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := app.controller()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := contextOf(cmd)
			ctl.Prepare(ctx)
			rep, err := ctl.Connect(ctx, args[0])
			if err != nil {
				if errors.Is(err, session.ErrNoEndpoint) {
					return writeErr(cmd, errors.New("url is empty"))
				}
				return writeErr(cmd, err)
			}
			if err := writeOut(cmd, app, map[string]any{"data": statusOf(ctl, true, rep)}); err != nil {
				return err
			}
			if rep.Failed() {
				return writeErr(cmd, fmt.Errorf("url stored, but the spreadsheet could not be loaded: %w", rep.Err))
			}
			return nil
		},
	}

	disconnectCmd := &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the stored spreadsheet URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := app.controller()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := contextOf(cmd)
			ctl.Prepare(ctx)
			if err := ctl.Disconnect(ctx); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": statusOf(ctl, false, session.LoadReport{})})
		},
	}

	cmd.AddCommand(statusCmd, connectCmd, disconnectCmd)
	return cmd
}
