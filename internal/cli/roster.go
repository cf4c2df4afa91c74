package cli

import (
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/session"

	"github.com/spf13/cobra"
)

type rosterRow struct {
	Bil     string `json:"bil"`
	Nama    string `json:"nama"`
	NoKP    string `json:"noKadPengenalan"`
	Jawatan string `json:"jawatan"`
	Gred    string `json:"gred"`
}

type sourceMeta struct {
	Source   string `json:"source"`
	Endpoint string `json:"endpoint,omitempty"`
	Count    int    `json:"count"`
}

type rosterList struct {
	Data []rosterRow `json:"data"`
	Meta sourceMeta  `json:"meta"`
}

func (l rosterList) TableHeaders() []string {
	return []string{"BIL", "NAMA", "NO KAD PENGENALAN", "JAWATAN", "GRED"}
}

func (l rosterList) TableRows() [][]string {
	rows := make([][]string, 0, len(l.Data))
	for _, r := range l.Data {
		rows = append(rows, []string{r.Bil, r.Nama, r.NoKP, r.Jawatan, r.Gred})
	}
	return rows
}

func newRosterList(ro model.Roster, ctl *session.Controller) rosterList {
	out := rosterList{Data: make([]rosterRow, 0, len(ro)), Meta: metaFor(ctl, len(ro))}
	for _, r := range ro {
		out.Data = append(out.Data, rosterRow{
			Bil:     r.Key(),
			Nama:    r.Name(),
			NoKP:    r.Identity(),
			Jawatan: r.Get(schema.JAWATAN),
			Gred:    r.Get(schema.GRED),
		})
	}
	return out
}

func metaFor(ctl *session.Controller, count int) sourceMeta {
	m := sourceMeta{Source: ctl.Source().String(), Count: count}
	if ctl.Connected() {
		m.Endpoint = ctl.Endpoint()
	}
	return m
}

func newRosterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Inspect the staff roster",
	}

	var full bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List staff (BIL, NAMA, NO KAD PENGENALAN, JAWATAN, GRED)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, _, err := app.startController(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			ro := ctl.Roster()
			if full {
				return writeOut(cmd, app, map[string]any{
					"data": ro,
					"meta": metaFor(ctl, len(ro)),
				})
			}
			return writeOut(cmd, app, newRosterList(ro, ctl))
		},
	}
	listCmd.Flags().BoolVar(&full, "full", false, "Include every field (JSON only)")

	cmd.AddCommand(listCmd)
	return cmd
}
