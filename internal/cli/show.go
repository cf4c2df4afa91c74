package cli

import (
	"errors"
	"fmt"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/publish"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/session"

	"github.com/spf13/cobra"
)

// recordView renders one record as FIELD / LABEL / VALUE rows for --format table.
type recordView struct {
	Data model.Record `json:"data"`
	Meta sourceMeta   `json:"meta"`
}

func (v recordView) TableHeaders() []string { return []string{"FIELD", "LABEL", "VALUE"} }

func (v recordView) TableRows() [][]string {
	rows := make([][]string, 0, schema.NumFields)
	for _, f := range schema.Fields() {
		rows = append(rows, []string{f.ID(), f.Label(), v.Data.Get(f)})
	}
	return rows
}

// login opens the record for ic the way the editor does.
func login(ctl *session.Controller, ic string) (model.Record, error) {
	if err := ctl.Login(ic); err != nil {
		if errors.Is(err, session.ErrLookupMiss) {
			return model.Record{}, errNotFound("staff record", ic)
		}
		return model.Record{}, err
	}
	rec, _ := ctl.Active()
	return rec, nil
}

func newShowCmd(app *App) *cobra.Command {
	var markdown bool
	var raw bool
	var width int

	cmd := &cobra.Command{
		Use:   "show <ic>",
		Short: "Show the record for an identity card number",
		Long:  "Looks the number up the same way the editor's login does: only digits are compared and the first match wins.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, _, err := app.startController(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			rec, err := login(ctl, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			if markdown || raw {
				md := publish.RecordMarkdown(rec)
				if !raw {
					md = publish.Render(md, width)
				}
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			return writeOut(cmd, app, recordView{Data: rec, Meta: metaFor(ctl, 1)})
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render the record as a markdown card")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source without terminal styling")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --markdown")
	return cmd
}
