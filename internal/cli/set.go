package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/session"

	"github.com/spf13/cobra"
)

type assignment struct {
	field schema.Field
	value string
}

// parseAssignments validates FIELD=value arguments before anything is loaded, so a typo
// never costs a round trip to the spreadsheet.
func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, a := range args {
		id, value, ok := strings.Cut(a, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, assignmentError{arg: a}
		}
		f, ok := schema.FieldByID(id)
		if !ok {
			return nil, fmt.Errorf("%q: %w", id, session.ErrUnknownField)
		}
		if f.Locked() {
			return nil, fmt.Errorf("%s: %w", f.ID(), session.ErrFieldLocked)
		}
		out = append(out, assignment{field: f, value: strings.ReplaceAll(value, `\n`, "\n")})
	}
	return out, nil
}

type setResult struct {
	Bil     string            `json:"bil"`
	Nama    string            `json:"nama"`
	Outcome string            `json:"outcome"`
	Changed map[string]string `json:"changed"`
}

func newSetCmd(app *App) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "set <ic> FIELD=value...",
		Short: "Edit fields of one record and save it",
		Long: strings.TrimSpace(`
Opens the record for <ic>, applies each FIELD=value and saves. FIELD is a field identifier
such as GRED or NO_TEL (see: maklumat docs fields). A literal \n in a value becomes a line
break.

Without a reachable spreadsheet the save only changes this process's copy of the roster and
is lost on exit; a warning is printed, and --strict turns it into an error.
`),
		Example: strings.TrimSpace(`
maklumat set 840110-07-5583 NO_TEL=012-3456789
maklumat set 840110075583 "ALAMAT_TERKINI=No 1, Jalan Mawar\nSegamat" --strict
`),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			assigns, err := parseAssignments(args[1:])
			if err != nil {
				return writeErr(cmd, err)
			}
			ctl, _, err := app.startController(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			rec, err := login(ctl, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			changed := map[string]string{}
			for _, a := range assigns {
				if err := ctl.Edit(a.field, a.value); err != nil {
					return writeErr(cmd, err)
				}
				changed[a.field.ID()] = a.value
			}

			outcome, err := ctl.Save(contextOf(cmd))
			if err != nil {
				return writeErr(cmd, fmt.Errorf("save record %s: %w", rec.Key(), err))
			}
			if outcome == session.SavedLocally {
				uerr := unpersistedError{bil: rec.Key()}
				if strict {
					return writeErr(cmd, uerr)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: "+uerr.Error())
			}

			return writeOut(cmd, app, map[string]any{
				"data": setResult{
					Bil:     rec.Key(),
					Nama:    rec.Name(),
					Outcome: outcome.String(),
					Changed: changed,
				},
			})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when the change could not be sent to the spreadsheet")
	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
