package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/publish"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/store"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/tabular"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string
	var ic string
	var pdf bool
	var markdown bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the roster as CSV, or one record as a PDF/markdown slip",
		Long: strings.TrimSpace(`
Without --ic, writes the whole roster in the school spreadsheet layout (title rows, the
quoted header row, one line per staff member) to ` + tabular.ExportFilename + `.
Use --out - to write to stdout.

With --ic, writes one record as a printable slip: PDF by default, or markdown with --markdown.
`),
		Example: strings.TrimSpace(`
maklumat export
maklumat export --out /tmp/staff.csv --overwrite
maklumat export --ic 840110-07-5583 --pdf
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pdf && markdown {
				return writeErr(cmd, errors.New("choose one of --pdf or --markdown"))
			}
			if (pdf || markdown) && strings.TrimSpace(ic) == "" {
				return writeErr(cmd, errors.New("--pdf and --markdown need --ic"))
			}

			ctl, _, err := app.startController(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}

			if strings.TrimSpace(ic) != "" {
				rec, err := login(ctl, ic)
				if err != nil {
					return writeErr(cmd, err)
				}
				ext := ".pdf"
				if markdown {
					ext = ".md"
				}
				path := strings.TrimSpace(out)
				if path == "" {
					path = publish.SlipFilename(rec, ext)
				}
				res, err := publish.WriteSlip(path, rec, publish.WriteOptions{Overwrite: overwrite})
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": res})
			}

			body := ctl.ExportCSV()
			path := strings.TrimSpace(out)
			if path == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			if path == "" {
				path = tabular.ExportFilename
			}
			if !overwrite {
				if _, err := os.Stat(path); err == nil {
					return writeErr(cmd, errors.New("file exists (use --overwrite): "+path))
				}
			}
			if err := store.WriteFileAtomic(path, []byte(body), 0o644); err != nil {
				return writeErr(cmd, err)
			}
			ro := ctl.Roster()
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"written": []string{path}, "records": len(ro)},
				"meta": metaFor(ctl, len(ro)),
			})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output path (\"-\" for stdout, CSV only)")
	cmd.Flags().StringVar(&ic, "ic", "", "Identity card number of the record to export as a slip")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "Write the slip as PDF (default for --ic)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Write the slip as markdown")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}
