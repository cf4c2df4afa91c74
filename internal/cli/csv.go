package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/tabular"

	"github.com/spf13/cobra"
)

type csvReport struct {
	File      string            `json:"file"`
	Encoding  string            `json:"encoding"`
	HeaderRow int               `json:"headerRow"`
	Records   int               `json:"records"`
	Warnings  []tabular.Warning `json:"warnings"`
}

type csvCheck struct {
	Data csvReport `json:"data"`
}

func (c csvCheck) TableHeaders() []string { return []string{"ROW", "WARNING"} }

func (c csvCheck) TableRows() [][]string {
	rows := make([][]string, 0, len(c.Data.Warnings)+1)
	rows = append(rows, []string{fmt.Sprint(c.Data.HeaderRow), fmt.Sprintf("header row; %d records (%s)", c.Data.Records, c.Data.Encoding)})
	for _, w := range c.Data.Warnings {
		rows = append(rows, []string{fmt.Sprint(w.Row), w.Message})
	}
	return rows
}

func newCSVCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Work with spreadsheet CSV exports",
	}

	checkCmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Decode a CSV export and report what would be read from it",
		Long:  "Reads the file the same way the fallback roster is read. Use - for stdin. Exits non-zero when no header row is found.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			var data []byte
			var err error
			if path == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(path)
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			res := tabular.Decode(data)
			out := csvCheck{Data: csvReport{
				File:      path,
				Encoding:  res.Encoding,
				HeaderRow: res.HeaderRow,
				Records:   len(res.Records),
				Warnings:  warningsOrEmpty(res.Warnings),
			}}
			if err := writeOut(cmd, app, out); err != nil {
				return err
			}
			if res.HeaderRow == 0 {
				return writeErr(cmd, fmt.Errorf("%s: no header row (a row starting with BIL,NAMA)", path))
			}
			return nil
		},
	}

	cmd.AddCommand(checkCmd)
	return cmd
}
