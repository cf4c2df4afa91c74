package tabular

import (
	"io"
	"strings"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
)

const (
	Title    = "SK SRI AMAN"
	Subtitle = "UPDATE ( SENARAI PPP DAN DIIKUTI AKP )"

	// ExportFilename is the suggested name for a downloaded export.
	ExportFilename = "sk_sri_aman_staff_updated.csv"
)

// Encode renders ro in the shape the school's spreadsheet expects: a title line, a
// subtitle line in the second column, the header row, then one line per record.
// Lines are joined with "\n" and there is no trailing newline.
//
// Header cells are always quoted. A value is quoted only when it contains a comma, a
// newline or a double quote; embedded quotes are doubled.
func Encode(ro model.Roster) string {
	var b strings.Builder
	_ = write(&b, ro)
	return b.String()
}

// Write streams the Encode output to w.
func Write(w io.Writer, ro model.Roster) error {
	return write(w, ro)
}

func write(w io.Writer, ro model.Roster) error {
	lines := make([]string, 0, len(ro)+3)
	lines = append(lines,
		Title+strings.Repeat(",", schema.NumFields-1),
		","+Subtitle+strings.Repeat(",", schema.NumFields-2),
		headerLine(),
	)
	for _, r := range ro {
		lines = append(lines, recordLine(r))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func headerLine() string {
	cells := make([]string, 0, schema.NumFields)
	for _, f := range schema.Fields() {
		cells = append(cells, quote(f.Header()))
	}
	return strings.Join(cells, ",")
}

func recordLine(r model.Record) string {
	cells := r.Values()
	for i, v := range cells {
		cells[i] = QuoteValue(v)
	}
	return strings.Join(cells, ",")
}

// QuoteValue applies the export quoting rule to a single value.
func QuoteValue(v string) string {
	if strings.ContainsAny(v, ",\n\"") {
		return quote(v)
	}
	return v
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
