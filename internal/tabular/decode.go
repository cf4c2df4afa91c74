package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
)

// Warning is a non-fatal issue found while decoding. Row is the 1-based physical line
// where the offending row starts.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result is the output of Decode.
type Result struct {
	Records  model.Roster `json:"records"`
	Warnings []Warning    `json:"warnings"`
	Encoding string       `json:"encoding"`
	// HeaderRow is the 1-based line of the true header row, or 0 if none was found.
	HeaderRow int `json:"headerRow"`
}

// Decode parses the staff spreadsheet export.
//
// Rows before the true header row (title/subtitle lines) are discarded. The header row is
// the first row whose first two cells are "BIL" and "NAMA". Every following non-blank row
// becomes one record whose values are taken by position in canonical column order; the
// header cells are only checked against the table, never used to relocate a column.
// Quoted cells may span several lines.
//
// Decode never fails: a blob without a header row yields an empty result, and malformed
// rows are skipped with a warning. A stray quote that would swallow the rows after it is
// detected; those lines are then read one row per line, with a warning.
func Decode(data []byte) Result {
	text, enc := ToUTF8(data)
	res := DecodeString(text)
	res.Encoding = enc
	return res
}

// DecodeString is Decode for text that is already UTF-8.
func DecodeString(text string) Result {
	text = normalizeNewlines(text)
	res := Result{Records: model.Roster{}, Warnings: []Warning{}, Encoding: "utf-8"}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	addRow := func(line int, rec []string) {
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if res.HeaderRow == 0 {
			if isHeaderRow(rec) {
				res.HeaderRow = line
				res.Warnings = append(res.Warnings, checkHeader(line, rec)...)
			}
			return
		}
		if extra := nonEmptyBeyond(rec, schema.NumFields); extra > 0 {
			res.Warnings = append(res.Warnings, Warning{
				Row:     line,
				Message: fmt.Sprintf("row has %d columns, expected %d; ignoring %d extra values", len(rec), schema.NumFields, extra),
			})
		}
		res.Records = append(res.Records, model.FromValues(rec))
	}

	for {
		start := r.InputOffset()
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.StartLine
			}
			if res.HeaderRow > 0 {
				res.Warnings = append(res.Warnings, Warning{Row: line, Message: fmt.Sprintf("skipped malformed row: %v", err)})
			}
			continue
		}
		line, _ := r.FieldPos(0)

		raw := text[start:r.InputOffset()]
		if strings.TrimSpace(raw) == "" {
			continue
		}

		if lines := physicalLines(raw); runaway(lines) {
			for i, l := range lines {
				if strings.TrimSpace(l) == "" {
					continue
				}
				addRow(line+i, splitLine(l))
			}
			if res.HeaderRow > 0 {
				res.Warnings = append(res.Warnings, Warning{
					Row:     line,
					Message: fmt.Sprintf("unbalanced quote; read %d lines one row per line", len(lines)),
				})
			}
			continue
		}
		addRow(line, rec)
	}

	return res
}

// physicalLines splits the raw text of one parsed row into its lines, dropping blank lines
// the reader skipped before the row.
func physicalLines(raw string) []string {
	raw = strings.TrimLeft(raw, "\n")
	return strings.Split(strings.TrimSuffix(raw, "\n"), "\n")
}

// runaway reports whether a row spanning several lines is really a stray quote that
// swallowed the rows after it. A quoted cell that legitimately continues leaves its first
// line with an odd number of quotes, and no later line of it reads as a row on its own.
func runaway(lines []string) bool {
	if len(lines) < 2 {
		return false
	}
	if strings.Count(lines[0], `"`)%2 == 0 {
		return true
	}
	for _, l := range lines[1:] {
		if strings.Count(l, `"`)%2 == 0 && looksLikeRow(l) {
			return true
		}
	}
	return false
}

// looksLikeRow: a numeric BIL followed by at least two more cells.
func looksLikeRow(line string) bool {
	cells := splitLine(line)
	if len(cells) < 3 {
		return false
	}
	bil := strings.TrimSpace(cells[0])
	if bil == "" {
		return false
	}
	for _, r := range bil {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// splitLine splits one physical line on commas outside quotes. A quote toggles quoting
// and "" inside quotes is a literal quote; an unclosed quote runs to the end of the line.
func splitLine(line string) []string {
	var cells []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			cells = append(cells, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(cells, cur.String())
}

func isHeaderRow(rec []string) bool {
	return len(rec) >= 2 &&
		rec[0] == schema.BIL.Header() &&
		rec[1] == schema.NAMA.Header()
}

// checkHeader labels each physical header cell with the field that will be read from that
// position and reports cells that do not look like the expected column.
func checkHeader(line int, header []string) []Warning {
	out := []Warning{}
	for _, f := range schema.Fields() {
		i := int(f)
		if i >= len(header) {
			out = append(out, Warning{Row: line, Message: fmt.Sprintf("header row has no column %d (%s); values will be empty", i+1, f.ID())})
			continue
		}
		got := schema.Fold(schema.FirstLine(header[i]))
		want := schema.Fold(schema.FirstLine(f.Header()))
		if got != want {
			out = append(out, Warning{Row: line, Message: fmt.Sprintf("column %d header %q does not match %s (%q); reading it by position", i+1, schema.FirstLine(header[i]), f.ID(), schema.FirstLine(f.Header()))})
		}
	}
	if extra := nonEmptyBeyond(header, schema.NumFields); extra > 0 {
		out = append(out, Warning{Row: line, Message: fmt.Sprintf("header row has %d unknown trailing columns; they are ignored", extra)})
	}
	return out
}

func nonEmptyBeyond(rec []string, n int) int {
	count := 0
	for i := n; i < len(rec); i++ {
		if rec[i] != "" {
			count++
		}
	}
	return count
}
