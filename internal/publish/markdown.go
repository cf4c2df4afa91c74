package publish

import (
	"bytes"
	"strings"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
)

const emptyValue = "-"

// RecordMarkdown renders one staff record as a markdown card grouped by form section.
func RecordMarkdown(rec model.Record) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	name := strings.TrimSpace(rec.Name())
	if name == "" {
		name = "(tiada nama)"
	}
	writeLn("# " + escape(name))
	writeLn("")
	writeLn("- Bil: " + orDash(rec.Key()))
	writeLn("- No. Kad Pengenalan: " + orDash(rec.Identity()))

	for _, s := range schema.Sections() {
		writeLn("")
		writeLn("## " + s.Title())
		writeLn("")
		for _, f := range schema.SectionFields(s) {
			if f == schema.NAMA || f == schema.NO_KAD_PENGENALAN {
				continue
			}
			writeLn("- **" + f.Label() + ":** " + listValue(rec.Get(f)))
		}
	}
	return buf.String()
}

func orDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return emptyValue
	}
	return escape(v)
}

// listValue keeps multi-line values inside their list item.
func listValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return emptyValue
	}
	lines := strings.Split(v, "\n")
	for i := range lines {
		lines[i] = escape(strings.TrimSpace(lines[i]))
	}
	return strings.Join(lines, "  \n  ")
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
)

func escape(s string) string { return mdEscaper.Replace(s) }
