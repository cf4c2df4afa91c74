package publish

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
)

const (
	labelWidth = 70.0
	valueWidth = 120.0
	lineHeight = 6.0
)

// WritePDF writes a one-record A4 slip that staff can sign and hand to the office.
func WritePDF(w io.Writer, rec model.Record, generated time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Maklumat Staf "+rec.Name(), true)
	pdf.SetAutoPageBreak(true, 15)
	// Core fonts are cp1252; translate so names like "José" print correctly.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("SK SRI AMAN"))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, tr("Maklumat Staf"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, tr(rec.Name()))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Bil %s  |  No. K/P %s", orText(rec.Key()), orText(rec.Identity()))))
	pdf.Ln(9)

	for _, s := range schema.Sections() {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(230, 236, 245)
		pdf.CellFormat(labelWidth+valueWidth, 7, tr(s.Title()), "", 1, "L", true, 0, "")
		pdf.Ln(1)
		for _, f := range schema.SectionFields(s) {
			if f == schema.NAMA || f == schema.NO_KAD_PENGENALAN {
				continue
			}
			pdf.SetFont("Helvetica", "", 9)
			x, y := pdf.GetXY()
			pdf.MultiCell(labelWidth, lineHeight, tr(f.Label()), "", "L", false)
			labelBottom := pdf.GetY()
			pdf.SetXY(x+labelWidth, y)
			pdf.SetFont("Helvetica", "B", 9)
			pdf.MultiCell(valueWidth, lineHeight, tr(orText(rec.Get(f))), "", "L", false)
			if pdf.GetY() < labelBottom {
				pdf.SetY(labelBottom)
			}
		}
		pdf.Ln(3)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, tr("Disahkan oleh: ______________________    Tarikh: ____________"))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.Cell(0, 5, tr("Dijana pada "+generated.Format("02/01/2006 15:04")))

	return pdf.Output(w)
}

// PDFBytes is WritePDF into memory.
func PDFBytes(rec model.Record, generated time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, rec, generated); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orText(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return emptyValue
	}
	return v
}
