package publish

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
)

func sample() model.Record {
	return model.NewRecord(map[string]string{
		"BIL":               "3",
		"NAMA":              "José Tan_Mei",
		"NO_KAD_PENGENALAN": "840110-07-5583",
		"GRED":              "DG44",
		"ALAMAT_TERKINI":    "No 1, Jalan Mawar\nSegamat",
	})
}

func TestRecordMarkdown(t *testing.T) {
	md := RecordMarkdown(sample())

	for _, want := range []string{
		`# José Tan\_Mei`,
		"- No. Kad Pengenalan: 840110-07-5583",
		"## Maklumat Perkhidmatan",
		"- **Gred:** DG44",
		"- **Alamat Terkini:** No 1, Jalan Mawar  \n  Segamat",
		"- **No. Telefon:** -",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
	if strings.Count(md, "Nama Penuh") != 0 {
		t.Fatalf("name should only appear as the title")
	}
}

func TestRender_FallsBackOnEmpty(t *testing.T) {
	if got := Render("   ", 80); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
	t.Setenv("MAKLUMAT_THEME", "dark")
	out := Render(RecordMarkdown(sample()), 80)
	if !strings.Contains(out, "DG44") {
		t.Fatalf("expected rendered card to contain values, got:\n%s", out)
	}
}

func TestMarkdownStyle_Env(t *testing.T) {
	t.Setenv("MAKLUMAT_THEME", "")
	t.Setenv("COLORFGBG", "0;15")
	if got := MarkdownStyle(); got != "light" {
		t.Fatalf("COLORFGBG light bg: got %q", got)
	}
	t.Setenv("MAKLUMAT_THEME", "dark")
	if got := MarkdownStyle(); got != "dark" {
		t.Fatalf("explicit theme: got %q", got)
	}
}

func TestPDFBytes(t *testing.T) {
	b, err := PDFBytes(sample(), time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PDFBytes: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", b[:8])
	}
}

func TestWriteSlip(t *testing.T) {
	dir := t.TempDir()
	rec := sample()

	if got := SlipFilename(rec, ".pdf"); got != "maklumat_3_840110075583.pdf" {
		t.Fatalf("SlipFilename=%q", got)
	}

	pdfPath := filepath.Join(dir, SlipFilename(rec, ".pdf"))
	res, err := WriteSlip(pdfPath, rec, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteSlip pdf: %v", err)
	}
	if len(res.Written) != 1 || res.Written[0] != pdfPath {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := WriteSlip(pdfPath, rec, WriteOptions{}); err == nil {
		t.Fatalf("expected error when file exists without overwrite")
	}
	if _, err := WriteSlip(pdfPath, rec, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	mdPath := filepath.Join(dir, "card.md")
	if _, err := WriteSlip(mdPath, rec, WriteOptions{}); err != nil {
		t.Fatalf("WriteSlip md: %v", err)
	}
	b, _ := os.ReadFile(mdPath)
	if !strings.HasPrefix(string(b), "# ") {
		t.Fatalf("unexpected markdown file: %q", b)
	}

	if _, err := WriteSlip(filepath.Join(dir, "card.docx"), rec, WriteOptions{}); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}
