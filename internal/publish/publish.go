package publish

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/store"
)

type WriteOptions struct {
	Overwrite bool
	// Now stamps the PDF footer; zero means time.Now.
	Now time.Time
}

type WriteResult struct {
	Written []string `json:"written"`
}

// SlipFilename is the default file name for a record's slip, e.g. maklumat_3_840110075583.pdf.
func SlipFilename(rec model.Record, ext string) string {
	id := model.NormalizeIdentity(rec.Identity())
	if id == "" {
		id = "tanpa_kp"
	}
	bil := strings.TrimSpace(rec.Key())
	if bil == "" {
		bil = "0"
	}
	return fmt.Sprintf("maklumat_%s_%s%s", bil, id, ext)
}

// WriteSlip writes rec to path as PDF or markdown, chosen by the file extension.
func WriteSlip(path string, rec model.Record, opt WriteOptions) (WriteResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return WriteResult{}, errors.New("missing output path")
	}
	path = filepath.Clean(path)

	var b []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		now := opt.Now
		if now.IsZero() {
			now = time.Now()
		}
		pdf, err := PDFBytes(rec, now)
		if err != nil {
			return WriteResult{}, fmt.Errorf("render pdf: %w", err)
		}
		b = pdf
	case ".md", ".markdown":
		b = []byte(RecordMarkdown(rec))
	default:
		return WriteResult{}, fmt.Errorf("unsupported slip format %q (use .pdf or .md)", filepath.Ext(path))
	}

	if err := writeFile(path, b, opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{path}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return store.WriteFileAtomic(path, b, 0o644)
}
