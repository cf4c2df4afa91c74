// Package fallback carries the roster snapshot used when no spreadsheet endpoint is reachable.
package fallback

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed staff.csv
var staffCSV []byte

// Embedded returns a copy of the built-in roster CSV.
func Embedded() []byte {
	out := make([]byte, len(staffCSV))
	copy(out, staffCSV)
	return out
}

// Load returns the CSV at path, or the built-in snapshot when path is empty.
func Load(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Embedded(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback csv: %w", err)
	}
	return b, nil
}
