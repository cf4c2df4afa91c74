package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
)

// row is one spreadsheet row as the endpoint returns it: header -> cell, with key order kept.
type row struct {
	keys []string
	vals map[string]string
}

func (r row) get(k string) (string, bool) {
	v, ok := r.vals[k]
	return v, ok
}

var errNotArray = errors.New("response is not a JSON array")

// decodeRows reads a JSON array of objects without losing key order.
func decodeRows(body io.Reader) ([]row, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNotArray, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errNotArray
	}

	rows := []row{}
	for dec.More() {
		r, err := decodeRow(dec, len(rows))
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read end of array: %w", err)
	}
	return rows, nil
}

func decodeRow(dec *json.Decoder, idx int) (row, error) {
	tok, err := dec.Token()
	if err != nil {
		return row{}, fmt.Errorf("row %d: %w", idx, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return row{}, fmt.Errorf("row %d is not an object", idx)
	}

	r := row{vals: map[string]string{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return row{}, fmt.Errorf("row %d: %w", idx, err)
		}
		key, ok := tok.(string)
		if !ok {
			return row{}, fmt.Errorf("row %d: unexpected token %v", idx, tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return row{}, fmt.Errorf("row %d, key %q: %w", idx, key, err)
		}
		if _, dup := r.vals[key]; !dup {
			r.keys = append(r.keys, key)
		}
		r.vals[key] = cellText(raw)
	}
	if _, err := dec.Token(); err != nil {
		return row{}, fmt.Errorf("row %d: %w", idx, err)
	}
	return r, nil
}

// cellText turns a JSON value into the cell text the form shows. Numbers keep their
// literal text so "0123" style values from the sheet survive as typed.
func cellText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case 'n':
		return ""
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			return buf.String()
		}
	}
	return string(raw)
}

// toRecord maps a spreadsheet row onto the canonical fields. For each field the first of
// these that exists wins: the exact header, the header with line breaks as spaces, then the
// first key (in row order) containing the header's first line.
func toRecord(r row) model.Record {
	var rec model.Record
	for _, f := range schema.Fields() {
		rec.Set(f, lookup(r, f.Header()))
	}
	return rec
}

func lookup(r row, header string) string {
	if v, ok := r.get(header); ok {
		return v
	}
	if v, ok := r.get(schema.Flatten(header)); ok {
		return v
	}
	first := schema.FirstLine(header)
	for _, k := range r.keys {
		if strings.Contains(k, first) {
			return r.vals[k]
		}
	}
	return ""
}
