package schema

import (
	"bytes"
	"encoding/json"
)

// HeaderMap is the identifier -> display header table. It marshals as a JSON object
// in canonical column order so the spreadsheet script can translate keys back to columns.
type HeaderMap struct{}

// KeyMap returns the process-wide header map.
func KeyMap() HeaderMap { return HeaderMap{} }

// Lookup returns the header for an identifier.
func (HeaderMap) Lookup(id string) (string, bool) {
	f, ok := FieldByID(id)
	if !ok {
		return "", false
	}
	return f.Header(), true
}

// Map returns a copy of the table as a plain map.
func (HeaderMap) Map() map[string]string {
	out := make(map[string]string, NumFields)
	for _, f := range fields {
		out[f.ID()] = f.Header()
	}
	return out
}

func (HeaderMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.ID())
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Header())
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
