package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
)

// Record is one staff member's row. It holds exactly one value per canonical field
// and is a plain value: assigning a Record copies it.
type Record struct {
	values [schema.NumFields]string
}

// NewRecord builds a record from identifier -> value pairs. Unknown identifiers are ignored.
func NewRecord(kv map[string]string) Record {
	var r Record
	for id, v := range kv {
		if f, ok := schema.FieldByID(id); ok {
			r.values[f] = v
		}
	}
	return r
}

// FromValues builds a record positionally, in canonical column order. Missing trailing
// values stay empty and extra values are dropped.
func FromValues(values []string) Record {
	var r Record
	copy(r.values[:], values)
	return r
}

func (r Record) Get(f schema.Field) string {
	if !f.Valid() {
		return ""
	}
	return r.values[f]
}

// Set returns false for an out-of-range field.
func (r *Record) Set(f schema.Field, v string) bool {
	if !f.Valid() {
		return false
	}
	r.values[f] = v
	return true
}

// Values returns the values in canonical column order.
func (r Record) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values[:])
	return out
}

// Map returns identifier -> value for every field.
func (r Record) Map() map[string]string {
	out := make(map[string]string, schema.NumFields)
	for _, f := range schema.Fields() {
		out[f.ID()] = r.values[f]
	}
	return out
}

// Key is the roster primary key (BIL).
func (r Record) Key() string { return r.values[schema.BIL] }

func (r Record) Identity() string { return r.values[schema.NO_KAD_PENGENALAN] }

func (r Record) Name() string { return r.values[schema.NAMA] }

func (r Record) IsZero() bool { return r == Record{} }

// MarshalJSON writes an object keyed by field identifier, in canonical order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range schema.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(f.ID())
		v, err := json.Marshal(r.values[f])
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

// UnmarshalJSON accepts an identifier-keyed object. Unknown keys are ignored and
// missing keys decode to "".
func (r *Record) UnmarshalJSON(b []byte) error {
	var kv map[string]string
	if err := json.Unmarshal(b, &kv); err != nil {
		return err
	}
	*r = NewRecord(kv)
	return nil
}

// NormalizeIdentity keeps only the ASCII digits of s. Login input and stored identity
// numbers are compared in this form, so "840110-07-5583" and "840110075583" are equal.
func NormalizeIdentity(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
