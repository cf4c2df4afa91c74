package model

// Roster is the ordered list of staff records known to a session.
// Primary-key uniqueness is not enforced; lookups return the first match.
type Roster []Record

// Clone returns an independent copy.
func (ro Roster) Clone() Roster {
	if ro == nil {
		return nil
	}
	out := make(Roster, len(ro))
	copy(out, ro)
	return out
}

// FindByIdentity returns the first record whose identity number matches input once both
// sides are reduced to digits. Input without any digits never matches.
func (ro Roster) FindByIdentity(input string) (Record, bool) {
	want := NormalizeIdentity(input)
	if want == "" {
		return Record{}, false
	}
	for _, r := range ro {
		if NormalizeIdentity(r.Identity()) == want {
			return r, true
		}
	}
	return Record{}, false
}

// FindByKey returns the index of the first record with the given BIL.
func (ro Roster) FindByKey(key string) (int, bool) {
	for i, r := range ro {
		if r.Key() == key {
			return i, true
		}
	}
	return -1, false
}

// Replace swaps in rec for the first record sharing its BIL. It reports whether a record
// was replaced; the receiver is modified in place.
func (ro Roster) Replace(rec Record) bool {
	i, ok := ro.FindByKey(rec.Key())
	if !ok {
		return false
	}
	ro[i] = rec
	return true
}
