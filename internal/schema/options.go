package schema

// Suggested values for the fields the school form offers as pick lists. Any other value is
// still accepted; the lists only drive completion in the editor.
var options = map[Field][]string{
	JAWATAN: {
		"GURU BESAR",
		"GURU PENOLONG KANAN PENTADBIRAN",
		"GURU PENOLONG KANAN HEM",
		"GURU PENOLONG KANAN KOKURIKULUM",
		"GURU PENOLONG KANAN KURIKULUM",
		"GURU AKADEMIK BIASA",
		"GURU PENDIDIKAN KHAS",
		"PEMBANTU TADBIR (P/O)",
		"PEMBANTU TADBIR (KEWANGAN)",
		"PEMBANTU PENGURUSAN MURID",
		"PEMBANTU OPERASI",
	},
	AGAMA:                          {"ISLAM", "BUDDHA", "HINDU", "KRISTIAN", "LAIN-LAIN"},
	SKIM_PENCEN_KWSP:               {"PENCEN", "KWSP"},
	KUATERS_KERAJAAN:               {"YA", "TIDAK"},
	URUSAN_KENAIKAN_PANGKAT_MANUAL: {"YA", "TIDAK"},
	STATUS_SEMASA_URUSAN:           {"BELUM DIMULAKAN", "DALAM PROSES", "SELESAI", "TIDAK BERKENAAN"},
}

// Options returns the suggested values for f, or nil when the field is free text.
func (f Field) Options() []string {
	opts := options[f]
	if len(opts) == 0 {
		return nil
	}
	out := make([]string, len(opts))
	copy(out, opts)
	return out
}
