package schema

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Field identifies one column of the staff spreadsheet.
//
// The zero value is BIL; fields are dense indices into the canonical column order,
// so a Field can be used directly as a slice/array index.
type Field int

const (
	BIL Field = iota
	NAMA
	NO_KAD_PENGENALAN
	JAWATAN
	GRED
	NO_GAJI
	AGAMA
	NO_KWSP
	TARIKH_PENGESAHAN_LANTIKAN
	TARIKH_PENGESAHAN_DALAM_PERKHIDMATAN
	TARIKH_TARAF_BERPENCEN
	TARIKH_BERSARA
	SKIM_PENCEN_KWSP
	UMUR_BERSARA
	KUATERS_KERAJAAN
	NO_TEL
	ALAMAT_TERKINI
	TARIKH_LANTIKAN_PERTAMA
	TARIKH_KENAIKAN_PANGKAT_1
	TARIKH_KENAIKAN_PANGKAT_2
	TARIKH_KENAIKAN_PANGKAT_3
	FASA_1
	FASA_2
	URUSAN_KENAIKAN_PANGKAT_MANUAL
	STATUS_SEMASA_URUSAN
	TARIKH_LAPOR_DIRI
	TARIKH_KELUAR

	// NumFields is the number of canonical columns.
	NumFields int = iota
)

// Section groups fields on the edit form.
type Section int

const (
	SectionNone Section = iota
	SectionPersonal
	SectionService
	SectionDates
	SectionPromotion
	SectionMovement
)

func (s Section) Title() string {
	switch s {
	case SectionPersonal:
		return "Maklumat Peribadi & Hubungan"
	case SectionService:
		return "Maklumat Perkhidmatan"
	case SectionDates:
		return "Tarikh-Tarikh Penting"
	case SectionPromotion:
		return "Kenaikan Pangkat & Status"
	case SectionMovement:
		return "Pergerakan Sekolah"
	default:
		return ""
	}
}

type fieldDef struct {
	id      string
	header  string
	label   string
	section Section
	// locked fields are keys or office-only columns; the form shows them read-only.
	locked bool
	// multiline fields get a taller editor.
	multiline bool
}

// table is the canonical column order. Headers must match the spreadsheet byte for byte,
// including embedded newlines and trailing spaces.
var table = [NumFields]fieldDef{
	BIL:                                  {id: "BIL", header: "BIL", label: "Bil", locked: true},
	NAMA:                                 {id: "NAMA", header: "NAMA", label: "Nama Penuh", section: SectionPersonal, locked: true},
	NO_KAD_PENGENALAN:                    {id: "NO_KAD_PENGENALAN", header: "NO KAD PENGENALAN", label: "No. Kad Pengenalan", section: SectionPersonal, locked: true},
	JAWATAN:                              {id: "JAWATAN", header: "JAWATAN", label: "Jawatan", section: SectionService},
	GRED:                                 {id: "GRED", header: "GRED", label: "Gred", section: SectionService},
	NO_GAJI:                              {id: "NO_GAJI", header: "NO GAJI", label: "No. Gaji", section: SectionService},
	AGAMA:                                {id: "AGAMA", header: "AGAMA", label: "Agama", section: SectionPersonal},
	NO_KWSP:                              {id: "NO_KWSP", header: "NO KWSP", label: "No. KWSP", section: SectionService},
	TARIKH_PENGESAHAN_LANTIKAN:           {id: "TARIKH_PENGESAHAN_LANTIKAN", header: "TARIKH PENGESAHAN LANTIKAN", label: "Tarikh Pengesahan Lantikan", section: SectionDates},
	TARIKH_PENGESAHAN_DALAM_PERKHIDMATAN: {id: "TARIKH_PENGESAHAN_DALAM_PERKHIDMATAN", header: "TARIKH PENGESAHAN DALAM PERKHIDMATAN", label: "Tarikh Pengesahan Dlm Perkhidmatan", section: SectionDates},
	TARIKH_TARAF_BERPENCEN:               {id: "TARIKH_TARAF_BERPENCEN", header: "TARIKH TARAF BERPENCEN", label: "Tarikh Taraf Berpencen", section: SectionDates},
	TARIKH_BERSARA:                       {id: "TARIKH_BERSARA", header: "TARIKH BERSARA", label: "Tarikh Bersara", section: SectionDates},
	SKIM_PENCEN_KWSP:                     {id: "SKIM_PENCEN_KWSP", header: "SKIM PENCEN / KWSP", label: "Skim Pencen / KWSP", section: SectionService},
	UMUR_BERSARA:                         {id: "UMUR_BERSARA", header: "UMUR BERSARA (TAHUN)", label: "Umur Bersara", section: SectionDates},
	KUATERS_KERAJAAN:                     {id: "KUATERS_KERAJAAN", header: "KUATERS KERAJAAN", label: "Kuarters Kerajaan", section: SectionPersonal},
	NO_TEL:                               {id: "NO_TEL", header: "NO TEL", label: "No. Telefon", section: SectionPersonal},
	ALAMAT_TERKINI:                       {id: "ALAMAT_TERKINI", header: "ALAMAT TERKINI", label: "Alamat Terkini", section: SectionPersonal, multiline: true},
	TARIKH_LANTIKAN_PERTAMA:              {id: "TARIKH_LANTIKAN_PERTAMA", header: "Tarikh Lantikan Pertama\nGuru - DG5/DG9\nAKP - N1", label: "Tarikh Lantikan Pertama", section: SectionDates},
	TARIKH_KENAIKAN_PANGKAT_1:            {id: "TARIKH_KENAIKAN_PANGKAT_1", header: "Tarikh Kenaikan Pangkat \nGuru - DG6/DG10\nAKP - N2", label: "Kenaikan Pangkat 1 (DG6/DG10/N2)", section: SectionPromotion},
	TARIKH_KENAIKAN_PANGKAT_2:            {id: "TARIKH_KENAIKAN_PANGKAT_2", header: "Tarikh Kenaikan Pangkat\nGuru - DG7/DG12\nAKP - N3", label: "Kenaikan Pangkat 2 (DG7/DG12/N3)", section: SectionPromotion},
	TARIKH_KENAIKAN_PANGKAT_3:            {id: "TARIKH_KENAIKAN_PANGKAT_3", header: "Tarikh Kenaikan Pangkat\nGuru - DG8/DG13\nAKP - N4", label: "Kenaikan Pangkat 3 (DG8/DG13/N4)", section: SectionPromotion},
	FASA_1:                               {id: "FASA_1", header: "Fasa 1 - Lantikan bulan Januari-Jun\n\n(Sila tandakan / jika terlibat)", label: "Fasa 1 (Jan-Jun)", section: SectionPromotion},
	FASA_2:                               {id: "FASA_2", header: "Fasa 2 - Lantikan bulan \nJulai - Disember \n\n(Sila tandakan / jika terlibat)", label: "Fasa 2 (Jul-Dis)", section: SectionPromotion},
	URUSAN_KENAIKAN_PANGKAT_MANUAL:       {id: "URUSAN_KENAIKAN_PANGKAT_MANUAL", header: "Urusan Kenaikan Pangkat Manual ( Kes-kes Khas)", label: "Urusan Kenaikan Pangkat Manual (Kes Khas)", section: SectionPromotion},
	STATUS_SEMASA_URUSAN:                 {id: "STATUS_SEMASA_URUSAN", header: "Status Semasa Urusan Kenaikan Pangkat", label: "Status Semasa Urusan Kenaikan Pangkat", section: SectionPromotion},
	TARIKH_LAPOR_DIRI:                    {id: "TARIKH_LAPOR_DIRI", header: "Tarikh Lapor Diri di \nSK Sri Aman", label: "Tarikh Lapor Diri SK Sri Aman", section: SectionMovement},
	TARIKH_KELUAR:                        {id: "TARIKH_KELUAR", header: "Tarikh Keluar dari SK Sri Aman (diisi oleh Pejabat)", label: "Tarikh Keluar (Pejabat Sahaja)", section: SectionMovement, locked: true},
}

var (
	fields   []Field
	byID     = map[string]Field{}
	byHeader = map[string]Field{}
)

func init() {
	fields = make([]Field, NumFields)
	for i := range table {
		f := Field(i)
		fields[i] = f
		byID[table[i].id] = f
		byHeader[table[i].header] = f
	}
}

// Fields returns every field in canonical column order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

func (f Field) Valid() bool { return f >= 0 && int(f) < NumFields }

// ID returns the stable identifier (e.g. "NO_KAD_PENGENALAN").
func (f Field) ID() string {
	if !f.Valid() {
		return ""
	}
	return table[f].id
}

func (f Field) String() string { return f.ID() }

// Header returns the spreadsheet display header, possibly spanning several lines.
func (f Field) Header() string {
	if !f.Valid() {
		return ""
	}
	return table[f].header
}

func (f Field) Label() string {
	if !f.Valid() {
		return ""
	}
	return table[f].label
}

func (f Field) Section() Section {
	if !f.Valid() {
		return SectionNone
	}
	return table[f].section
}

// Locked reports whether the field is a key or an office-only column.
func (f Field) Locked() bool {
	if !f.Valid() {
		return true
	}
	return table[f].locked
}

func (f Field) Multiline() bool {
	if !f.Valid() {
		return false
	}
	return table[f].multiline
}

// HeaderFor is the Field.Header accessor in function form.
func HeaderFor(f Field) string { return f.Header() }

// FieldFor maps an exact display header back to its field.
func FieldFor(header string) (Field, bool) {
	f, ok := byHeader[header]
	return f, ok
}

// FieldByID resolves an identifier such as "GRED". Matching is case-insensitive.
func FieldByID(id string) (Field, bool) {
	id = strings.ToUpper(strings.TrimSpace(id))
	f, ok := byID[id]
	return f, ok
}

// FirstLine returns the header text before the first line break.
func FirstLine(header string) string {
	if i := strings.IndexByte(header, '\n'); i >= 0 {
		return header[:i]
	}
	return header
}

// Flatten replaces every line break in a header with a single space.
func Flatten(header string) string {
	return strings.ReplaceAll(header, "\n", " ")
}

// Fold canonicalizes a header cell for comparison: NFC, collapsed whitespace,
// case-folded. It never relocates a column, it only decides whether a cell "looks right".
func Fold(s string) string {
	s = norm.NFC.String(s)
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// SectionFields returns the fields of one form section in canonical order.
func SectionFields(s Section) []Field {
	out := []Field{}
	for _, f := range fields {
		if table[f].section == s {
			out = append(out, f)
		}
	}
	return out
}

// Sections lists the form sections in display order.
func Sections() []Section {
	return []Section{SectionPersonal, SectionService, SectionDates, SectionPromotion, SectionMovement}
}
