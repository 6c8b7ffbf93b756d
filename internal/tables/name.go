package tables

import (
	"golang.org/x/text/encoding/unicode"

	"github.com/typeparse/sfnt/internal/bin"
)

// NameRecord is one entry of the 'name' table's naming array.
type NameRecord struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     uint16
	raw        []byte // borrowed slice of the string storage area
}

// Raw returns the record's raw, un-decoded bytes.
func (r NameRecord) Raw() []byte { return r.raw }

// String decodes the record's bytes according to its platform/encoding.
// Platform 3 (Windows) and platform 0 (Unicode) records are UTF-16BE;
// platform 1 (Macintosh) encoding 0 (Roman) is treated as Latin-1-ish ASCII
// superset and passed through byte-for-byte, matching what every other
// decoder in the wild does for the common case.
func (r NameRecord) String() string {
	switch r.PlatformID {
	case 3, 0:
		dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		out, err := dec.Bytes(r.raw)
		if err != nil {
			return ""
		}
		return string(out)
	default:
		return string(r.raw)
	}
}

// Name is a decoded 'name' table: a lazily-queryable list of records.
type Name struct {
	records []nameRecordHeader
	storage []byte
}

type nameRecordHeader struct {
	platformID, encodingID, languageID, nameID uint16
	offset, length                             uint16
}

// ParseName parses a 'name' table (format 0 or 1; format 1's langTag
// records are skipped, as this module does not resolve custom languages).
func ParseName(b []byte) (Name, bool) {
	c := bin.NewCursor(b)
	format, ok := c.U16()
	if !ok || (format != 0 && format != 1) {
		return Name{}, false
	}
	count, ok := c.U16()
	if !ok {
		return Name{}, false
	}
	stringOffset, ok := c.U32()
	if !ok || int(stringOffset) > len(b) {
		return Name{}, false
	}
	recs := make([]nameRecordHeader, 0, count)
	for i := 0; i < int(count); i++ {
		platformID, ok1 := c.U16()
		encodingID, ok2 := c.U16()
		languageID, ok3 := c.U16()
		nameID, ok4 := c.U16()
		length, ok5 := c.U16()
		offset, ok6 := c.U16()
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
			return Name{}, false
		}
		recs = append(recs, nameRecordHeader{
			platformID: platformID, encodingID: encodingID, languageID: languageID,
			nameID: nameID, offset: offset, length: length,
		})
	}
	return Name{records: recs, storage: b[stringOffset:]}, true
}

// Len returns the number of name records.
func (n Name) Len() int { return len(n.records) }

// Record returns record i, decoded lazily (spec.md §9 "Pull rather than
// push"). Out-of-range bytes degrade to a record with an empty Raw slice
// rather than failing the whole table.
func (n Name) Record(i int) (NameRecord, bool) {
	if i < 0 || i >= len(n.records) {
		return NameRecord{}, false
	}
	h := n.records[i]
	var raw []byte
	start, end := int(h.offset), int(h.offset)+int(h.length)
	if start >= 0 && end <= len(n.storage) && start <= end {
		raw = n.storage[start:end]
	}
	return NameRecord{
		PlatformID: h.platformID,
		EncodingID: h.encodingID,
		LanguageID: h.languageID,
		NameID:     h.nameID,
		raw:        raw,
	}, true
}

// ByNameID returns the first record matching nameID, preferring Windows
// platform/English-US language records, which is the value most callers
// want for family/subfamily/PostScript names.
func (n Name) ByNameID(nameID uint16) (NameRecord, bool) {
	var fallback NameRecord
	haveFallback := false
	for i := 0; i < n.Len(); i++ {
		r, _ := n.Record(i)
		if r.NameID != nameID {
			continue
		}
		if r.PlatformID == 3 && r.LanguageID == 0x0409 {
			return r, true
		}
		if !haveFallback {
			fallback, haveFallback = r, true
		}
	}
	return fallback, haveFallback
}

// Standard name IDs used by the Face façade.
const (
	NameIDFamily         = 1
	NameIDSubfamily      = 2
	NameIDFullName       = 4
	NameIDVersion        = 5
	NameIDPostScriptName = 6
	NameIDTypographicFamily    = 16
	NameIDTypographicSubfamily = 17
)
