// Package cmap implements the character-to-glyph mapping subtable formats
// of layer L2 (spec.md §4.4): formats 0, 2, 4, 6, 10, 12, 13 and the
// Unicode Variation Sequences format 14. ParseCmap additionally implements
// the table-level subtable selection policy.
package cmap

import "github.com/typeparse/sfnt/internal/bin"

// Table is the common query surface every non-14 subtable format
// implements: a code point to glyph id lookup, and an ordered enumeration
// of every mapped code point (spec.md §4.4 "codepoint enumeration
// callback").
type Table interface {
	Lookup(cp uint32) (uint16, bool)
	Each(yield func(cp uint32, gid uint16) bool)
}

// Cmap is a parsed 'cmap' table: the subtable selected per spec.md §4.4's
// priority policy, plus the format-14 variation-selector subtable when one
// is present (platform 0, encoding 5).
type Cmap struct {
	Selected     Table
	HasSelected  bool
	Variation    Format14
	HasVariation bool
}

type encodingRecord struct {
	platformID, encodingID uint16
	offset                 uint32
}

// ParseCmap parses a 'cmap' table header and its encoding record array,
// then selects and parses the highest-priority subtable per spec.md §4.4:
// (1) Windows/Unicode full repertoire (format 12), (2) Windows/Unicode
// BMP, (3) Windows/Symbol (format 4), (4) any Unicode-platform subtable,
// (5) Macintosh/Roman (format 0). It also looks for a platform-0/encoding-5 variation
// sequences subtable (format 14) independently of the selection above.
func ParseCmap(b []byte) (Cmap, bool) {
	c := bin.NewCursor(b)
	if _, ok := c.U16(); !ok { // version
		return Cmap{}, false
	}
	numTables, ok := c.U16()
	if !ok {
		return Cmap{}, false
	}
	recs := make([]encodingRecord, 0, numTables)
	for i := 0; i < int(numTables); i++ {
		platformID, ok1 := c.U16()
		encodingID, ok2 := c.U16()
		offset, ok3 := c.U32()
		if !ok1 || !ok2 || !ok3 {
			return Cmap{}, false
		}
		recs = append(recs, encodingRecord{platformID, encodingID, offset})
	}

	var out Cmap
	best := -1
	for i, r := range recs {
		p := priority(r.platformID, r.encodingID)
		if p < 0 {
			continue
		}
		if best < 0 || p < priority(recs[best].platformID, recs[best].encodingID) {
			best = i
		}
	}
	if best >= 0 {
		if t, ok := parseSubtable(b, recs[best].offset); ok {
			out.Selected, out.HasSelected = t, true
		}
	}

	for _, r := range recs {
		if r.platformID != 0 || r.encodingID != 5 {
			continue
		}
		if int(r.offset) >= len(b) {
			continue
		}
		if f14, ok := ParseFormat14(b[r.offset:]); ok {
			out.Variation, out.HasVariation = f14, true
		}
	}
	return out, out.HasSelected || out.HasVariation
}

// priority ranks a platform/encoding pair per spec.md §4.4's selection
// policy; lower is better, negative means "not a candidate".
func priority(platformID, encodingID uint16) int {
	switch {
	case platformID == 3 && encodingID == 10: // Windows, Unicode full repertoire
		return 0
	case platformID == 3 && encodingID == 1: // Windows, Unicode BMP
		return 1
	case platformID == 3 && encodingID == 0: // Windows, Symbol
		return 2
	case platformID == 0: // any Unicode platform subtable
		return 3
	case platformID == 1 && encodingID == 0: // Macintosh, Roman
		return 4
	default:
		return -1
	}
}

func parseSubtable(b []byte, offset uint32) (Table, bool) {
	if int(offset)+2 > len(b) {
		return nil, false
	}
	body := b[offset:]
	format := bin.U16(body)
	switch format {
	case 0:
		if len(body) < 6 {
			return nil, false
		}
		return ParseFormat0(body[6:])
	case 2:
		if len(body) < 6 {
			return nil, false
		}
		return ParseFormat2(body[6:])
	case 4:
		if len(body) < 6 {
			return nil, false
		}
		return ParseFormat4(body[6:])
	case 6:
		if len(body) < 6 {
			return nil, false
		}
		return ParseFormat6(body[6:])
	case 10:
		if len(body) < 12 {
			return nil, false
		}
		return ParseFormat10(body[12:])
	case 12:
		if len(body) < 12 {
			return nil, false
		}
		return ParseFormat12(body[12:])
	case 13:
		if len(body) < 12 {
			return nil, false
		}
		return ParseFormat13(body[12:])
	default:
		return nil, false
	}
}
