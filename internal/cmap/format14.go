package cmap

import (
	"sort"

	"github.com/typeparse/sfnt/internal/bin"
)

// VariationResult is the three-valued outcome of a format-14 variation
// sequence lookup (spec.md §9 Open Questions: "none" because the base
// character has no entry for this selector at all is distinct from
// "default" because the selector maps the base character to its usual
// cmap glyph).
type VariationResult int

const (
	// VariationNone means (baseCP, selector) has no variation sequence
	// record at all.
	VariationNone VariationResult = iota
	// VariationDefault means the sequence is registered but resolves to
	// whatever the font's normal cmap lookup already returns for baseCP.
	VariationDefault
	// VariationExplicit means the sequence maps to a specific glyph that
	// overrides the normal cmap result.
	VariationExplicit
)

// Format14 is the Unicode Variation Sequences subtable (spec.md §4.4
// format 14). Each variation selector owns a default-UVS range list
// (no explicit glyph, falls through to the ordinary cmap) and a
// non-default-UVS sorted array (explicit glyph ids).
type Format14 struct {
	data       []byte // whole subtable, for record offset resolution
	selectors  []byte // 11-byte records, sorted by varSelector
	numRecords int
}

// ParseFormat14 parses a format-14 subtable. b is the entire subtable
// (starting at the format field), since variation selector records
// carry table-relative offsets.
func ParseFormat14(b []byte) (Format14, bool) {
	c := bin.NewCursor(b)
	if _, ok := c.U16(); !ok { // format
		return Format14{}, false
	}
	if _, ok := c.U32(); !ok { // length
		return Format14{}, false
	}
	numRecords, ok := c.U32()
	if !ok || numRecords > 1_000_000 {
		return Format14{}, false
	}
	selectors, ok := c.Bytes(int(numRecords) * 11)
	if !ok {
		return Format14{}, false
	}
	return Format14{data: b, selectors: selectors, numRecords: int(numRecords)}, true
}

func (f Format14) record(i int) (varSelector uint32, defaultUVSOffset, nonDefaultUVSOffset uint32) {
	r := f.selectors[i*11:]
	varSelector = uint32(r[0])<<16 | uint32(r[1])<<8 | uint32(r[2])
	defaultUVSOffset = bin.U32(r[3:])
	nonDefaultUVSOffset = bin.U32(r[7:])
	return
}

func (f Format14) findSelector(selector rune) (defaultUVSOffset, nonDefaultUVSOffset uint32, ok bool) {
	target := uint32(selector)
	i := sort.Search(f.numRecords, func(i int) bool {
		vs, _, _ := f.record(i)
		return vs >= target
	})
	if i == f.numRecords {
		return 0, 0, false
	}
	vs, d, n := f.record(i)
	if vs != target {
		return 0, 0, false
	}
	return d, n, true
}

// inDefaultUVS reports whether baseCP falls in one of the Unicode range
// records at offset defaultUVSOffset (each: 3-byte startUnicodeValue,
// 1-byte additionalCount).
func (f Format14) inDefaultUVS(offset uint32, baseCP rune) bool {
	if offset == 0 || int(offset)+4 > len(f.data) {
		return false
	}
	c := bin.NewCursor(f.data[offset:])
	n, ok := c.U32()
	if !ok {
		return false
	}
	ranges, ok := bin.NewArray(&c, int(n), 4)
	if !ok {
		return false
	}
	target := uint32(baseCP)
	i := sort.Search(ranges.Len(), func(i int) bool {
		e, _ := ranges.Elem(i)
		start := uint32(e[0])<<16 | uint32(e[1])<<8 | uint32(e[2])
		count := uint32(e[3])
		return start+count >= target
	})
	if i == ranges.Len() {
		return false
	}
	e, _ := ranges.Elem(i)
	start := uint32(e[0])<<16 | uint32(e[1])<<8 | uint32(e[2])
	count := uint32(e[3])
	return target >= start && target <= start+count
}

// explicitGlyph resolves baseCP against the non-default UVS mapping
// array at offset offset (each record: 3-byte unicodeValue, u16 glyphID).
func (f Format14) explicitGlyph(offset uint32, baseCP rune) (uint16, bool) {
	if offset == 0 || int(offset)+4 > len(f.data) {
		return 0, false
	}
	c := bin.NewCursor(f.data[offset:])
	n, ok := c.U32()
	if !ok {
		return 0, false
	}
	mappings, ok := bin.NewArray(&c, int(n), 5)
	if !ok {
		return 0, false
	}
	target := uint32(baseCP)
	i := sort.Search(mappings.Len(), func(i int) bool {
		e, _ := mappings.Elem(i)
		uv := uint32(e[0])<<16 | uint32(e[1])<<8 | uint32(e[2])
		return uv >= target
	})
	if i == mappings.Len() {
		return 0, false
	}
	e, _ := mappings.Elem(i)
	uv := uint32(e[0])<<16 | uint32(e[1])<<8 | uint32(e[2])
	if uv != target {
		return 0, false
	}
	return bin.U16(e[3:]), true
}

// Lookup resolves a (baseCP, selector) variation sequence. On
// VariationExplicit, gid is the glyph to use; on VariationDefault and
// VariationNone the caller should fall back to (or report failure from)
// the font's ordinary cmap lookup for baseCP.
func (f Format14) Lookup(baseCP, selector rune) (gid uint16, result VariationResult) {
	defOff, nonDefOff, ok := f.findSelector(selector)
	if !ok {
		return 0, VariationNone
	}
	if g, ok := f.explicitGlyph(nonDefOff, baseCP); ok {
		return g, VariationExplicit
	}
	if f.inDefaultUVS(defOff, baseCP) {
		return 0, VariationDefault
	}
	return 0, VariationNone
}
