package tables

import "github.com/typeparse/sfnt/internal/bin"

// ClassDef is a parsed OpenType ClassDef table (format 1: a contiguous
// glyph-ID range with per-glyph classes; format 2: a sorted array of glyph
// ranges with one class per range).
type ClassDef struct {
	format      uint16
	startGlyph  uint16
	classValues []uint16 // format 1

	ranges []classRange // format 2
}

type classRange struct {
	start, end uint16
	class      uint16
}

// ParseClassDef parses a ClassDef subtable.
func ParseClassDef(b []byte) (ClassDef, bool) {
	c := bin.NewCursor(b)
	format, ok := c.U16()
	if !ok {
		return ClassDef{}, false
	}
	switch format {
	case 1:
		startGlyph, ok := c.U16()
		if !ok {
			return ClassDef{}, false
		}
		count, ok := c.U16()
		if !ok {
			return ClassDef{}, false
		}
		vals := make([]uint16, count)
		for i := range vals {
			v, ok := c.U16()
			if !ok {
				return ClassDef{}, false
			}
			vals[i] = v
		}
		return ClassDef{format: 1, startGlyph: startGlyph, classValues: vals}, true
	case 2:
		count, ok := c.U16()
		if !ok {
			return ClassDef{}, false
		}
		ranges := make([]classRange, count)
		for i := range ranges {
			start, ok1 := c.U16()
			end, ok2 := c.U16()
			class, ok3 := c.U16()
			if !ok1 || !ok2 || !ok3 {
				return ClassDef{}, false
			}
			ranges[i] = classRange{start: start, end: end, class: class}
		}
		return ClassDef{format: 2, ranges: ranges}, true
	default:
		return ClassDef{}, false
	}
}

// Lookup returns the class of gid, or 0 ("unclassified") if gid is not
// covered.
func (cd ClassDef) Lookup(gid uint16) uint16 {
	switch cd.format {
	case 1:
		if gid < cd.startGlyph {
			return 0
		}
		i := int(gid - cd.startGlyph)
		if i >= len(cd.classValues) {
			return 0
		}
		return cd.classValues[i]
	case 2:
		lo, hi := 0, len(cd.ranges)
		for lo < hi {
			mid := (lo + hi) / 2
			r := cd.ranges[mid]
			switch {
			case gid < r.start:
				hi = mid
			case gid > r.end:
				lo = mid + 1
			default:
				return r.class
			}
		}
	}
	return 0
}

// Gdef is a parsed 'GDEF' table, restricted to the glyph-class and
// mark-attachment-class lookups this module's core needs (spec.md §1
// "Out of scope" excludes the rest of GDEF/GPOS/GSUB).
type Gdef struct {
	GlyphClass       ClassDef
	MarkAttachClass  ClassDef
	HasGlyphClass    bool
	HasMarkAttach    bool
}

// GDEF glyph classes, per the OpenType spec.
const (
	GlyphClassBase      = 1
	GlyphClassLigature  = 2
	GlyphClassMark      = 3
	GlyphClassComponent = 4
)

// ParseGdef parses a 'GDEF' table header and its two ClassDef subtables.
func ParseGdef(b []byte) (Gdef, bool) {
	c := bin.NewCursor(b)
	if _, ok := c.U16(); !ok { // majorVersion
		return Gdef{}, false
	}
	if _, ok := c.U16(); !ok { // minorVersion
		return Gdef{}, false
	}
	glyphClassDefOffset, ok := c.U16()
	if !ok {
		return Gdef{}, false
	}
	if !c.Skip(2) { // attachListOffset
		return Gdef{}, false
	}
	if !c.Skip(2) { // ligCaretListOffset
		return Gdef{}, false
	}
	markAttachClassDefOffset, ok := c.U16()
	if !ok {
		return Gdef{}, false
	}

	var g Gdef
	if glyphClassDefOffset != 0 && int(glyphClassDefOffset) < len(b) {
		if cd, ok := ParseClassDef(b[glyphClassDefOffset:]); ok {
			g.GlyphClass, g.HasGlyphClass = cd, true
		}
	}
	if markAttachClassDefOffset != 0 && int(markAttachClassDefOffset) < len(b) {
		if cd, ok := ParseClassDef(b[markAttachClassDefOffset:]); ok {
			g.MarkAttachClass, g.HasMarkAttach = cd, true
		}
	}
	return g, true
}
