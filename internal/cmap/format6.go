package cmap

import "github.com/typeparse/sfnt/internal/bin"

// Format6 is the trimmed-table mapping subtable: a dense array of glyph
// ids for a contiguous code range (spec.md §4.4 format 6).
type Format6 struct {
	firstCode uint16
	glyphIDs  []byte
}

// ParseFormat6 parses a format-6 subtable body (b starts after the 6-byte
// format/length/language header).
func ParseFormat6(b []byte) (Format6, bool) {
	c := bin.NewCursor(b)
	first, ok := c.U16()
	if !ok {
		return Format6{}, false
	}
	count, ok := c.U16()
	if !ok {
		return Format6{}, false
	}
	glyphIDs, ok := c.Bytes(int(count) * 2)
	if !ok {
		return Format6{}, false
	}
	return Format6{firstCode: first, glyphIDs: glyphIDs}, true
}

// Lookup implements Table.
func (f Format6) Lookup(cp uint32) (uint16, bool) {
	if cp < uint32(f.firstCode) {
		return 0, false
	}
	idx := int(cp - uint32(f.firstCode))
	if idx*2+2 > len(f.glyphIDs) {
		return 0, false
	}
	gid := bin.U16(f.glyphIDs[idx*2:])
	if gid == 0 {
		return 0, false
	}
	return gid, true
}

// Each implements Table.
func (f Format6) Each(yield func(cp uint32, gid uint16) bool) {
	n := len(f.glyphIDs) / 2
	for i := 0; i < n; i++ {
		gid := bin.U16(f.glyphIDs[i*2:])
		if gid == 0 {
			continue
		}
		if !yield(uint32(f.firstCode)+uint32(i), gid) {
			return
		}
	}
}
