package cmap

import "github.com/typeparse/sfnt/internal/bin"

// Format10 is the trimmed array subtable, format 6's 32-bit-code-point
// sibling: a dense glyph id array over a contiguous range, rare outside
// fonts covering supplementary-plane scripts (spec.md §4.4 format 10).
type Format10 struct {
	startCharCode uint32
	glyphIDs      []byte
}

// ParseFormat10 parses a format-10 subtable body (b starts after the
// 2-byte reserved field that follows the format/length/language header,
// at startCharCode).
func ParseFormat10(b []byte) (Format10, bool) {
	c := bin.NewCursor(b)
	start, ok := c.U32()
	if !ok {
		return Format10{}, false
	}
	count, ok := c.U32()
	if !ok || count > 1<<24 {
		return Format10{}, false
	}
	glyphIDs, ok := c.Bytes(int(count) * 2)
	if !ok {
		return Format10{}, false
	}
	return Format10{startCharCode: start, glyphIDs: glyphIDs}, true
}

// Lookup implements Table.
func (f Format10) Lookup(cp uint32) (uint16, bool) {
	if cp < f.startCharCode {
		return 0, false
	}
	idx := int(cp - f.startCharCode)
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
func (f Format10) Each(yield func(cp uint32, gid uint16) bool) {
	n := len(f.glyphIDs) / 2
	for i := 0; i < n; i++ {
		gid := bin.U16(f.glyphIDs[i*2:])
		if gid == 0 {
			continue
		}
		if !yield(f.startCharCode+uint32(i), gid) {
			return
		}
	}
}
