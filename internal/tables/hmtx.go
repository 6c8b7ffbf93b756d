package tables

import "github.com/typeparse/sfnt/internal/bin"

// Hmtx is a view over an 'hmtx' (or 'vmtx') table: numLong (advance,
// side-bearing) pairs, followed by (numGlyphs-numLong) side-bearing-only
// entries. Side bearings past the end of a truncated table are reported as
// "not found" rather than failing the whole table (spec.md §4.3).
type Hmtx struct {
	data    []byte
	numLong int
}

// NewHmtx wraps the raw 'hmtx'/'vmtx' bytes. It performs no validation: a
// table that is too short to hold numLong records still parses, and later
// queries past its end simply report "not found".
func NewHmtx(data []byte, numLong int) Hmtx {
	return Hmtx{data: data, numLong: numLong}
}

// Advance returns the advance width (or height) for glyph gid.
func (h Hmtx) Advance(gid int) (uint16, bool) {
	if h.numLong == 0 {
		return 0, false
	}
	if gid >= h.numLong {
		gid = h.numLong - 1
	}
	off := gid * 4
	if off+2 > len(h.data) {
		return 0, false
	}
	return bin.U16(h.data[off:]), true
}

// SideBearing returns the left (or top) side bearing for glyph gid.
func (h Hmtx) SideBearing(gid int) (int16, bool) {
	if gid < h.numLong {
		off := gid*4 + 2
		if off+2 > len(h.data) {
			return 0, false
		}
		return int16(bin.U16(h.data[off:])), true
	}
	off := h.numLong*4 + (gid-h.numLong)*2
	if off < 0 || off+2 > len(h.data) {
		return 0, false
	}
	return int16(bin.U16(h.data[off:])), true
}
