package cmap

// Format0 is the 256-entry byte-encoding cmap subtable (Macintosh Roman,
// typically). Code points outside [0,255] are unmapped; glyph id 0 stored
// in the table also reports "unmapped" (spec.md §4.4 format 0).
type Format0 struct {
	glyphIDs [256]byte
}

// ParseFormat0 parses a format-0 cmap subtable (the 6-byte header has
// already been consumed by the caller; b starts at the 256-byte array).
func ParseFormat0(b []byte) (Format0, bool) {
	if len(b) < 256 {
		return Format0{}, false
	}
	var f Format0
	copy(f.glyphIDs[:], b[:256])
	return f, true
}

// Lookup implements Table.
func (f Format0) Lookup(cp uint32) (uint16, bool) {
	if cp > 255 {
		return 0, false
	}
	gid := f.glyphIDs[cp]
	if gid == 0 {
		return 0, false
	}
	return uint16(gid), true
}

// Each implements Table, iterating in storage (ascending byte) order.
func (f Format0) Each(yield func(cp uint32, gid uint16) bool) {
	for cp := 0; cp < 256; cp++ {
		if f.glyphIDs[cp] == 0 {
			continue
		}
		if !yield(uint32(cp), uint16(f.glyphIDs[cp])) {
			return
		}
	}
}
