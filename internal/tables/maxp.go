package tables

import "github.com/typeparse/sfnt/internal/bin"

// ParseMaxpNumGlyphs reads numGlyphs from a 'maxp' table. Both the
// PostScript-flavoured (version 0.5, 6 bytes) and TrueType-flavoured
// (version 1.0, 32 bytes) forms store numGlyphs at the same offset.
func ParseMaxpNumGlyphs(b []byte) (int, bool) {
	if len(b) != 6 && len(b) != 32 {
		return 0, false
	}
	c := bin.NewCursor(b)
	if !c.Skip(4) { // version
		return 0, false
	}
	n, ok := c.U16()
	if !ok || n == 0 {
		return 0, false
	}
	return int(n), true
}
