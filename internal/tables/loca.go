package tables

import "github.com/typeparse/sfnt/internal/bin"

// ParseLoca decodes a 'loca' table into numGlyphs+1 monotone
// non-decreasing byte offsets into 'glyf' (spec.md §3 invariants).
// shortFormat selects the u16 (offsets x2) encoding versus the u32 one.
func ParseLoca(b []byte, numGlyphs int, shortFormat bool) ([]uint32, bool) {
	n := numGlyphs + 1
	out := make([]uint32, n)
	if shortFormat {
		if len(b) < n*2 {
			return nil, false
		}
		var prev uint32
		for i := 0; i < n; i++ {
			v := uint32(bin.U16(b[i*2:])) * 2
			if v < prev {
				return nil, false
			}
			out[i] = v
			prev = v
		}
		return out, true
	}
	if len(b) < n*4 {
		return nil, false
	}
	var prev uint32
	for i := 0; i < n; i++ {
		v := bin.U32(b[i*4:])
		if v < prev {
			return nil, false
		}
		out[i] = v
		prev = v
	}
	return out, true
}
