package tables

import "github.com/typeparse/sfnt/internal/bin"

// Kern is a parsed format-0 horizontal kerning subtable: sorted (left,
// right) glyph pairs searched by binary search, per spec.md §4.3.
type Kern struct {
	pairs []kernPair
}

type kernPair struct {
	left, right uint16
	value       int16
}

// ParseKern parses the first format-0, horizontal kerning subtable found in
// a 'kern' table. Other subtable formats and the vertical/cross-stream
// coverage bits are not supported, matching the spec's scope.
func ParseKern(b []byte) (Kern, bool) {
	c := bin.NewCursor(b)
	version, ok := c.U16()
	if !ok {
		return Kern{}, false
	}
	if version != 0 {
		return Kern{}, false
	}
	numTables, ok := c.U16()
	if !ok {
		return Kern{}, false
	}
	for i := 0; i < int(numTables); i++ {
		if _, ok := c.U16(); !ok { // subtable version
			return Kern{}, false
		}
		length, ok := c.U16()
		if !ok {
			return Kern{}, false
		}
		coverage, ok := c.U16()
		if !ok {
			return Kern{}, false
		}
		format := coverage >> 8
		horizontal := coverage&0x1 != 0
		remaining := int(length) - 6
		if remaining < 0 {
			return Kern{}, false
		}
		body, ok := c.Bytes(remaining)
		if !ok {
			return Kern{}, false
		}
		if format != 0 || !horizontal {
			continue
		}
		return parseKernFormat0(body)
	}
	return Kern{}, false
}

func parseKernFormat0(body []byte) (Kern, bool) {
	bc := bin.NewCursor(body)
	nPairs, ok := bc.U16()
	if !ok {
		return Kern{}, false
	}
	if !bc.Skip(6) { // searchRange, entrySelector, rangeShift
		return Kern{}, false
	}
	pairs := make([]kernPair, 0, nPairs)
	for i := 0; i < int(nPairs); i++ {
		left, ok1 := bc.U16()
		right, ok2 := bc.U16()
		value, ok3 := bc.I16()
		if !ok1 || !ok2 || !ok3 {
			break
		}
		pairs = append(pairs, kernPair{left: left, right: right, value: value})
	}
	return Kern{pairs: pairs}, true
}

// Lookup returns the kerning adjustment between left and right, via binary
// search of the sorted pair array.
func (k Kern) Lookup(left, right GlyphID) (int16, bool) {
	lo, hi := 0, len(k.pairs)
	for lo < hi {
		mid := (lo + hi) / 2
		p := k.pairs[mid]
		switch {
		case p.left < uint16(left) || (p.left == uint16(left) && p.right < uint16(right)):
			lo = mid + 1
		case p.left > uint16(left) || (p.left == uint16(left) && p.right > uint16(right)):
			hi = mid
		default:
			return p.value, true
		}
	}
	return 0, false
}

// GlyphID mirrors the root package's glyph identifier type, duplicated here
// to avoid an import cycle between sfnt and internal/tables.
type GlyphID = uint16
