package variation

import "github.com/typeparse/sfnt/internal/bin"

// avarSegmentMap is one axis's piecewise-linear remap: a sorted list of
// (fromCoordinate, toCoordinate) pairs in normalized [-1, 1] space
// (spec.md §4.7 "avar remaps the default normalization").
type avarSegmentMap struct {
	pairs []avarPair
}

type avarPair struct {
	from, to float32
}

// Avar is the parsed 'avar' table: one segment map per axis, indexed in
// 'fvar' axis order.
type Avar struct {
	Maps []avarSegmentMap
}

// ParseAvar parses an 'avar' table. axisCount must match the font's
// 'fvar' axis count.
func ParseAvar(b []byte, axisCount int) (Avar, bool) {
	c := bin.NewCursor(b)
	if !c.Skip(4) { // majorVersion, minorVersion
		return Avar{}, false
	}
	if !c.Skip(2) { // reserved
		return Avar{}, false
	}
	axisCountInTable, ok := c.U16()
	if !ok || int(axisCountInTable) != axisCount {
		return Avar{}, false
	}
	maps := make([]avarSegmentMap, axisCount)
	for i := 0; i < axisCount; i++ {
		pairCount, ok := c.U16()
		if !ok {
			return Avar{}, false
		}
		pairs := make([]avarPair, 0, pairCount)
		for j := 0; j < int(pairCount); j++ {
			from, ok1 := c.F2Dot14()
			to, ok2 := c.F2Dot14()
			if !ok1 || !ok2 {
				return Avar{}, false
			}
			pairs = append(pairs, avarPair{from: from.Float32(), to: to.Float32()})
		}
		maps[i] = avarSegmentMap{pairs: pairs}
	}
	return Avar{Maps: maps}, true
}

// Apply remaps a normalized coordinate on axis i through its segment
// map, interpolating linearly between the bracketing control points. A
// map with no pairs, or out-of-range axisIndex, is the identity.
func (a Avar) Apply(axisIndex int, normalized float32) float32 {
	if axisIndex < 0 || axisIndex >= len(a.Maps) {
		return normalized
	}
	pairs := a.Maps[axisIndex].pairs
	if len(pairs) == 0 {
		return normalized
	}
	if normalized <= pairs[0].from {
		return pairs[0].to + (normalized - pairs[0].from)
	}
	last := pairs[len(pairs)-1]
	if normalized >= last.from {
		return last.to + (normalized - last.from)
	}
	for i := 0; i+1 < len(pairs); i++ {
		lo, hi := pairs[i], pairs[i+1]
		if normalized >= lo.from && normalized <= hi.from {
			if hi.from == lo.from {
				return lo.to
			}
			if normalized == hi.from {
				return hi.to
			}
			t := (normalized - lo.from) / (hi.from - lo.from)
			return lo.to + t*(hi.to-lo.to)
		}
	}
	return normalized
}
