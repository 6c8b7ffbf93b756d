package tables

import "github.com/typeparse/sfnt/internal/bin"

// StatAxis is one design-axis record of a 'STAT' table.
type StatAxis struct {
	Tag      bin.Tag
	NameID   uint16
	Ordering uint16
}

// Stat is a parsed 'STAT' table, restricted to the design-axis array; axis
// value tables (used to label named sub-families like "Condensed Bold")
// are out of this module's core scope (spec.md §1 groups classification
// metadata with PANOSE as "thin data extractors").
type Stat struct {
	Axes []StatAxis
}

// ParseStat parses a 'STAT' table header and its design-axes array.
func ParseStat(b []byte) (Stat, bool) {
	c := bin.NewCursor(b)
	if _, ok := c.U16(); !ok { // majorVersion
		return Stat{}, false
	}
	if _, ok := c.U16(); !ok { // minorVersion
		return Stat{}, false
	}
	designAxisSize, ok := c.U16()
	if !ok {
		return Stat{}, false
	}
	designAxisCount, ok := c.U16()
	if !ok {
		return Stat{}, false
	}
	designAxesOffset, ok := c.U32()
	if !ok || designAxisSize < 8 {
		return Stat{}, false
	}
	if int(designAxesOffset) > len(b) {
		return Stat{}, false
	}
	ac := bin.NewCursor(b[designAxesOffset:])
	axes := make([]StatAxis, 0, designAxisCount)
	for i := 0; i < int(designAxisCount); i++ {
		start := i * int(designAxisSize)
		if !ac.SeekTo(start) {
			return Stat{}, false
		}
		tag, ok1 := ac.Tag()
		nameID, ok2 := ac.U16()
		ordering, ok3 := ac.U16()
		if !ok1 || !ok2 || !ok3 {
			return Stat{}, false
		}
		axes = append(axes, StatAxis{Tag: tag, NameID: nameID, Ordering: ordering})
	}
	return Stat{Axes: axes}, true
}
