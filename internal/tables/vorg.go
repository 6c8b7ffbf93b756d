package tables

import "github.com/typeparse/sfnt/internal/bin"

// Vorg is a parsed 'VORG' (vertical origin) table.
type Vorg struct {
	DefaultVertOriginY int16
	metrics            []vorgMetric
}

type vorgMetric struct {
	glyphIndex  uint16
	vertOriginY int16
}

// ParseVorg parses a 'VORG' table.
func ParseVorg(b []byte) (Vorg, bool) {
	c := bin.NewCursor(b)
	if _, ok := c.U16(); !ok { // majorVersion
		return Vorg{}, false
	}
	if _, ok := c.U16(); !ok { // minorVersion
		return Vorg{}, false
	}
	defaultY, ok := c.I16()
	if !ok {
		return Vorg{}, false
	}
	n, ok := c.U16()
	if !ok {
		return Vorg{}, false
	}
	metrics := make([]vorgMetric, 0, n)
	for i := 0; i < int(n); i++ {
		gid, ok1 := c.U16()
		y, ok2 := c.I16()
		if !ok1 || !ok2 {
			return Vorg{}, false
		}
		metrics = append(metrics, vorgMetric{glyphIndex: gid, vertOriginY: y})
	}
	return Vorg{DefaultVertOriginY: defaultY, metrics: metrics}, true
}

// YOrigin returns the Y-origin override for gid, falling back to
// DefaultVertOriginY when gid has no explicit entry.
func (v Vorg) YOrigin(gid uint16) int16 {
	lo, hi := 0, len(v.metrics)
	for lo < hi {
		mid := (lo + hi) / 2
		m := v.metrics[mid]
		switch {
		case gid < m.glyphIndex:
			hi = mid
		case gid > m.glyphIndex:
			lo = mid + 1
		default:
			return m.vertOriginY
		}
	}
	return v.DefaultVertOriginY
}
