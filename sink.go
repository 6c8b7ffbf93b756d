package sfnt

// Sink receives the segment events of one decoded glyph outline (spec.md
// §3 "segment event"). Each contour begins with a MoveTo and ends with a
// Close; QuadTo is emitted only by the quadratic (glyf) engine, CurveTo
// only by the cubic (CFF/CFF2) engine, but a Face dispatches to whichever
// engine owns the glyph without the caller needing to know which.
type Sink interface {
	MoveTo(x, y float32)
	LineTo(x, y float32)
	QuadTo(x1, y1, x, y float32)
	CurveTo(x1, y1, x2, y2, x, y float32)
	Close()
}
