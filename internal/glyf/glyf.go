// Package glyf implements the quadratic outline engine of layer L3a
// (spec.md §4.5): simple glyphs with flag-compressed contours, and
// recursive composite glyphs, read from a font's 'glyf' and 'loca' tables.
package glyf

import "github.com/typeparse/sfnt/internal/bin"

// MaxCompositeDepth bounds composite glyph recursion (spec.md §3
// invariants: "recommended <= 32").
const MaxCompositeDepth = 32

// Sink is the five-event outline capability every engine emits into
// (spec.md §3 "segment event", §9 "two outline engines share a sink").
type Sink interface {
	MoveTo(x, y float32)
	LineTo(x, y float32)
	QuadTo(x1, y1, x, y float32)
	CurveTo(x1, y1, x2, y2, x, y float32)
	Close()
}

// BoundingBox is an integer bounding rectangle in font units.
type BoundingBox struct {
	XMin, YMin, XMax, YMax int32
}

func (b *BoundingBox) union(o BoundingBox) {
	if b.XMin > o.XMin {
		b.XMin = o.XMin
	}
	if b.YMin > o.YMin {
		b.YMin = o.YMin
	}
	if b.XMax < o.XMax {
		b.XMax = o.XMax
	}
	if b.YMax < o.YMax {
		b.YMax = o.YMax
	}
}

// Outline decodes glyph gid's contours (simple or composite) from glyfData
// using the loca offset array, and emits them into sink. It reports the
// glyph's bounding box (for simple glyphs, read straight from the glyph
// header; for composites, accumulated from the transformed children's
// boxes, per spec.md §4.5).
func Outline(glyfData []byte, loca []uint32, gid uint16, sink Sink) (BoundingBox, bool) {
	return outline(glyfData, loca, gid, sink, 0)
}

func outline(glyfData []byte, loca []uint32, gid uint16, sink Sink, depth int) (BoundingBox, bool) {
	if depth > MaxCompositeDepth {
		return BoundingBox{}, false
	}
	if int(gid)+1 >= len(loca) {
		return BoundingBox{}, false
	}
	start, end := loca[gid], loca[gid+1]
	if start > end || uint64(end) > uint64(len(glyfData)) {
		return BoundingBox{}, false
	}
	if start == end {
		// An empty glyph record is a legal blank glyph: no segments, zero box.
		return BoundingBox{}, true
	}
	body := glyfData[start:end]
	c := bin.NewCursor(body)
	numberOfContours, ok := c.I16()
	if !ok {
		return BoundingBox{}, false
	}
	xMin, ok1 := c.I16()
	yMin, ok2 := c.I16()
	xMax, ok3 := c.I16()
	yMax, ok4 := c.I16()
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return BoundingBox{}, false
	}
	bbox := BoundingBox{int32(xMin), int32(yMin), int32(xMax), int32(yMax)}
	rest, _ := c.Bytes(c.Len() - c.Offset())
	if numberOfContours >= 0 {
		if !decodeSimple(rest, int(numberOfContours), sink) {
			return BoundingBox{}, false
		}
		return bbox, true
	}
	return decodeComposite(glyfData, loca, rest, sink, depth)
}

type point struct {
	x, y    float32
	onCurve bool
}

func decodeSimple(b []byte, numContours int, sink Sink) bool {
	pts, endPts, ok := decodePointArrays(b, numContours)
	if !ok {
		return false
	}
	start := 0
	for _, end := range endPts {
		emitContour(pts[start:end+1], sink)
		start = end + 1
	}
	return true
}

// decodePointArrays decodes a simple glyph's raw on/off-curve points
// (before the implied-on-curve reconstruction) and its per-contour end
// point indexes.
func decodePointArrays(b []byte, numContours int) ([]point, []int, bool) {
	if numContours == 0 {
		return nil, nil, true
	}
	c := bin.NewCursor(b)
	endPts := make([]int, numContours)
	for i := range endPts {
		v, ok := c.U16()
		if !ok {
			return nil, nil, false
		}
		endPts[i] = int(v)
	}
	numPoints := endPts[numContours-1] + 1
	if numPoints <= 0 || numPoints > 1<<20 {
		return nil, nil, false
	}
	instrLen, ok := c.U16()
	if !ok || !c.Skip(int(instrLen)) {
		return nil, nil, false
	}

	flags := make([]byte, numPoints)
	for i := 0; i < numPoints; {
		f, ok := c.U8()
		if !ok {
			return nil, nil, false
		}
		flags[i] = f
		i++
		if f&0x08 != 0 { // REPEAT_FLAG
			n, ok := c.U8()
			if !ok {
				return nil, nil, false
			}
			for k := 0; k < int(n) && i < numPoints; k++ {
				flags[i] = f
				i++
			}
		}
	}

	xs := make([]float32, numPoints)
	var x int32
	for i := 0; i < numPoints; i++ {
		f := flags[i]
		switch {
		case f&0x02 != 0: // X_SHORT_VECTOR
			v, ok := c.U8()
			if !ok {
				return nil, nil, false
			}
			if f&0x10 != 0 {
				x += int32(v)
			} else {
				x -= int32(v)
			}
		case f&0x10 == 0: // long vector, delta present
			v, ok := c.I16()
			if !ok {
				return nil, nil, false
			}
			x += int32(v)
		// else: X_IS_SAME, no delta
		}
		xs[i] = float32(x)
	}

	ys := make([]float32, numPoints)
	var y int32
	for i := 0; i < numPoints; i++ {
		f := flags[i]
		switch {
		case f&0x04 != 0: // Y_SHORT_VECTOR
			v, ok := c.U8()
			if !ok {
				return nil, nil, false
			}
			if f&0x20 != 0 {
				y += int32(v)
			} else {
				y -= int32(v)
			}
		case f&0x20 == 0:
			v, ok := c.I16()
			if !ok {
				return nil, nil, false
			}
			y += int32(v)
		}
		ys[i] = float32(y)
	}

	pts := make([]point, numPoints)
	for i := range pts {
		pts[i] = point{x: xs[i], y: ys[i], onCurve: flags[i]&0x01 != 0}
	}
	return pts, endPts, true
}

// SimplePoints decodes gid's raw contour points (on and off curve,
// before the implied-on-curve reconstruction) for simple glyphs, so the
// variation engine can add gvar deltas before the points are turned into
// segments (spec.md §4.7 "Deltas are added to decoded points before
// segment emission"). Composite glyphs report ok=false; the façade
// falls back to the unvaried outline for those.
func SimplePoints(glyfData []byte, loca []uint32, gid uint16) (xs, ys []float32, onCurve []bool, endPts []int, ok bool) {
	if int(gid)+1 >= len(loca) {
		return nil, nil, nil, nil, false
	}
	start, end := loca[gid], loca[gid+1]
	if start > end || uint64(end) > uint64(len(glyfData)) {
		return nil, nil, nil, nil, false
	}
	if start == end {
		return nil, nil, nil, nil, true
	}
	c := bin.NewCursor(glyfData[start:end])
	numberOfContours, ok2 := c.I16()
	if !ok2 || numberOfContours < 0 {
		return nil, nil, nil, nil, false
	}
	if !c.Skip(8) { // xMin, yMin, xMax, yMax
		return nil, nil, nil, nil, false
	}
	rest, _ := c.Bytes(c.Len() - c.Offset())
	pts, ends, ok3 := decodePointArrays(rest, int(numberOfContours))
	if !ok3 {
		return nil, nil, nil, nil, false
	}
	xs = make([]float32, len(pts))
	ys = make([]float32, len(pts))
	onCurve = make([]bool, len(pts))
	for i, p := range pts {
		xs[i], ys[i], onCurve[i] = p.x, p.y, p.onCurve
	}
	return xs, ys, onCurve, ends, true
}

// EmitPoints reconstructs and emits segments from an externally-supplied
// (possibly gvar-perturbed) point array, returning the resulting
// bounding box. Used by the façade after adding variation deltas to the
// arrays SimplePoints returned.
func EmitPoints(xs, ys []float32, onCurve []bool, endPts []int, sink Sink) BoundingBox {
	pts := make([]point, len(xs))
	var box BoundingBox
	first := true
	for i := range pts {
		pts[i] = point{x: xs[i], y: ys[i], onCurve: onCurve[i]}
		xi, yi := int32(xs[i]), int32(ys[i])
		if first {
			box = BoundingBox{xi, yi, xi, yi}
			first = false
		} else {
			if xi < box.XMin {
				box.XMin = xi
			}
			if xi > box.XMax {
				box.XMax = xi
			}
			if yi < box.YMin {
				box.YMin = yi
			}
			if yi > box.YMax {
				box.YMax = yi
			}
		}
	}
	start := 0
	for _, end := range endPts {
		emitContour(pts[start:end+1], sink)
		start = end + 1
	}
	return box
}

// emitContour reconstructs line/quad segments from a contour's raw
// on/off-curve points, inserting the implied on-curve midpoint between
// consecutive off-curve points (spec.md §4.5).
func emitContour(pts []point, sink Sink) {
	n := len(pts)
	if n == 0 {
		return
	}
	var startX, startY float32
	var rest []point
	switch {
	case pts[0].onCurve:
		startX, startY = pts[0].x, pts[0].y
		rest = pts[1:]
	case pts[n-1].onCurve:
		startX, startY = pts[n-1].x, pts[n-1].y
		rest = pts[:n-1]
	default:
		startX = (pts[0].x + pts[n-1].x) / 2
		startY = (pts[0].y + pts[n-1].y) / 2
		rest = pts
	}
	sink.MoveTo(startX, startY)

	var ctrlX, ctrlY float32
	haveCtrl := false
	for _, p := range rest {
		if p.onCurve {
			if haveCtrl {
				sink.QuadTo(ctrlX, ctrlY, p.x, p.y)
				haveCtrl = false
			} else {
				sink.LineTo(p.x, p.y)
			}
			continue
		}
		if haveCtrl {
			midX, midY := (ctrlX+p.x)/2, (ctrlY+p.y)/2
			sink.QuadTo(ctrlX, ctrlY, midX, midY)
		}
		ctrlX, ctrlY = p.x, p.y
		haveCtrl = true
	}
	if haveCtrl {
		sink.QuadTo(ctrlX, ctrlY, startX, startY)
	}
	sink.Close()
}

// Composite component flags (spec.md §4.5).
const (
	flagArgsAreWords    = 0x0001
	flagArgsAreXY       = 0x0002
	flagWeHaveScale     = 0x0008
	flagMoreComponents  = 0x0020
	flagWeHaveXYScale   = 0x0040
	flagWeHaveTwoByTwo  = 0x0080
)

func decodeComposite(glyfData []byte, loca []uint32, b []byte, sink Sink, depth int) (BoundingBox, bool) {
	c := bin.NewCursor(b)
	var acc BoundingBox
	first := true
	for {
		flags, ok := c.U16()
		if !ok {
			return BoundingBox{}, false
		}
		componentGID, ok := c.U16()
		if !ok {
			return BoundingBox{}, false
		}

		var dx, dy float32
		if flags&flagArgsAreWords != 0 {
			if flags&flagArgsAreXY != 0 {
				a1, ok1 := c.I16()
				a2, ok2 := c.I16()
				if !ok1 || !ok2 {
					return BoundingBox{}, false
				}
				dx, dy = float32(a1), float32(a2)
			} else {
				// Point-matching indices: this module does not assemble the
				// parent's point list to resolve them, so it degrades to an
				// unanchored (0,0) placement rather than failing the glyph.
				if !c.Skip(4) {
					return BoundingBox{}, false
				}
			}
		} else {
			if flags&flagArgsAreXY != 0 {
				a1, ok1 := c.I8()
				a2, ok2 := c.I8()
				if !ok1 || !ok2 {
					return BoundingBox{}, false
				}
				dx, dy = float32(a1), float32(a2)
			} else {
				if !c.Skip(2) {
					return BoundingBox{}, false
				}
			}
		}

		xx, xy, yx, yy := float32(1), float32(0), float32(0), float32(1)
		switch {
		case flags&flagWeHaveTwoByTwo != 0:
			a, ok1 := c.F2Dot14()
			b1, ok2 := c.F2Dot14()
			b2, ok3 := c.F2Dot14()
			d, ok4 := c.F2Dot14()
			if !ok1 || !ok2 || !ok3 || !ok4 {
				return BoundingBox{}, false
			}
			xx, xy, yx, yy = a.Float32(), b1.Float32(), b2.Float32(), d.Float32()
		case flags&flagWeHaveXYScale != 0:
			a, ok1 := c.F2Dot14()
			d, ok2 := c.F2Dot14()
			if !ok1 || !ok2 {
				return BoundingBox{}, false
			}
			xx, yy = a.Float32(), d.Float32()
		case flags&flagWeHaveScale != 0:
			a, ok1 := c.F2Dot14()
			if !ok1 {
				return BoundingBox{}, false
			}
			xx, yy = a.Float32(), a.Float32()
		}

		ts := &transformSink{sink: sink, xx: xx, xy: xy, yx: yx, yy: yy, dx: dx, dy: dy}
		childBox, ok := outline(glyfData, loca, componentGID, ts, depth+1)
		if !ok {
			return BoundingBox{}, false
		}
		tb := transformBox(childBox, xx, xy, yx, yy, dx, dy)
		if first {
			acc, first = tb, false
		} else {
			acc.union(tb)
		}

		if flags&flagMoreComponents == 0 {
			break
		}
	}
	if first {
		return BoundingBox{}, true // composite with zero components: legal, empty
	}
	return acc, true
}

func transformBox(b BoundingBox, xx, xy, yx, yy, dx, dy float32) BoundingBox {
	corners := [4][2]float32{
		{float32(b.XMin), float32(b.YMin)},
		{float32(b.XMax), float32(b.YMin)},
		{float32(b.XMax), float32(b.YMax)},
		{float32(b.XMin), float32(b.YMax)},
	}
	out := BoundingBox{XMin: 1 << 30, YMin: 1 << 30, XMax: -(1 << 30), YMax: -(1 << 30)}
	for _, p := range corners {
		tx := xx*p[0] + yx*p[1] + dx
		ty := xy*p[0] + yy*p[1] + dy
		ix, iy := int32(tx), int32(ty)
		if ix < out.XMin {
			out.XMin = ix
		}
		if ix > out.XMax {
			out.XMax = ix
		}
		if iy < out.YMin {
			out.YMin = iy
		}
		if iy > out.YMax {
			out.YMax = iy
		}
	}
	return out
}

// transformSink applies an affine transform to every event before
// forwarding it to the outer sink (spec.md §4.5 "apply the transform to
// the sub-glyph's segments").
type transformSink struct {
	sink           Sink
	xx, xy, yx, yy float32
	dx, dy         float32
}

func (t *transformSink) apply(x, y float32) (float32, float32) {
	return t.xx*x + t.yx*y + t.dx, t.xy*x + t.yy*y + t.dy
}

func (t *transformSink) MoveTo(x, y float32) {
	x, y = t.apply(x, y)
	t.sink.MoveTo(x, y)
}

func (t *transformSink) LineTo(x, y float32) {
	x, y = t.apply(x, y)
	t.sink.LineTo(x, y)
}

func (t *transformSink) QuadTo(x1, y1, x, y float32) {
	x1, y1 = t.apply(x1, y1)
	x, y = t.apply(x, y)
	t.sink.QuadTo(x1, y1, x, y)
}

func (t *transformSink) CurveTo(x1, y1, x2, y2, x, y float32) {
	x1, y1 = t.apply(x1, y1)
	x2, y2 = t.apply(x2, y2)
	x, y = t.apply(x, y)
	t.sink.CurveTo(x1, y1, x2, y2, x, y)
}

func (t *transformSink) Close() { t.sink.Close() }
