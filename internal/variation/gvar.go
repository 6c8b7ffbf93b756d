package variation

import "github.com/typeparse/sfnt/internal/bin"

// Flags within a TupleVariationHeader's tupleIndex field.
const (
	tupleEmbeddedPeakTuple   = 0x8000
	tupleIntermediateRegion  = 0x4000
	tuplePrivatePointNumbers = 0x2000
	tupleIndexMask           = 0x0FFF
)

// sharedPointNumbersFlag is a bit of the glyph's overall tupleCount
// field (distinct from tuplePrivatePointNumbers, a per-header flag).
const sharedPointNumbersFlag = 0x8000

const (
	pointRunPointsAreWords = 0x80
	pointRunCountMask      = 0x7F

	deltaRunDeltasAreZero  = 0x80
	deltaRunDeltasAreWords = 0x40
	deltaRunCountMask      = 0x3F
)

// Gvar is the parsed 'gvar' table header: per-glyph offsets into the
// shared tuple variation data blob, plus the shared tuple list every
// glyph's tuple headers may reference by index (spec.md §4.7 "gvar").
type Gvar struct {
	axisCount    int
	sharedTuples [][]float32 // each: one coordinate per axis
	data         []byte      // glyphVariationData blob (after the header+offsets)
	offsets      []uint32    // numGlyphs+1 offsets into data, relative to data start
}

// ParseGvar parses a 'gvar' table.
func ParseGvar(b []byte, axisCount, numGlyphs int) (Gvar, bool) {
	c := bin.NewCursor(b)
	if !c.Skip(4) { // majorVersion, minorVersion
		return Gvar{}, false
	}
	axisCountInTable, ok := c.U16()
	if !ok || int(axisCountInTable) != axisCount {
		return Gvar{}, false
	}
	sharedTupleCount, ok := c.U16()
	if !ok {
		return Gvar{}, false
	}
	sharedTuplesOffset, ok := c.U32()
	if !ok {
		return Gvar{}, false
	}
	glyphCount, ok := c.U16()
	if !ok || int(glyphCount) != numGlyphs {
		return Gvar{}, false
	}
	flags, ok := c.U16()
	if !ok {
		return Gvar{}, false
	}
	dataArrayOffset, ok := c.U32()
	if !ok {
		return Gvar{}, false
	}

	longOffsets := flags&0x1 != 0
	offsets := make([]uint32, numGlyphs+1)
	for i := range offsets {
		if longOffsets {
			v, ok := c.U32()
			if !ok {
				return Gvar{}, false
			}
			offsets[i] = v
		} else {
			v, ok := c.U16()
			if !ok {
				return Gvar{}, false
			}
			offsets[i] = uint32(v) * 2
		}
	}

	sc := bin.NewCursor(b)
	if !sc.SeekTo(int(sharedTuplesOffset)) {
		return Gvar{}, false
	}
	sharedTuples := make([][]float32, sharedTupleCount)
	for i := range sharedTuples {
		t := make([]float32, axisCount)
		for a := 0; a < axisCount; a++ {
			v, ok := sc.F2Dot14()
			if !ok {
				return Gvar{}, false
			}
			t[a] = v.Float32()
		}
		sharedTuples[i] = t
	}

	if int(dataArrayOffset) > len(b) {
		return Gvar{}, false
	}
	return Gvar{
		axisCount:    axisCount,
		sharedTuples: sharedTuples,
		data:         b[dataArrayOffset:],
		offsets:      offsets,
	}, true
}

// GlyphDeltas holds the per-point (x, y) deltas computed for one glyph
// at a given variation instance, already blended across all applicable
// tuples and with IUP-inferred points filled in (spec.md §4.7 "gvar
// application order").
type GlyphDeltas struct {
	DX, DY []float32
}

// tupleHeader is one decoded TupleVariationHeader: its scalar weight at
// the current instance plus the byte range of its serialized data
// (points + packed deltas) within the glyph's data blob.
type tupleHeader struct {
	scalar           float32
	hasPrivatePoints bool
	serialStart      int
	serialSize       int
}

// Apply computes the blended point deltas for glyph gid at the given
// normalized (post-avar) coordinates, given the glyph's unvaried point
// positions (including any phantom points the caller appended) and
// end-of-contour indexes for IUP. pointCount must equal len(baseX).
func (g Gvar) Apply(gid int, coords []float32, baseX, baseY []float32, endPts []int) (GlyphDeltas, bool) {
	if gid < 0 || gid+1 >= len(g.offsets) {
		return GlyphDeltas{}, false
	}
	start, end := g.offsets[gid], g.offsets[gid+1]
	if end < start || int(end) > len(g.data) {
		return GlyphDeltas{}, false
	}
	n := len(baseX)
	dx := make([]float32, n)
	dy := make([]float32, n)
	if start == end {
		return GlyphDeltas{DX: dx, DY: dy}, true
	}

	glyphData := g.data[start:end]
	c := bin.NewCursor(glyphData)
	tupleCount, ok := c.U16()
	if !ok {
		return GlyphDeltas{}, false
	}
	dataOffset, ok := c.U16()
	if !ok {
		return GlyphDeltas{}, false
	}
	count := int(tupleCount) & tupleIndexMask
	sharedPointsPresent := tupleCount&sharedPointNumbersFlag != 0

	headers := make([]tupleHeader, 0, count)
	for i := 0; i < count; i++ {
		variationDataSize, ok := c.U16()
		if !ok {
			return GlyphDeltas{}, false
		}
		tupleIndex, ok := c.U16()
		if !ok {
			return GlyphDeltas{}, false
		}
		peak := make([]float32, g.axisCount)
		var regionStart, regionEnd []float32
		if tupleIndex&tupleEmbeddedPeakTuple != 0 {
			for a := 0; a < g.axisCount; a++ {
				v, ok := c.F2Dot14()
				if !ok {
					return GlyphDeltas{}, false
				}
				peak[a] = v.Float32()
			}
		} else {
			idx := int(tupleIndex & tupleIndexMask)
			if idx >= len(g.sharedTuples) {
				return GlyphDeltas{}, false
			}
			peak = g.sharedTuples[idx]
		}
		if tupleIndex&tupleIntermediateRegion != 0 {
			regionStart = make([]float32, g.axisCount)
			regionEnd = make([]float32, g.axisCount)
			for a := 0; a < g.axisCount; a++ {
				v, ok := c.F2Dot14()
				if !ok {
					return GlyphDeltas{}, false
				}
				regionStart[a] = v.Float32()
			}
			for a := 0; a < g.axisCount; a++ {
				v, ok := c.F2Dot14()
				if !ok {
					return GlyphDeltas{}, false
				}
				regionEnd[a] = v.Float32()
			}
		}
		headers = append(headers, tupleHeader{
			scalar:           tupleScalar(coords, peak, regionStart, regionEnd),
			hasPrivatePoints: tupleIndex&tuplePrivatePointNumbers != 0,
			serialSize:       int(variationDataSize),
		})
	}

	if int(dataOffset) > len(glyphData) {
		return GlyphDeltas{}, false
	}
	serial := glyphData[dataOffset:]
	sc := bin.NewCursor(serial)

	var sharedPoints []uint16
	if sharedPointsPresent {
		pts, ok := parsePackedPointNumbers(&sc)
		if !ok {
			return GlyphDeltas{}, false
		}
		sharedPoints = pts
	}

	for _, h := range headers {
		if h.serialSize < 0 || sc.Offset()+h.serialSize > len(serial) {
			return GlyphDeltas{}, false
		}
		blockStart := sc.Offset()
		bc := bin.NewCursor(serial[blockStart : blockStart+h.serialSize])

		points := sharedPoints
		if h.hasPrivatePoints {
			pts, ok := parsePackedPointNumbers(&bc)
			if !ok {
				return GlyphDeltas{}, false
			}
			points = pts
		}

		numValues := n
		if points != nil {
			numValues = len(points)
		}
		xDeltas, ok := parsePackedDeltas(&bc, numValues)
		if !ok {
			return GlyphDeltas{}, false
		}
		yDeltas, ok := parsePackedDeltas(&bc, numValues)
		if !ok {
			return GlyphDeltas{}, false
		}

		if h.scalar != 0 {
			applyTuple(dx, dy, points, xDeltas, yDeltas, h.scalar, baseX, baseY, endPts, n)
		}
		sc.SeekTo(blockStart + h.serialSize)
	}

	return GlyphDeltas{DX: dx, DY: dy}, true
}

func applyTuple(dx, dy []float32, points []uint16, xDeltas, yDeltas []int32, scalar float32, baseX, baseY []float32, endPts []int, n int) {
	if points == nil {
		for i := 0; i < n && i < len(xDeltas); i++ {
			dx[i] += scalar * float32(xDeltas[i])
			dy[i] += scalar * float32(yDeltas[i])
		}
		return
	}
	pdx := make([]float32, n)
	pdy := make([]float32, n)
	have := make([]bool, n)
	for i, p := range points {
		if int(p) >= n || i >= len(xDeltas) {
			continue
		}
		pdx[p] = float32(xDeltas[i])
		pdy[p] = float32(yDeltas[i])
		have[p] = true
	}
	inferUnreferencedPoints(pdx, pdy, have, baseX, baseY, endPts)
	for i := 0; i < n; i++ {
		dx[i] += scalar * pdx[i]
		dy[i] += scalar * pdy[i]
	}
}

// tupleScalar computes a tuple's scalar weight at coords, per the
// gvar/avar region-membership rule (spec.md §4.7): a single triangular
// region defined inline (rather than shared via the Item Variation
// Store's region list), optionally widened by an intermediate start/end
// region.
func tupleScalar(coords, peak, regionStart, regionEnd []float32) float32 {
	s := float32(1)
	for a := range peak {
		if a >= len(coords) {
			break
		}
		v := coords[a]
		p := peak[a]
		var lo, hi float32
		if regionStart != nil {
			lo, hi = regionStart[a], regionEnd[a]
		} else {
			switch {
			case p > 0:
				lo, hi = 0, p
			case p < 0:
				lo, hi = p, 0
			default:
				lo, hi = 0, 0
			}
		}
		var f float32
		switch {
		case p == 0:
			f = 1
		case v == p:
			f = 1
		case v < lo || v > hi:
			f = 0
		case v < p:
			if p == lo {
				f = 1
			} else {
				f = (v - lo) / (p - lo)
			}
		default:
			if hi == p {
				f = 1
			} else {
				f = (hi - v) / (hi - p)
			}
		}
		s *= f
		if s == 0 {
			return 0
		}
	}
	return s
}

// parsePackedPointNumbers decodes a packed point number list (spec.md
// §4.7 "packed point numbers"). A leading zero count means "all points
// apply", reported here as a nil slice.
func parsePackedPointNumbers(c *bin.Cursor) ([]uint16, bool) {
	first, ok := c.U8()
	if !ok {
		return nil, false
	}
	var count int
	if first == 0 {
		return nil, true // all points
	}
	if first&pointRunPointsAreWords != 0 {
		second, ok := c.U8()
		if !ok {
			return nil, false
		}
		count = (int(first&^pointRunPointsAreWords) << 8) | int(second)
	} else {
		count = int(first)
	}

	points := make([]uint16, 0, count)
	var cur uint16
	for len(points) < count {
		ctl, ok := c.U8()
		if !ok {
			return nil, false
		}
		runLen := int(ctl&pointRunCountMask) + 1
		wide := ctl&pointRunPointsAreWords != 0
		for i := 0; i < runLen && len(points) < count; i++ {
			var delta uint16
			if wide {
				v, ok := c.U16()
				if !ok {
					return nil, false
				}
				delta = v
			} else {
				v, ok := c.U8()
				if !ok {
					return nil, false
				}
				delta = uint16(v)
			}
			cur += delta
			points = append(points, cur)
		}
	}
	return points, true
}

// parsePackedDeltas decodes n packed delta values (spec.md §4.7
// "packed deltas").
func parsePackedDeltas(c *bin.Cursor, n int) ([]int32, bool) {
	out := make([]int32, 0, n)
	for len(out) < n {
		ctl, ok := c.U8()
		if !ok {
			return nil, false
		}
		runLen := int(ctl&deltaRunCountMask) + 1
		switch {
		case ctl&deltaRunDeltasAreZero != 0:
			for i := 0; i < runLen && len(out) < n; i++ {
				out = append(out, 0)
			}
		case ctl&deltaRunDeltasAreWords != 0:
			for i := 0; i < runLen && len(out) < n; i++ {
				v, ok := c.I16()
				if !ok {
					return nil, false
				}
				out = append(out, int32(v))
			}
		default:
			for i := 0; i < runLen && len(out) < n; i++ {
				v, ok := c.I8()
				if !ok {
					return nil, false
				}
				out = append(out, int32(v))
			}
		}
	}
	return out, true
}
