package glyf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	moves  [][2]float32
	lines  [][2]float32
	quads  [][4]float32
	closes int
}

func (r *recordingSink) MoveTo(x, y float32) { r.moves = append(r.moves, [2]float32{x, y}) }
func (r *recordingSink) LineTo(x, y float32) { r.lines = append(r.lines, [2]float32{x, y}) }
func (r *recordingSink) QuadTo(x1, y1, x, y float32) {
	r.quads = append(r.quads, [4]float32{x1, y1, x, y})
}
func (r *recordingSink) CurveTo(x1, y1, x2, y2, x, y float32) {}
func (r *recordingSink) Close()                               { r.closes++ }

func u16b(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func i16b(v int16) []byte  { return u16b(uint16(v)) }

// buildTriangleGlyph encodes a single-contour, 3-point, all-on-curve
// simple glyph at (0,0), (10,0), (5,10).
func buildTriangleGlyph() []byte {
	var b []byte
	b = append(b, i16b(1)...)  // numberOfContours
	b = append(b, i16b(0)...)  // xMin
	b = append(b, i16b(0)...)  // yMin
	b = append(b, i16b(10)...) // xMax
	b = append(b, i16b(10)...) // yMax
	b = append(b, u16b(2)...)  // endPtsOfContours[0] = 2
	b = append(b, u16b(0)...)  // instructionLength
	b = append(b, []byte{0x37, 0x37, 0x27}...) // flags: all on-curve, short x/y vectors, no repeat
	// x deltas: 0, +10, -5
	b = append(b, 0x00, 0x0A, 0x05) // 0, 10 (short+positive), 5 (short+negative)
	// y deltas: 0, 0, +10
	b = append(b, 0x00, 0x00, 0x0A)
	return b
}

func TestOutlineSimpleTriangle(t *testing.T) {
	glyfData := buildTriangleGlyph()
	loca := []uint32{0, uint32(len(glyfData))}
	sink := &recordingSink{}
	box, ok := Outline(glyfData, loca, 0, sink)
	require.True(t, ok)
	assert.Equal(t, BoundingBox{0, 0, 10, 10}, box)
	require.Len(t, sink.moves, 1)
	assert.Equal(t, [2]float32{0, 0}, sink.moves[0])
	require.Len(t, sink.lines, 2)
	assert.Equal(t, 1, sink.closes)
}

func TestOutlineEmptyGlyph(t *testing.T) {
	loca := []uint32{0, 0, 10}
	sink := &recordingSink{}
	box, ok := Outline(nil, loca, 0, sink)
	require.True(t, ok)
	assert.Equal(t, BoundingBox{}, box)
	assert.Empty(t, sink.moves)
}

func TestOutlineRejectsOutOfRangeGID(t *testing.T) {
	loca := []uint32{0, 10}
	_, ok := Outline(nil, loca, 5, &recordingSink{})
	assert.False(t, ok)
}

func TestSimplePointsMatchesTriangleFixture(t *testing.T) {
	glyfData := buildTriangleGlyph()
	loca := []uint32{0, uint32(len(glyfData))}
	xs, ys, onCurve, endPts, ok := SimplePoints(glyfData, loca, 0)
	require.True(t, ok)
	require.Equal(t, []int{2}, endPts)
	require.Len(t, xs, 3)
	assert.Equal(t, []float32{0, 10, 5}, xs)
	assert.Equal(t, []float32{0, 0, 10}, ys)
	for _, oc := range onCurve {
		assert.True(t, oc)
	}
}

func TestSimplePointsRejectsComposite(t *testing.T) {
	var b []byte
	b = append(b, i16b(-1)...) // numberOfContours: composite
	b = append(b, i16b(0)...)
	b = append(b, i16b(0)...)
	b = append(b, i16b(0)...)
	b = append(b, i16b(0)...)
	loca := []uint32{0, uint32(len(b))}
	_, _, _, _, ok := SimplePoints(b, loca, 0)
	assert.False(t, ok)
}

func TestEmitPointsRoundTripsTriangle(t *testing.T) {
	glyfData := buildTriangleGlyph()
	loca := []uint32{0, uint32(len(glyfData))}
	xs, ys, onCurve, endPts, ok := SimplePoints(glyfData, loca, 0)
	require.True(t, ok)
	// Shift every point by (1, 2), as a gvar delta application would.
	for i := range xs {
		xs[i] += 1
		ys[i] += 2
	}
	sink := &recordingSink{}
	box := EmitPoints(xs, ys, onCurve, endPts, sink)
	assert.Equal(t, BoundingBox{1, 2, 11, 12}, box)
	require.Len(t, sink.moves, 1)
	assert.Equal(t, [2]float32{1, 2}, sink.moves[0])
}

func TestMaxCompositeDepthExceeded(t *testing.T) {
	// A composite glyph whose single component refers to itself: any
	// recursion limit must terminate this rather than loop forever.
	var comp []byte
	comp = append(comp, i16b(-1)...) // numberOfContours: composite
	comp = append(comp, i16b(0)...)
	comp = append(comp, i16b(0)...)
	comp = append(comp, i16b(0)...)
	comp = append(comp, i16b(0)...)
	flags := uint16(0x0002) // ARGS_ARE_XY_VALUES, no MORE_COMPONENTS
	comp = append(comp, u16b(flags)...)
	comp = append(comp, u16b(0)...) // glyphIndex 0 (itself)
	comp = append(comp, []byte{0, 0}...) // args (1-byte each since ARG_1_AND_2_ARE_WORDS unset)
	loca := []uint32{0, uint32(len(comp))}
	_, ok := Outline(comp, loca, 0, &recordingSink{})
	assert.False(t, ok)
}
