package variation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeparse/sfnt/internal/bin"
)

func gu16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func gu32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// buildGvarOneGlyphOneTuple builds a minimal single-axis, single-glyph
// 'gvar' table: one glyph, one embedded-peak tuple at coordinate 1.0
// applying a uniform (+1, +2) delta to every one of 6 values (2 real
// points plus 4 phantom points).
func buildGvarOneGlyphOneTuple() []byte {
	var glyphData []byte
	glyphData = append(glyphData, gu16(1)...)  // tupleCount = 1 (no shared points flag)
	glyphData = append(glyphData, gu16(10)...) // dataOffset: header ends at byte 10
	glyphData = append(glyphData, gu16(14)...) // variationDataSize
	glyphData = append(glyphData, gu16(0x8000)...) // tupleIndex: embedded peak tuple
	glyphData = append(glyphData, gu16(0x4000)...) // peak F2Dot14 = 1.0
	// x deltas: run of 6 non-zero bytes, all 1
	glyphData = append(glyphData, 5, 1, 1, 1, 1, 1, 1)
	// y deltas: run of 6 non-zero bytes, all 2
	glyphData = append(glyphData, 5, 2, 2, 2, 2, 2, 2)
	if len(glyphData) != 24 {
		panic("fixture size drifted")
	}

	var header []byte
	header = append(header, 0, 1, 0, 0) // major, minor
	header = append(header, gu16(1)...) // axisCount
	header = append(header, gu16(0)...) // sharedTupleCount
	header = append(header, gu32(24)...) // sharedTuplesOffset
	header = append(header, gu16(1)...)  // glyphCount
	header = append(header, gu16(0)...)  // flags: short offsets
	header = append(header, gu32(24)...) // dataArrayOffset
	header = append(header, gu16(0)...)  // offsets[0] (word) = 0
	header = append(header, gu16(12)...) // offsets[1] (word) = 12 -> byte 24
	if len(header) != 24 {
		panic("header size drifted")
	}

	return append(header, glyphData...)
}

func TestParseGvarAndApplyUniformTuple(t *testing.T) {
	b := buildGvarOneGlyphOneTuple()
	gv, ok := ParseGvar(b, 1, 1)
	require.True(t, ok)

	baseX := []float32{0, 10, 0, 0, 0, 0}
	baseY := []float32{0, 0, 0, 0, 0, 0}
	deltas, ok := gv.Apply(0, []float32{1}, baseX, baseY, []int{1})
	require.True(t, ok)
	for i := 0; i < 6; i++ {
		assert.Equal(t, float32(1), deltas.DX[i])
		assert.Equal(t, float32(2), deltas.DY[i])
	}
}

func TestGvarApplyZeroScalarSkipsTuple(t *testing.T) {
	b := buildGvarOneGlyphOneTuple()
	gv, ok := ParseGvar(b, 1, 1)
	require.True(t, ok)

	baseX := []float32{0, 10, 0, 0, 0, 0}
	baseY := []float32{0, 0, 0, 0, 0, 0}
	// Coordinate 0 is off the tuple's peak (1.0) with no intermediate
	// region, so tupleScalar is 0 and no delta should apply.
	deltas, ok := gv.Apply(0, []float32{0}, baseX, baseY, []int{1})
	require.True(t, ok)
	for i := 0; i < 6; i++ {
		assert.Equal(t, float32(0), deltas.DX[i])
		assert.Equal(t, float32(0), deltas.DY[i])
	}
}

func TestGvarApplyOutOfRangeGlyphFails(t *testing.T) {
	b := buildGvarOneGlyphOneTuple()
	gv, ok := ParseGvar(b, 1, 1)
	require.True(t, ok)
	// Corrupt gid out of range.
	_, ok = gv.Apply(5, []float32{1}, []float32{0}, []float32{0}, nil)
	assert.False(t, ok)
}

func TestParsePackedPointNumbersAllPoints(t *testing.T) {
	b := []byte{0} // first byte 0 means "all points"
	c := bin.NewCursor(b)
	pts, ok := parsePackedPointNumbers(&c)
	require.True(t, ok)
	assert.Nil(t, pts)
}

func TestParsePackedPointNumbersExplicitRun(t *testing.T) {
	// count=3, one run of 3 points with 1-byte deltas: 0, 2, 5
	b := []byte{3, 0x02, 0, 2, 3}
	c := bin.NewCursor(b)
	pts, ok := parsePackedPointNumbers(&c)
	require.True(t, ok)
	assert.Equal(t, []uint16{0, 2, 5}, pts)
}

func TestParsePackedDeltasZeroRun(t *testing.T) {
	b := []byte{0x80 | 3} // DELTAS_ARE_ZERO, run of 4
	c := bin.NewCursor(b)
	deltas, ok := parsePackedDeltas(&c, 4)
	require.True(t, ok)
	assert.Equal(t, []int32{0, 0, 0, 0}, deltas)
}

func TestParsePackedDeltasWordRun(t *testing.T) {
	b := []byte{0x40 | 1, 0x01, 0x00, 0xFF, 0xFF} // DELTAS_ARE_WORDS, run of 2: 256, -1
	c := bin.NewCursor(b)
	deltas, ok := parsePackedDeltas(&c, 2)
	require.True(t, ok)
	assert.Equal(t, []int32{256, -1}, deltas)
}
