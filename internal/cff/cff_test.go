package cff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeparse/sfnt/internal/bin"
)

func u16b(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }

// buildIndex encodes a minimal CFF1 INDEX (1-byte offsets) around objs.
func buildIndex(objs [][]byte) []byte {
	if len(objs) == 0 {
		return u16b(0)
	}
	var data []byte
	offsets := []uint32{1}
	cur := uint32(1)
	for _, o := range objs {
		data = append(data, o...)
		cur += uint32(len(o))
		offsets = append(offsets, cur)
	}
	out := u16b(uint16(len(objs)))
	out = append(out, 1) // offSize
	for _, off := range offsets {
		out = append(out, byte(off))
	}
	out = append(out, data...)
	return out
}

func TestParseIndexEmpty(t *testing.T) {
	var c = bin.NewCursor(u16b(0))
	idx, ok := parseIndex(&c, false)
	require.True(t, ok)
	assert.Equal(t, 0, idx.Len())
}

func TestParseIndexRoundTrip(t *testing.T) {
	b := buildIndex([][]byte{{1, 2, 3}, {4, 5}})
	c := bin.NewCursor(b)
	idx, ok := parseIndex(&c, false)
	require.True(t, ok)
	require.Equal(t, 2, idx.Len())
	o0, ok := idx.Get(0)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, o0)
	o1, ok := idx.Get(1)
	require.True(t, ok)
	assert.Equal(t, []byte{4, 5}, o1)
	_, ok = idx.Get(2)
	assert.False(t, ok)
}

func TestParseDictOperandEncodings(t *testing.T) {
	// 139 -> 0 (32-246 range), operator 17 (CharStrings)
	b := []byte{139, 17}
	d, ok := parseDict(b)
	require.True(t, ok)
	assert.Equal(t, 0, dictInt(d, opCharstrings, -1))

	// two-byte positive: 247, 0 -> 108
	b2 := []byte{247, 0, 17}
	d2, ok := parseDict(b2)
	require.True(t, ok)
	assert.Equal(t, 108, dictInt(d2, opCharstrings, -1))

	// escape operator: 12 7 -> FontMatrix (1207), preceded by an operand
	b3 := []byte{139, 12, 7}
	d3, ok := parseDict(b3)
	require.True(t, ok)
	v, present := d3[opFontMatrix1200]
	require.True(t, present)
	assert.Equal(t, []float64{0}, v)
}

func TestParseDictRejectsReservedOperand(t *testing.T) {
	_, ok := parseDict([]byte{255, 17})
	assert.False(t, ok)
}

func TestParseFDSelectFormat0(t *testing.T) {
	b := append([]byte{0}, []byte{0, 1, 1, 2}...)
	fs, ok := parseFDSelect(b, 4)
	require.True(t, ok)
	assert.Equal(t, 0, fs.FD(0))
	assert.Equal(t, 1, fs.FD(1))
	assert.Equal(t, 2, fs.FD(3))
}

func TestParseFDSelectFormat3(t *testing.T) {
	var b []byte
	b = append(b, 3)
	b = append(b, u16b(2)...) // nRanges
	b = append(b, u16b(0)...)
	b = append(b, 0) // fd 0 starting at glyph 0
	b = append(b, u16b(3)...)
	b = append(b, 1) // fd 1 starting at glyph 3
	b = append(b, u16b(5)...) // sentinel
	fs, ok := parseFDSelect(b, 5)
	require.True(t, ok)
	assert.Equal(t, 0, fs.FD(0))
	assert.Equal(t, 0, fs.FD(2))
	assert.Equal(t, 1, fs.FD(3))
	assert.Equal(t, 1, fs.FD(4))
}

func TestParseRejectsWrongMajorVersion(t *testing.T) {
	_, ok := Parse([]byte{2, 0, 4, 4})
	assert.False(t, ok)
	_, ok2 := ParseCFF2([]byte{1, 0, 5, 0, 0})
	assert.False(t, ok2)
}
