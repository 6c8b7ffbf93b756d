package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u16b(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func i16b(v int16) []byte  { return u16b(uint16(v)) }
func u32b(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func buildHead(unitsPerEm uint16, locFormat int16) []byte {
	b := make([]byte, 54)
	copy(b[18:20], u16b(unitsPerEm))
	copy(b[50:52], i16b(locFormat))
	return b
}

func TestParseHead(t *testing.T) {
	b := buildHead(2048, 1)
	h, ok := ParseHead(b)
	require.True(t, ok)
	assert.EqualValues(t, 2048, h.UnitsPerEm)
	assert.EqualValues(t, 1, h.IndexToLocFormat)
}

func TestParseHeadRejectsBadUnitsPerEm(t *testing.T) {
	b := buildHead(0, 0)
	_, ok := ParseHead(b)
	assert.False(t, ok)

	b2 := buildHead(20000, 0)
	_, ok2 := ParseHead(b2)
	assert.False(t, ok2)
}

func TestParseHeadRejectsWrongLength(t *testing.T) {
	_, ok := ParseHead(make([]byte, 53))
	assert.False(t, ok)
}

func TestParseMaxp(t *testing.T) {
	b := make([]byte, 6)
	copy(b[4:6], u16b(5))
	n, ok := ParseMaxpNumGlyphs(b)
	require.True(t, ok)
	assert.Equal(t, 5, n)
}

func TestParseMaxpRejectsZeroGlyphs(t *testing.T) {
	b := make([]byte, 6)
	_, ok := ParseMaxpNumGlyphs(b)
	assert.False(t, ok)
}

// TestHmtxTruncation exercises spec.md scenario 6: 2 long records followed
// by a single side-bearing-only entry; advances for gid 0,1 and the side
// bearing for gid 2 resolve, and the side bearing for gid 3, past the
// table's end, is "not found". Hmtx holds no glyph count, so an advance
// for any gid past numLong, gid 3 included, repeats the last long advance.
func TestHmtxTruncation(t *testing.T) {
	var b []byte
	b = append(b, u16b(100)...)
	b = append(b, i16b(1)...)
	b = append(b, u16b(120)...)
	b = append(b, i16b(2)...)
	b = append(b, i16b(3)...) // side bearing only, for gid 2

	h := NewHmtx(b, 2)

	adv0, ok := h.Advance(0)
	require.True(t, ok)
	assert.EqualValues(t, 100, adv0)

	adv1, ok := h.Advance(1)
	require.True(t, ok)
	assert.EqualValues(t, 120, adv1)

	// gid 2 is beyond numLong: advance is constant (last long advance).
	adv2, ok := h.Advance(2)
	require.True(t, ok)
	assert.EqualValues(t, 120, adv2)

	sb0, ok := h.SideBearing(0)
	require.True(t, ok)
	assert.EqualValues(t, 1, sb0)

	sb2, ok := h.SideBearing(2)
	require.True(t, ok)
	assert.EqualValues(t, 3, sb2)

	_, ok = h.SideBearing(3)
	assert.False(t, ok)

	_, ok = h.Advance(3) // still resolves via the clamp to numLong-1
	assert.True(t, ok)
}

func TestKernFormat0Lookup(t *testing.T) {
	var body []byte
	body = append(body, u16b(2)...) // nPairs
	body = append(body, u16b(0)...)
	body = append(body, u16b(0)...)
	body = append(body, u16b(0)...)
	body = append(body, u16b(1)...) // left
	body = append(body, u16b(2)...) // right
	body = append(body, i16b(-50)...)
	body = append(body, u16b(3)...)
	body = append(body, u16b(4)...)
	body = append(body, i16b(10)...)

	var tbl []byte
	tbl = append(tbl, u16b(0)...) // version
	tbl = append(tbl, u16b(1)...) // numTables
	tbl = append(tbl, u16b(0)...) // subtable version
	tbl = append(tbl, u16b(uint16(6+len(body)))...)
	tbl = append(tbl, []byte{0, 1}...) // coverage: format 0, horizontal bit set
	tbl = append(tbl, body...)

	k, ok := ParseKern(tbl)
	require.True(t, ok)

	v, ok := k.Lookup(1, 2)
	require.True(t, ok)
	assert.EqualValues(t, -50, v)

	v2, ok := k.Lookup(3, 4)
	require.True(t, ok)
	assert.EqualValues(t, 10, v2)

	_, ok = k.Lookup(9, 9)
	assert.False(t, ok)
}

func TestClassDefFormat1(t *testing.T) {
	var b []byte
	b = append(b, u16b(1)...)
	b = append(b, u16b(10)...) // startGlyph
	b = append(b, u16b(3)...)  // count
	b = append(b, u16b(1)...)
	b = append(b, u16b(2)...)
	b = append(b, u16b(1)...)

	cd, ok := ParseClassDef(b)
	require.True(t, ok)
	assert.EqualValues(t, 1, cd.Lookup(10))
	assert.EqualValues(t, 2, cd.Lookup(11))
	assert.EqualValues(t, 0, cd.Lookup(9))
	assert.EqualValues(t, 0, cd.Lookup(50))
}

func TestClassDefFormat2(t *testing.T) {
	var b []byte
	b = append(b, u16b(2)...)
	b = append(b, u16b(2)...) // count
	b = append(b, u16b(5)...)
	b = append(b, u16b(7)...)
	b = append(b, u16b(3)...)
	b = append(b, u16b(20)...)
	b = append(b, u16b(22)...)
	b = append(b, u16b(4)...)

	cd, ok := ParseClassDef(b)
	require.True(t, ok)
	assert.EqualValues(t, 3, cd.Lookup(6))
	assert.EqualValues(t, 4, cd.Lookup(21))
	assert.EqualValues(t, 0, cd.Lookup(8))
}
