package cmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cu16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func ci16(v int16) []byte  { return cu16(uint16(v)) }

func TestFormat0Lookup(t *testing.T) {
	var body [256]byte
	body['A'] = 5
	f, ok := ParseFormat0(body[:])
	require.True(t, ok)
	gid, ok := f.Lookup('A')
	require.True(t, ok)
	assert.EqualValues(t, 5, gid)
	_, ok = f.Lookup(0)
	assert.False(t, ok)
	_, ok = f.Lookup(300)
	assert.False(t, ok)
}

func buildFormat4Body() []byte {
	var b []byte
	b = append(b, cu16(4)...)       // segCountX2 = 2 segments
	b = append(b, make([]byte, 6)...) // searchRange, entrySelector, rangeShift
	b = append(b, cu16(90)...)      // endCode[0]
	b = append(b, cu16(0xFFFF)...)  // endCode[1]
	b = append(b, cu16(0)...)       // reservedPad
	b = append(b, cu16(65)...)      // startCode[0]
	b = append(b, cu16(0xFFFF)...)  // startCode[1]
	b = append(b, ci16(-64)...)     // idDelta[0]
	b = append(b, ci16(1)...)       // idDelta[1]
	b = append(b, cu16(0)...)       // idRangeOffset[0]
	b = append(b, cu16(0)...)       // idRangeOffset[1]
	return b
}

func TestFormat4LookupDeltaMapped(t *testing.T) {
	f, ok := ParseFormat4(buildFormat4Body())
	require.True(t, ok)
	gid, ok := f.Lookup('A')
	require.True(t, ok)
	assert.EqualValues(t, 1, gid)
	gid, ok = f.Lookup('Z')
	require.True(t, ok)
	assert.EqualValues(t, 26, gid)
	_, ok = f.Lookup(200)
	assert.False(t, ok)
}

func TestFormat4RejectsZeroSegments(t *testing.T) {
	var b []byte
	b = append(b, cu16(0)...) // segCountX2 = 0
	b = append(b, make([]byte, 6)...)
	_, ok := ParseFormat4(b)
	assert.False(t, ok)
}

func TestFormat4RejectsMissingTerminalSentinel(t *testing.T) {
	b := buildFormat4Body()
	// Corrupt the final segment's endCode so it no longer reads 0xFFFF.
	endCodeOffset := 2 + 6
	copy(b[endCodeOffset+2:endCodeOffset+4], cu16(0x1234))
	_, ok := ParseFormat4(b)
	assert.False(t, ok)
}

func TestFormat4Each(t *testing.T) {
	f, ok := ParseFormat4(buildFormat4Body())
	require.True(t, ok)
	seen := map[uint32]uint16{}
	f.Each(func(cp uint32, gid uint16) bool {
		seen[cp] = gid
		return cp < 70 // stop early, before the terminal 0xFFFF segment
	})
	assert.EqualValues(t, 1, seen['A'])
	assert.NotContains(t, seen, uint32(0xFFFF))
}
