package sfnt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctu16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func ctu32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// buildOffsetTable builds a minimal single-table TrueType directory: one
// table with the given tag at the given offset/length.
func buildOffsetTable(tag string, offset, length uint32) []byte {
	var b []byte
	b = append(b, ctu32(magicTrueType)...)
	b = append(b, ctu16(1)...) // numTables
	b = append(b, make([]byte, 6)...)
	b = append(b, []byte(tag)...)
	b = append(b, ctu32(0)...) // checksum
	b = append(b, ctu32(offset)...)
	b = append(b, ctu32(length)...)
	return b
}

func TestReadOffsetTableResolvesTableRecord(t *testing.T) {
	b := buildOffsetTable("head", 16, 4)
	d, err := readOffsetTable(b, 0)
	require.NoError(t, err)
	assert.False(t, d.isCFF)
	rec, ok := d.tables[MakeTag("head")]
	require.True(t, ok)
	assert.EqualValues(t, 16, rec.offset)
	assert.EqualValues(t, 4, rec.length)
}

func TestReadOffsetTableDetectsCFFFlavor(t *testing.T) {
	b := buildOffsetTable("CFF ", 16, 4)
	copy(b[0:4], ctu32(magicOpenTypeCFF))
	d, err := readOffsetTable(b, 0)
	require.NoError(t, err)
	assert.True(t, d.isCFF)
}

func TestReadOffsetTableRejectsUnknownMagic(t *testing.T) {
	b := buildOffsetTable("head", 16, 4)
	copy(b[0:4], ctu32(0xdeadbeef))
	_, err := readOffsetTable(b, 0)
	assert.Equal(t, ErrUnknownMagic, err)
}

func TestReadOffsetTableRejectsOutOfOrderTags(t *testing.T) {
	var b []byte
	b = append(b, ctu32(magicTrueType)...)
	b = append(b, ctu16(2)...)
	b = append(b, make([]byte, 6)...)
	b = append(b, []byte("name")...)
	b = append(b, ctu32(0)...)
	b = append(b, ctu32(0)...)
	b = append(b, ctu32(0)...)
	b = append(b, []byte("head")...) // out of order: "head" < "name"
	b = append(b, ctu32(0)...)
	b = append(b, ctu32(0)...)
	b = append(b, ctu32(0)...)
	_, err := readOffsetTable(b, 0)
	assert.Equal(t, ErrMalformedFont, err)
}

func TestTableRecordSliceBounds(t *testing.T) {
	src := make([]byte, 10)
	rec := tableRecord{offset: 2, length: 4}
	got, ok := rec.slice(src)
	require.True(t, ok)
	assert.Len(t, got, 4)

	_, ok = tableRecord{}.slice(src)
	assert.False(t, ok)

	_, ok = tableRecord{offset: 8, length: 10}.slice(src)
	assert.False(t, ok)
}

func TestIsCollection(t *testing.T) {
	assert.True(t, isCollection(ctu32(magicCollection)))
	assert.False(t, isCollection(ctu32(magicTrueType)))
	assert.False(t, isCollection(nil))
}

func buildCollectionHeader(offsets []uint32) []byte {
	var b []byte
	b = append(b, ctu32(magicCollection)...)
	b = append(b, ctu32(0x00010000)...) // ttcTag version
	b = append(b, ctu32(uint32(len(offsets)))...)
	for _, o := range offsets {
		b = append(b, ctu32(o)...)
	}
	return b
}

func TestReadCollectionDirectoryResolvesFaceIndex(t *testing.T) {
	header := buildCollectionHeader([]uint32{0, 0})
	face1Offset := uint32(len(header))
	face1 := buildOffsetTable("head", 999, 4)
	src := append(header, face1...)
	copy(src[16:20], ctu32(face1Offset)) // offsets[1]

	d, err := readCollectionDirectory(src, 1)
	require.NoError(t, err)
	rec, ok := d.tables[MakeTag("head")]
	require.True(t, ok)
	assert.EqualValues(t, 999, rec.offset)
}

func TestReadCollectionDirectoryRejectsOutOfRangeFaceIndex(t *testing.T) {
	header := buildCollectionHeader([]uint32{0})
	_, err := readCollectionDirectory(header, 5)
	assert.Equal(t, ErrFaceIndexOutOfBounds, err)
}

func TestReadCollectionDirectoryRejectsNonCollection(t *testing.T) {
	b := buildOffsetTable("head", 16, 4)
	_, err := readCollectionDirectory(b, 0)
	assert.Equal(t, ErrUnknownMagic, err)
}
