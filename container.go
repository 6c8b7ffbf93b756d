package sfnt

import "github.com/typeparse/sfnt/internal/bin"

// Magic numbers for the recognised SFNT-family signatures: four
// single-font signatures plus the 'ttcf' collection header (spec.md
// §4.2 "Container loader").
const (
	magicTrueType       = 0x00010000
	magicOpenTypeCFF    = 0x4f54544f // "OTTO"
	magicTrueTypeApple  = 0x74727565 // "true"
	magicPostScriptType = 0x74797031 // "typ1"
	magicCollection     = 0x74746366 // "ttcf"
)

// maxNumTables bounds the table directory against pathological inputs; no
// conformant font exceeds this.
const maxNumTables = 256

// tableRecord is a resolved, bounds-checked byte range for one table.
type tableRecord struct {
	offset, length uint32
}

func (t tableRecord) slice(src []byte) ([]byte, bool) {
	if t.length == 0 && t.offset == 0 {
		return nil, false
	}
	end := uint64(t.offset) + uint64(t.length)
	if end > uint64(len(src)) {
		return nil, false
	}
	return src[t.offset : t.offset+t.length], true
}

// directory is the parsed offset table + table record array for one font
// within an SFNT source (one slot of a collection, or the whole file for a
// single-font source).
type directory struct {
	isCFF  bool
	tables map[Tag]tableRecord
}

// readOffsetTable parses the 12-byte offset table and the following
// 16-byte-per-record table directory starting at byteOffset in src.
func readOffsetTable(src []byte, byteOffset int) (directory, error) {
	c := bin.NewCursor(src)
	if !c.SeekTo(byteOffset) {
		return directory{}, ErrMalformedFont
	}
	sfntVersion, ok := c.U32()
	if !ok {
		return directory{}, ErrMalformedFont
	}
	d := directory{}
	switch sfntVersion {
	case magicTrueType, magicTrueTypeApple, magicPostScriptType:
		// No-op; TrueType-flavoured outlines (glyf/loca) are expected.
	case magicOpenTypeCFF:
		d.isCFF = true
	default:
		return directory{}, ErrUnknownMagic
	}

	numTables, ok := c.U16()
	if !ok || int(numTables) > maxNumTables {
		return directory{}, ErrMalformedFont
	}
	// searchRange, entrySelector, rangeShift: present but unused.
	if !c.Skip(6) {
		return directory{}, ErrMalformedFont
	}

	d.tables = make(map[Tag]tableRecord, numTables)
	var prevTag Tag
	for i := 0; i < int(numTables); i++ {
		tag, ok := c.Tag()
		if !ok {
			return directory{}, ErrMalformedFont
		}
		if _, ok := c.U32(); !ok { // checksum: validated for presence only.
			return directory{}, ErrMalformedFont
		}
		offset, ok1 := c.U32()
		length, ok2 := c.U32()
		if !ok1 || !ok2 {
			return directory{}, ErrMalformedFont
		}
		if i > 0 && tagLess(tag, prevTag) {
			return directory{}, ErrMalformedFont
		}
		prevTag = tag
		d.tables[tag] = tableRecord{offset: offset, length: length}
	}
	return d, nil
}

func tagLess(a, b Tag) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// readCollectionDirectory resolves the offset table of face index i within a
// ttcf collection.
func readCollectionDirectory(src []byte, faceIndex int) (directory, error) {
	c := bin.NewCursor(src)
	if !c.SeekTo(0) {
		return directory{}, ErrMalformedFont
	}
	magic, ok := c.U32()
	if !ok || magic != magicCollection {
		return directory{}, ErrUnknownMagic
	}
	if !c.Skip(4) { // ttcTag version, ignored beyond presence.
		return directory{}, ErrMalformedFont
	}
	numFonts, ok := c.U32()
	if !ok {
		return directory{}, ErrMalformedFont
	}
	if faceIndex < 0 || uint32(faceIndex) >= numFonts {
		return directory{}, ErrFaceIndexOutOfBounds
	}
	offsets, ok := bin.NewArray(&c, int(numFonts), 4)
	if !ok {
		return directory{}, ErrMalformedFont
	}
	oc, ok := offsets.Cursor(faceIndex)
	if !ok {
		return directory{}, ErrMalformedFont
	}
	offset, ok := oc.U32()
	if !ok {
		return directory{}, ErrMalformedFont
	}
	return readOffsetTable(src, int(offset))
}

// isCollection reports whether src begins with the ttcf collection magic.
func isCollection(src []byte) bool {
	if len(src) < 4 {
		return false
	}
	return bin.U32(src) == magicCollection
}
