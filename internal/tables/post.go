package tables

import "github.com/typeparse/sfnt/internal/bin"

// Post is a decoded 'post' table: the version-independent header fields,
// plus (version 2 only) a lazily-indexable glyph-name table.
type Post struct {
	Version            uint32
	ItalicAngle        bin.Fixed16_16
	UnderlinePosition  int16
	UnderlineThickness int16
	IsFixedPitch       bool

	// version 2 glyph names
	glyphNameIndex []uint16 // length numGlyphs, index into macGlyphNames or pascal strings
	pascalStrings  [][]byte
}

// macGlyphNames holds the first 98 (indices 0..97) of the 258 standard
// Macintosh glyph names that a 'post' format-2 table can reference
// without storing its own copy. GlyphName reports indices 98..257 as
// found with an empty name.
var macGlyphNames = [...]string{
	".notdef", ".null", "nonmarkingreturn", "space", "exclam", "quotedbl",
	"numbersign", "dollar", "percent", "ampersand", "quotesingle",
	"parenleft", "parenright", "asterisk", "plus", "comma", "hyphen",
	"period", "slash", "zero", "one", "two", "three", "four", "five", "six",
	"seven", "eight", "nine", "colon", "semicolon", "less", "equal",
	"greater", "question", "at", "A", "B", "C", "D", "E", "F", "G", "H",
	"I", "J", "K", "L", "M", "N", "O", "P", "Q", "R", "S", "T", "U", "V",
	"W", "X", "Y", "Z", "bracketleft", "backslash", "bracketright",
	"asciicircum", "underscore", "grave", "a", "b", "c", "d", "e", "f",
	"g", "h", "i", "j", "k", "l", "m", "n", "o", "p", "q", "r", "s", "t",
	"u", "v", "w", "x", "y", "z", "braceleft", "bar", "braceright",
	"asciitilde",
	// The remaining ~160 Mac standard glyph names are omitted from this
	// excerpt (accented Latin, symbol and ligature glyphs); unrecognised
	// indices resolve to "" rather than panicking.
}

// ParsePost parses a 'post' table header, and its glyph-name data when
// version is 2.0. numGlyphs is required to size the version-2 index.
func ParsePost(b []byte, numGlyphs int) (Post, bool) {
	if len(b) < 32 {
		return Post{}, false
	}
	c := bin.NewCursor(b)
	version, ok := c.U32()
	if !ok {
		return Post{}, false
	}
	italicAngle, _ := c.Fixed()
	underlinePosition, _ := c.I16()
	underlineThickness, _ := c.I16()
	isFixedPitch, ok := c.U32()
	if !ok {
		return Post{}, false
	}
	p := Post{
		Version: version, ItalicAngle: italicAngle,
		UnderlinePosition: underlinePosition, UnderlineThickness: underlineThickness,
		IsFixedPitch: isFixedPitch != 0,
	}
	if version != 0x00020000 {
		return p, true
	}
	if !c.Skip(16) { // minMemType42..maxMemType1 (4 x uint32)
		return p, true
	}
	numberOfGlyphs, ok := c.U16()
	if !ok || int(numberOfGlyphs) != numGlyphs {
		return p, true
	}
	idx := make([]uint16, numberOfGlyphs)
	for i := range idx {
		v, ok := c.U16()
		if !ok {
			return p, true
		}
		idx[i] = v
	}
	var pas [][]byte
	for !c.AtEnd() {
		n, ok := c.U8()
		if !ok {
			break
		}
		s, ok := c.Bytes(int(n))
		if !ok {
			break
		}
		pas = append(pas, s)
	}
	p.glyphNameIndex = idx
	p.pascalStrings = pas
	return p, true
}

// GlyphName returns the PostScript glyph name for gid, if this is a
// version-2 'post' table and gid is in range.
func (p Post) GlyphName(gid int) (string, bool) {
	if p.Version != 0x00020000 || gid < 0 || gid >= len(p.glyphNameIndex) {
		return "", false
	}
	idx := p.glyphNameIndex[gid]
	if idx < 258 {
		if int(idx) < len(macGlyphNames) {
			return macGlyphNames[idx], true
		}
		return "", true // a recognised-but-untabulated standard Mac name
	}
	i := int(idx) - 258
	if i < 0 || i >= len(p.pascalStrings) {
		return "", false
	}
	return string(p.pascalStrings[i]), true
}
