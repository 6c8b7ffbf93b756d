package tables

import "github.com/typeparse/sfnt/internal/bin"

// SvgDoc is one (possibly glyph-range-covering) embedded SVG document.
type SvgDoc struct {
	StartGlyphID, EndGlyphID uint16
	Data                     []byte // raw SVG (possibly gzip-compressed per the spec's "SVG document may be compressed")
}

// Svg is a parsed 'SVG ' table: a sorted-by-startGlyphID list of document
// records, searched by binary search.
type Svg struct {
	docs []SvgDoc
}

// ParseSvg parses an 'SVG ' table (format 0, the only format defined).
func ParseSvg(b []byte) (Svg, bool) {
	c := bin.NewCursor(b)
	version, ok := c.U16()
	if !ok || version != 0 {
		return Svg{}, false
	}
	docListOffset, ok := c.U32()
	if !ok || int(docListOffset) >= len(b) {
		return Svg{}, false
	}
	dc := bin.NewCursor(b[docListOffset:])
	numEntries, ok := dc.U16()
	if !ok {
		return Svg{}, false
	}
	docs := make([]SvgDoc, 0, numEntries)
	base := b[docListOffset:]
	for i := 0; i < int(numEntries); i++ {
		start, ok1 := dc.U16()
		end, ok2 := dc.U16()
		off, ok3 := dc.U32()
		length, ok4 := dc.U32()
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return Svg{}, false
		}
		end64 := uint64(off) + uint64(length)
		if end64 > uint64(len(base)) {
			return Svg{}, false
		}
		docs = append(docs, SvgDoc{StartGlyphID: start, EndGlyphID: end, Data: base[off : off+length]})
	}
	return Svg{docs: docs}, true
}

// Lookup returns the SVG document covering gid, if any.
func (s Svg) Lookup(gid uint16) (SvgDoc, bool) {
	lo, hi := 0, len(s.docs)
	for lo < hi {
		mid := (lo + hi) / 2
		d := s.docs[mid]
		switch {
		case gid < d.StartGlyphID:
			hi = mid
		case gid > d.EndGlyphID:
			lo = mid + 1
		default:
			return d, true
		}
	}
	return SvgDoc{}, false
}
