package tables

import "github.com/typeparse/sfnt/internal/bin"

// SbixGlyph is one glyph's embedded raster image from an 'sbix' strike.
type SbixGlyph struct {
	OriginX, OriginY int16
	GraphicType      bin.Tag
	Data             []byte
}

// Sbix is a parsed 'sbix' table: a set of strikes, each holding a
// per-glyph data offset array plus the raw glyph records.
type Sbix struct {
	data     []byte
	strikes  []sbixStrikeHeader
	numGlyphs int
}

type sbixStrikeHeader struct {
	ppem       uint16
	resolution uint16
	offset     uint32 // absolute offset of the strike within data
}

// ParseSbix parses an 'sbix' table header and its strike directory.
// numGlyphs must be the font's glyph count (needed to size each strike's
// glyph-data offset array).
func ParseSbix(b []byte, numGlyphs int) (Sbix, bool) {
	c := bin.NewCursor(b)
	if _, ok := c.U16(); !ok { // version
		return Sbix{}, false
	}
	if _, ok := c.U16(); !ok { // flags
		return Sbix{}, false
	}
	numStrikes, ok := c.U32()
	if !ok {
		return Sbix{}, false
	}
	strikes := make([]sbixStrikeHeader, 0, numStrikes)
	for i := 0; i < int(numStrikes); i++ {
		off, ok := c.U32()
		if !ok || int(off) >= len(b) {
			return Sbix{}, false
		}
		sc := bin.NewCursor(b[off:])
		ppem, ok1 := sc.U16()
		res, ok2 := sc.U16()
		if !ok1 || !ok2 {
			return Sbix{}, false
		}
		strikes = append(strikes, sbixStrikeHeader{ppem: ppem, resolution: res, offset: off})
	}
	return Sbix{data: b, strikes: strikes, numGlyphs: numGlyphs}, true
}

// BestStrike returns the index of the strike whose ppem is closest to the
// requested ppem (ties favour the larger strike), matching how rasterizers
// pick among 'sbix' strikes when an exact match is absent.
func (s Sbix) BestStrike(ppem uint16) (int, bool) {
	best, bestDiff := -1, -1
	for i, st := range s.strikes {
		diff := int(st.ppem) - int(ppem)
		if diff < 0 {
			diff = -diff
		}
		if best < 0 || diff < bestDiff || (diff == bestDiff && st.ppem > s.strikes[best].ppem) {
			best, bestDiff = i, diff
		}
	}
	return best, best >= 0
}

// Glyph returns the embedded image for gid within strike index strikeIdx.
func (s Sbix) Glyph(strikeIdx int, gid int) (SbixGlyph, bool) {
	if strikeIdx < 0 || strikeIdx >= len(s.strikes) || gid < 0 || gid >= s.numGlyphs {
		return SbixGlyph{}, false
	}
	st := s.strikes[strikeIdx]
	// Strike header: ppem(2) resolution(2) then (numGlyphs+1) u32 offsets,
	// relative to the strike's own start.
	base := int(st.offset) + 4
	offArr := s.data[base:]
	c := bin.NewCursor(offArr)
	if !c.SeekTo(gid * 4) {
		return SbixGlyph{}, false
	}
	o1, ok1 := c.U32()
	o2, ok2 := c.U32()
	if !ok1 || !ok2 || o2 <= o1 {
		return SbixGlyph{}, false
	}
	strike := s.data[st.offset:]
	if int(o2) > len(strike) {
		return SbixGlyph{}, false
	}
	rec := strike[o1:o2]
	if len(rec) < 8 {
		return SbixGlyph{}, false
	}
	rc := bin.NewCursor(rec)
	originX, _ := rc.I16()
	originY, _ := rc.I16()
	graphicType, ok := rc.Tag()
	if !ok {
		return SbixGlyph{}, false
	}
	return SbixGlyph{OriginX: originX, OriginY: originY, GraphicType: graphicType, Data: rec[8:]}, true
}
