package tables

import "github.com/typeparse/sfnt/internal/bin"

// BitmapGlyph is one glyph's embedded raster image from a CBLC/CBDT or
// EBLC/EBDT table pair (spec.md §4.3). Small and big metrics are both
// normalized to the Width/Height/BearingX/BearingY/Advance fields; Format
// is the CBDT/EBDT imageFormat (1-9, 17-19).
type BitmapGlyph struct {
	Width, Height     uint8
	BearingX, BearingY int8
	Advance           uint8
	Format            uint16
	Data              []byte
}

// Bitmap is a parsed bitmap-strike locator table (CBLC or EBLC), paired
// with its glyph-data table (CBDT or EBDT).
type Bitmap struct {
	sizes []bitmapSize
	loca  []byte // the BLC bytes, for index-subtable array resolution
	data  []byte // the BDT bytes
}

type bitmapSize struct {
	indexSubTableArrayOffset uint32
	numberOfIndexSubTables   uint32
	startGlyphIndex          uint16
	endGlyphIndex            uint16
	ppemX, ppemY             uint8
}

// ParseBitmap parses a CBLC/EBLC locator table, to be queried against its
// paired CBDT/EBDT glyph-data table (passed to Glyph, not here, since the
// two tables are discovered independently by the Face façade).
func ParseBitmap(loca []byte) (Bitmap, bool) {
	c := bin.NewCursor(loca)
	if _, ok := c.U16(); !ok { // majorVersion
		return Bitmap{}, false
	}
	if _, ok := c.U16(); !ok { // minorVersion
		return Bitmap{}, false
	}
	numSizes, ok := c.U32()
	if !ok {
		return Bitmap{}, false
	}
	sizes := make([]bitmapSize, 0, numSizes)
	for i := 0; i < int(numSizes); i++ {
		arrOff, ok1 := c.U32()
		if !ok1 {
			return Bitmap{}, false
		}
		if !c.Skip(4) { // indexTablesSize
			return Bitmap{}, false
		}
		numSub, ok2 := c.U32()
		if !ok2 {
			return Bitmap{}, false
		}
		if !c.Skip(4) { // colorRef
			return Bitmap{}, false
		}
		if !c.Skip(24) { // horizontal + vertical sbitLineMetrics (12 bytes each)
			return Bitmap{}, false
		}
		startGlyph, ok3 := c.U16()
		endGlyph, ok4 := c.U16()
		ppemX, ok5 := c.U8()
		ppemY, ok6 := c.U8()
		if !ok3 || !ok4 || !ok5 || !ok6 {
			return Bitmap{}, false
		}
		if !c.Skip(2) { // bitDepth(1) + flags(1)
			return Bitmap{}, false
		}
		sizes = append(sizes, bitmapSize{
			indexSubTableArrayOffset: arrOff, numberOfIndexSubTables: numSub,
			startGlyphIndex: startGlyph, endGlyphIndex: endGlyph,
			ppemX: ppemX, ppemY: ppemY,
		})
	}
	return Bitmap{sizes: sizes, loca: loca}, true
}

// WithData binds the paired CBDT/EBDT glyph-data bytes.
func (b Bitmap) WithData(data []byte) Bitmap {
	b.data = data
	return b
}

// BestSize returns the strike index whose ppemX is closest to ppem.
func (b Bitmap) BestSize(ppem uint8) (int, bool) {
	best, bestDiff := -1, -1
	for i, s := range b.sizes {
		diff := int(s.ppemX) - int(ppem)
		if diff < 0 {
			diff = -diff
		}
		if best < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best, best >= 0
}

// Glyph returns the embedded bitmap for gid within strike sizeIdx, walking
// the index-subtable array (supports formats 1 and 2, which cover the
// overwhelming majority of shipped bitmap-strike fonts: variable-size PNG
// glyphs and fixed-size monochrome/grayscale glyphs respectively).
func (b Bitmap) Glyph(sizeIdx int, gid uint16) (BitmapGlyph, bool) {
	if sizeIdx < 0 || sizeIdx >= len(b.sizes) {
		return BitmapGlyph{}, false
	}
	sz := b.sizes[sizeIdx]
	if gid < sz.startGlyphIndex || gid > sz.endGlyphIndex {
		return BitmapGlyph{}, false
	}
	arr := b.loca[sz.indexSubTableArrayOffset:]
	ac := bin.NewCursor(arr)
	for i := 0; i < int(sz.numberOfIndexSubTables); i++ {
		first, ok1 := ac.U16()
		last, ok2 := ac.U16()
		subOff, ok3 := ac.U32()
		if !ok1 || !ok2 || !ok3 {
			return BitmapGlyph{}, false
		}
		if gid < first || gid > last {
			continue
		}
		sub := arr[subOff:]
		return decodeBitmapIndexSubtable(sub, b.data, gid, first)
	}
	return BitmapGlyph{}, false
}

func decodeBitmapIndexSubtable(sub, data []byte, gid, first uint16) (BitmapGlyph, bool) {
	sc := bin.NewCursor(sub)
	indexFormat, ok1 := sc.U16()
	imageFormat, ok2 := sc.U16()
	imageDataOffset, ok3 := sc.U32()
	if !ok1 || !ok2 || !ok3 {
		return BitmapGlyph{}, false
	}
	switch indexFormat {
	case 1:
		off := int(gid-first) * 4
		if !sc.SeekTo(8 + off) {
			return BitmapGlyph{}, false
		}
		o1, ok1 := sc.U32()
		o2, ok2 := sc.U32()
		if !ok1 || !ok2 || o2 < o1 {
			return BitmapGlyph{}, false
		}
		start := int(imageDataOffset) + int(o1)
		end := int(imageDataOffset) + int(o2)
		if start < 0 || end > len(data) || start > end {
			return BitmapGlyph{}, false
		}
		return decodeBitmapRecord(data[start:end], imageFormat)
	case 2:
		imageSize, ok1 := sc.U32()
		if !ok1 {
			return BitmapGlyph{}, false
		}
		metrics, ok2 := sc.Bytes(8) // BigGlyphMetrics
		if !ok2 {
			return BitmapGlyph{}, false
		}
		start := int(imageDataOffset) + int(gid-first)*int(imageSize)
		end := start + int(imageSize)
		if start < 0 || end > len(data) {
			return BitmapGlyph{}, false
		}
		g, ok := decodeBitmapRecord(data[start:end], imageFormat)
		if !ok {
			return BitmapGlyph{}, false
		}
		// Format-2 records store metrics once in the index subtable, not
		// per-glyph; recover them from BigGlyphMetrics.
		g.Width, g.Height = metrics[0], metrics[1]
		g.BearingX, g.BearingY = int8(metrics[2]), int8(metrics[3])
		g.Advance = metrics[4]
		return g, true
	default:
		return BitmapGlyph{}, false
	}
}

// decodeBitmapRecord decodes one CBDT/EBDT glyph record. Formats 17-19
// carry a small/big metrics header followed by a length-prefixed image
// blob (PNG for CBDT); formats 1-9 are legacy monochrome/grayscale bitmaps
// whose raw bit-packed data is returned as-is, since this module does not
// rasterize (spec.md §1 non-goals).
func decodeBitmapRecord(rec []byte, imageFormat uint16) (BitmapGlyph, bool) {
	c := bin.NewCursor(rec)
	switch imageFormat {
	case 17: // small metrics + uint32 length + data
		height, ok1 := c.U8()
		width, ok2 := c.U8()
		bx, ok3 := c.I8()
		by, ok4 := c.I8()
		adv, ok5 := c.U8()
		length, ok6 := c.U32()
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
			return BitmapGlyph{}, false
		}
		data, ok := c.Bytes(int(length))
		if !ok {
			return BitmapGlyph{}, false
		}
		return BitmapGlyph{Width: width, Height: height, BearingX: bx, BearingY: by, Advance: adv, Format: imageFormat, Data: data}, true
	case 18: // big metrics + uint32 length + data
		if !c.Skip(8) {
			return BitmapGlyph{}, false
		}
		length, ok := c.U32()
		if !ok {
			return BitmapGlyph{}, false
		}
		data, ok := c.Bytes(int(length))
		if !ok {
			return BitmapGlyph{}, false
		}
		return BitmapGlyph{Format: imageFormat, Data: data}, true
	case 19: // uint32 length + data, no metrics (format-2 index supplies them)
		length, ok := c.U32()
		if !ok {
			return BitmapGlyph{}, false
		}
		data, ok := c.Bytes(int(length))
		if !ok {
			return BitmapGlyph{}, false
		}
		return BitmapGlyph{Format: imageFormat, Data: data}, true
	default:
		return BitmapGlyph{Format: imageFormat, Data: rec}, true
	}
}
