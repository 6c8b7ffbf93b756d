package tables

import "github.com/typeparse/sfnt/internal/bin"

// Hhea is the decoded 'hhea' (or 'vhea') table: enough of it to drive
// 'hmtx'/'vmtx' interpretation and to answer the ascender/descender/line-gap
// metrics queries.
type Hhea struct {
	Ascender          int16
	Descender         int16
	LineGap           int16
	AdvanceMax        uint16
	MinLeftSideBearing  int16
	MinRightSideBearing int16
	XMaxExtent          int16
	NumberOfLongMetrics uint16
}

// ParseHhea parses an 'hhea' or 'vhea' table (the two share layout).
func ParseHhea(b []byte) (Hhea, bool) {
	if len(b) != 36 {
		return Hhea{}, false
	}
	c := bin.NewCursor(b)
	if !c.Skip(4) { // version
		return Hhea{}, false
	}
	ascender, _ := c.I16()
	descender, _ := c.I16()
	lineGap, _ := c.I16()
	advanceMax, _ := c.U16()
	minLSB, _ := c.I16()
	minRSB, _ := c.I16()
	xMaxExtent, _ := c.I16()
	if !c.Skip(14) { // caretSlopeRise, caretSlopeRun, caretOffset, 4 reserved int16
		return Hhea{}, false
	}
	if !c.Skip(2) { // metricDataFormat
		return Hhea{}, false
	}
	numLongMetrics, ok := c.U16()
	if !ok {
		return Hhea{}, false
	}
	return Hhea{
		Ascender:            ascender,
		Descender:           descender,
		LineGap:             lineGap,
		AdvanceMax:          advanceMax,
		MinLeftSideBearing:  minLSB,
		MinRightSideBearing: minRSB,
		XMaxExtent:          xMaxExtent,
		NumberOfLongMetrics: numLongMetrics,
	}, true
}
