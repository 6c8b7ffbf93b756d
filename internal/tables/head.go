// Package tables implements the per-table parsers of layer L2: head, maxp,
// hhea/vhea, hmtx/vmtx, name, os2, post, kern, gdef, sbix, svg, cblc/cbdt,
// eblc/ebdt, vorg and stat. Each parser validates header invariants eagerly
// and defers per-record decoding to the query path (spec.md §4.3).
package tables

import "github.com/typeparse/sfnt/internal/bin"

// Head is the decoded 'head' table.
type Head struct {
	UnitsPerEm        uint16
	XMin, YMin        int16
	XMax, YMax        int16
	MacStyle          uint16
	IndexToLocFormat  int16 // 0: short (u16x2), 1: long (u32)
	LowestRecPPEM     uint16
	FontDirectionHint int16
}

// IsBold reports the macStyle bold bit.
func (h Head) IsBold() bool { return h.MacStyle&0x1 != 0 }

// IsItalic reports the macStyle italic bit.
func (h Head) IsItalic() bool { return h.MacStyle&0x2 != 0 }

// ParseHead parses a 'head' table. The table must be exactly 54 bytes, per
// every shipped version of the format.
func ParseHead(b []byte) (Head, bool) {
	if len(b) != 54 {
		return Head{}, false
	}
	c := bin.NewCursor(b)
	if !c.Skip(18) { // version, fontRevision, checkSumAdjustment, magicNumber, flags
		return Head{}, false
	}
	unitsPerEm, ok := c.U16()
	if !ok || unitsPerEm < 16 || unitsPerEm > 16384 {
		return Head{}, false
	}
	if !c.Skip(16) { // created, modified (Int64Date x2)
		return Head{}, false
	}
	xMin, _ := c.I16()
	yMin, _ := c.I16()
	xMax, _ := c.I16()
	yMax, _ := c.I16()
	macStyle, _ := c.U16()
	lowestRecPPEM, _ := c.U16()
	fontDirectionHint, _ := c.I16()
	indexToLocFormat, ok := c.I16()
	if !ok {
		return Head{}, false
	}
	// glyphDataFormat: present but unused (hinting is out of scope).
	return Head{
		UnitsPerEm:        unitsPerEm,
		XMin:              xMin,
		YMin:              yMin,
		XMax:              xMax,
		YMax:              yMax,
		MacStyle:          macStyle,
		IndexToLocFormat:  indexToLocFormat,
		LowestRecPPEM:     lowestRecPPEM,
		FontDirectionHint: fontDirectionHint,
	}, true
}
