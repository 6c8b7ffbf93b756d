package cmap

import (
	"sort"

	"github.com/typeparse/sfnt/internal/bin"
)

// Format4 is the segment-mapping subtable used by most non-CJK Windows
// fonts (spec.md §4.4 format 4). Segments are kept as raw big-endian
// slices and decoded lazily; no glyph map is built at parse time.
type Format4 struct {
	segCount      int
	endCode       []byte
	startCode     []byte
	idDelta       []byte
	idRangeOffset []byte
	glyphIDArray  []byte
}

// ParseFormat4 parses a format-4 subtable body (b starts after the 6-byte
// format/length/language header, at segCountX2).
func ParseFormat4(b []byte) (Format4, bool) {
	c := bin.NewCursor(b)
	segCountX2, ok := c.U16()
	if !ok || segCountX2%2 != 0 {
		return Format4{}, false
	}
	segCount := int(segCountX2) / 2
	if segCount < 2 {
		// Every format-4 table carries at least the mandatory terminal
		// 0xFFFF sentinel segment; a 0- or 1-segment table is malformed
		// rather than merely empty.
		return Format4{}, false
	}
	if !c.Skip(6) { // searchRange, entrySelector, rangeShift
		return Format4{}, false
	}
	endCode, ok := c.Bytes(segCount * 2)
	if !ok {
		return Format4{}, false
	}
	if bin.U16(endCode[(segCount-1)*2:]) != 0xFFFF {
		return Format4{}, false
	}
	if !c.Skip(2) { // reservedPad
		return Format4{}, false
	}
	startCode, ok := c.Bytes(segCount * 2)
	if !ok {
		return Format4{}, false
	}
	idDelta, ok := c.Bytes(segCount * 2)
	if !ok {
		return Format4{}, false
	}
	idRangeOffset, ok := c.Bytes(segCount * 2)
	if !ok {
		return Format4{}, false
	}
	glyphIDArray, _ := c.Bytes(c.Len() - c.Offset())
	return Format4{
		segCount:      segCount,
		endCode:       endCode,
		startCode:     startCode,
		idDelta:       idDelta,
		idRangeOffset: idRangeOffset,
		glyphIDArray:  glyphIDArray,
	}, true
}

func (f Format4) seg(k int) (start, end uint16, delta int16, rangeOffset uint16) {
	return bin.U16(f.startCode[k*2:]), bin.U16(f.endCode[k*2:]), int16(bin.U16(f.idDelta[k*2:])), bin.U16(f.idRangeOffset[k*2:])
}

func (f Format4) segmentFor(cp uint32) (int, bool) {
	if cp > 0xFFFF {
		return 0, false
	}
	code := uint16(cp)
	k := sort.Search(f.segCount, func(i int) bool {
		return bin.U16(f.endCode[i*2:]) >= code
	})
	if k == f.segCount {
		return 0, false
	}
	start, _, _, _ := f.seg(k)
	if code < start {
		return 0, false
	}
	return k, true
}

// Lookup implements Table.
func (f Format4) Lookup(cp uint32) (uint16, bool) {
	k, ok := f.segmentFor(cp)
	if !ok {
		return 0, false
	}
	start, _, delta, rangeOffset := f.seg(k)
	code := uint16(cp)
	if rangeOffset == 0 {
		gid := code + uint16(delta)
		if gid == 0 {
			return 0, false
		}
		return gid, true
	}
	// idRangeOffset is measured from the address of its own array slot
	// (the shared OpenType pointer-arithmetic idiom; see format2.go).
	byteOffset := int(rangeOffset) + 2*int(code-start) - 2*(f.segCount-k)
	if byteOffset < 0 || byteOffset+2 > len(f.glyphIDArray) {
		return 0, false
	}
	gid := bin.U16(f.glyphIDArray[byteOffset:])
	if gid == 0 {
		return 0, false
	}
	return uint16(int32(gid) + int32(delta)), true
}

// Each iterates every mapped code point across all segments in ascending
// order. The terminal 0xFFFF sentinel segment is included only if it maps
// to a non-zero glyph.
func (f Format4) Each(yield func(cp uint32, gid uint16) bool) {
	for k := 0; k < f.segCount; k++ {
		start, end, delta, rangeOffset := f.seg(k)
		for code := uint32(start); code <= uint32(end); code++ {
			var gid uint16
			if rangeOffset == 0 {
				gid = uint16(code) + uint16(delta)
			} else {
				byteOffset := int(rangeOffset) + 2*int(uint16(code)-start) - 2*(f.segCount-k)
				if byteOffset < 0 || byteOffset+2 > len(f.glyphIDArray) {
					continue
				}
				raw := bin.U16(f.glyphIDArray[byteOffset:])
				if raw == 0 {
					continue
				}
				gid = uint16(int32(raw) + int32(delta))
			}
			if gid == 0 {
				continue
			}
			if !yield(code, gid) {
				return
			}
			if code == 0xFFFF { // avoid wraparound on the terminal segment
				return
			}
		}
	}
}
