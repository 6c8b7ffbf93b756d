package cmap

import "github.com/typeparse/sfnt/internal/bin"

// Format2 is the high-byte mapping subtable historically used by CJK
// encodings (spec.md §4.4 format 2). Single-byte codes index subHeader 0
// directly; the high byte of double-byte codes selects a subHeader whose
// range covers the low byte.
type Format2 struct {
	subHeaderKeys [256]uint16 // subHeader index * 8, per high byte
	subHeaders    []byte      // 8*numSubHeaders bytes
	glyphArray    []byte      // u16 glyph index array
}

// ParseFormat2 parses a format-2 subtable body (b starts after the 6-byte
// format/length/language header).
func ParseFormat2(b []byte) (Format2, bool) {
	c := bin.NewCursor(b)
	arr, ok := bin.NewArray(&c, 256, 2)
	if !ok {
		return Format2{}, false
	}
	var f Format2
	maxSubHeader := uint16(0)
	for i := 0; i < 256; i++ {
		e, _ := arr.Elem(i)
		k := bin.U16(e)
		f.subHeaderKeys[i] = k
		if k > maxSubHeader {
			maxSubHeader = k
		}
	}
	subHeadersEnd := c.Offset() + int(maxSubHeader) + 8
	if subHeadersEnd > len(b) {
		return Format2{}, false
	}
	f.subHeaders = b[c.Offset():subHeadersEnd]
	f.glyphArray = b[subHeadersEnd:]
	return f, true
}

func (f Format2) subHeader(key uint16) (firstCode, entryCount uint16, idDelta int16, idRangeOffset uint16, ok bool) {
	off := int(key)
	if off+8 > len(f.subHeaders) {
		return 0, 0, 0, 0, false
	}
	s := f.subHeaders[off:]
	return bin.U16(s), bin.U16(s[2:]), int16(bin.U16(s[4:])), bin.U16(s[6:]), true
}

// glyphAt resolves the glyphIndexArray entry for lo under the subHeader at
// key, applying the idRangeOffset pointer-arithmetic idiom the OpenType
// format-2 and format-4 subtables share: idRangeOffset is a byte offset
// measured from the address of its own field.
func (f Format2) glyphAt(key uint16, lo, firstCode uint16) (uint16, bool) {
	_, _, _, idRangeOffset, ok := f.subHeader(key)
	if !ok {
		return 0, false
	}
	idRangeOffsetFieldAddr := int(key) + 6
	pos := idRangeOffsetFieldAddr + int(idRangeOffset) + 2*int(lo-firstCode)
	arrIdx := pos - len(f.subHeaders)
	if arrIdx < 0 || arrIdx+2 > len(f.glyphArray) {
		return 0, false
	}
	return bin.U16(f.glyphArray[arrIdx:]), true
}

// Lookup implements Table. cp must fit a byte or double-byte code (<=0xFFFF).
func (f Format2) Lookup(cp uint32) (uint16, bool) {
	if cp > 0xFFFF {
		return 0, false
	}
	var hiKeyIndex int
	var lo uint16
	if cp <= 0xFF {
		hiKeyIndex, lo = 0, uint16(cp)
	} else {
		hiKeyIndex, lo = int(cp>>8), uint16(cp&0xFF)
	}
	key := f.subHeaderKeys[hiKeyIndex]
	firstCode, entryCount, idDelta, _, ok := f.subHeader(key)
	if !ok || lo < firstCode || lo >= firstCode+entryCount {
		return 0, false
	}
	gid, ok := f.glyphAt(key, lo, firstCode)
	if !ok || gid == 0 {
		return 0, false
	}
	return uint16(int32(gid)+int32(idDelta)) & 0xFFFF, true
}

// Each iterates every mapped code point in ascending order.
func (f Format2) Each(yield func(cp uint32, gid uint16) bool) {
	for hi := 0; hi < 256; hi++ {
		key := f.subHeaderKeys[hi]
		firstCode, entryCount, idDelta, _, ok := f.subHeader(key)
		if !ok {
			continue
		}
		for lo := firstCode; lo < firstCode+entryCount; lo++ {
			gid, ok := f.glyphAt(key, lo, firstCode)
			if !ok || gid == 0 {
				continue
			}
			var cp uint32
			if hi == 0 {
				cp = uint32(lo)
			} else {
				cp = uint32(hi)<<8 | uint32(lo)
			}
			if !yield(cp, uint16(int32(gid)+int32(idDelta))&0xFFFF) {
				return
			}
		}
	}
}
