package cff

import "github.com/typeparse/sfnt/internal/bin"

// privateInfo is the subset of a Private DICT the charstring interpreter
// needs: its local subroutine index and the nominal/default width used by
// CFF1's width-on-first-moveto heuristic (spec.md §4.6 "Width handling").
type privateInfo struct {
	localSubrs     index
	nominalWidthX  float64
	defaultWidthX  float64
}

// Font is a parsed CFF (or CFF2) table, reduced to what the charstring
// interpreter needs to draw a glyph: the charstrings index, the global
// subroutine index, and one Private DICT per Font DICT (one entry for a
// plain font, or one per FDArray member for a CID-keyed/variable font).
type Font struct {
	charStrings index
	globalSubrs index
	privates    []privateInfo
	fdSelect    fdSelect
	isCFF2      bool

	// VarStoreOffset is the byte offset (from the start of the 'CFF2'
	// table) of its embedded Item Variation Store, or -1 if absent. Set
	// only by ParseCFF2; the store itself is parsed by
	// internal/variation, which owns the shared IVS format.
	VarStoreOffset int
}

// NumGlyphs returns the number of charstrings (glyphs) in the font.
func (f *Font) NumGlyphs() int { return f.charStrings.Len() }

// IsCFF2 reports whether this Font was parsed from a 'CFF2' table.
func (f *Font) IsCFF2() bool { return f.isCFF2 }

// Parse parses a CFF1 ('CFF ') table, as embedded in an OpenType/CFF
// font (spec.md §4.6 "Top DICT walk").
func Parse(data []byte) (*Font, bool) {
	c := bin.NewCursor(data)
	major, ok := c.U8()
	if !ok || major != 1 {
		return nil, false
	}
	if !c.Skip(1) { // minor
		return nil, false
	}
	hdrSize, ok := c.U8()
	if !ok {
		return nil, false
	}
	if !c.SeekTo(int(hdrSize)) {
		return nil, false
	}

	nameIdx, ok := parseIndex(&c, false)
	if !ok || nameIdx.Len() != 1 {
		return nil, false
	}
	topDictIdx, ok := parseIndex(&c, false)
	if !ok || topDictIdx.Len() != 1 {
		return nil, false
	}
	_, ok = parseIndex(&c, false) // String INDEX: not needed for outlines
	if !ok {
		return nil, false
	}
	globalSubrs, ok := parseIndex(&c, false)
	if !ok {
		return nil, false
	}

	topDictBytes, ok := topDictIdx.Get(0)
	if !ok {
		return nil, false
	}
	topDict, ok := parseDict(topDictBytes)
	if !ok {
		return nil, false
	}
	if dictInt(topDict, opCharstringType, 2) != 2 {
		return nil, false // Type 1 charstrings are out of scope (spec.md §1)
	}

	charStringsOff := dictInt(topDict, opCharstrings, -1)
	if charStringsOff < 0 || charStringsOff >= len(data) {
		return nil, false
	}
	cc := bin.NewCursor(data[charStringsOff:])
	charStrings, ok := parseIndex(&cc, false)
	if !ok {
		return nil, false
	}

	f := &Font{charStrings: charStrings, globalSubrs: globalSubrs}

	isCID := false
	if _, ok := topDict[opROS]; ok {
		isCID = true
	}

	if isCID {
		fdArrayOff := dictInt(topDict, opFDArray, -1)
		fdSelectOff := dictInt(topDict, opFDSelect, -1)
		if fdArrayOff < 0 || fdSelectOff < 0 || fdArrayOff >= len(data) || fdSelectOff >= len(data) {
			return nil, false
		}
		fc := bin.NewCursor(data[fdArrayOff:])
		fdArray, ok := parseIndex(&fc, false)
		if !ok {
			return nil, false
		}
		fs, ok := parseFDSelect(data[fdSelectOff:], charStrings.Len())
		if !ok {
			return nil, false
		}
		f.fdSelect = fs
		f.privates = make([]privateInfo, fdArray.Len())
		for i := 0; i < fdArray.Len(); i++ {
			fdBytes, ok := fdArray.Get(i)
			if !ok {
				return nil, false
			}
			fdDict, ok := parseDict(fdBytes)
			if !ok {
				return nil, false
			}
			pi, ok := parsePrivate(data, fdDict, false)
			if !ok {
				return nil, false
			}
			f.privates[i] = pi
		}
	} else {
		pi, ok := parsePrivate(data, topDict, false)
		if !ok {
			// A missing/invalid Private DICT still leaves a usable font:
			// widths default to zero and there are no local subroutines.
			pi = privateInfo{}
		}
		f.privates = []privateInfo{pi}
	}

	return f, true
}

// ParseCFF2 parses a 'CFF2' table (spec.md §4.6/§4.7 "CFF2"): a 5-byte
// header, a bare Top DICT (no surrounding Name/String INDEX, unlike
// CFF1), a Global Subr INDEX, and an optional embedded Item Variation
// Store whose offset the Top DICT's vstore operator supplies. The
// variation store itself is parsed by the caller (internal/variation),
// which shares the wire format with HVAR/VVAR/MVAR; Font only records
// its byte offset for that purpose via VarStoreOffset.
func ParseCFF2(data []byte) (*Font, bool) {
	c := bin.NewCursor(data)
	major, ok := c.U8()
	if !ok || major != 2 {
		return nil, false
	}
	if !c.Skip(1) { // minor
		return nil, false
	}
	hdrSize, ok := c.U8()
	if !ok {
		return nil, false
	}
	topDictLength, ok := c.U16()
	if !ok {
		return nil, false
	}
	if !c.SeekTo(int(hdrSize)) {
		return nil, false
	}
	topDictBytes, ok := c.Bytes(int(topDictLength))
	if !ok {
		return nil, false
	}
	topDict, ok := parseDict(topDictBytes)
	if !ok {
		return nil, false
	}
	globalSubrs, ok := parseIndex(&c, true)
	if !ok {
		return nil, false
	}

	charStringsOff := dictInt(topDict, opCharstrings, -1)
	if charStringsOff < 0 || charStringsOff >= len(data) {
		return nil, false
	}
	cc := bin.NewCursor(data[charStringsOff:])
	charStrings, ok := parseIndex(&cc, true)
	if !ok {
		return nil, false
	}

	f := &Font{charStrings: charStrings, globalSubrs: globalSubrs, isCFF2: true}
	f.VarStoreOffset = dictInt(topDict, opVarStore, -1)

	if fdArrayOff := dictInt(topDict, opFDArray, -1); fdArrayOff >= 0 && fdArrayOff < len(data) {
		fc := bin.NewCursor(data[fdArrayOff:])
		fdArray, ok := parseIndex(&fc, true)
		if !ok {
			return nil, false
		}
		if fdSelectOff := dictInt(topDict, opFDSelect, -1); fdSelectOff >= 0 && fdSelectOff < len(data) {
			fs, ok := parseFDSelect(data[fdSelectOff:], charStrings.Len())
			if !ok {
				return nil, false
			}
			f.fdSelect = fs
		}
		f.privates = make([]privateInfo, fdArray.Len())
		for i := 0; i < fdArray.Len(); i++ {
			fdBytes, ok := fdArray.Get(i)
			if !ok {
				return nil, false
			}
			fdDict, ok := parseDict(fdBytes)
			if !ok {
				return nil, false
			}
			pi, ok := parsePrivate(data, fdDict, true)
			if !ok {
				pi = privateInfo{}
			}
			f.privates[i] = pi
		}
	} else {
		pi, ok := parsePrivate(data, topDict, true)
		if !ok {
			pi = privateInfo{}
		}
		f.privates = []privateInfo{pi}
	}

	return f, true
}

func parsePrivate(data []byte, dict map[int][]float64, wideCount bool) (privateInfo, bool) {
	v, ok := dict[opPrivate]
	if !ok || len(v) != 2 {
		return privateInfo{}, false
	}
	size, off := int(v[0]), int(v[1])
	if off < 0 || size < 0 || off+size > len(data) {
		return privateInfo{}, false
	}
	privBytes := data[off : off+size]
	pd, ok := parseDict(privBytes)
	if !ok {
		return privateInfo{}, false
	}
	pi := privateInfo{
		nominalWidthX: float64(dictInt(pd, opNominalWidthX, 0)),
		defaultWidthX: float64(dictInt(pd, opDefaultWidthX, 0)),
	}
	if subrsRel, ok := pd[opSubrs]; ok && len(subrsRel) > 0 {
		subrsOff := off + int(subrsRel[len(subrsRel)-1])
		if subrsOff >= 0 && subrsOff < len(data) {
			sc := bin.NewCursor(data[subrsOff:])
			if idx, ok := parseIndex(&sc, wideCount); ok {
				pi.localSubrs = idx
			}
		}
	}
	return pi, true
}

// privateFor returns the Private DICT info governing gid.
func (f *Font) privateFor(gid uint16) privateInfo {
	i := 0
	if len(f.privates) > 1 {
		i = f.fdSelect.FD(gid)
	}
	if i < 0 || i >= len(f.privates) {
		return privateInfo{}
	}
	return f.privates[i]
}
