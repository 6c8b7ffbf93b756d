package variation

import "github.com/typeparse/sfnt/internal/bin"

// AdvanceVariation is the parsed delta-set machinery shared, byte for
// byte, by 'HVAR' and 'VVAR' (spec.md §4.7 "HVAR/VVAR"; grounded on
// original_source's vvar.rs, which documents VVAR as reusing HVAR's
// table layout verbatim for the vertical axis). advanceMapping maps a
// glyph id to its advance-width delta-set index; sideBearingMapping maps
// it to the (left/top) side-bearing delta-set index. Without an advance
// mapping, the glyph id is used as the inner index directly into the
// store's first ItemVariationData group; without a side-bearing mapping,
// no side-bearing delta is reported.
type AdvanceVariation struct {
	store              *ItemVariationStore
	advanceMapping     DeltaSetIndexMap
	sideBearingMapping DeltaSetIndexMap
	hasAdvanceMapping  bool
	hasSBMapping       bool
}

// ParseAdvanceVariation parses an 'HVAR' or 'VVAR' table.
func ParseAdvanceVariation(b []byte) (AdvanceVariation, bool) {
	c := bin.NewCursor(b)
	if !c.Skip(4) { // majorVersion, minorVersion
		return AdvanceVariation{}, false
	}
	ivsOffset, ok := c.U32()
	if !ok {
		return AdvanceVariation{}, false
	}
	advMapOffset, ok := c.U32()
	if !ok {
		return AdvanceVariation{}, false
	}
	lsbMapOffset, ok := c.U32()
	if !ok {
		return AdvanceVariation{}, false
	}
	if !c.Skip(4) { // rsbMappingOffset: not consulted by this module's queries
		return AdvanceVariation{}, false
	}

	if int(ivsOffset) >= len(b) {
		return AdvanceVariation{}, false
	}
	store, ok := ParseItemVariationStore(b[ivsOffset:])
	if !ok {
		return AdvanceVariation{}, false
	}
	av := AdvanceVariation{store: store}
	if advMapOffset != 0 && int(advMapOffset) < len(b) {
		if m, ok := ParseDeltaSetIndexMap(b[advMapOffset:]); ok {
			av.advanceMapping, av.hasAdvanceMapping = m, true
		}
	}
	if lsbMapOffset != 0 && int(lsbMapOffset) < len(b) {
		if m, ok := ParseDeltaSetIndexMap(b[lsbMapOffset:]); ok {
			av.sideBearingMapping, av.hasSBMapping = m, true
		}
	}
	return av, true
}

// AdvanceDelta returns the signed, rounded advance-width (or height)
// delta for gid at the given normalized coordinates.
func (a AdvanceVariation) AdvanceDelta(gid uint16, coords []float32) (float32, bool) {
	var outer, inner uint16
	if a.hasAdvanceMapping {
		outer, inner = a.advanceMapping.Lookup(gid)
	} else {
		inner = gid
	}
	return a.store.Delta(outer, inner, coords)
}

// SideBearingDelta returns the signed side-bearing delta for gid, if a
// side-bearing delta-set mapping is present.
func (a AdvanceVariation) SideBearingDelta(gid uint16, coords []float32) (float32, bool) {
	if !a.hasSBMapping {
		return 0, false
	}
	outer, inner := a.sideBearingMapping.Lookup(gid)
	return a.store.Delta(outer, inner, coords)
}
