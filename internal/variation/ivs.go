package variation

import "github.com/typeparse/sfnt/internal/bin"

// regionAxis is one axis's contribution to a variation region: a
// triple (start, peak, end) in normalized [-1, 1] space.
type regionAxis struct {
	start, peak, end float32
}

// region is one row of the Item Variation Store's variation region
// list: one regionAxis per axis the font declares.
type region struct {
	axes []regionAxis
}

// scalar computes the region's contribution at the given normalized,
// avar-remapped coordinates (spec.md §4.7 "region scalar"): the product
// over axes of a per-axis triangular falloff, zero outside [start,
// end], one at peak.
func (r region) scalar(coords []float32) float32 {
	s := float32(1)
	for i, a := range r.axes {
		if i >= len(coords) {
			break
		}
		v := coords[i]
		var f float32
		switch {
		case a.peak == 0:
			f = 1
		case v == a.peak:
			f = 1
		case v < a.start || v > a.end:
			f = 0
		case v < a.peak:
			if a.peak == a.start {
				f = 1
			} else {
				f = (v - a.start) / (a.peak - a.start)
			}
		default:
			if a.end == a.peak {
				f = 1
			} else {
				f = (a.end - v) / (a.end - a.peak)
			}
		}
		s *= f
		if s == 0 {
			return 0
		}
	}
	return s
}

// ItemVariationData is one delta-set group: a subset of the store's
// regions, and a row of per-region deltas for each item it covers.
type ItemVariationData struct {
	regionIndexes []uint16
	deltas        [][]int32 // deltas[item][column]
}

// ItemVariationStore is the generic delta-set store shared by
// HVAR/VVAR/MVAR and, in CFF2, the blend operator (spec.md §4.7 "Item
// Variation Store").
type ItemVariationStore struct {
	regions []region
	data    []ItemVariationData
}

// ParseItemVariationStore parses an Item Variation Store at the start
// of b (the format shared verbatim by HVAR, VVAR, MVAR and the CFF2
// table's embedded store).
func ParseItemVariationStore(b []byte) (*ItemVariationStore, bool) {
	c := bin.NewCursor(b)
	if !c.Skip(2) { // format, always 1
		return nil, false
	}
	regionListOffset, ok := c.U32()
	if !ok {
		return nil, false
	}
	itemDataCount, ok := c.U16()
	if !ok {
		return nil, false
	}
	dataOffsets := make([]uint32, itemDataCount)
	for i := range dataOffsets {
		v, ok := c.U32()
		if !ok {
			return nil, false
		}
		dataOffsets[i] = v
	}

	regions, ok := parseRegionList(b, int(regionListOffset))
	if !ok {
		return nil, false
	}

	store := &ItemVariationStore{regions: regions}
	store.data = make([]ItemVariationData, itemDataCount)
	for i, off := range dataOffsets {
		d, ok := parseItemVariationData(b, int(off), len(regions))
		if !ok {
			return nil, false
		}
		store.data[i] = d
	}
	return store, true
}

func parseRegionList(b []byte, offset int) ([]region, bool) {
	c := bin.NewCursor(b)
	if !c.SeekTo(offset) {
		return nil, false
	}
	axisCount, ok := c.U16()
	if !ok {
		return nil, false
	}
	regionCount, ok := c.U16()
	if !ok {
		return nil, false
	}
	regions := make([]region, regionCount)
	for i := range regions {
		axes := make([]regionAxis, axisCount)
		for a := range axes {
			start, ok1 := c.F2Dot14()
			peak, ok2 := c.F2Dot14()
			end, ok3 := c.F2Dot14()
			if !ok1 || !ok2 || !ok3 {
				return nil, false
			}
			axes[a] = regionAxis{start: start.Float32(), peak: peak.Float32(), end: end.Float32()}
		}
		regions[i] = region{axes: axes}
	}
	return regions, true
}

func parseItemVariationData(b []byte, offset, totalRegions int) (ItemVariationData, bool) {
	c := bin.NewCursor(b)
	if !c.SeekTo(offset) {
		return ItemVariationData{}, false
	}
	itemCount, ok := c.U16()
	if !ok {
		return ItemVariationData{}, false
	}
	shortDeltaCount, ok := c.U16()
	if !ok {
		return ItemVariationData{}, false
	}
	regionIndexCount, ok := c.U16()
	if !ok {
		return ItemVariationData{}, false
	}
	regionIndexes := make([]uint16, regionIndexCount)
	for i := range regionIndexes {
		v, ok := c.U16()
		if !ok || int(v) >= totalRegions {
			return ItemVariationData{}, false
		}
		regionIndexes[i] = v
	}
	deltas := make([][]int32, itemCount)
	for i := range deltas {
		row := make([]int32, regionIndexCount)
		for col := 0; col < int(regionIndexCount); col++ {
			if uint16(col) < shortDeltaCount {
				v, ok := c.I16()
				if !ok {
					return ItemVariationData{}, false
				}
				row[col] = int32(v)
			} else {
				v, ok := c.I8()
				if !ok {
					return ItemVariationData{}, false
				}
				row[col] = int32(v)
			}
		}
		deltas[i] = row
	}
	return ItemVariationData{regionIndexes: regionIndexes, deltas: deltas}, true
}

// Scalars computes one scalar per region for the given normalized,
// avar-applied coordinates; used directly by the CFF2 blend operator
// whose vsindex selects which data subset's region list applies.
func (s *ItemVariationStore) Scalars(coords []float32) []float32 {
	out := make([]float32, len(s.regions))
	for i, r := range s.regions {
		out[i] = r.scalar(coords)
	}
	return out
}

// Delta computes the accumulated delta for (outerIndex, innerIndex)
// under the given normalized coordinates (spec.md §4.7 "HVAR/VVAR/MVAR
// delta lookup").
func (s *ItemVariationStore) Delta(outerIndex, innerIndex uint16, coords []float32) (float32, bool) {
	if int(outerIndex) >= len(s.data) {
		return 0, false
	}
	d := s.data[outerIndex]
	if int(innerIndex) >= len(d.deltas) {
		return 0, false
	}
	row := d.deltas[innerIndex]
	var sum float32
	for col, regionIdx := range d.regionIndexes {
		if int(regionIdx) >= len(s.regions) {
			continue
		}
		scalar := s.regions[regionIdx].scalar(coords)
		if scalar == 0 {
			continue
		}
		sum += float32(row[col]) * scalar
	}
	return sum, true
}

// DeltaSetIndexMap resolves a glyph id (or other item) to an
// (outer, inner) delta-set index pair, per the optional
// DeltaSetIndexMap table used by HVAR/VVAR (spec.md §4.7). A font
// lacking the map uses glyph id directly as the inner index into
// ItemVariationData 0.
type DeltaSetIndexMap struct {
	entries []uint32 // packed (outer<<16)|inner, or nil when absent
}

// ParseDeltaSetIndexMap parses an optional DeltaSetIndexMap.
func ParseDeltaSetIndexMap(b []byte) (DeltaSetIndexMap, bool) {
	if len(b) == 0 {
		return DeltaSetIndexMap{}, true
	}
	c := bin.NewCursor(b)
	format, ok := c.U8()
	if !ok {
		return DeltaSetIndexMap{}, false
	}
	entryFormat, ok := c.U8()
	if !ok {
		return DeltaSetIndexMap{}, false
	}
	var mapCount int
	if format == 0 {
		v, ok := c.U16()
		if !ok {
			return DeltaSetIndexMap{}, false
		}
		mapCount = int(v)
	} else {
		v, ok := c.U32()
		if !ok {
			return DeltaSetIndexMap{}, false
		}
		mapCount = int(v)
	}
	entrySize := int((entryFormat>>4)&0x3) + 1
	innerBits := int(entryFormat&0xF) + 1

	entries := make([]uint32, mapCount)
	for i := range entries {
		raw, ok := readBE(&c, entrySize)
		if !ok {
			return DeltaSetIndexMap{}, false
		}
		inner := raw & ((1 << uint(innerBits)) - 1)
		outer := raw >> uint(innerBits)
		entries[i] = (outer << 16) | (inner & 0xFFFF)
	}
	return DeltaSetIndexMap{entries: entries}, true
}

func readBE(c *bin.Cursor, n int) (uint32, bool) {
	switch n {
	case 1:
		v, ok := c.U8()
		return uint32(v), ok
	case 2:
		v, ok := c.U16()
		return uint32(v), ok
	case 3:
		return c.U24()
	case 4:
		return c.U32()
	}
	return 0, false
}

// Lookup resolves glyphID to (outer, inner). Absent a map, glyphID maps
// directly to inner index 0's data group.
func (m DeltaSetIndexMap) Lookup(glyphID uint16) (outer, inner uint16) {
	if m.entries == nil {
		return 0, glyphID
	}
	idx := int(glyphID)
	if idx >= len(m.entries) {
		idx = len(m.entries) - 1
	}
	if idx < 0 {
		return 0, 0
	}
	v := m.entries[idx]
	return uint16(v >> 16), uint16(v & 0xFFFF)
}
