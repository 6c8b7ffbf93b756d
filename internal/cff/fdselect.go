package cff

import "github.com/typeparse/sfnt/internal/bin"

// fdSelect maps a glyph id to a Font DICT index, for CID-keyed and
// variable (CFF2) fonts whose Private DICT (and therefore local subrs,
// nominal/default widths) vary per glyph (spec.md §4.6 "FDSelect").
type fdSelect struct {
	byGID   []byte     // format 0: one FD index per glyph
	ranges  []fdRange  // format 3: sorted (first glyph, fd) with a sentinel
	present bool
}

type fdRange struct {
	first uint16
	fd    uint8
}

// parseFDSelect parses an FDSelect table in format 0 or 3; any other
// format, including CFF2's format 4, is rejected.
func parseFDSelect(b []byte, numGlyphs int) (fdSelect, bool) {
	c := bin.NewCursor(b)
	format, ok := c.U8()
	if !ok {
		return fdSelect{}, false
	}
	switch format {
	case 0:
		ids, ok := c.Bytes(numGlyphs)
		if !ok {
			return fdSelect{}, false
		}
		return fdSelect{byGID: ids, present: true}, true
	case 3:
		nRanges, ok := c.U16()
		if !ok {
			return fdSelect{}, false
		}
		ranges := make([]fdRange, 0, nRanges)
		for i := 0; i < int(nRanges); i++ {
			first, ok1 := c.U16()
			fd, ok2 := c.U8()
			if !ok1 || !ok2 {
				return fdSelect{}, false
			}
			ranges = append(ranges, fdRange{first: first, fd: fd})
		}
		sentinel, ok := c.U16()
		if !ok {
			return fdSelect{}, false
		}
		_ = sentinel
		return fdSelect{ranges: ranges, present: true}, true
	default:
		return fdSelect{}, false
	}
}

// FD returns the Font DICT index for gid.
func (fs fdSelect) FD(gid uint16) int {
	if !fs.present {
		return 0
	}
	if fs.byGID != nil {
		if int(gid) >= len(fs.byGID) {
			return 0
		}
		return int(fs.byGID[gid])
	}
	lo, hi := 0, len(fs.ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		if fs.ranges[mid].first <= gid {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return 0
	}
	return int(fs.ranges[lo-1].fd)
}
