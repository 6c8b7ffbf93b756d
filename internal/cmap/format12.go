package cmap

import (
	"sort"

	"github.com/typeparse/sfnt/internal/bin"
)

// Format12 is the segmented-coverage subtable: groups of (startCharCode,
// endCharCode, startGlyphID) covering arbitrary, possibly sparse, ranges
// of the full Unicode repertoire (spec.md §4.4 format 12). Groups are
// kept as a raw 12-byte-record array; Lookup binary-searches it.
type Format12 struct {
	groups []byte // 12*numGroups bytes
}

// ParseFormat12 parses a format-12 subtable body (b starts after the
// 2-byte reserved field and length/language fields have been skipped by
// the caller down to numGroups).
func ParseFormat12(b []byte) (Format12, bool) {
	c := bin.NewCursor(b)
	numGroups, ok := c.U32()
	if !ok || numGroups > 1_000_000 {
		return Format12{}, false
	}
	groups, ok := c.Bytes(int(numGroups) * 12)
	if !ok {
		return Format12{}, false
	}
	return Format12{groups: groups}, true
}

func (f Format12) numGroups() int { return len(f.groups) / 12 }

func (f Format12) group(i int) (start, end, startGID uint32) {
	g := f.groups[i*12:]
	return bin.U32(g), bin.U32(g[4:]), bin.U32(g[8:])
}

// Lookup implements Table.
func (f Format12) Lookup(cp uint32) (uint16, bool) {
	n := f.numGroups()
	i := sort.Search(n, func(i int) bool {
		_, end, _ := f.group(i)
		return end >= cp
	})
	if i == n {
		return 0, false
	}
	start, end, startGID := f.group(i)
	if cp < start || cp > end {
		return 0, false
	}
	gid := startGID + (cp - start)
	if gid > 0xFFFF {
		return 0, false
	}
	return uint16(gid), true
}

// Each implements Table.
func (f Format12) Each(yield func(cp uint32, gid uint16) bool) {
	for i := 0; i < f.numGroups(); i++ {
		start, end, startGID := f.group(i)
		for cp := start; cp <= end; cp++ {
			gid := startGID + (cp - start)
			if gid > 0xFFFF {
				continue
			}
			if !yield(cp, uint16(gid)) {
				return
			}
			if cp == 0xFFFFFFFF { // guard against overflow at the code space edge
				return
			}
		}
	}
}
