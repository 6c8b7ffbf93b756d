package cmap

import (
	"sort"

	"github.com/typeparse/sfnt/internal/bin"
)

// Format13 is the many-to-one range mapping subtable: every code point in
// a group maps to the SAME glyph id, used by color/last-resort fonts to
// map huge Unicode ranges to one fallback glyph (spec.md §4.4 format 13).
// Its wire layout mirrors format 12's group array exactly except for that
// one semantic difference, so it is parsed identically.
type Format13 struct {
	groups []byte // 12*numGroups bytes
}

// ParseFormat13 parses a format-13 subtable body, laid out like format 12
// from numGroups onward.
func ParseFormat13(b []byte) (Format13, bool) {
	f12, ok := ParseFormat12(b)
	return Format13(f12), ok
}

func (f Format13) numGroups() int { return len(f.groups) / 12 }

func (f Format13) group(i int) (start, end, gid uint32) {
	g := f.groups[i*12:]
	return bin.U32(g), bin.U32(g[4:]), bin.U32(g[8:])
}

// Lookup implements Table.
func (f Format13) Lookup(cp uint32) (uint16, bool) {
	n := f.numGroups()
	i := sort.Search(n, func(i int) bool {
		_, end, _ := f.group(i)
		return end >= cp
	})
	if i == n {
		return 0, false
	}
	start, end, gid := f.group(i)
	if cp < start || cp > end || gid > 0xFFFF {
		return 0, false
	}
	return uint16(gid), true
}

// Each implements Table.
func (f Format13) Each(yield func(cp uint32, gid uint16) bool) {
	for i := 0; i < f.numGroups(); i++ {
		start, end, gid := f.group(i)
		if gid > 0xFFFF {
			continue
		}
		for cp := start; cp <= end; cp++ {
			if !yield(cp, uint16(gid)) {
				return
			}
			if cp == 0xFFFFFFFF {
				return
			}
		}
	}
}
