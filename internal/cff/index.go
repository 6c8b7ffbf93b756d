// Package cff implements the cubic outline engine of layer L3b (spec.md
// §4.6): the Compact Font Format's INDEX/DICT structures and a Type 2
// charstring stack-machine interpreter, shared (with the CFF2 variant
// enabled) by the variable-font blend path of layer L4.
package cff

import "github.com/typeparse/sfnt/internal/bin"

// index is a parsed CFF INDEX: a count, an off-by-one offset array (the
// CFF wire format's own off-by-one, not this module's), and the
// concatenated object data (spec.md §4.6 "a per-font index structure").
type index struct {
	data    []byte
	offsets []uint32
}

// parseIndex reads one INDEX structure at the cursor's current position
// and advances past it. wideCount selects the CFF2 32-bit count field
// instead of CFF1's 16-bit one.
func parseIndex(c *bin.Cursor, wideCount bool) (index, bool) {
	var count uint32
	if wideCount {
		v, ok := c.U32()
		if !ok {
			return index{}, false
		}
		count = v
	} else {
		v, ok := c.U16()
		if !ok {
			return index{}, false
		}
		count = uint32(v)
	}
	if count == 0 {
		return index{}, true
	}
	offSize, ok := c.U8()
	if !ok || offSize < 1 || offSize > 4 {
		return index{}, false
	}
	offsets := make([]uint32, count+1)
	for i := range offsets {
		v, ok := readOffset(c, int(offSize))
		if !ok {
			return index{}, false
		}
		offsets[i] = v
	}
	if offsets[0] != 1 {
		return index{}, false
	}
	dataLen := int(offsets[count]) - 1
	if dataLen < 0 {
		return index{}, false
	}
	data, ok := c.Bytes(dataLen)
	if !ok {
		return index{}, false
	}
	return index{data: data, offsets: offsets}, true
}

func readOffset(c *bin.Cursor, n int) (uint32, bool) {
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

// Len returns the number of objects in the INDEX.
func (idx index) Len() int {
	if len(idx.offsets) == 0 {
		return 0
	}
	return len(idx.offsets) - 1
}

// Get returns the raw bytes of object i.
func (idx index) Get(i int) ([]byte, bool) {
	if i < 0 || i >= idx.Len() {
		return nil, false
	}
	start := idx.offsets[i] - 1
	end := idx.offsets[i+1] - 1
	if end < start || int(end) > len(idx.data) {
		return nil, false
	}
	return idx.data[start:end], true
}
