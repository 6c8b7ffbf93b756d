package sfnt

import "github.com/typeparse/sfnt/internal/bin"

// GlyphID is a 16-bit glyph identifier, valid in [0, Face.NumGlyphs()).
// Identifier 0 is the "missing glyph" (.notdef) sentinel; it is a valid
// result, not an error.
type GlyphID uint16

// Rune is a Unicode scalar value, restricted to the spec's legal code point
// range: [U+0000, U+10FFFF] minus the surrogate range [U+D800, U+DFFF].
type Rune = rune

// Tag is a four-byte ASCII table, script, feature or variation-axis tag,
// e.g. "glyf" or "wght".
type Tag = bin.Tag

// MakeTag builds a Tag from a (possibly shorter, space-padded) string, e.g.
// MakeTag("cmap") or MakeTag("wght").
func MakeTag(s string) Tag { return bin.MakeTag(s) }

// BoundingBox is an integer bounding rectangle in font units.
type BoundingBox struct {
	XMin, YMin, XMax, YMax int32
}

// Empty reports whether the box has no area (the default zero value, or a
// box returned for a blank glyph).
func (b BoundingBox) Empty() bool {
	return b.XMin >= b.XMax || b.YMin >= b.YMax
}

// Fixed capacities shared across the outline engines and the variation
// engine (spec.md §5 "Shared resource policy"). These bound every
// per-query scratch structure; none of them grow dynamically.
const (
	MaxCompositeDepth  = 32
	MaxSubrDepth       = 10
	MaxOperandStack    = 48
	MaxVariationAxes   = 32
	MaxEmittedSegments = 10000
)
