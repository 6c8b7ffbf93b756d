package sfnt

import (
	"github.com/typeparse/sfnt/internal/cff"
	"github.com/typeparse/sfnt/internal/cmap"
	"github.com/typeparse/sfnt/internal/glyf"
	"github.com/typeparse/sfnt/internal/tables"
	"github.com/typeparse/sfnt/internal/variation"
)

// Face is the query façade over a parsed SFNT font (spec.md §4.8). It
// borrows its source byte slice for its entire lifetime; every value it
// yields either is a primitive or aliases that same slice.
type Face struct {
	src       []byte
	head      tables.Head
	numGlyphs int
	cmap      cmap.Cmap

	loca []uint32 // TrueType outlines only
	glyf []byte
	cff  *cff.Font // CFF/CFF2 outlines only

	hhea    tables.Hhea
	hmtx    tables.Hmtx
	hasVhea bool
	vhea    tables.Hhea
	vmtx    *tables.Hmtx

	name    tables.Name
	hasOS2  bool
	os2     tables.OS2
	post    tables.Post
	hasKern bool
	kern    tables.Kern
	gdef    tables.Gdef
	hasVorg bool
	vorg    tables.Vorg
	hasSbix bool
	sbix    tables.Sbix
	hasSvg  bool
	svg     tables.Svg
	hasCBDT bool
	cbdt    tables.Bitmap
	hasEBDT bool
	ebdt    tables.Bitmap
	hasStat bool
	stat    tables.Stat

	hasFvar bool
	fvar    variation.Fvar
	avar    variation.Avar
	hasHVAR bool
	hvar    variation.AdvanceVariation
	hasVVAR bool
	vvar    variation.AdvanceVariation
	hasGvar bool
	gvar    variation.Gvar

	cffVarStore *variation.ItemVariationStore

	coords []float32 // normalized [-1,1], len == len(fvar.Axes)
}

func (f *Face) initVariation(dir directory) {
	if fvarBytes, ok := dir.table(f.src, "fvar"); ok {
		if fv, ok := variation.ParseFvar(fvarBytes); ok && len(fv.Axes) <= MaxVariationAxes {
			f.fvar, f.hasFvar = fv, true
			f.coords = make([]float32, len(fv.Axes))
			if avarBytes, ok := dir.table(f.src, "avar"); ok {
				if av, ok := variation.ParseAvar(avarBytes, len(fv.Axes)); ok {
					f.avar = av
				}
			}
		}
	}
	if hvarBytes, ok := dir.table(f.src, "HVAR"); ok {
		if hv, ok := variation.ParseAdvanceVariation(hvarBytes); ok {
			f.hvar, f.hasHVAR = hv, true
		}
	}
	if vvarBytes, ok := dir.table(f.src, "VVAR"); ok {
		if vv, ok := variation.ParseAdvanceVariation(vvarBytes); ok {
			f.vvar, f.hasVVAR = vv, true
		}
	}
	if f.glyf != nil && f.hasFvar {
		if gvarBytes, ok := dir.table(f.src, "gvar"); ok {
			if gv, ok := variation.ParseGvar(gvarBytes, len(f.fvar.Axes), f.numGlyphs); ok {
				f.gvar, f.hasGvar = gv, true
			}
		}
	}
	if f.cff != nil && f.cff.IsCFF2() {
		if cff2Bytes, ok := dir.table(f.src, "CFF2"); ok {
			off := f.cff.VarStoreOffset
			if off >= 0 && off < len(cff2Bytes) {
				if store, ok := variation.ParseItemVariationStore(cff2Bytes[off:]); ok {
					f.cffVarStore = store
				}
			}
		}
	}
}

// ---- Identity ----

// NumNames returns the number of 'name' table records.
func (f *Face) NumNames() int { return f.name.Len() }

// Name returns the decoded string of name record i.
func (f *Face) Name(i int) (string, bool) {
	r, ok := f.name.Record(i)
	if !ok {
		return "", false
	}
	return r.String(), true
}

// FamilyName returns the font's family name (name id 1, or the
// typographic family id 16 when present).
func (f *Face) FamilyName() (string, bool) {
	if r, ok := f.name.ByNameID(tables.NameIDTypographicFamily); ok {
		return r.String(), true
	}
	if r, ok := f.name.ByNameID(tables.NameIDFamily); ok {
		return r.String(), true
	}
	return "", false
}

// PostScriptName returns the font's PostScript name (name id 6).
func (f *Face) PostScriptName() (string, bool) {
	if r, ok := f.name.ByNameID(tables.NameIDPostScriptName); ok {
		return r.String(), true
	}
	return "", false
}

// IsRegular reports the OS/2 fsSelection REGULAR bit when present,
// falling back to head.macStyle's absence of bold/italic otherwise
// (spec.md §9's os2/head precedence rule, carried over from
// original_source's head.rs: fsSelection wins when OS/2 exists).
func (f *Face) IsRegular() bool {
	if f.hasOS2 {
		return f.os2.FsSelection&tables.FsSelectionRegular != 0
	}
	return !f.head.IsBold() && !f.head.IsItalic()
}

// IsBold reports whether the font is bold.
func (f *Face) IsBold() bool {
	if f.hasOS2 {
		return f.os2.FsSelection&tables.FsSelectionBold != 0
	}
	return f.head.IsBold()
}

// IsItalic reports whether the font is italic.
func (f *Face) IsItalic() bool {
	if f.hasOS2 {
		return f.os2.FsSelection&tables.FsSelectionItalic != 0
	}
	return f.head.IsItalic()
}

// IsOblique reports the OS/2 fsSelection OBLIQUE bit (version 4+ only;
// absent tables report false).
func (f *Face) IsOblique() bool {
	return f.hasOS2 && f.os2.Version >= 4 && f.os2.FsSelection&tables.FsSelectionOblique != 0
}

// IsMonospaced reports the 'post' table's isFixedPitch flag.
func (f *Face) IsMonospaced() bool { return f.post.IsFixedPitch }

// IsVariable reports whether the font carries an 'fvar' table.
func (f *Face) IsVariable() bool { return f.hasFvar }

// Weight returns the OS/2 usWeightClass (100-900), or 400 (regular) if
// OS/2 is absent.
func (f *Face) Weight() uint16 {
	if f.hasOS2 {
		return f.os2.WeightClass
	}
	return 400
}

// Width returns the OS/2 usWidthClass (1-9), or 5 (normal) if OS/2 is
// absent.
func (f *Face) Width() uint16 {
	if f.hasOS2 {
		return f.os2.WidthClass
	}
	return 5
}

// ---- Metrics ----

// UnitsPerEm returns the font's design grid resolution.
func (f *Face) UnitsPerEm() uint16 { return f.head.UnitsPerEm }

// Ascender returns the horizontal typographic ascender.
func (f *Face) Ascender() int16 { return f.hhea.Ascender }

// Descender returns the horizontal typographic descender.
func (f *Face) Descender() int16 { return f.hhea.Descender }

// LineGap returns the horizontal recommended line gap.
func (f *Face) LineGap() int16 { return f.hhea.LineGap }

// Height returns ascender - descender + lineGap.
func (f *Face) Height() int32 {
	return int32(f.hhea.Ascender) - int32(f.hhea.Descender) + int32(f.hhea.LineGap)
}

// VerticalAscender, VerticalDescender and VerticalLineGap report the
// 'vhea' table's equivalents, when present.
func (f *Face) VerticalAscender() (int16, bool) {
	if !f.hasVhea {
		return 0, false
	}
	return f.vhea.Ascender, true
}

func (f *Face) VerticalDescender() (int16, bool) {
	if !f.hasVhea {
		return 0, false
	}
	return f.vhea.Descender, true
}

func (f *Face) VerticalLineGap() (int16, bool) {
	if !f.hasVhea {
		return 0, false
	}
	return f.vhea.LineGap, true
}

// XHeight returns the OS/2 sxHeight (version >= 2 only).
func (f *Face) XHeight() (int16, bool) {
	if !f.hasOS2 || f.os2.Version < 2 {
		return 0, false
	}
	return f.os2.SxHeight, true
}

// CapitalHeight returns the OS/2 sCapHeight (version >= 2 only).
func (f *Face) CapitalHeight() (int16, bool) {
	if !f.hasOS2 || f.os2.Version < 2 {
		return 0, false
	}
	return f.os2.SCapHeight, true
}

// UnderlineMetrics returns the 'post' table's underline position and
// thickness.
func (f *Face) UnderlineMetrics() (position, thickness int16) {
	return f.post.UnderlinePosition, f.post.UnderlineThickness
}

// StrikeoutMetrics returns the OS/2 strikeout size and position.
func (f *Face) StrikeoutMetrics() (size, position int16, ok bool) {
	if !f.hasOS2 {
		return 0, 0, false
	}
	return f.os2.YStrikeoutSize, f.os2.YStrikeoutPosition, true
}

// SubscriptMetrics returns the OS/2 subscript size and offset fields.
func (f *Face) SubscriptMetrics() (xSize, ySize, xOffset, yOffset int16, ok bool) {
	if !f.hasOS2 {
		return 0, 0, 0, 0, false
	}
	return f.os2.YSubscriptXSize, f.os2.YSubscriptYSize, f.os2.YSubscriptXOffset, f.os2.YSubscriptYOffset, true
}

// SuperscriptMetrics returns the OS/2 superscript size and offset fields.
func (f *Face) SuperscriptMetrics() (xSize, ySize, xOffset, yOffset int16, ok bool) {
	if !f.hasOS2 {
		return 0, 0, 0, 0, false
	}
	return f.os2.YSuperscriptXSize, f.os2.YSuperscriptYSize, f.os2.YSuperscriptXOffset, f.os2.YSuperscriptYOffset, true
}

// ---- Glyph query ----

// NumberOfGlyphs returns the font's glyph count, from 'maxp'.
func (f *Face) NumberOfGlyphs() int { return f.numGlyphs }

// GlyphIndex maps a code point to a glyph id via the selected 'cmap'
// subtable.
func (f *Face) GlyphIndex(cp Rune) (GlyphID, bool) {
	if cp < 0 || cp > 0x10FFFF || (cp >= 0xD800 && cp <= 0xDFFF) {
		return 0, false
	}
	if !f.cmap.HasSelected {
		return 0, false
	}
	gid, ok := f.cmap.Selected.Lookup(uint32(cp))
	if !ok || int(gid) >= f.numGlyphs {
		return 0, false
	}
	return GlyphID(gid), true
}

// GlyphVariationIndex resolves a (base code point, variation selector)
// pair against the format-14 subtable, per spec.md §9's three-valued
// policy: VariationNone (no such sequence), VariationDefault (falls
// through to the normal cmap result), VariationExplicit(gid).
func (f *Face) GlyphVariationIndex(base, selector Rune) (GlyphID, cmap.VariationResult) {
	if !f.cmap.HasVariation {
		return 0, cmap.VariationNone
	}
	gid, result := f.cmap.Variation.Lookup(base, selector)
	return GlyphID(gid), result
}

// GlyphHorAdvance returns the glyph's horizontal advance width,
// including any active 'HVAR' variation delta.
func (f *Face) GlyphHorAdvance(gid GlyphID) (int32, bool) {
	adv, ok := f.hmtx.Advance(int(gid))
	if !ok {
		return 0, false
	}
	v := float32(adv)
	if f.hasHVAR {
		if d, ok := f.hvar.AdvanceDelta(uint16(gid), f.coords); ok {
			v += d
		}
	}
	return int32(v + sign(v)*0.5), true
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

// GlyphHorSideBearing returns the glyph's left side bearing, including
// any active 'HVAR' variation delta.
func (f *Face) GlyphHorSideBearing(gid GlyphID) (int32, bool) {
	sb, ok := f.hmtx.SideBearing(int(gid))
	if !ok {
		return 0, false
	}
	v := float32(sb)
	if f.hasHVAR {
		if d, ok := f.hvar.SideBearingDelta(uint16(gid), f.coords); ok {
			v += d
		}
	}
	return int32(v + sign(v)*0.5), true
}

// GlyphVerAdvance returns the glyph's vertical advance (height),
// including any active 'VVAR' variation delta. Fonts without 'vmtx'
// report "not found".
func (f *Face) GlyphVerAdvance(gid GlyphID) (int32, bool) {
	if f.vmtx == nil {
		return 0, false
	}
	adv, ok := f.vmtx.Advance(int(gid))
	if !ok {
		return 0, false
	}
	v := float32(adv)
	if f.hasVVAR {
		if d, ok := f.vvar.AdvanceDelta(uint16(gid), f.coords); ok {
			v += d
		}
	}
	return int32(v + sign(v)*0.5), true
}

// GlyphVerSideBearing returns the glyph's top side bearing, including
// any active 'VVAR' variation delta.
func (f *Face) GlyphVerSideBearing(gid GlyphID) (int32, bool) {
	if f.vmtx == nil {
		return 0, false
	}
	sb, ok := f.vmtx.SideBearing(int(gid))
	if !ok {
		return 0, false
	}
	v := float32(sb)
	if f.hasVVAR {
		if d, ok := f.vvar.SideBearingDelta(uint16(gid), f.coords); ok {
			v += d
		}
	}
	return int32(v + sign(v)*0.5), true
}

// GlyphYOrigin returns the glyph's vertical origin from 'VORG', falling
// back to unitsPerEm-derived conventions is out of scope: absent VORG
// reports "not found".
func (f *Face) GlyphYOrigin(gid GlyphID) (int16, bool) {
	if !f.hasVorg {
		return 0, false
	}
	return f.vorg.YOrigin(uint16(gid)), true
}

// GlyphsKerning returns the format-0 'kern' adjustment between two
// glyphs.
func (f *Face) GlyphsKerning(left, right GlyphID) (int16, bool) {
	if !f.hasKern {
		return 0, false
	}
	return f.kern.Lookup(uint16(left), uint16(right))
}

// GlyphName returns the PostScript name of gid, from a version-2 'post'
// table.
func (f *Face) GlyphName(gid GlyphID) (string, bool) {
	return f.post.GlyphName(int(gid))
}

// GlyphClass returns the GDEF glyph class (base/ligature/mark/
// component) of gid.
func (f *Face) GlyphClass(gid GlyphID) (uint16, bool) {
	if !f.gdef.HasGlyphClass {
		return 0, false
	}
	return f.gdef.GlyphClass.Lookup(uint16(gid)), true
}

// GlyphMarkAttachmentClass returns the GDEF mark-attachment class of
// gid.
func (f *Face) GlyphMarkAttachmentClass(gid GlyphID) (uint16, bool) {
	if !f.gdef.HasMarkAttach {
		return 0, false
	}
	return f.gdef.MarkAttachClass.Lookup(uint16(gid)), true
}

// IsMarkGlyph reports whether gid is classified as a combining mark.
func (f *Face) IsMarkGlyph(gid GlyphID) bool {
	class, ok := f.GlyphClass(gid)
	return ok && class == tables.GlyphClassMark
}

// GlyphBoundingBox returns gid's outline bounding box. It runs the full
// outline decode (the same path as OutlineGlyph) into a sink that drops
// every segment, and keeps only the box computed from the emitted points.
func (f *Face) GlyphBoundingBox(gid GlyphID) (BoundingBox, bool) {
	var discard discardSink
	return f.OutlineGlyph(gid, &discard)
}

type discardSink struct{}

func (discardSink) MoveTo(x, y float32)                          {}
func (discardSink) LineTo(x, y float32)                          {}
func (discardSink) QuadTo(x1, y1, x, y float32)                  {}
func (discardSink) CurveTo(x1, y1, x2, y2, x, y float32)         {}
func (discardSink) Close()                                       {}

// ---- Outline ----

// OutlineGlyph decodes gid's outline, emitting segment events to sink,
// and returns its bounding box. It dispatches to the quadratic (glyf)
// or cubic (CFF/CFF2) engine based on which outline table the font
// carries (spec.md §9 "Two outline engines share a sink").
func (f *Face) OutlineGlyph(gid GlyphID, sink Sink) (BoundingBox, bool) {
	if int(gid) >= f.numGlyphs {
		return BoundingBox{}, false
	}
	if f.cff != nil {
		return f.outlineCFF(gid, sink)
	}
	return f.outlineGlyf(gid, sink)
}

func (f *Face) outlineGlyf(gid GlyphID, sink Sink) (BoundingBox, bool) {
	if !f.hasGvar {
		box, ok := glyf.Outline(f.glyf, f.loca, uint16(gid), sink)
		return BoundingBox(box), ok
	}
	return f.outlineGlyfVaried(gid, sink)
}

// outlineGlyfVaried applies gvar tuple-variation point deltas before
// segment emission: it decodes the glyph's raw contour points (ahead of
// the implied-on-curve reconstruction glyf.Outline performs), adds gvar's
// per-point deltas (plus IUP-filled deltas for untouched points), and
// only then reconstructs and emits segments from the adjusted points
// (spec.md §4.7 "Deltas are added to decoded points before segment
// emission"). Composite glyphs (glyf.SimplePoints reports ok=false for
// those) fall back to the unvaried outline: gvar's per-point indexing
// for composites addresses component offsets and phantom points rather
// than raw contour points, which this module scopes out.
func (f *Face) outlineGlyfVaried(gid GlyphID, sink Sink) (BoundingBox, bool) {
	xs, ys, onCurve, endPts, ok := glyf.SimplePoints(f.glyf, f.loca, uint16(gid))
	if !ok {
		box, ok := glyf.Outline(f.glyf, f.loca, uint16(gid), sink)
		return BoundingBox(box), ok
	}
	if len(xs) == 0 {
		return BoundingBox{}, true
	}
	// Four phantom points (left/right/top/bottom origin + advance
	// anchors) are approximated as the glyph's own last point repeated;
	// gvar's phantom-point deltas (rare outside hinting-focused fonts)
	// are accepted but not separately tracked.
	for i := 0; i < 4; i++ {
		xs = append(xs, xs[len(xs)-1])
		ys = append(ys, ys[len(ys)-1])
	}
	deltas, ok := f.gvar.Apply(int(gid), f.coords, xs, ys, endPts)
	if !ok {
		box, ok := glyf.Outline(f.glyf, f.loca, uint16(gid), sink)
		return BoundingBox(box), ok
	}
	n := len(onCurve)
	for i := 0; i < n; i++ {
		xs[i] += deltas.DX[i]
		ys[i] += deltas.DY[i]
	}
	box := glyf.EmitPoints(xs[:n], ys[:n], onCurve, endPts, sink)
	return BoundingBox(box), true
}

func (f *Face) outlineCFF(gid GlyphID, sink Sink) (BoundingBox, bool) {
	var scalars []float32
	if f.cffVarStore != nil {
		scalars = f.cffVarStore.Scalars(f.coords)
	}
	box, ok := cff.Outline(f.cff, uint16(gid), &cffSinkAdapter{sink}, scalars)
	return BoundingBox(box), ok
}

// cffSinkAdapter narrows the root Sink (which also has QuadTo, for
// glyf) to the cff package's local Sink interface.
type cffSinkAdapter struct{ Sink }

var _ cff.Sink = cffSinkAdapter{}
var _ glyf.Sink = (Sink)(nil)

// ---- Raster ----

// RasterFormat identifies the encoding of a GlyphRasterImage result.
type RasterFormat int

const (
	RasterFormatNone RasterFormat = iota
	RasterFormatPNG
	RasterFormatJPEG
	RasterFormatTIFF
	RasterFormatSVG
	RasterFormatMask // CBDT/EBDT byte-aligned/packed bitmap formats
)

// GlyphRasterImage returns gid's embedded raster or vector image closest
// to ppem, preferring 'sbix', then 'SVG ', then CBDT/EBDT.
func (f *Face) GlyphRasterImage(gid GlyphID, ppem uint16) ([]byte, RasterFormat, bool) {
	if f.hasSbix {
		if idx, ok := f.sbix.BestStrike(ppem); ok {
			if g, ok := f.sbix.Glyph(idx, int(gid)); ok {
				return g.Data, rasterFormatForTag(g.GraphicType), true
			}
		}
	}
	if f.hasSvg {
		if doc, ok := f.svg.Lookup(uint16(gid)); ok {
			return doc.Data, RasterFormatSVG, true
		}
	}
	if f.hasCBDT {
		if idx, ok := f.cbdt.BestSize(uint8(ppem)); ok {
			if g, ok := f.cbdt.Glyph(idx, uint16(gid)); ok {
				if g.Format >= 17 && g.Format <= 19 {
					return g.Data, RasterFormatPNG, true
				}
				return g.Data, RasterFormatMask, true
			}
		}
	}
	if f.hasEBDT {
		if idx, ok := f.ebdt.BestSize(uint8(ppem)); ok {
			if g, ok := f.ebdt.Glyph(idx, uint16(gid)); ok {
				return g.Data, RasterFormatMask, true
			}
		}
	}
	return nil, RasterFormatNone, false
}

func rasterFormatForTag(tag Tag) RasterFormat {
	switch tag.String() {
	case "png ":
		return RasterFormatPNG
	case "jpg ":
		return RasterFormatJPEG
	case "tiff":
		return RasterFormatTIFF
	default:
		return RasterFormatMask
	}
}

// ---- Variation ----

// VariationAxisInfo describes one 'fvar' axis.
type VariationAxisInfo struct {
	Tag                Tag
	Min, Default, Max  float32
}

// VariationAxes returns the font's variation axes, if any.
func (f *Face) VariationAxes() []VariationAxisInfo {
	if !f.hasFvar {
		return nil
	}
	out := make([]VariationAxisInfo, len(f.fvar.Axes))
	for i, a := range f.fvar.Axes {
		out[i] = VariationAxisInfo{Tag: a.Tag, Min: a.Min, Default: a.Default, Max: a.Max}
	}
	return out
}

// SetVariation sets axisTag's user-space coordinate to value, clamping
// to the axis's [min, max] and normalizing through 'fvar' then 'avar'
// (spec.md §4.7). Reports false if the font has no such axis.
func (f *Face) SetVariation(axisTag Tag, value float32) bool {
	if !f.hasFvar {
		return false
	}
	idx := -1
	for i, a := range f.fvar.Axes {
		if a.Tag == axisTag {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	n := f.fvar.Normalize(idx, value)
	n = f.avar.Apply(idx, n)
	f.coords[idx] = clampCoord(n)
	return true
}

func clampCoord(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// VariationCoords returns the current normalized coordinate vector, one
// entry per 'fvar' axis in declaration order.
func (f *Face) VariationCoords() []float32 {
	out := make([]float32, len(f.coords))
	copy(out, f.coords)
	return out
}
