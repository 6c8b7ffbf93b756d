package sfnt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeparse/sfnt/internal/tables"
	"github.com/typeparse/sfnt/internal/variation"
)

func u16be(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func i16be(v int16) []byte  { return u16be(uint16(v)) }

func buildHmtx(advance uint16, lsb int16) []byte {
	return append(u16be(advance), i16be(lsb)...)
}

func TestGlyphHorAdvanceWithoutVariation(t *testing.T) {
	f := &Face{
		numGlyphs: 1,
		hmtx:      tables.NewHmtx(buildHmtx(500, 10), 1),
	}
	adv, ok := f.GlyphHorAdvance(0)
	require.True(t, ok)
	assert.EqualValues(t, 500, adv)
	sb, ok := f.GlyphHorSideBearing(0)
	require.True(t, ok)
	assert.EqualValues(t, 10, sb)
}

func TestGlyphVerAdvanceAbsentWithoutVmtx(t *testing.T) {
	f := &Face{numGlyphs: 1}
	_, ok := f.GlyphVerAdvance(0)
	assert.False(t, ok)
}

func TestSetVariationRejectsUnknownAxis(t *testing.T) {
	f := &Face{
		hasFvar: true,
		fvar:    variation.Fvar{Axes: []variation.Axis{{Tag: MakeTag("wght"), Min: 100, Default: 400, Max: 900}}},
		coords:  make([]float32, 1),
	}
	assert.False(t, f.SetVariation(MakeTag("wdth"), 100))
}

func TestSetVariationNormalizesAndClamps(t *testing.T) {
	f := &Face{
		hasFvar: true,
		fvar:    variation.Fvar{Axes: []variation.Axis{{Tag: MakeTag("wght"), Min: 100, Default: 400, Max: 900}}},
		coords:  make([]float32, 1),
	}
	require.True(t, f.SetVariation(MakeTag("wght"), 900))
	assert.Equal(t, float32(1), f.VariationCoords()[0])

	require.True(t, f.SetVariation(MakeTag("wght"), 100))
	assert.Equal(t, float32(-1), f.VariationCoords()[0])
}

func TestSetVariationWithoutFvarFails(t *testing.T) {
	f := &Face{}
	assert.False(t, f.SetVariation(MakeTag("wght"), 400))
}

func TestVariationAxesReflectsFvar(t *testing.T) {
	f := &Face{
		hasFvar: true,
		fvar: variation.Fvar{Axes: []variation.Axis{
			{Tag: MakeTag("wght"), Min: 100, Default: 400, Max: 900},
		}},
	}
	axes := f.VariationAxes()
	require.Len(t, axes, 1)
	assert.Equal(t, MakeTag("wght"), axes[0].Tag)
	assert.Equal(t, float32(400), axes[0].Default)
}

func TestIsVariableReflectsFvarPresence(t *testing.T) {
	assert.False(t, (&Face{}).IsVariable())
	assert.True(t, (&Face{hasFvar: true}).IsVariable())
}

// buildTriangleGlyph mirrors internal/glyf's own triangle fixture, kept
// independent here since internal/glyf's helpers are unexported.
func buildTriangleGlyph() []byte {
	var b []byte
	b = append(b, i16be(1)...)
	b = append(b, i16be(0)...)
	b = append(b, i16be(0)...)
	b = append(b, i16be(10)...)
	b = append(b, i16be(10)...)
	b = append(b, u16be(2)...)
	b = append(b, u16be(0)...)
	b = append(b, []byte{0x37, 0x37, 0x27}...)
	b = append(b, 0x00, 0x0A, 0x05)
	b = append(b, 0x00, 0x00, 0x0A)
	return b
}

func TestGlyphBoundingBoxStaticGlyf(t *testing.T) {
	glyfData := buildTriangleGlyph()
	f := &Face{
		numGlyphs: 1,
		glyf:      glyfData,
		loca:      []uint32{0, uint32(len(glyfData))},
	}
	box, ok := f.GlyphBoundingBox(0)
	require.True(t, ok)
	assert.Equal(t, BoundingBox{0, 0, 10, 10}, box)
}

func TestOutlineGlyphRejectsOutOfRangeGID(t *testing.T) {
	f := &Face{numGlyphs: 1}
	_, ok := f.OutlineGlyph(5, discardSink{})
	assert.False(t, ok)
}
