package cff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeparse/sfnt/internal/bin"
)

type recordingSink struct {
	moves  [][2]float32
	lines  [][2]float32
	curves [][6]float32
	closes int
}

func (r *recordingSink) MoveTo(x, y float32) { r.moves = append(r.moves, [2]float32{x, y}) }
func (r *recordingSink) LineTo(x, y float32) { r.lines = append(r.lines, [2]float32{x, y}) }
func (r *recordingSink) CurveTo(x1, y1, x2, y2, x, y float32) {
	r.curves = append(r.curves, [6]float32{x1, y1, x2, y2, x, y})
}
func (r *recordingSink) Close() { r.closes++ }

func fontWithCharstring(cs []byte) *Font {
	b := buildIndex([][]byte{cs})
	c := bin.NewCursor(b)
	idx, ok := parseIndex(&c, false)
	if !ok {
		panic("bad fixture")
	}
	return &Font{charStrings: idx}
}

// op32 encodes a Type2 operand in [-107,107] as a single byte (32-246 range).
func op32(v int) byte { return byte(v + 139) }

func TestOutlineRmovetoRlinetoEndchar(t *testing.T) {
	cs := []byte{op32(100), op32(100), 21, op32(50), op32(0), 5, 14}
	f := fontWithCharstring(cs)
	sink := &recordingSink{}
	box, ok := Outline(f, 0, sink, nil)
	require.True(t, ok)
	require.Len(t, sink.moves, 1)
	assert.Equal(t, [2]float32{100, 100}, sink.moves[0])
	require.Len(t, sink.lines, 1)
	assert.Equal(t, [2]float32{150, 100}, sink.lines[0])
	assert.Equal(t, int32(100), box.XMin)
	assert.Equal(t, int32(150), box.XMax)
}

func TestOutlineRRCurveTo(t *testing.T) {
	// rmoveto (0,0) then rrcurveto with one curve (10 0 10 10 0 10), endchar.
	cs := []byte{op32(0), op32(0), 21,
		op32(10), op32(0), op32(10), op32(10), op32(0), op32(10), 8,
		14}
	f := fontWithCharstring(cs)
	sink := &recordingSink{}
	_, ok := Outline(f, 0, sink, nil)
	require.True(t, ok)
	require.Len(t, sink.curves, 1)
	assert.Equal(t, [6]float32{10, 0, 20, 10, 20, 20}, sink.curves[0])
}

func TestOutlineHintmaskSkipsStemBytes(t *testing.T) {
	// 4 stems via hstemhm (8 operands), hintmask consumes ceil(4/8)=1 byte,
	// then rmoveto/endchar.
	cs := []byte{
		op32(0), op32(10), op32(0), op32(10), op32(0), op32(10), op32(0), op32(10), 18,
		19, 0xFF, // hintmask + mask byte
		op32(5), op32(5), 21,
		14,
	}
	f := fontWithCharstring(cs)
	sink := &recordingSink{}
	_, ok := Outline(f, 0, sink, nil)
	require.True(t, ok)
	require.Len(t, sink.moves, 1)
	assert.Equal(t, [2]float32{5, 5}, sink.moves[0])
}

func TestOutlineHintmaskNineStemsSpansTwoMaskBytes(t *testing.T) {
	// 9 stems via hstemhm (18 operands, no width operand: an even count),
	// so hintmask must consume ceil(9/8)=2 mask bytes, not 1. Before the
	// odd-parity fix, any nonzero stack was mistaken for a leading width,
	// desyncing nStems and the mask-byte count for stem counts that cross
	// a byte boundary.
	var cs []byte
	for i := 0; i < 18; i++ {
		cs = append(cs, op32(0))
	}
	cs = append(cs, 18)        // hstemhm
	cs = append(cs, 19, 0xFF, 0xFF) // hintmask + 2 mask bytes
	cs = append(cs, op32(5), op32(5), 21) // rmoveto
	cs = append(cs, 14)        // endchar
	f := fontWithCharstring(cs)
	sink := &recordingSink{}
	_, ok := Outline(f, 0, sink, nil)
	require.True(t, ok)
	require.Len(t, sink.moves, 1)
	assert.Equal(t, [2]float32{5, 5}, sink.moves[0])
}

func TestOutlineCallsubrWithBias(t *testing.T) {
	// One local subr: "rlineto 10 0" body, called via callsubr with index 0
	// (biased by 107 for <1240 entries, so the operand pushed is -107).
	sub := []byte{op32(10), op32(0), 5, 11} // 10 0 rlineto; return
	subIdx := buildIndex([][]byte{sub})
	sc := bin.NewCursor(subIdx)
	localSubrs, ok := parseIndex(&sc, false)
	require.True(t, ok)

	cs := []byte{op32(0), op32(0), 21, op32(-107), 10, 14} // moveto; callsubr; endchar
	f := fontWithCharstring(cs)
	f.privates = []privateInfo{{localSubrs: localSubrs}}

	sink := &recordingSink{}
	_, ok = Outline(f, 0, sink, nil)
	require.True(t, ok)
	require.Len(t, sink.lines, 1)
	assert.Equal(t, [2]float32{10, 0}, sink.lines[0])
}

func TestBlendComputesWeightedSum(t *testing.T) {
	ip := &interp{scalars: []float32{0.5, 0.25}}
	// default value 100, region deltas 10 and 20; n=1.
	ip.stack[0] = 100
	ip.stack[1] = 10
	ip.stack[2] = 20
	ip.stack[3] = 1 // n
	ip.sp = 4
	require.True(t, ip.blend())
	require.Equal(t, 1, ip.sp)
	assert.InDelta(t, 100+10*0.5+20*0.25, ip.stack[0], 0.001)
}

func TestBiasThresholds(t *testing.T) {
	assert.Equal(t, 107, bias(0))
	assert.Equal(t, 107, bias(1239))
	assert.Equal(t, 1131, bias(1240))
	assert.Equal(t, 1131, bias(33899))
	assert.Equal(t, 32768, bias(33900))
}

func TestDecodeNumberRanges(t *testing.T) {
	v, n, ok := decodeNumber([]byte{op32(0)})
	require.True(t, ok)
	assert.Equal(t, 1, n)
	assert.Equal(t, float32(0), v)

	v2, n2, ok2 := decodeNumber([]byte{255, 0, 0, 1, 0})
	require.True(t, ok2)
	assert.Equal(t, 5, n2)
	assert.InDelta(t, float32(1)/256, v2, 0.0001)
}
