package variation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFvarNormalizeDefaultRule(t *testing.T) {
	f := Fvar{Axes: []Axis{{Min: 100, Default: 400, Max: 900}}}
	assert.Equal(t, float32(0), f.Normalize(0, 400))
	assert.Equal(t, float32(-1), f.Normalize(0, 100))
	assert.Equal(t, float32(1), f.Normalize(0, 900))
	assert.InDelta(t, -0.5, f.Normalize(0, 250), 0.001)
	assert.InDelta(t, 0.5, f.Normalize(0, 650), 0.001)
	// Out-of-range values clamp before normalizing.
	assert.Equal(t, float32(-1), f.Normalize(0, 0))
	assert.Equal(t, float32(1), f.Normalize(0, 1000))
}

func TestAvarIdentityWithoutPairs(t *testing.T) {
	a := Avar{Maps: []avarSegmentMap{{}}}
	assert.Equal(t, float32(0.3), a.Apply(0, 0.3))
}

func TestAvarInterpolatesBetweenPairs(t *testing.T) {
	a := Avar{Maps: []avarSegmentMap{{pairs: []avarPair{
		{from: -1, to: -1},
		{from: 0, to: 0.2},
		{from: 1, to: 1},
	}}}}
	assert.Equal(t, float32(0.2), a.Apply(0, 0))
	assert.InDelta(t, -0.4, a.Apply(0, -0.5), 0.001)
	assert.InDelta(t, 0.6, a.Apply(0, 0.5), 0.001)
}

func TestRegionScalarTriangularFalloff(t *testing.T) {
	r := region{axes: []regionAxis{{start: 0, peak: 1, end: 1}}}
	assert.Equal(t, float32(0), r.scalar([]float32{0}))
	assert.Equal(t, float32(1), r.scalar([]float32{1}))
	assert.InDelta(t, 0.5, r.scalar([]float32{0.5}), 0.001)
	assert.Equal(t, float32(0), r.scalar([]float32{-0.5}))
}

func TestDeltaSetIndexMapLookupWithoutMap(t *testing.T) {
	m := DeltaSetIndexMap{}
	outer, inner := m.Lookup(42)
	assert.Equal(t, uint16(0), outer)
	assert.Equal(t, uint16(42), inner)
}

func TestDeltaSetIndexMapLookupClampsOutOfRange(t *testing.T) {
	m := DeltaSetIndexMap{entries: []uint32{(1 << 16) | 5, (2 << 16) | 7}}
	outer, inner := m.Lookup(0)
	assert.Equal(t, uint16(1), outer)
	assert.Equal(t, uint16(5), inner)
	outer2, inner2 := m.Lookup(99)
	assert.Equal(t, uint16(2), outer2)
	assert.Equal(t, uint16(7), inner2)
}

func TestItemVariationStoreDelta(t *testing.T) {
	store := &ItemVariationStore{
		regions: []region{{axes: []regionAxis{{start: 0, peak: 1, end: 1}}}},
		data: []ItemVariationData{{
			regionIndexes: []uint16{0},
			deltas:        [][]int32{{100}},
		}},
	}
	d, ok := store.Delta(0, 0, []float32{1})
	require.True(t, ok)
	assert.Equal(t, float32(100), d)

	d2, ok2 := store.Delta(0, 0, []float32{0.5})
	require.True(t, ok2)
	assert.InDelta(t, 50, d2, 0.001)

	_, ok3 := store.Delta(5, 0, []float32{1})
	assert.False(t, ok3)
}

func TestInferUnreferencedPointsLinear(t *testing.T) {
	// 4-point square contour: points 0 and 2 carry explicit deltas,
	// points 1 and 3 are inferred from them per axis. Each of their
	// coordinates coincides with one referenced point's, so each axis
	// takes that point's delta.
	baseX := []float32{0, 10, 10, 0}
	baseY := []float32{0, 0, 10, 10}
	dx := make([]float32, 4)
	dy := make([]float32, 4)
	have := []bool{true, false, true, false}
	dx[0], dy[0] = 2, 2
	dx[2], dy[2] = 4, 4
	inferUnreferencedPoints(dx, dy, have, baseX, baseY, []int{3})
	assert.InDelta(t, 4, dx[1], 0.01)
	assert.InDelta(t, 2, dy[1], 0.01)
	assert.InDelta(t, 2, dx[3], 0.01)
	assert.InDelta(t, 4, dy[3], 0.01)
}

func TestInferUnreferencedPointsSingleAnchorShifts(t *testing.T) {
	baseX := []float32{0, 10, 20}
	baseY := []float32{0, 0, 0}
	dx := make([]float32, 3)
	dy := make([]float32, 3)
	have := []bool{false, true, false}
	dx[1], dy[1] = 5, -5
	inferUnreferencedPoints(dx, dy, have, baseX, baseY, []int{2})
	assert.Equal(t, float32(5), dx[0])
	assert.Equal(t, float32(-5), dy[0])
	assert.Equal(t, float32(5), dx[2])
	assert.Equal(t, float32(-5), dy[2])
}

func TestInferUnreferencedPointsNoneReferencedStaysZero(t *testing.T) {
	baseX := []float32{0, 10}
	baseY := []float32{0, 0}
	dx := make([]float32, 2)
	dy := make([]float32, 2)
	have := []bool{false, false}
	inferUnreferencedPoints(dx, dy, have, baseX, baseY, []int{1})
	assert.Equal(t, float32(0), dx[0])
	assert.Equal(t, float32(0), dx[1])
}
