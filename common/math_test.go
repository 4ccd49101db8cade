package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize3ZeroVector(t *testing.T) {
	v := Normalize3([3]float32{})
	assert.True(t, IsZero3(v))
	assert.False(t, math32.IsNaN(v[0]))
}

func TestCross3RightHanded(t *testing.T) {
	x := [3]float32{1, 0, 0}
	y := [3]float32{0, 1, 0}
	assert.Equal(t, [3]float32{0, 0, 1}, Cross3(x, y))
}

func TestQuatSlerpEndpoints(t *testing.T) {
	a := [4]float32{0, 0, 0, 1}
	half := math32.Sqrt(0.5)
	b := [4]float32{0, half, 0, half} // 90 degrees around Y

	assert.InDeltaSlice(t, a[:], sliceOf(QuatSlerp(a, b, 0)), 1e-6)
	assert.InDeltaSlice(t, b[:], sliceOf(QuatSlerp(a, b, 1)), 1e-6)

	mid := QuatSlerp(a, b, 0.5)
	s := math32.Sin(math32.Pi / 8)
	c := math32.Cos(math32.Pi / 8)
	assert.InDeltaSlice(t, []float32{0, s, 0, c}, sliceOf(mid), 1e-5)
}

func TestComposeTRSAndInvert(t *testing.T) {
	half := math32.Sqrt(0.5)
	var m, inv, id [16]float32
	ComposeTRS(m[:], [3]float32{1, 2, 3}, [4]float32{0, half, 0, half}, [3]float32{2, 2, 2})

	p := TransformPoint(m[:], [3]float32{1, 0, 0})
	// 90 degrees around Y maps +X to -Z, scaled by 2, then translated.
	assert.InDeltaSlice(t, []float32{1, 2, 1, 1}, p[:], 1e-5)

	require.True(t, Invert4(inv[:], m[:]))
	Mul4(id[:], m[:], inv[:])
	var want [16]float32
	Identity(want[:])
	assert.InDeltaSlice(t, want[:], id[:], 1e-5)
}

func TestOrthographicDepthRange(t *testing.T) {
	var m [16]float32
	Orthographic(m[:], 2, 1, 0.5, 10)

	near := TransformPoint(m[:], [3]float32{0, 0, -0.5})
	far := TransformPoint(m[:], [3]float32{0, 0, -10})
	edge := TransformPoint(m[:], [3]float32{2, 1, -1})

	assert.InDelta(t, 0, near[2], 1e-6)
	assert.InDelta(t, 1, far[2], 1e-6)
	assert.InDelta(t, 1, edge[0], 1e-6)
	assert.InDelta(t, 1, edge[1], 1e-6)
}

func TestPerspectiveDepthRange(t *testing.T) {
	var m [16]float32
	Perspective(m[:], math32.Pi/2, 1, 1, 100)

	near := TransformPoint(m[:], [3]float32{0, 0, -1})
	far := TransformPoint(m[:], [3]float32{0, 0, -100})

	assert.InDelta(t, 0, near[2]/near[3], 1e-5)
	assert.InDelta(t, 1, far[2]/far[3], 1e-4)
}

func TestLookAtDegenerateUp(t *testing.T) {
	var m [16]float32
	LookAt(m[:], [3]float32{0, 5, 0}, [3]float32{}, WorldUp)
	for _, v := range m {
		assert.False(t, math32.IsNaN(v))
	}
	p := TransformPoint(m[:], [3]float32{})
	assert.InDelta(t, -5, p[2], 1e-5)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(0, 1, 4096))
	assert.Equal(t, 4096, Clamp(5000, 1, 4096))
	assert.Equal(t, 64, Clamp(64, 1, 4096))
	assert.Equal(t, "b", Coalesce("", "b", "c"))
}

func TestModifierHas(t *testing.T) {
	m := ModControl | ModShift
	assert.True(t, m.Has(ModControl))
	assert.True(t, m.Has(ModShift))
	assert.False(t, ModControl.Has(ModShift))
	assert.False(t, m.Has(ModNone))
}

func sliceOf(q [4]float32) []float32 {
	return q[:]
}
