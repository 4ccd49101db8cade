package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrustumIntersectsAABB(t *testing.T) {
	var view, proj, vp [16]float32
	LookAt(view[:], [3]float32{0, 0, 5}, [3]float32{}, WorldUp)
	Orthographic(proj[:], 1, 1, 0.1, 10)
	Mul4(vp[:], proj[:], view[:])
	f := ExtractFrustumFromMatrix(vp[:])

	inside := AABB{Min: [3]float32{-0.5, -0.5, -0.5}, Max: [3]float32{0.5, 0.5, 0.5}}
	straddling := AABB{Min: [3]float32{0.9, 0, 0}, Max: [3]float32{1.5, 0.2, 0.2}}
	outside := AABB{Min: [3]float32{3, 3, 0}, Max: [3]float32{4, 4, 1}}
	behind := AABB{Min: [3]float32{0, 0, 6}, Max: [3]float32{0.5, 0.5, 7}}

	assert.True(t, f.IntersectsAABB(inside))
	assert.True(t, f.IntersectsAABB(straddling))
	assert.False(t, f.IntersectsAABB(outside))
	assert.False(t, f.IntersectsAABB(behind))
	assert.False(t, f.IntersectsAABB(EmptyAABB()))
}

func TestAABBExtendAndTransform(t *testing.T) {
	b := EmptyAABB()
	assert.True(t, b.Empty())
	b.Extend([3]float32{-1, 0, 2})
	b.Extend([3]float32{1, 2, 4})
	assert.False(t, b.Empty())
	assert.Equal(t, [3]float32{0, 1, 3}, b.Center())

	var m [16]float32
	ComposeTRS(m[:], [3]float32{10, 0, 0}, [4]float32{0, 0, 0, 1}, [3]float32{1, 1, 1})
	moved := b.Transform(m[:])
	assert.Equal(t, [3]float32{9, 0, 2}, moved.Min)
	assert.Equal(t, [3]float32{11, 2, 4}, moved.Max)
}
