package common

import (
	"github.com/chewxy/math32"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// EmptyAABB returns an inverted box that any Extend call will replace.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: [3]float32{inf, inf, inf},
		Max: [3]float32{-inf, -inf, -inf},
	}
}

// Empty reports whether the box contains no points.
func (b AABB) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend grows the box to include p.
func (b *AABB) Extend(p [3]float32) {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

// Union grows the box to include other.
func (b *AABB) Union(other AABB) {
	if other.Empty() {
		return
	}
	b.Extend(other.Min)
	b.Extend(other.Max)
}

// Center returns the midpoint of the box.
func (b AABB) Center() [3]float32 {
	return Scale3(Add3(b.Min, b.Max), 0.5)
}

// Radius returns the radius of the sphere that circumscribes the box.
func (b AABB) Radius() float32 {
	return Length3(Sub3(b.Max, b.Min)) * 0.5
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8][3]float32 {
	var c [8][3]float32
	for i := 0; i < 8; i++ {
		c[i] = [3]float32{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			c[i][0] = b.Max[0]
		}
		if i&2 != 0 {
			c[i][1] = b.Max[1]
		}
		if i&4 != 0 {
			c[i][2] = b.Max[2]
		}
	}
	return c
}

// Transform returns the box enclosing b after transformation by the column-major matrix m.
func (b AABB) Transform(m []float32) AABB {
	if b.Empty() {
		return b
	}
	out := EmptyAABB()
	for _, c := range b.Corners() {
		p := TransformPoint(m, c)
		out.Extend([3]float32{p[0], p[1], p[2]})
	}
	return out
}

// Plane represents ax + by + cz + d = 0 where (a, b, c) is the normal.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// Frustum holds the six inward-facing planes of a view volume.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustumFromMatrix extracts frustum planes from a column-major view-projection
// matrix using the Gribb/Hartmann method, for clip-space depth in [0, 1].
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: 16 float32 values representing projection * view (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(viewProj []float32) Frustum {
	row := func(i int) [4]float32 {
		return [4]float32{viewProj[i], viewProj[4+i], viewProj[8+i], viewProj[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	plane := func(a, b [4]float32, sign float32) Plane {
		return Plane{
			Normal:   [3]float32{a[0] + sign*b[0], a[1] + sign*b[1], a[2] + sign*b[2]},
			Distance: a[3] + sign*b[3],
		}
	}

	var f Frustum
	f.Planes[FrustumLeft] = plane(r3, r0, 1)
	f.Planes[FrustumRight] = plane(r3, r0, -1)
	f.Planes[FrustumBottom] = plane(r3, r1, 1)
	f.Planes[FrustumTop] = plane(r3, r1, -1)
	f.Planes[FrustumNear] = Plane{Normal: [3]float32{r2[0], r2[1], r2[2]}, Distance: r2[3]}
	f.Planes[FrustumFar] = plane(r3, r2, -1)

	for i := range f.Planes {
		p := &f.Planes[i]
		if l := Length3(p.Normal); l > 0 {
			p.Normal = Scale3(p.Normal, 1/l)
			p.Distance /= l
		}
	}
	return f
}

// IntersectsAABB reports whether any part of the box lies inside the frustum.
// Uses the positive-vertex test; boxes straddling a plane count as visible.
//
// Parameters:
//   - b: the world-space box to test
//
// Returns:
//   - bool: false only if the box is entirely outside one plane
func (f Frustum) IntersectsAABB(b AABB) bool {
	if b.Empty() {
		return false
	}
	for _, p := range f.Planes {
		var v [3]float32
		for i := 0; i < 3; i++ {
			if p.Normal[i] >= 0 {
				v[i] = b.Max[i]
			} else {
				v[i] = b.Min[i]
			}
		}
		if Dot3(p.Normal, v)+p.Distance < 0 {
			return false
		}
	}
	return true
}
