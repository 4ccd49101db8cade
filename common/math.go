package common

import (
	"github.com/chewxy/math32"
)

// Deg2Rad converts degrees to radians.
const Deg2Rad = math32.Pi / 180

// epsilon is the squared length below which a vector is treated as zero.
const epsilon = 1e-12

// WorldUp is the world-space up axis (+Y).
var WorldUp = [3]float32{0, 1, 0}

// WorldForward is the world-space forward axis (+Z), used as a secondary up guess
// when a view direction is parallel to WorldUp.
var WorldForward = [3]float32{0, 0, 1}

// Add3 returns a + b.
func Add3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub3 returns a - b.
func Sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale3 returns v scaled by s.
func Scale3(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}

// Dot3 returns the dot product of a and b.
func Dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross3 returns the cross product a × b.
func Cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Length3 returns the Euclidean length of v.
func Length3(v [3]float32) float32 {
	return math32.Sqrt(Dot3(v, v))
}

// Normalize3 returns v scaled to unit length.
// A zero (or near-zero) vector is returned as the zero vector rather than NaN,
// so callers can detect degeneracy with IsZero3.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - [3]float32: the unit vector, or the zero vector if v has no length
func Normalize3(v [3]float32) [3]float32 {
	lenSq := Dot3(v, v)
	if lenSq < epsilon {
		return [3]float32{}
	}
	inv := 1 / math32.Sqrt(lenSq)
	return [3]float32{v[0] * inv, v[1] * inv, v[2] * inv}
}

// IsZero3 reports whether v is (numerically) the zero vector.
func IsZero3(v [3]float32) bool {
	return Dot3(v, v) < epsilon
}

// Lerp3 linearly interpolates between a and b by t.
func Lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// QuatNormalize returns q (x, y, z, w) scaled to unit length.
// A zero quaternion normalizes to identity.
func QuatNormalize(q [4]float32) [4]float32 {
	lenSq := q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
	if lenSq < epsilon {
		return [4]float32{0, 0, 0, 1}
	}
	inv := 1 / math32.Sqrt(lenSq)
	return [4]float32{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

// QuatFromEuler builds a unit quaternion (x, y, z, w) from rotations in radians about
// X, Y and Z, applied in that order.
func QuatFromEuler(rx, ry, rz float32) [4]float32 {
	cx, sx := math32.Cos(rx/2), math32.Sin(rx/2)
	cy, sy := math32.Cos(ry/2), math32.Sin(ry/2)
	cz, sz := math32.Cos(rz/2), math32.Sin(rz/2)
	return [4]float32{
		sx*cy*cz - cx*sy*sz,
		cx*sy*cz + sx*cy*sz,
		cx*cy*sz - sx*sy*cz,
		cx*cy*cz + sx*sy*sz,
	}
}

// QuatSlerp spherically interpolates between unit quaternions a and b by t,
// taking the shortest arc. Falls back to normalized lerp for nearly parallel inputs.
//
// Parameters:
//   - a: start rotation (x, y, z, w)
//   - b: end rotation (x, y, z, w)
//   - t: interpolation factor in [0, 1]
//
// Returns:
//   - [4]float32: the interpolated unit quaternion
func QuatSlerp(a, b [4]float32, t float32) [4]float32 {
	cosTheta := a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
	if cosTheta < 0 {
		b = [4]float32{-b[0], -b[1], -b[2], -b[3]}
		cosTheta = -cosTheta
	}

	if cosTheta > 0.9995 {
		return QuatNormalize([4]float32{
			a[0] + (b[0]-a[0])*t,
			a[1] + (b[1]-a[1])*t,
			a[2] + (b[2]-a[2])*t,
			a[3] + (b[3]-a[3])*t,
		})
	}

	theta := math32.Acos(cosTheta)
	sinTheta := math32.Sin(theta)
	wa := math32.Sin((1-t)*theta) / sinTheta
	wb := math32.Sin(t*theta) / sinTheta
	return [4]float32{
		a[0]*wa + b[0]*wb,
		a[1]*wa + b[1]*wb,
		a[2]*wa + b[2]*wb,
		a[3]*wa + b[3]*wb,
	}
}

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 column-major matrices and stores out = a * b.
// out may alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective creates a perspective projection matrix with a finite far plane,
// mapping view-space depth into the WebGPU-style clip range [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1 / math32.Tan(fovY/2)
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1
	out[14] = (near * far) / (near - far)
	out[15] = 0
}

// Orthographic creates an orthographic projection matrix mapping the view volume
// [-halfWidth, halfWidth] x [-halfHeight, halfHeight] x [-near, -far] into clip space
// with depth in [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - halfWidth, halfHeight: half extents of the view volume (must be > 0)
//   - near, far: clipping plane distances along the view direction
func Orthographic(out []float32, halfWidth, halfHeight, near, far float32) {
	Identity(out)
	out[0] = 1 / halfWidth
	out[5] = 1 / halfHeight
	out[10] = 1 / (near - far)
	out[14] = near / (near - far)
}

// ComposeTRS builds a column-major model matrix from translation, a unit
// quaternion rotation (x, y, z, w) and scale: M = T * R * S.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - t: translation
//   - q: rotation quaternion (x, y, z, w)
//   - s: scale
func ComposeTRS(out []float32, t [3]float32, q [4]float32, s [3]float32) {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	out[0] = (1 - 2*(yy+zz)) * s[0]
	out[1] = (2 * (xy + wz)) * s[0]
	out[2] = (2 * (xz - wy)) * s[0]
	out[3] = 0

	out[4] = (2 * (xy - wz)) * s[1]
	out[5] = (1 - 2*(xx+zz)) * s[1]
	out[6] = (2 * (yz + wx)) * s[1]
	out[7] = 0

	out[8] = (2 * (xz + wy)) * s[2]
	out[9] = (2 * (yz - wx)) * s[2]
	out[10] = (1 - 2*(xx+yy)) * s[2]
	out[11] = 0

	out[12] = t[0]
	out[13] = t[1]
	out[14] = t[2]
	out[15] = 1
}

// TransformPoint multiplies the point p (w = 1) by the column-major matrix m
// and returns the resulting homogeneous coordinates.
func TransformPoint(m []float32, p [3]float32) [4]float32 {
	return [4]float32{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14],
		m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15],
	}
}

// TransformDirection multiplies the direction v (w = 0) by the upper 3x3 of m.
func TransformDirection(m []float32, v [3]float32) [3]float32 {
	return [3]float32{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2],
	}
}

// Invert4 computes the inverse of a 4x4 column-major matrix using cofactor expansion.
// If the matrix is singular the output is left unchanged and false is returned.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - bool: true if the matrix was inverted, false if singular
func Invert4(out, m []float32) bool {
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return false
	}
	inv := 1 / det

	var r [16]float32
	r[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * inv
	r[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * inv
	r[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * inv
	r[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * inv

	r[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * inv
	r[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * inv
	r[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * inv
	r[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * inv

	r[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * inv
	r[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * inv
	r[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * inv
	r[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * inv

	r[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * inv
	r[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * inv
	r[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * inv
	r[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * inv

	copy(out, r[:])
	return true
}

// LookAt creates a right-handed view matrix for a camera at eye looking at center.
// Degenerate inputs (eye == center, or up parallel to the view axis) fall back to
// unit-length guesses instead of producing NaNs.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector guess
func LookAt(out []float32, eye, center, up [3]float32) {
	z := Normalize3(Sub3(eye, center))
	if IsZero3(z) {
		z = [3]float32{0, 0, 1}
	}
	x := Normalize3(Cross3(up, z))
	if IsZero3(x) {
		x = Normalize3(Cross3(WorldForward, z))
		if IsZero3(x) {
			x = [3]float32{1, 0, 0}
		}
	}
	y := Cross3(z, x)

	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -Dot3(x, eye)
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -Dot3(y, eye)
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -Dot3(z, eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}
