package renderer

import (
	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/shader"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gg"
)

// clipVertex is a vertex in clip space with the attributes interpolated across a triangle.
type clipVertex struct {
	pos    [4]float32
	world  [3]float32
	normal [3]float32
	uv     [2]float32
	color  [4]float32
}

// rasterVertex is a vertex after the perspective divide and viewport transform.
type rasterVertex struct {
	x, y, z float32
	invW    float32
	world   [3]float32
	normal  [3]float32
	uv      [2]float32
	color   [4]float32
}

// rasterTriangle is a screen-space triangle ready for scan conversion.
type rasterTriangle struct {
	v        [3]rasterVertex
	state    int
	backFace bool
	area     float32 // twice the signed screen area

	minX, maxX, minY, maxY int
}

// drawState is the per-call raster state resolved once before the band workers start.
type drawState struct {
	fragment shader.FragmentFunc
	material material.Material
	lighting *shader.Lighting

	depthTest, depthWrite, blend bool
	bias                         float32
	cullMode                     wgpu.CullMode
	frontFace                    wgpu.FrontFace
	writeMask                    wgpu.ColorWriteMask
}

var fallbackFragment, _ = shader.Lambert().Fragment()

// resolveState reads the raster state and fragment program for a draw call.
func resolveState(call *DrawCall) drawState {
	st := drawState{
		material:   call.Material,
		lighting:   call.Lighting,
		depthTest:  true,
		depthWrite: true,
		cullMode:   wgpu.CullModeNone,
		frontFace:  wgpu.FrontFaceCCW,
		writeMask:  wgpu.ColorWriteMaskAll,
	}
	if p := call.Pipeline; p != nil {
		st.depthTest = p.DepthTestEnabled()
		st.depthWrite = p.DepthWriteEnabled()
		st.blend = p.BlendEnabled()
		st.bias = p.DepthBias()
		st.cullMode = p.CullMode()
		st.frontFace = p.FrontFace()
		st.writeMask = p.WriteMask()
	}
	if st.material == nil {
		st.material = material.NewMaterial()
	}
	if st.lighting == nil {
		st.lighting = &shader.Lighting{}
	}
	if fn, ok := st.material.Shader().Fragment(); ok {
		st.fragment = fn
	} else {
		st.fragment = fallbackFragment
	}
	return st
}

// setupTriangles runs the vertex stage for every call: model and clip transforms, near/far
// clipping, the viewport transform and face culling. Triangles keep submission order.
func setupTriangles(calls []DrawCall, width, height int) ([]drawState, []rasterTriangle) {
	states := make([]drawState, len(calls))
	var tris []rasterTriangle

	for ci := range calls {
		call := &calls[ci]
		states[ci] = resolveState(call)
		st := &states[ci]

		world := call.World[:]
		var normalMat [16]float32
		if !common.Invert4(normalMat[:], world) {
			copy(normalMat[:], world)
			transpose4(&normalMat)
		}

		verts := make([]clipVertex, len(call.Vertices))
		for i := range call.Vertices {
			v := &call.Vertices[i]
			wp := common.TransformPoint(world, v.Position)
			w3 := [3]float32{wp[0], wp[1], wp[2]}
			verts[i] = clipVertex{
				pos:    common.TransformPoint(call.ViewProj[:], w3),
				world:  w3,
				normal: common.Normalize3(transformNormal(&normalMat, v.Normal)),
				uv:     v.TexCoord,
				color:  vertexColor(v.Color),
			}
		}

		n := uint32(len(verts))
		for t := 0; t+2 < len(call.Indices); t += 3 {
			i0, i1, i2 := call.Indices[t], call.Indices[t+1], call.Indices[t+2]
			if i0 >= n || i1 >= n || i2 >= n {
				continue
			}
			poly := clipPolygon([]clipVertex{verts[i0], verts[i1], verts[i2]})
			for k := 1; k+1 < len(poly); k++ {
				tri, ok := project(poly[0], poly[k], poly[k+1], width, height)
				if !ok {
					continue
				}
				front := tri.area < 0 // counter-clockwise in NDC; screen y points down
				if st.frontFace == wgpu.FrontFaceCW {
					front = !front
				}
				if (st.cullMode == wgpu.CullModeBack && !front) || (st.cullMode == wgpu.CullModeFront && front) {
					continue
				}
				tri.state = ci
				tri.backFace = !front
				tris = append(tris, tri)
			}
		}
	}
	return states, tris
}

// clipPolygon clips against the near (z >= 0) and far (z <= w) planes.
func clipPolygon(poly []clipVertex) []clipVertex {
	poly = clipAgainst(poly, func(v *clipVertex) float32 { return v.pos[2] })
	return clipAgainst(poly, func(v *clipVertex) float32 { return v.pos[3] - v.pos[2] })
}

func clipAgainst(poly []clipVertex, dist func(*clipVertex) float32) []clipVertex {
	if len(poly) == 0 {
		return poly
	}
	out := make([]clipVertex, 0, len(poly)+1)
	for i := range poly {
		a, b := &poly[i], &poly[(i+1)%len(poly)]
		da, db := dist(a), dist(b)
		if da >= 0 {
			out = append(out, *a)
		}
		if (da >= 0) != (db >= 0) {
			out = append(out, lerpClip(a, b, da/(da-db)))
		}
	}
	return out
}

func lerpClip(a, b *clipVertex, t float32) clipVertex {
	var v clipVertex
	for i := range 4 {
		v.pos[i] = a.pos[i] + (b.pos[i]-a.pos[i])*t
		v.color[i] = a.color[i] + (b.color[i]-a.color[i])*t
	}
	v.world = common.Lerp3(a.world, b.world, t)
	v.normal = common.Lerp3(a.normal, b.normal, t)
	v.uv = [2]float32{a.uv[0] + (b.uv[0]-a.uv[0])*t, a.uv[1] + (b.uv[1]-a.uv[1])*t}
	return v
}

// project applies the perspective divide and viewport transform and computes the clipped
// bounding box. Degenerate and off-screen triangles are rejected.
func project(a, b, c clipVertex, width, height int) (rasterTriangle, bool) {
	var tri rasterTriangle
	for i, cv := range [3]*clipVertex{&a, &b, &c} {
		w := cv.pos[3]
		if w <= 1e-6 {
			return tri, false
		}
		inv := 1 / w
		tri.v[i] = rasterVertex{
			x:      (cv.pos[0]*inv + 1) * 0.5 * float32(width),
			y:      (1 - cv.pos[1]*inv) * 0.5 * float32(height),
			z:      cv.pos[2] * inv,
			invW:   inv,
			world:  cv.world,
			normal: cv.normal,
			uv:     cv.uv,
			color:  cv.color,
		}
	}
	v0, v1, v2 := &tri.v[0], &tri.v[1], &tri.v[2]
	tri.area = edge(v0, v1, v2.x, v2.y)
	if tri.area == 0 || math32.IsNaN(tri.area) {
		return tri, false
	}

	tri.minX = max(int(math32.Floor(min(v0.x, v1.x, v2.x))), 0)
	tri.maxX = min(int(math32.Ceil(max(v0.x, v1.x, v2.x))), width-1)
	tri.minY = max(int(math32.Floor(min(v0.y, v1.y, v2.y))), 0)
	tri.maxY = min(int(math32.Ceil(max(v0.y, v1.y, v2.y))), height-1)
	return tri, tri.minX <= tri.maxX && tri.minY <= tri.maxY
}

// edge is the signed parallelogram area of (a, b, p).
func edge(a, b *rasterVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// rasterizeBand scan-converts every triangle overlapping rows [y0, y1). Bands own disjoint
// rows, so concurrent bands never touch the same pixel.
func rasterizeBand(target *RenderTarget, states []drawState, tris []rasterTriangle, y0, y1 int) {
	data := target.color.Data()
	width := target.width

	for ti := range tris {
		tri := &tris[ti]
		if tri.maxY < y0 || tri.minY >= y1 {
			continue
		}
		st := &states[tri.state]
		v0, v1, v2 := &tri.v[0], &tri.v[1], &tri.v[2]
		invArea := 1 / tri.area

		for y := max(tri.minY, y0); y <= min(tri.maxY, y1-1); y++ {
			py := float32(y) + 0.5
			for x := tri.minX; x <= tri.maxX; x++ {
				px := float32(x) + 0.5
				b0 := edge(v1, v2, px, py) * invArea
				b1 := edge(v2, v0, px, py) * invArea
				b2 := edge(v0, v1, px, py) * invArea
				if b0 < 0 || b1 < 0 || b2 < 0 {
					continue
				}

				z := b0*v0.z + b1*v1.z + b2*v2.z + st.bias
				if z < 0 || z > 1 {
					continue
				}
				idx := y*width + x
				if st.depthTest && !target.testDepth(idx, z) {
					continue
				}

				shadePixel(data[idx*4:idx*4+4], st, tri, b0, b1, b2)
				if st.depthWrite {
					target.depth[idx] = z
				}
			}
		}
	}
}

// shadePixel interpolates the fragment with perspective correction, runs the fragment
// program and writes the result through the blend and write-mask state.
func shadePixel(px []uint8, st *drawState, tri *rasterTriangle, b0, b1, b2 float32) {
	v0, v1, v2 := &tri.v[0], &tri.v[1], &tri.v[2]
	p0, p1, p2 := b0*v0.invW, b1*v1.invW, b2*v2.invW
	s := p0 + p1 + p2
	if s == 0 {
		return
	}
	p0, p1, p2 = p0/s, p1/s, p2/s

	var frag shader.Fragment
	var col [4]float32
	for i := range 3 {
		frag.Position[i] = p0*v0.world[i] + p1*v1.world[i] + p2*v2.world[i]
		frag.Normal[i] = p0*v0.normal[i] + p1*v1.normal[i] + p2*v2.normal[i]
	}
	for i := range 4 {
		col[i] = p0*v0.color[i] + p1*v1.color[i] + p2*v2.color[i]
	}
	frag.UV = [2]float32{
		p0*v0.uv[0] + p1*v1.uv[0] + p2*v2.uv[0],
		p0*v0.uv[1] + p1*v1.uv[1] + p2*v2.uv[1],
	}
	frag.Normal = common.Normalize3(frag.Normal)
	if tri.backFace {
		frag.Normal = common.Scale3(frag.Normal, -1)
	}

	albedo := st.material.Albedo(frag.UV[0], frag.UV[1])
	frag.Albedo = gg.RGBA{
		R: albedo.R * float64(col[0]),
		G: albedo.G * float64(col[1]),
		B: albedo.B * float64(col[2]),
		A: albedo.A * float64(col[3]),
	}
	out := st.fragment(&frag, st.lighting)

	if st.blend {
		a := common.Clamp(out.A, 0, 1)
		dst := gg.RGBA{
			R: float64(px[0]) / 255,
			G: float64(px[1]) / 255,
			B: float64(px[2]) / 255,
			A: float64(px[3]) / 255,
		}
		out = gg.RGBA{
			R: out.R*a + dst.R*(1-a),
			G: out.G*a + dst.G*(1-a),
			B: out.B*a + dst.B*(1-a),
			A: a + dst.A*(1-a),
		}
	}

	mask := st.writeMask
	if mask&wgpu.ColorWriteMaskRed != 0 {
		px[0] = toByte(out.R)
	}
	if mask&wgpu.ColorWriteMaskGreen != 0 {
		px[1] = toByte(out.G)
	}
	if mask&wgpu.ColorWriteMaskBlue != 0 {
		px[2] = toByte(out.B)
	}
	if mask&wgpu.ColorWriteMaskAlpha != 0 {
		px[3] = toByte(out.A)
	}
}

// toByte quantizes a unit channel the same way gg.Pixmap.SetPixel does.
func toByte(v float64) uint8 {
	return uint8(common.Clamp(v*255, 0, 255))
}

func transformNormal(m *[16]float32, n [3]float32) [3]float32 {
	// inverse-transpose: row i of the inverse
	return [3]float32{
		m[0]*n[0] + m[1]*n[1] + m[2]*n[2],
		m[4]*n[0] + m[5]*n[1] + m[6]*n[2],
		m[8]*n[0] + m[9]*n[1] + m[10]*n[2],
	}
}

func transpose4(m *[16]float32) {
	for r := range 4 {
		for c := r + 1; c < 4; c++ {
			m[r*4+c], m[c*4+r] = m[c*4+r], m[r*4+c]
		}
	}
}

// vertexColor treats an unset (all-zero) vertex color as white.
func vertexColor(c [4]float32) [4]float32 {
	if c == ([4]float32{}) {
		return [4]float32{1, 1, 1, 1}
	}
	return c
}
