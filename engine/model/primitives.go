package model

import (
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
)

// cubeFaces lists each face as its outward normal plus the tangent (u) and bitangent (v) axes.
// u x v == normal, so the emitted quads wind counter-clockwise seen from outside.
var cubeFaces = [6][3][3]float32{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// NewCube creates an axis-aligned cube centered on the origin with one material.
//
// Parameters:
//   - size: the edge length
//   - options: additional options applied after the cube geometry
//
// Returns:
//   - Model: the cube model
func NewCube(size float32, options ...ModelBuilderOption) Model {
	h := size / 2
	mesh := Mesh{Name: "cube", NodeIndex: -1}

	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, face := range cubeFaces {
		n, u, v := face[0], face[1], face[2]
		base := uint32(len(mesh.Vertices))
		for _, c := range corners {
			var pos [3]float32
			for i := range 3 {
				pos[i] = (n[i] + u[i]*c[0] + v[i]*c[1]) * h
			}
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: pos,
				Normal:   n,
				TexCoord: [2]float32{(c[0] + 1) / 2, (1 - c[1]) / 2},
				Color:    [4]float32{1, 1, 1, 1},
			})
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	mesh.ComputeBounds()

	opts := []ModelBuilderOption{
		WithName("cube"),
		WithMeshes(mesh),
		WithRenderMaterials(material.NewMaterial(
			material.WithName("cube"),
			material.WithBaseColor([4]float32{0.8, 0.8, 0.8, 1}),
		)),
	}
	return NewModel(append(opts, options...)...)
}
