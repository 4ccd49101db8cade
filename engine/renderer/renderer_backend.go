package renderer

import (
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/shader"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeSoftware selects the CPU rasterizer.
	BackendTypeSoftware RendererBackendType = iota
)

// DrawCall is one mesh submitted to a backend.
type DrawCall struct {
	// Vertices are in model space; Indices form a triangle list.
	Vertices []model.Vertex
	Indices  []uint32

	// World is the column-major model matrix.
	World [16]float32
	// ViewProj is the column-major camera view-projection matrix.
	ViewProj [16]float32

	Material material.Material
	// Pipeline supplies the raster state (depth, cull, blend, write mask).
	Pipeline pipeline.Pipeline
	Lighting *shader.Lighting
}

// RendererBackend rasterizes draw calls into a render target.
type RendererBackend interface {
	// Type returns the backend type.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	Type() RendererBackendType

	// Draw rasterizes calls into target in submission order.
	//
	// Parameters:
	//   - target: the destination color and depth buffers
	//   - calls: the draw calls
	//
	// Returns:
	//   - error: an error if the target was released or a raster worker failed
	Draw(target *RenderTarget, calls []DrawCall) error

	// Close releases backend workers.
	Close()
}
