package material

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/shader"
	"github.com/gogpu/gg"
)

// CombinerMaterialName is the registry name of the material that carries the compositor shader.
const CombinerMaterialName = "CombinerMaterial"

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	name           string
	baseColor      [4]float32
	unlit          bool
	diffuseTexture *Texture
	shader         shader.Shader
	pipeline       pipeline.Pipeline
}

// Material defines the interface for a render material, encapsulating surface
// properties, the diffuse texture and the pipeline used to draw with it.
//
// Surface properties are set at load time and are read-only through this interface.
// The pipeline is mutable so the renderer can assign its default pipeline to materials
// that were loaded without one.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the albedo/diffuse RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// Unlit reports whether the material skips lighting.
	//
	// Returns:
	//   - bool: true for unlit materials
	Unlit() bool

	// DiffuseTexture retrieves the diffuse/albedo texture, or nil if none is set.
	//
	// Returns:
	//   - *Texture: the diffuse texture, or nil
	DiffuseTexture() *Texture

	// Albedo evaluates base color times the diffuse texel at uv.
	//
	// Parameters:
	//   - u, v: texture coordinates
	//
	// Returns:
	//   - gg.RGBA: the surface albedo
	Albedo(u, v float32) gg.RGBA

	// Shader retrieves the shader of the material. An explicit shader wins over the
	// pipeline's fragment shader; unlit materials without either fall back to shader.Unlit
	// and lit ones to shader.Lambert.
	//
	// Returns:
	//   - shader.Shader: the resolved shader
	Shader() shader.Shader

	// Pipeline retrieves the render pipeline this material draws with, or nil.
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline
	Pipeline() pipeline.Pipeline

	// SetPipeline sets the render pipeline for this material.
	//
	// Parameters:
	//   - p: the pipeline to associate with this material
	SetPipeline(p pipeline.Pipeline)
}

var _ Material = &material{}

var (
	defaultLambert = shader.Lambert()
	defaultUnlit   = shader.Unlit()
)

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:        &sync.Mutex{},
		baseColor: [4]float32{1, 1, 1, 1},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// NewCombinerMaterial creates the material that carries the compositor shader.
//
// Returns:
//   - Material: the combiner material
func NewCombinerMaterial() Material {
	return NewMaterial(WithName(CombinerMaterialName), WithShader(shader.Combiner()), WithUnlit(true))
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) Unlit() bool {
	return m.unlit
}

func (m *material) DiffuseTexture() *Texture {
	return m.diffuseTexture
}

func (m *material) Albedo(u, v float32) gg.RGBA {
	c := gg.RGBA{
		R: float64(m.baseColor[0]),
		G: float64(m.baseColor[1]),
		B: float64(m.baseColor[2]),
		A: float64(m.baseColor[3]),
	}
	if m.diffuseTexture == nil {
		return c
	}
	texel := m.diffuseTexture.Sample(u, v)
	return gg.RGBA{R: c.R * texel.R, G: c.G * texel.G, B: c.B * texel.B, A: c.A * texel.A}
}

func (m *material) Shader() shader.Shader {
	if m.shader != nil {
		return m.shader
	}
	if p := m.Pipeline(); p != nil && p.FragmentShader() != nil {
		return p.FragmentShader()
	}
	if m.unlit {
		return defaultUnlit
	}
	return defaultLambert
}

func (m *material) Pipeline() pipeline.Pipeline {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pipeline
}

func (m *material) SetPipeline(p pipeline.Pipeline) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipeline = p
}
