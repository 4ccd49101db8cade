package material

import (
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/shader"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor is an option builder that sets the albedo/diffuse RGBA color of the material.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithUnlit is an option builder that marks the material as unlit.
//
// Parameters:
//   - unlit: true to skip lighting
//
// Returns:
//   - MaterialBuilderOption: a function that applies the unlit option to a material
func WithUnlit(unlit bool) MaterialBuilderOption {
	return func(m *material) {
		m.unlit = unlit
	}
}

// WithDiffuseTexture is an option builder that sets the diffuse/albedo texture.
//
// Parameters:
//   - tex: the decoded texture
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse texture option to a material
func WithDiffuseTexture(tex *Texture) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseTexture = tex
	}
}

// WithShader is an option builder that sets an explicit shader, overriding the pipeline's.
//
// Parameters:
//   - s: the shader
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shader option to a material
func WithShader(s shader.Shader) MaterialBuilderOption {
	return func(m *material) {
		m.shader = s
	}
}

// WithPipeline is an option builder that sets the render pipeline.
//
// Parameters:
//   - p: the render pipeline
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline option to a material
func WithPipeline(p pipeline.Pipeline) MaterialBuilderOption {
	return func(m *material) {
		m.pipeline = p
	}
}
