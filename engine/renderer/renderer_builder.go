package renderer

import (
	"github.com/Carmen-Shannon/oxy-preview/engine/light"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/pipeline"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPipeline pre-registers a single Pipeline in the renderer's pipeline cache under the given key.
// Registering under DefaultPipelineKey replaces the default raster state.
//
// Parameters:
//   - key: the unique identifier for the pipeline
//   - p: the Pipeline to cache
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline option to a renderer
func WithPipeline(key string, p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pipelineCache[key] = p
	}
}

// WithWorkers sets the number of raster band workers. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - RendererBuilderOption: a function that applies the workers option to a renderer
func WithWorkers(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.workers = max(n, 1)
	}
}

// WithDefaultLights replaces the light rig used when a scene has no lights on the camera's
// culling mask.
//
// Parameters:
//   - lights: the fallback lights
//
// Returns:
//   - RendererBuilderOption: a function that applies the default lights option to a renderer
func WithDefaultLights(lights ...light.Light) RendererBuilderOption {
	return func(r *renderer) {
		r.defaultLights = lights
	}
}
