package renderer

import (
	"fmt"
	"maps"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/light"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-preview/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultPipelineKey is the render pipeline used for materials without one of their own.
const DefaultPipelineKey = "default_render"

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline
	defaultLights []light.Light

	backendType RendererBackendType
	backend     RendererBackend
	workers     int
}

// Renderer defines the interface for the rendering system.
//
// The Renderer draws the objects of a scene visible to a camera into an off-screen
// RenderTarget, then runs the camera's post-process pipeline on the result. It manages a
// cache of render pipelines supplying raster state to materials that have none.
type Renderer interface {
	// Type returns the backend type.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	Type() RendererBackendType

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines returns a copy of the pipeline cache.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines caches one or more pipelines by PipelineKey. Keys that are already
	// registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if a pipeline is nil or has an empty key
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// SetPipeline adds or updates a Pipeline in the cache with the given key.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline
	//   - p: the Pipeline to add or update in the cache
	SetPipeline(key string, p pipeline.Pipeline)

	// Render clears the target to the camera background, draws every renderable object of
	// the scene on the camera's culling mask, then runs the camera's post-process pipeline.
	// Scenes without lights on the culling mask are lit by the default light rig.
	//
	// Parameters:
	//   - cam: the camera; its matrices must be up to date
	//   - sc: the scene to draw
	//   - target: the destination buffers
	//
	// Returns:
	//   - error: an error if the target was released, a raster worker failed or a post-process stage failed
	Render(cam camera.Camera, sc scene.Scene, target *RenderTarget) error

	// Draw submits raw draw calls to the backend without clearing the target.
	//
	// Parameters:
	//   - target: the destination buffers
	//   - calls: the draw calls
	//
	// Returns:
	//   - error: an error if the backend fails
	Draw(target *RenderTarget, calls []DrawCall) error

	// Close releases backend workers.
	Close()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend type.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		defaultLights: light.PreviewRig(camera.EverythingMask),
		backendType:   backendType,
		workers:       max(runtime.NumCPU()-1, 1),
	}

	for _, opt := range options {
		opt(r)
	}

	if _, ok := r.pipelineCache[DefaultPipelineKey]; !ok {
		r.pipelineCache[DefaultPipelineKey] = pipeline.NewPipeline(DefaultPipelineKey, pipeline.PipelineTypeRender,
			pipeline.WithCullMode(wgpu.CullModeBack),
		)
	}

	switch backendType {
	case BackendTypeSoftware:
		fallthrough
	default:
		r.backend = newSoftwareRendererBackend(r.workers)
	}
	return r
}

func (r *renderer) Type() RendererBackendType {
	return r.backend.Type()
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.pipelineCache)
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		if p == nil || p.PipelineKey() == "" {
			return fmt.Errorf("cannot register pipeline without a key")
		}
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) SetPipeline(key string, p pipeline.Pipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipelineCache[key] = p
}

func (r *renderer) Render(cam camera.Camera, sc scene.Scene, target *RenderTarget) error {
	if target == nil || target.Released() {
		return ErrTargetReleased
	}
	target.Clear(cam.BackgroundColor())

	mask := cam.CullingMask()
	if err := sc.PrepareAnimators(mask); err != nil {
		return fmt.Errorf("prepare animators: %w", err)
	}

	lighting := light.Gather(sc.Lights(), mask)
	if lightingEmpty(lighting) {
		lighting = light.Gather(r.defaultLights, camera.EverythingMask)
	}

	viewProj := cam.ViewProjectionMatrix()
	frustum := common.ExtractFrustumFromMatrix(viewProj[:])
	var calls []DrawCall
	for _, obj := range sc.Renderables(mask) {
		if b := obj.WorldBounds(); !b.Empty() && !frustum.IntersectsAABB(b) {
			continue
		}
		mdl := obj.Model()
		world := obj.WorldMatrix()
		anim, posed := obj.Animator()
		posed = posed && anim.Model() == mdl

		for i, mesh := range mdl.Meshes() {
			verts := mesh.Vertices
			if posed {
				verts = anim.DeformMesh(i)
			}
			mat := mdl.MaterialFor(i)
			calls = append(calls, DrawCall{
				Vertices: verts,
				Indices:  mesh.Indices,
				World:    world,
				ViewProj: viewProj,
				Material: mat,
				Pipeline: r.pipelineFor(mat),
				Lighting: lighting,
			})
		}
	}

	if err := r.backend.Draw(target, calls); err != nil {
		return fmt.Errorf("color pass: %w", err)
	}

	if post, ok := cam.Pipeline(); ok {
		if err := post.Run(target.Color()); err != nil {
			return fmt.Errorf("camera post-process: %w", err)
		}
	}
	return nil
}

func (r *renderer) Draw(target *RenderTarget, calls []DrawCall) error {
	return r.backend.Draw(target, calls)
}

func (r *renderer) Close() {
	r.backend.Close()
}

// pipelineFor picks the material's own render pipeline, else the cached default.
func (r *renderer) pipelineFor(mat material.Material) pipeline.Pipeline {
	if mat != nil {
		if p := mat.Pipeline(); p != nil && p.Type() == pipeline.PipelineTypeRender {
			return p
		}
	}
	return r.Pipeline(DefaultPipelineKey)
}

func lightingEmpty(l *shader.Lighting) bool {
	return len(l.Directional) == 0 && len(l.Point) == 0 && l.Ambient == [3]float32{}
}
