package pipeline

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gg"
)

// PipelineType identifies whether a pipeline configures rasterization or post-processing.
type PipelineType int

const (
	// PipelineTypeRender holds raster state and the fragment shader used to draw meshes.
	PipelineTypeRender PipelineType = iota

	// PipelineTypePostProcess holds an ordered chain of stages run over a finished color pass.
	PipelineTypePostProcess
)

// PassHook observes a render target after the color pass finished and before any stage runs.
type PassHook func(target *gg.Pixmap)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	mu *sync.Mutex

	// pipelineType indicates the type of pipeline this is; render or post-process
	pipelineType PipelineType
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	fragmentShader shader.Shader

	// The following properties configure rasterization and are only used by render pipelines.

	depthTestEnabled  bool
	depthWriteEnabled bool
	depthBias         float32
	blendEnabled      bool
	cullMode          wgpu.CullMode
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask

	// The following properties are only used by post-process pipelines.

	stages    []Stage
	hooks     map[uint64]PassHook
	nextHook  uint64
	hookOrder []uint64
}

// Pipeline defines the interface for a software render pipeline. A render pipeline carries
// raster state and a fragment shader for drawing meshes; a post-process pipeline carries
// stages that run over the finished color target, preceded by pass-complete hooks.
type Pipeline interface {
	// Type returns the type of the pipeline
	//
	// Returns:
	//   - PipelineType: the type of the pipeline (render or post-process)
	Type() PipelineType

	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// FragmentShader returns the fragment shader used by a render pipeline, or nil.
	//
	// Returns:
	//   - shader.Shader: the fragment shader
	FragmentShader() shader.Shader

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// DepthBias returns the constant offset added to fragment depth before testing.
	//
	// Returns:
	//   - float32: the depth bias
	DepthBias() float32

	// BlendEnabled returns whether source-over blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode (wgpu.CullModeNone, wgpu.CullModeFront or wgpu.CullModeBack)
	CullMode() wgpu.CullMode

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the winding order (wgpu.FrontFaceCCW or wgpu.FrontFaceCW)
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the channels written by the rasterizer
	WriteMask() wgpu.ColorWriteMask

	// Stages returns a copy of the post-process stage list in execution order.
	//
	// Returns:
	//   - []Stage: the stages
	Stages() []Stage

	// AddStage appends a post-process stage.
	//
	// Parameters:
	//   - s: the stage to append
	AddStage(s Stage)

	// OnPassComplete registers a hook invoked by Run with the untouched color target,
	// before any stage runs.
	//
	// Parameters:
	//   - hook: the hook to register
	//
	// Returns:
	//   - func(): removes the hook; safe to call more than once
	OnPassComplete(hook PassHook) func()

	// Run invokes the pass-complete hooks, then every stage in order over the target.
	// The first failing stage aborts the chain.
	//
	// Parameters:
	//   - target: the finished color target
	//
	// Returns:
	//   - error: the first stage error, wrapped with the stage name
	Run(target *gg.Pixmap) error

	// Clone returns a pipeline with the same configuration and stages but no hooks.
	//
	// Returns:
	//   - Pipeline: the copy
	Clone() Pipeline
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new Pipeline interface. A PipelineType must be specified and provided upon creation.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - pipelineType: the type of pipeline to create (render or post-process)
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified type and configuration
func NewPipeline(pipelineKey string, pipelineType PipelineType, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		mu:                &sync.Mutex{},
		pipelineKey:       pipelineKey,
		pipelineType:      pipelineType,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		hooks:             make(map[uint64]PassHook),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Type() PipelineType {
	return p.pipelineType
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) FragmentShader() shader.Shader {
	return p.fragmentShader
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthBias() float32 {
	return p.depthBias
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) Stages() []Stage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

func (p *pipeline) AddStage(s Stage) {
	if s == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = append(p.stages, s)
}

func (p *pipeline) OnPassComplete(hook PassHook) func() {
	if hook == nil {
		return func() {}
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextHook++
	id := p.nextHook
	p.hooks[id] = hook
	p.hookOrder = append(p.hookOrder, id)

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.hooks[id]; !ok {
			return
		}
		delete(p.hooks, id)
		for i, hid := range p.hookOrder {
			if hid == id {
				p.hookOrder = append(p.hookOrder[:i], p.hookOrder[i+1:]...)
				break
			}
		}
	}
}

func (p *pipeline) Run(target *gg.Pixmap) error {
	if target == nil {
		return nil
	}

	p.mu.Lock()
	hooks := make([]PassHook, 0, len(p.hookOrder))
	for _, id := range p.hookOrder {
		hooks = append(hooks, p.hooks[id])
	}
	stages := make([]Stage, len(p.stages))
	copy(stages, p.stages)
	p.mu.Unlock()

	for _, hook := range hooks {
		hook(target)
	}
	for _, s := range stages {
		if err := s.Apply(target); err != nil {
			return fmt.Errorf("post-process stage %s: %w", s.Name(), err)
		}
	}
	return nil
}

func (p *pipeline) Clone() Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()

	clone := &pipeline{
		mu:                &sync.Mutex{},
		pipelineType:      p.pipelineType,
		pipelineKey:       p.pipelineKey,
		fragmentShader:    p.fragmentShader,
		depthTestEnabled:  p.depthTestEnabled,
		depthWriteEnabled: p.depthWriteEnabled,
		depthBias:         p.depthBias,
		blendEnabled:      p.blendEnabled,
		cullMode:          p.cullMode,
		frontFace:         p.frontFace,
		writeMask:         p.writeMask,
		stages:            make([]Stage, len(p.stages)),
		hooks:             make(map[uint64]PassHook),
	}
	copy(clone.stages, p.stages)
	return clone
}
