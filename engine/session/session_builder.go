package session

import (
	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/assets"
	"github.com/Carmen-Shannon/oxy-preview/engine/pose"
	"github.com/Carmen-Shannon/oxy-preview/engine/profiler"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-preview/engine/scene"
)

// SessionBuilderOption is a functional option applied to a session during construction via NewSession.
type SessionBuilderOption func(*session)

// WithScene sets the preview scene. The session does not close a supplied scene.
//
// Parameters:
//   - sc: the scene ephemeral objects are registered in
//
// Returns:
//   - SessionBuilderOption: a function that applies the scene option to a session
func WithScene(sc scene.Scene) SessionBuilderOption {
	return func(s *session) {
		s.scene = sc
	}
}

// WithRegistry sets the asset registry camera templates and the dummy controller are resolved from.
//
// Parameters:
//   - r: the registry
//
// Returns:
//   - SessionBuilderOption: a function that applies the registry option to a session
func WithRegistry(r assets.Registry) SessionBuilderOption {
	return func(s *session) {
		s.registry = r
	}
}

// WithRenderer sets the renderer. The session does not close a supplied renderer.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - SessionBuilderOption: a function that applies the renderer option to a session
func WithRenderer(r renderer.Renderer) SessionBuilderOption {
	return func(s *session) {
		s.renderer = r
	}
}

// WithSampler sets the pose sampler.
//
// Parameters:
//   - p: the sampler
//
// Returns:
//   - SessionBuilderOption: a function that applies the sampler option to a session
func WithSampler(p pose.Sampler) SessionBuilderOption {
	return func(s *session) {
		s.sampler = p
	}
}

// WithSupersample sets the supersample factor, clamped into [1, MaxSupersample].
//
// Parameters:
//   - factor: the number of rendered samples per output pixel along each axis
//
// Returns:
//   - SessionBuilderOption: a function that applies the supersample option to a session
func WithSupersample(factor int) SessionBuilderOption {
	return func(s *session) {
		s.supersample = common.Clamp(factor, 1, MaxSupersample)
	}
}

// WithProfiler records stage timings for every render.
//
// Parameters:
//   - p: the profiler, or nil to disable profiling
//
// Returns:
//   - SessionBuilderOption: a function that applies the profiler option to a session
func WithProfiler(p *profiler.Profiler) SessionBuilderOption {
	return func(s *session) {
		s.profiler = p
	}
}
