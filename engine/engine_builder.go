package engine

import (
	"github.com/Carmen-Shannon/oxy-preview/engine/assets"
	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/compositor"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-preview/engine/scene"
	"github.com/Carmen-Shannon/oxy-preview/engine/session"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables per-render stage timing output at debug level.
//
// Parameters:
//   - enabled: if true, enables render profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithSupersample sets the number of rendered samples per output pixel along each axis.
// Ignored when WithSession supplies a session.
//
// Parameters:
//   - factor: the supersample factor, clamped into [1, session.MaxSupersample]
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSupersample(factor int) EngineBuilderOption {
	return func(e *engine) {
		e.supersample = factor
	}
}

// WithRegistry sets the asset registry shared by the session and the compositor.
//
// Parameters:
//   - r: the registry
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRegistry(r assets.Registry) EngineBuilderOption {
	return func(e *engine) {
		e.registry = r
	}
}

// WithScene sets the preview scene ephemeral objects are registered in.
// Ignored when WithSession supplies a session.
//
// Parameters:
//   - sc: the scene
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(sc scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = sc
	}
}

// WithRenderer sets the renderer used for the color pass.
// Ignored when WithSession supplies a session.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithSession sets a pre-configured render session. The engine does not close it.
//
// Parameters:
//   - s: the session
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSession(s session.Session) EngineBuilderOption {
	return func(e *engine) {
		e.session = s
	}
}

// WithCompositor sets a pre-configured compositor.
//
// Parameters:
//   - c: the compositor
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCompositor(c compositor.Compositor) EngineBuilderOption {
	return func(e *engine) {
		e.compositor = c
	}
}

// WithController sets the navigation controller.
//
// Parameters:
//   - cc: the controller
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithController(cc camera.CameraController) EngineBuilderOption {
	return func(e *engine) {
		e.controller = cc
	}
}

// WithRepaintCallback registers the function called on every repaint signal.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRepaintCallback(fn func()) EngineBuilderOption {
	return func(e *engine) {
		e.repaintFn = fn
	}
}
