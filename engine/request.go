package engine

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/compositor"
	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/pose"
)

// RenderRequest describes one preview.
type RenderRequest struct {
	// Subject is the object to preview. It is borrowed and never modified.
	Subject game_object.GameObject

	// Pose optionally samples one animation frame before rendering.
	Pose *pose.Pose

	// Basis orients the camera. A nil basis uses the engine's navigation basis.
	Basis camera.ViewBasis

	// Background is composited behind the subject.
	Background compositor.Background

	// Width and Height are the output size in pixels.
	Width  int
	Height int
}

// Normalize clamps Width and Height into [camera.MinRenderSize, camera.MaxRenderSize].
func (r *RenderRequest) Normalize() {
	r.Width = camera.ClampRenderSize(r.Width)
	r.Height = camera.ClampRenderSize(r.Height)
}

// Validate reports whether the request can produce an image as given, without clamping.
//
// Returns:
//   - error: an error wrapping ErrInvalidRequest, or nil
func (r RenderRequest) Validate() error {
	if r.Subject == nil {
		return fmt.Errorf("%w: no subject", ErrInvalidRequest)
	}
	if r.Subject.Model() == nil {
		return fmt.Errorf("%w: subject %q has no model", ErrInvalidRequest, r.Subject.Name())
	}
	if r.Width < camera.MinRenderSize || r.Width > camera.MaxRenderSize ||
		r.Height < camera.MinRenderSize || r.Height > camera.MaxRenderSize {
		return fmt.Errorf("%w: size %dx%d outside [%d, %d]", ErrInvalidRequest,
			r.Width, r.Height, camera.MinRenderSize, camera.MaxRenderSize)
	}
	if r.Background.Kind() == compositor.BackgroundTiledTexture && r.Background.Texture() == nil {
		return fmt.Errorf("%w: tiled background without texture", ErrInvalidRequest)
	}
	return nil
}
