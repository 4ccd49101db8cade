package camera

import (
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/pipeline"
	"github.com/gogpu/gg"
)

type CameraBuilderOption func(*cameraImpl)

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithCullingMask sets the bitmask of layers the camera renders.
//
// Parameters:
//   - mask: the layer mask
//
// Returns:
//   - CameraBuilderOption: a function that sets the culling mask
func WithCullingMask(mask uint32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.cullingMask = mask
	}
}

// WithAutoRender enables or disables per-frame rendering.
//
// Parameters:
//   - enabled: true to render every frame
//
// Returns:
//   - CameraBuilderOption: a function that sets auto-render
func WithAutoRender(enabled bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.autoRender = enabled
	}
}

// WithBackgroundColor sets the clear color of the camera.
//
// Parameters:
//   - col: the clear color
//
// Returns:
//   - CameraBuilderOption: a function that sets the background color
func WithBackgroundColor(col gg.RGBA) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.backgroundColor = col
	}
}

// WithPipeline attaches a post-processing pipeline to the camera.
//
// Parameters:
//   - p: the pipeline to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the pipeline
func WithPipeline(p pipeline.Pipeline) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pipeline = p
	}
}
