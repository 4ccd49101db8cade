package camera

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/pipeline"
	"github.com/chewxy/math32"
	"github.com/gogpu/gg"
)

// cameraCount is an atomic counter used to give every camera instance a unique ID.
var cameraCount atomic.Uint64

// EverythingMask is a culling mask that renders every layer.
const EverythingMask uint32 = 0xFFFFFFFF

type cameraImpl struct {
	mu *sync.Mutex

	id uint64

	fov    float32
	aspect float32
	near   float32
	far    float32

	orthographic bool
	halfWidth    float32
	halfHeight   float32

	cullingMask     uint32
	autoRender      bool
	backgroundColor gg.RGBA

	position [3]float32
	forward  [3]float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	pipeline pipeline.Pipeline
}

// Camera defines the interface for a preview camera.
// A camera holds projection settings, a culling mask and a background color, and computes
// its view/projection matrices by framing a world-space bounding box from a ViewBasis.
type Camera interface {
	// ID returns the unique camera identifier.
	//
	// Returns:
	//   - uint64: the camera ID
	ID() uint64

	// Fov returns the vertical field of view in radians used in perspective mode.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance of the last framing.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance of the last framing.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Orthographic reports whether the last framing used an orthographic projection.
	//
	// Returns:
	//   - bool: true if orthographic
	Orthographic() bool

	// CullingMask returns the bitmask of layers this camera renders.
	//
	// Returns:
	//   - uint32: the layer mask
	CullingMask() uint32

	// AutoRender reports whether the camera renders every frame on its own.
	// Preview cameras are driven manually and have this disabled.
	//
	// Returns:
	//   - bool: true if auto-render is enabled
	AutoRender() bool

	// BackgroundColor returns the color the render target is cleared to.
	//
	// Returns:
	//   - gg.RGBA: the clear color
	BackgroundColor() gg.RGBA

	// Position returns the world-space eye position of the last framing.
	//
	// Returns:
	//   - [3]float32: the eye position
	Position() [3]float32

	// Forward returns the unit viewing direction of the last framing.
	//
	// Returns:
	//   - [3]float32: the forward vector
	Forward() [3]float32

	// ViewMatrix returns the current 4x4 view matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection * view (column-major).
	//
	// Returns:
	//   - [16]float32: the combined matrix
	ViewProjectionMatrix() [16]float32

	// Pipeline returns the post-processing pipeline attached to this camera, if any.
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline, or nil
	//   - bool: true if the camera has a post-processing pipeline
	Pipeline() (pipeline.Pipeline, bool)

	// SetFov sets the vertical field of view in radians.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio used by the next framing.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// SetCullingMask sets the bitmask of layers this camera renders.
	//
	// Parameters:
	//   - mask: the layer mask
	SetCullingMask(mask uint32)

	// SetAutoRender enables or disables per-frame rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetAutoRender(enabled bool)

	// SetBackgroundColor sets the clear color.
	//
	// Parameters:
	//   - c: the clear color
	SetBackgroundColor(c gg.RGBA)

	// SetPipeline attaches a post-processing pipeline. Pass nil to detach.
	//
	// Parameters:
	//   - p: the pipeline
	SetPipeline(p pipeline.Pipeline)

	// Frame positions the camera to look along the basis direction at the given bounds and
	// rebuilds the view and projection matrices.
	//
	// Orthographic half-height is radius * (1 - zoom); perspective distance is
	// radius / sin(fov/2) * exp(-zoom). Pan shifts the look-at point along the screen axes
	// by pan times the visible extent.
	//
	// Parameters:
	//   - basis: the view basis supplying direction, up, pan, zoom and projection mode
	//   - bounds: world-space bounds of everything that should be visible
	Frame(basis ViewBasis, bounds common.AABB)

	// Clone returns an independent copy of this camera with a new ID.
	// The pipeline is cloned as well so per-render hooks never leak into the original.
	//
	// Returns:
	//   - Camera: the copy
	Clone() Camera
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with sensible defaults: 60 degree field of view, aspect 1,
// culling mask that renders everything, auto-render enabled and a transparent background.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:              &sync.Mutex{},
		id:              cameraCount.Add(1),
		fov:             60 * common.Deg2Rad,
		aspect:          1,
		near:            0.01,
		far:             100,
		cullingMask:     EverythingMask,
		autoRender:      true,
		backgroundColor: gg.Transparent,
		forward:         DefaultDirection,
	}

	for _, option := range options {
		option(c)
	}

	common.Identity(c.viewMatrix[:])
	common.Identity(c.projectionMatrix[:])
	common.Identity(c.viewProjectionMatrix[:])
	return c
}

func (c *cameraImpl) ID() uint64 {
	return c.id
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Orthographic() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orthographic
}

func (c *cameraImpl) CullingMask() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cullingMask
}

func (c *cameraImpl) AutoRender() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoRender
}

func (c *cameraImpl) BackgroundColor() gg.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backgroundColor
}

func (c *cameraImpl) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Forward() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forward
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Pipeline() (pipeline.Pipeline, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pipeline, c.pipeline != nil
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect > 0 {
		c.aspect = aspect
	}
}

func (c *cameraImpl) SetCullingMask(mask uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cullingMask = mask
}

func (c *cameraImpl) SetAutoRender(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoRender = enabled
}

func (c *cameraImpl) SetBackgroundColor(col gg.RGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backgroundColor = col
}

func (c *cameraImpl) SetPipeline(p pipeline.Pipeline) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pipeline = p
}

func (c *cameraImpl) Frame(basis ViewBasis, bounds common.AABB) {
	b := basis.Snapshot()
	dir := b.Direction()
	up := b.Up()
	pan := b.PanOffset()
	zoom := b.Zoom()
	ortho := b.Orthographic()

	center := [3]float32{}
	radius := float32(0.5)
	if !bounds.Empty() {
		center = bounds.Center()
		radius = max(bounds.Radius(), 1e-3)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	screenRight := common.Normalize3(common.Cross3(dir, up))
	aspect := c.aspect

	var distance, halfW, halfH float32
	if ortho {
		base := radius * (1 - zoom)
		halfW, halfH = fitExtents(base, aspect)
		distance = 2*radius + 1
		c.near = max(distance-2*radius, 1e-3)
		c.far = distance + 2*radius
		common.Orthographic(c.projectionMatrix[:], halfW, halfH, c.near, c.far)
	} else {
		tanHalf := math32.Tan(c.fov / 2)
		sinHalf := math32.Sin(min(c.fov, c.fov*aspect) / 2)
		distance = radius / max(sinHalf, 1e-3) * math32.Exp(-zoom)
		halfH = distance * tanHalf
		halfW = halfH * aspect
		c.near = max(distance-2*radius, distance*1e-3)
		c.far = distance + 2*radius
		common.Perspective(c.projectionMatrix[:], c.fov, aspect, c.near, c.far)
	}
	c.orthographic = ortho
	c.halfWidth, c.halfHeight = halfW, halfH

	target := common.Add3(center, common.Scale3(screenRight, -pan[0]*2*halfW))
	target = common.Add3(target, common.Scale3(up, pan[1]*2*halfH))

	c.forward = dir
	c.position = common.Sub3(target, common.Scale3(dir, distance))
	common.LookAt(c.viewMatrix[:], c.position, target, up)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}

func (c *cameraImpl) Clone() Camera {
	c.mu.Lock()
	defer c.mu.Unlock()

	clone := &cameraImpl{
		mu:                   &sync.Mutex{},
		id:                   cameraCount.Add(1),
		fov:                  c.fov,
		aspect:               c.aspect,
		near:                 c.near,
		far:                  c.far,
		orthographic:         c.orthographic,
		halfWidth:            c.halfWidth,
		halfHeight:           c.halfHeight,
		cullingMask:          c.cullingMask,
		autoRender:           c.autoRender,
		backgroundColor:      c.backgroundColor,
		position:             c.position,
		forward:              c.forward,
		viewMatrix:           c.viewMatrix,
		projectionMatrix:     c.projectionMatrix,
		viewProjectionMatrix: c.viewProjectionMatrix,
	}
	if c.pipeline != nil {
		clone.pipeline = c.pipeline.Clone()
	}
	return clone
}

// fitExtents returns half extents where the shorter screen axis spans exactly base.
func fitExtents(base, aspect float32) (halfW, halfH float32) {
	if aspect >= 1 {
		return base * aspect, base
	}
	return base, base / aspect
}
