package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-preview/common"
)

const (
	// MaxOrthographicZoom is the largest zoom level allowed in orthographic mode.
	// At zoom 1 the orthographic extent collapses to zero and the projection is singular.
	MaxOrthographicZoom float32 = 0.999999

	// MinRenderSize and MaxRenderSize bound preview widths and heights in pixels.
	MinRenderSize = 1
	MaxRenderSize = 4096
)

// ClampRenderSize clamps a preview dimension into [MinRenderSize, MaxRenderSize].
//
// Parameters:
//   - size: the requested width or height
//
// Returns:
//   - int: the clamped size
func ClampRenderSize(size int) int {
	return common.Clamp(size, MinRenderSize, MaxRenderSize)
}

type viewBasisImpl struct {
	mu *sync.Mutex

	direction [3]float32
	right     [3]float32
	up        [3]float32

	panOffset    [2]float32
	zoom         float32
	orthographic bool
}

// ViewBasis maintains the orthonormal (direction, right, up) triad that orients a preview camera,
// plus the pan offset and zoom level applied when framing the subject.
//
// The triad satisfies cross(direction, right) == up. Navigation updates keep it orthonormal by
// recomputing right from the current up guess first and up from the new right second.
type ViewBasis interface {
	// Direction returns the unit viewing direction (from the camera toward the subject).
	//
	// Returns:
	//   - [3]float32: the direction vector
	Direction() [3]float32

	// Right returns the unit right vector of the triad, normalize(cross(up, direction)).
	//
	// Returns:
	//   - [3]float32: the right vector
	Right() [3]float32

	// Up returns the unit up vector of the triad.
	//
	// Returns:
	//   - [3]float32: the up vector
	Up() [3]float32

	// PanOffset returns the accumulated pan offset in view-extent units.
	//
	// Returns:
	//   - [2]float32: horizontal and vertical pan
	PanOffset() [2]float32

	// Zoom returns the current zoom level. 0 frames the subject exactly.
	//
	// Returns:
	//   - float32: the zoom level
	Zoom() float32

	// Orthographic reports whether previews use an orthographic projection.
	//
	// Returns:
	//   - bool: true for orthographic, false for perspective
	Orthographic() bool

	// Orbit rotates the direction within the plane spanned by right and up.
	// Deltas are pointer movements; rotationSpeed is in degrees per unit delta.
	//
	// Parameters:
	//   - deltaX: horizontal movement
	//   - deltaY: vertical movement
	//   - rotationSpeed: degrees of rotation per unit of movement
	Orbit(deltaX, deltaY, rotationSpeed float32)

	// Pan accumulates panOffset += (deltaX, deltaY) * panSpeed. Unbounded.
	//
	// Parameters:
	//   - deltaX: horizontal movement
	//   - deltaY: vertical movement
	//   - panSpeed: offset per unit of movement
	Pan(deltaX, deltaY, panSpeed float32)

	// ZoomBy applies zoom -= delta * zoomSpeed, clamped to MaxOrthographicZoom in orthographic mode.
	//
	// Parameters:
	//   - delta: zoom input (positive zooms out)
	//   - zoomSpeed: zoom change per unit of input
	ZoomBy(delta, zoomSpeed float32)

	// SetDirection assigns the viewing direction directly. Call Validate afterwards.
	//
	// Parameters:
	//   - dir: the new direction (need not be normalized)
	SetDirection(dir [3]float32)

	// SetUp assigns the up guess directly. Call Validate afterwards.
	//
	// Parameters:
	//   - up: the new up vector (need not be normalized)
	SetUp(up [3]float32)

	// SetPanOffset assigns the pan offset directly.
	//
	// Parameters:
	//   - pan: the new pan offset
	SetPanOffset(pan [2]float32)

	// SetZoom assigns the zoom level directly. Call Validate afterwards.
	//
	// Parameters:
	//   - zoom: the new zoom level
	SetZoom(zoom float32)

	// SetOrthographic switches between orthographic and perspective projection.
	// Switching to orthographic re-applies the zoom clamp.
	//
	// Parameters:
	//   - orthographic: true for orthographic
	SetOrthographic(orthographic bool)

	// Validate sanitizes the basis after direct edits: renormalizes direction, resets a degenerate
	// up to world-up, recomputes right then up, and clamps zoom in orthographic mode.
	Validate()

	// Reset restores the default direction, world-up, zero pan and zero zoom.
	// The projection mode is kept.
	Reset()

	// Snapshot returns a detached copy of the basis. Renders read from snapshots so that
	// concurrent navigation cannot tear the triad mid-render.
	//
	// Returns:
	//   - ViewBasis: an independent copy
	Snapshot() ViewBasis
}

var _ ViewBasis = &viewBasisImpl{}

// unitTolerance is how far a squared length may stray from 1 and still count as unit length.
const unitTolerance = 1e-6

// DefaultDirection is the initial viewing direction, looking down the (-1, -1, -1) diagonal.
var DefaultDirection = common.Normalize3([3]float32{-1, -1, -1})

// NewViewBasis creates a ViewBasis looking along DefaultDirection with world-up, orthographic projection,
// no pan and no zoom. Options are applied before the basis is validated.
//
// Parameters:
//   - options: functional options to configure the basis
//
// Returns:
//   - ViewBasis: the newly created basis
func NewViewBasis(options ...ViewBasisBuilderOption) ViewBasis {
	vb := &viewBasisImpl{
		mu:           &sync.Mutex{},
		direction:    DefaultDirection,
		up:           common.WorldUp,
		orthographic: true,
	}

	for _, option := range options {
		option(vb)
	}

	vb.validate()
	return vb
}

func (vb *viewBasisImpl) Direction() [3]float32 {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	return vb.direction
}

func (vb *viewBasisImpl) Right() [3]float32 {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	return vb.right
}

func (vb *viewBasisImpl) Up() [3]float32 {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	return vb.up
}

func (vb *viewBasisImpl) PanOffset() [2]float32 {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	return vb.panOffset
}

func (vb *viewBasisImpl) Zoom() float32 {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	return vb.zoom
}

func (vb *viewBasisImpl) Orthographic() bool {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	return vb.orthographic
}

func (vb *viewBasisImpl) Orbit(deltaX, deltaY, rotationSpeed float32) {
	vb.mu.Lock()
	defer vb.mu.Unlock()

	step := rotationSpeed * common.Deg2Rad
	dir := common.Add3(vb.direction, common.Scale3(vb.right, -deltaX*step))
	dir = common.Add3(dir, common.Scale3(vb.up, -deltaY*step))
	dir = common.Normalize3(dir)
	if common.IsZero3(dir) {
		return
	}
	vb.direction = dir
	vb.orthonormalize()
}

func (vb *viewBasisImpl) Pan(deltaX, deltaY, panSpeed float32) {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	vb.panOffset[0] += deltaX * panSpeed
	vb.panOffset[1] += deltaY * panSpeed
}

func (vb *viewBasisImpl) ZoomBy(delta, zoomSpeed float32) {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	vb.zoom -= delta * zoomSpeed
	vb.clampZoom()
}

func (vb *viewBasisImpl) SetDirection(dir [3]float32) {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	vb.direction = dir
}

func (vb *viewBasisImpl) SetUp(up [3]float32) {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	vb.up = up
}

func (vb *viewBasisImpl) SetPanOffset(pan [2]float32) {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	vb.panOffset = pan
}

func (vb *viewBasisImpl) SetZoom(zoom float32) {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	vb.zoom = zoom
}

func (vb *viewBasisImpl) SetOrthographic(orthographic bool) {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	vb.orthographic = orthographic
	vb.clampZoom()
}

func (vb *viewBasisImpl) Validate() {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	vb.validate()
}

func (vb *viewBasisImpl) Reset() {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	vb.direction = DefaultDirection
	vb.up = common.WorldUp
	vb.panOffset = [2]float32{}
	vb.zoom = 0
	vb.validate()
}

func (vb *viewBasisImpl) Snapshot() ViewBasis {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	return &viewBasisImpl{
		mu:           &sync.Mutex{},
		direction:    vb.direction,
		right:        vb.right,
		up:           vb.up,
		panOffset:    vb.panOffset,
		zoom:         vb.zoom,
		orthographic: vb.orthographic,
	}
}

// validate is Validate without locking.
func (vb *viewBasisImpl) validate() {
	// unit directions are kept as-is so repeated validation is a fixed point
	if lenSq := common.Dot3(vb.direction, vb.direction); lenSq < 1-unitTolerance || lenSq > 1+unitTolerance {
		vb.direction = common.Normalize3(vb.direction)
	}
	if common.IsZero3(vb.direction) {
		vb.direction = DefaultDirection
	}
	if common.IsZero3(vb.up) {
		vb.up = common.WorldUp
	}
	vb.orthonormalize()
	vb.clampZoom()
}

// orthonormalize rebuilds right and up from direction and the current up guess.
// Right is computed first so up never inherits drift from the previous right.
func (vb *viewBasisImpl) orthonormalize() {
	right := common.Normalize3(common.Cross3(vb.up, vb.direction))
	if common.IsZero3(right) {
		// direction is parallel to the former up
		vb.up = common.WorldUp
		right = common.Normalize3(common.Cross3(vb.up, vb.direction))
		if common.IsZero3(right) {
			vb.up = common.WorldForward
			right = common.Normalize3(common.Cross3(vb.up, vb.direction))
		}
	}
	vb.right = right
	vb.up = common.Normalize3(common.Cross3(vb.direction, vb.right))
}

func (vb *viewBasisImpl) clampZoom() {
	if vb.orthographic {
		vb.zoom = min(vb.zoom, MaxOrthographicZoom)
	}
}
