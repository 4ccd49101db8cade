package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-preview/common"
)

const (
	// DefaultOrbitSpeed is the orbit rotation in degrees per pixel of drag.
	DefaultOrbitSpeed float32 = 1.0
	// DefaultPanSpeed is the pan offset per pixel of drag.
	DefaultPanSpeed float32 = 0.0025
	// DefaultZoomSpeed is the zoom change per pixel of vertical drag.
	DefaultZoomSpeed float32 = 0.01
	// DefaultKeyStep is the pixel-equivalent movement of one keyboard orbit step.
	DefaultKeyStep float32 = 5
)

// cameraControllerImpl is the single implementation of CameraController.
// It holds no positional state of its own; all state lives in the driven ViewBasis.
type cameraControllerImpl struct {
	mu *sync.Mutex

	basis ViewBasis

	orbitSpeed float32
	panSpeed   float32
	zoomSpeed  float32
	keyStep    float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a navigation controller with the default drag speeds
// (1 degree, 0.0025 and 0.01 per pixel for orbit, pan and zoom).
// A fresh ViewBasis is created unless WithBasis is supplied.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:         &sync.Mutex{},
		orbitSpeed: DefaultOrbitSpeed,
		panSpeed:   DefaultPanSpeed,
		zoomSpeed:  DefaultZoomSpeed,
		keyStep:    DefaultKeyStep,
	}

	for _, option := range options {
		option(cc)
	}

	if cc.basis == nil {
		cc.basis = NewViewBasis()
	}
	return cc
}

func (cc *cameraControllerImpl) Basis() ViewBasis {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.basis
}

func (cc *cameraControllerImpl) SetBasis(vb ViewBasis) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if vb != nil {
		cc.basis = vb
	}
}

func (cc *cameraControllerImpl) HandleDrag(deltaX, deltaY float32, mods common.Modifier) bool {
	if deltaX == 0 && deltaY == 0 {
		return false
	}
	switch {
	case mods.Has(common.ModControl):
		cc.Pan(deltaX, deltaY)
	case mods.Has(common.ModShift):
		if deltaY == 0 {
			return false
		}
		cc.Zoom(deltaY)
	default:
		cc.Orbit(deltaX, deltaY)
	}
	return true
}

// --- navigation ---

func (cc *cameraControllerImpl) Orbit(deltaX, deltaY float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.basis.Orbit(deltaX, deltaY, cc.orbitSpeed)
}

func (cc *cameraControllerImpl) OrbitLeft() {
	cc.Orbit(-cc.keyStep, 0)
}

func (cc *cameraControllerImpl) OrbitRight() {
	cc.Orbit(cc.keyStep, 0)
}

func (cc *cameraControllerImpl) OrbitUp() {
	cc.Orbit(0, -cc.keyStep)
}

func (cc *cameraControllerImpl) OrbitDown() {
	cc.Orbit(0, cc.keyStep)
}

func (cc *cameraControllerImpl) OrbitSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.orbitSpeed
}

// --- planarCameraController implementation ---

func (cc *cameraControllerImpl) Pan(deltaX, deltaY float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.basis.Pan(deltaX, deltaY, cc.panSpeed)
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.basis.ZoomBy(delta, cc.zoomSpeed)
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}
