package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithBasis sets the ViewBasis the controller drives.
//
// Parameters:
//   - vb: the basis to drive
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithBasis(vb ViewBasis) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.basis = vb
	}
}

// WithOrbitSpeed sets the orbit rotation in degrees per pixel of movement.
//
// Parameters:
//   - speed: degrees per pixel
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithOrbitSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbitSpeed = speed
	}
}

// WithPanSpeed sets the pan offset per pixel of movement.
//
// Parameters:
//   - speed: pan offset per pixel
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = speed
	}
}

// WithZoomSpeed sets the zoom change per unit of input.
//
// Parameters:
//   - speed: zoom change per unit
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithKeyStep sets the pixel-equivalent movement of one keyboard orbit step.
//
// Parameters:
//   - step: pixels per key press
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithKeyStep(step float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.keyStep = step
	}
}
