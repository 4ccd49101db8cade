package camera

import "github.com/Carmen-Shannon/oxy-preview/common"

// CameraController defines the union interface for preview navigation.
// A controller turns raw pointer deltas and modifier state into ViewBasis updates.
// Embeds both orbitCameraController and planarCameraController so a single
// controller serves drag, keyboard and scroll input.
type CameraController interface {
	orbitCameraController
	planarCameraController

	// Basis returns the ViewBasis this controller drives.
	//
	// Returns:
	//   - ViewBasis: the controlled basis
	Basis() ViewBasis

	// SetBasis replaces the controlled ViewBasis.
	//
	// Parameters:
	//   - vb: the basis to drive
	SetBasis(vb ViewBasis)

	// HandleDrag routes a pointer drag by modifier state:
	// ModControl pans, ModShift zooms using deltaY, anything else orbits.
	//
	// Parameters:
	//   - deltaX: horizontal pointer movement in pixels
	//   - deltaY: vertical pointer movement in pixels (positive is down)
	//   - mods: modifier keys held during the drag
	//
	// Returns:
	//   - bool: true if the basis changed
	HandleDrag(deltaX, deltaY float32, mods common.Modifier) bool
}

// orbitCameraController defines orbit-specific control methods.
type orbitCameraController interface {
	// Orbit rotates the basis by a pointer delta scaled by OrbitSpeed.
	//
	// Parameters:
	//   - deltaX, deltaY: pointer movement in pixels
	Orbit(deltaX, deltaY float32)

	// OrbitLeft rotates the view one keyboard step to the left.
	OrbitLeft()

	// OrbitRight rotates the view one keyboard step to the right.
	OrbitRight()

	// OrbitUp rotates the view one keyboard step upward.
	OrbitUp()

	// OrbitDown rotates the view one keyboard step downward.
	OrbitDown()

	// OrbitSpeed returns the rotation in degrees per pixel of movement.
	//
	// Returns:
	//   - float32: the orbit speed
	OrbitSpeed() float32
}

// planarCameraController defines pan and zoom control methods.
type planarCameraController interface {
	// Pan offsets the framing by a pointer delta scaled by PanSpeed.
	//
	// Parameters:
	//   - deltaX, deltaY: pointer movement in pixels
	Pan(deltaX, deltaY float32)

	// Zoom changes the zoom level by delta scaled by ZoomSpeed.
	// Positive delta zooms out.
	//
	// Parameters:
	//   - delta: zoom input
	Zoom(delta float32)

	// PanSpeed returns the pan offset per pixel of movement.
	//
	// Returns:
	//   - float32: the pan speed
	PanSpeed() float32

	// ZoomSpeed returns the zoom change per unit of input.
	//
	// Returns:
	//   - float32: the zoom speed
	ZoomSpeed() float32
}
