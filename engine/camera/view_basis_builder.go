package camera

// ViewBasisBuilderOption is a functional option for configuring a ViewBasis during construction.
type ViewBasisBuilderOption func(*viewBasisImpl)

// WithDirection sets the initial viewing direction. It is normalized during construction.
//
// Parameters:
//   - dir: the viewing direction
//
// Returns:
//   - ViewBasisBuilderOption: option function to apply
func WithDirection(dir [3]float32) ViewBasisBuilderOption {
	return func(vb *viewBasisImpl) {
		vb.direction = dir
	}
}

// WithUp sets the initial up guess. Right and up are recomputed from it during construction.
//
// Parameters:
//   - up: the up vector
//
// Returns:
//   - ViewBasisBuilderOption: option function to apply
func WithUp(up [3]float32) ViewBasisBuilderOption {
	return func(vb *viewBasisImpl) {
		vb.up = up
	}
}

// WithPanOffset sets the initial pan offset.
//
// Parameters:
//   - pan: the pan offset in view-extent units
//
// Returns:
//   - ViewBasisBuilderOption: option function to apply
func WithPanOffset(pan [2]float32) ViewBasisBuilderOption {
	return func(vb *viewBasisImpl) {
		vb.panOffset = pan
	}
}

// WithZoom sets the initial zoom level. Clamped in orthographic mode.
//
// Parameters:
//   - zoom: the zoom level
//
// Returns:
//   - ViewBasisBuilderOption: option function to apply
func WithZoom(zoom float32) ViewBasisBuilderOption {
	return func(vb *viewBasisImpl) {
		vb.zoom = zoom
	}
}

// WithOrthographic selects orthographic (true, default) or perspective (false) projection.
//
// Parameters:
//   - orthographic: the projection mode
//
// Returns:
//   - ViewBasisBuilderOption: option function to apply
func WithOrthographic(orthographic bool) ViewBasisBuilderOption {
	return func(vb *viewBasisImpl) {
		vb.orthographic = orthographic
	}
}
