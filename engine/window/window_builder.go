package window

// WindowBuilderOption is a functional option for configuring a Window.
type WindowBuilderOption func(*engineWindow)

// WithTitle sets the title bar text.
//
// Parameters:
//   - title: the window title
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial client area. The size is clamped into the size limits when the
// window is created.
//
// Parameters:
//   - width: initial width in pixels
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width, w.height = width, height
	}
}

// WithSizeLimits bounds the client area the user can resize the window to.
// Non-positive values keep the current limit.
//
// Parameters:
//   - minWidth, minHeight: smallest client area in pixels
//   - maxWidth, maxHeight: largest client area in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		if minWidth > 0 {
			w.minWidth = minWidth
		}
		if minHeight > 0 {
			w.minHeight = minHeight
		}
		if maxWidth > 0 {
			w.maxWidth = maxWidth
		}
		if maxHeight > 0 {
			w.maxHeight = maxHeight
		}
	}
}

// WithTickRate sets how many update callbacks run per second.
//
// Parameters:
//   - tps: ticks per second (minimum 1)
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTickRate(tps int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.tickRate = max(tps, 1)
	}
}
