package renderer

import (
	"errors"
	"math"
	"sync"

	"github.com/gogpu/gg"
)

// ErrTargetReleased is returned when drawing into a render target after Release.
var ErrTargetReleased = errors.New("render target released")

// RenderTarget is an off-screen color buffer with an attached depth buffer.
// Depth values are in [0, 1] with 1 at the far plane.
type RenderTarget struct {
	mu *sync.Mutex

	width, height int
	color         *gg.Pixmap
	depth         []float32
	released      bool
}

// NewRenderTarget allocates a color and depth buffer of the given size. Sizes below 1 are
// raised to 1.
//
// Parameters:
//   - width: target width in pixels
//   - height: target height in pixels
//
// Returns:
//   - *RenderTarget: the target
func NewRenderTarget(width, height int) *RenderTarget {
	width, height = max(width, 1), max(height, 1)
	t := &RenderTarget{
		mu:     &sync.Mutex{},
		width:  width,
		height: height,
		color:  gg.NewPixmap(width, height),
		depth:  make([]float32, width*height),
	}
	t.clearDepth()
	return t
}

// Width returns the target width in pixels.
func (t *RenderTarget) Width() int {
	return t.width
}

// Height returns the target height in pixels.
func (t *RenderTarget) Height() int {
	return t.height
}

// Color returns the color buffer, or nil after Release.
func (t *RenderTarget) Color() *gg.Pixmap {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.color
}

// Depth returns the stored depth at (x, y), or 1 outside the target.
func (t *RenderTarget) Depth(x, y int) float32 {
	if x < 0 || y < 0 || x >= t.width || y >= t.height || t.Released() {
		return 1
	}
	return t.depth[y*t.width+x]
}

// Clear fills the color buffer with c and resets depth to the far plane.
//
// Parameters:
//   - c: the clear color
func (t *RenderTarget) Clear(c gg.RGBA) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	t.color.Clear(c)
	t.clearDepth()
}

// Release drops both buffers. Calling Release more than once is a no-op.
func (t *RenderTarget) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.released = true
	t.color = nil
	t.depth = nil
}

// Released reports whether Release has been called.
func (t *RenderTarget) Released() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released
}

func (t *RenderTarget) clearDepth() {
	for i := range t.depth {
		t.depth[i] = 1
	}
}

// testDepth compares z against the stored depth at pixel index i. Caller owns the pixel row.
func (t *RenderTarget) testDepth(i int, z float32) bool {
	return z < t.depth[i] && !math.IsNaN(float64(z))
}
