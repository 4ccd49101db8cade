package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWindowClampsSize(t *testing.T) {
	w := NewWindow(WithSize(10000, 10), WithSizeLimits(0, 64, 1024, 0), WithTickRate(-5))
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 64, w.Height())
	assert.Equal(t, 4096, w.(*engineWindow).maxHeight, "non-positive limits are kept")
	assert.Equal(t, 1, w.(*engineWindow).tickRate)
	assert.False(t, w.IsRunning())
}

func TestResizeReportsChanges(t *testing.T) {
	w := NewWindow().(*engineWindow)
	var got [2]int
	w.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })

	cb, changed := w.resize(640, 640)
	assert.False(t, changed)
	assert.Nil(t, cb)

	cb, changed = w.resize(800, 600)
	assert.True(t, changed)
	cb(800, 600)
	assert.Equal(t, [2]int{800, 600}, got)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
}

func TestSetImageBumpsVersion(t *testing.T) {
	w := NewWindow().(*engineWindow)
	w.SetImage(nil)
	w.SetImage(nil)
	w.SetBackdrop(nil)
	assert.Equal(t, uint64(2), w.imageVersion)
	assert.Equal(t, uint64(1), w.backdropVersion)
}

func TestDragState(t *testing.T) {
	var d dragState

	_, _, moved := d.update(false, 10, 10)
	assert.False(t, moved)

	_, _, moved = d.update(true, 10, 10)
	assert.False(t, moved, "the press anchors the drag")

	dx, dy, moved := d.update(true, 14, 7)
	assert.True(t, moved)
	assert.Equal(t, float32(4), dx)
	assert.Equal(t, float32(-3), dy)

	_, _, moved = d.update(true, 14, 7)
	assert.False(t, moved)

	_, _, moved = d.update(false, 50, 50)
	assert.False(t, moved)
	_, _, moved = d.update(true, 60, 60)
	assert.False(t, moved, "a new press re-anchors")
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, dstW, dstH int
		scale, x, y            float64
	}{
		{"centered without enlarging", 100, 100, 300, 200, 1, 100, 50},
		{"shrinks wide image", 400, 100, 200, 200, 0.5, 0, 75},
		{"shrinks tall image", 100, 400, 200, 200, 0.5, 75, 0},
		{"degenerate", 0, 10, 100, 100, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scale, x, y := fitRect(tt.srcW, tt.srcH, tt.dstW, tt.dstH)
			assert.InDelta(t, tt.scale, scale, 1e-9)
			assert.InDelta(t, tt.x, x, 1e-9)
			assert.InDelta(t, tt.y, y, 1e-9)
		})
	}
}
