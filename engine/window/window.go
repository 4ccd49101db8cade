package window

import (
	"image"
	"sync"

	"github.com/Carmen-Shannon/oxy-preview/common"
)

// Window presents CPU-rendered images and forwards pointer and keyboard input.
// Callbacks run on the window's update goroutine.
type Window interface {
	// SetUpdateCallback sets the function called once per update tick.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the client area changes size.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse wheel events.
	//
	// Parameters:
	//   - callback: function receiving the vertical wheel delta (positive = away from the user)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code (see common.Key*)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code (see common.Key*)
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetDragCallback sets the callback for left-button drags.
	//
	// Parameters:
	//   - callback: function receiving the cursor delta in pixels and the held modifiers
	SetDragCallback(callback func(dx, dy float32, mods common.Modifier))

	// SetImage replaces the displayed image. The image is drawn centered and scaled down
	// to fit. Safe to call from any goroutine.
	//
	// Parameters:
	//   - img: the image to show, or nil to show only the backdrop
	SetImage(img image.Image)

	// SetBackdrop replaces the image drawn behind the displayed image. The backdrop is
	// drawn at the origin without scaling. Safe to call from any goroutine.
	//
	// Parameters:
	//   - img: the backdrop, or nil for a black background
	SetBackdrop(img image.Image)

	// Run opens the window and blocks until it closes.
	//
	// Returns:
	//   - error: error returned by the platform loop
	Run() error

	// IsRunning reports whether the window loop is active.
	//
	// Returns:
	//   - bool: true if the window is open
	IsRunning() bool

	// Close asks the window loop to exit after the current tick.
	//
	// Returns:
	//   - error: always nil
	Close() error

	// Width returns the current client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	mu sync.Mutex

	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height track the client area reported by the platform layout pass.
	width  int
	height int

	tickRate int

	running bool
	closing bool

	// image and backdrop are swapped in by SetImage / SetBackdrop and uploaded on the next
	// draw when their version changes.
	image           image.Image
	imageVersion    uint64
	backdrop        image.Image
	backdropVersion uint64

	drag dragState

	onUpdate  func()
	onResize  func(width, height int)
	onScroll  func(delta float32)
	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)
	onDrag    func(dx, dy float32, mods common.Modifier)
}

var _ Window = &engineWindow{}

// NewWindow creates a Window with the specified options. The platform window opens on Run.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:     "oxy preview",
		maxWidth:  4096,
		maxHeight: 4096,
		minWidth:  128,
		minHeight: 128,
		width:     640,
		height:    640,
		tickRate:  60,
	}
	for _, opt := range options {
		opt(w)
	}
	w.width = common.Clamp(w.width, w.minWidth, w.maxWidth)
	w.height = common.Clamp(w.height, w.minHeight, w.maxHeight)
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onKeyUp = callback
}

func (w *engineWindow) SetDragCallback(callback func(dx, dy float32, mods common.Modifier)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onDrag = callback
}

func (w *engineWindow) SetImage(img image.Image) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.image = img
	w.imageVersion++
}

func (w *engineWindow) SetBackdrop(img image.Image) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.backdrop = img
	w.backdropVersion++
}

func (w *engineWindow) Run() error {
	w.mu.Lock()
	w.running = true
	w.closing = false
	w.mu.Unlock()

	err := runPlatformWindow(w)

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
	return err
}

func (w *engineWindow) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running && !w.closing
}

func (w *engineWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closing = true
	return nil
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// resize records a new client size and reports whether it changed.
func (w *engineWindow) resize(width, height int) (func(int, int), bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if width == w.width && height == w.height {
		return nil, false
	}
	w.width, w.height = width, height
	return w.onResize, true
}

// dragState turns absolute cursor samples into per-tick drag deltas.
type dragState struct {
	active bool
	lastX  int
	lastY  int
}

// update feeds one cursor sample. It returns the movement since the previous sample while the
// button stays held; the press itself only anchors the drag.
func (d *dragState) update(pressed bool, x, y int) (dx, dy float32, moved bool) {
	if !pressed {
		d.active = false
		return 0, 0, false
	}
	if !d.active {
		d.active = true
		d.lastX, d.lastY = x, y
		return 0, 0, false
	}
	dx, dy = float32(x-d.lastX), float32(y-d.lastY)
	d.lastX, d.lastY = x, y
	return dx, dy, dx != 0 || dy != 0
}

// fitRect returns the scale and top-left offset that center a srcW x srcH image inside a
// dstW x dstH area, shrinking it when it does not fit. Images are never enlarged.
func fitRect(srcW, srcH, dstW, dstH int) (scale, x, y float64) {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return 1, 0, 0
	}
	scale = min(1, float64(dstW)/float64(srcW), float64(dstH)/float64(srcH))
	x = (float64(dstW) - float64(srcW)*scale) / 2
	y = (float64(dstH) - float64(srcH)*scale) / 2
	return scale, x, y
}
