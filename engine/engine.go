package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/assets"
	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/compositor"
	"github.com/Carmen-Shannon/oxy-preview/engine/profiler"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-preview/engine/scene"
	"github.com/Carmen-Shannon/oxy-preview/engine/session"
)

// DefaultExportPath is the export path reported before the first successful export.
const DefaultExportPath = "default.png"

// engine implements the Engine interface.
type engine struct {
	mu *sync.Mutex

	registry   assets.Registry
	scene      scene.Scene
	renderer   renderer.Renderer
	session    session.Session
	compositor compositor.Compositor
	controller camera.CameraController

	profiler         *profiler.Profiler
	profilingEnabled bool
	supersample      int
	ownsSession      bool

	image          atomic.Pointer[compositor.RenderedImage]
	inFlight       atomic.Bool
	repaint        atomic.Bool
	repaintFn      func()
	lastExportPath string
}

// Engine is the preview generator entry point.
// It renders thumbnails of a subject, owns the current image and the navigation controller,
// signals the host when the preview must be repainted and exports the image as PNG.
type Engine interface {
	// Render produces a preview and makes it the current image. A request without a subject
	// is a no-op returning (nil, nil). The request size is clamped before any buffer is
	// allocated. A failed render keeps the previous image.
	//
	// Parameters:
	//   - req: the render request
	//
	// Returns:
	//   - *compositor.RenderedImage: the new image
	//   - error: ErrRenderInFlight, or a wrapped session or compositor error
	Render(req RenderRequest) (*compositor.RenderedImage, error)

	// Image returns the current image without locking.
	//
	// Returns:
	//   - *compositor.RenderedImage: the image, or nil before the first render
	Image() *compositor.RenderedImage

	// Reset discards the current image.
	Reset()

	// Controller returns the navigation controller.
	//
	// Returns:
	//   - camera.CameraController: the controller
	Controller() camera.CameraController

	// Basis returns the navigation basis used for requests without one.
	//
	// Returns:
	//   - camera.ViewBasis: the basis
	Basis() camera.ViewBasis

	// HandleDrag routes a pointer drag to the controller and signals a repaint if the basis changed.
	//
	// Parameters:
	//   - deltaX, deltaY: pointer movement in pixels
	//   - mods: modifier keys held during the drag
	HandleDrag(deltaX, deltaY float32, mods common.Modifier)

	// Orbit rotates the navigation basis and signals a repaint.
	//
	// Parameters:
	//   - deltaX, deltaY: pointer movement in pixels
	Orbit(deltaX, deltaY float32)

	// Pan offsets the navigation basis and signals a repaint.
	//
	// Parameters:
	//   - deltaX, deltaY: pointer movement in pixels
	Pan(deltaX, deltaY float32)

	// Zoom changes the navigation zoom and signals a repaint.
	//
	// Parameters:
	//   - delta: zoom input, positive zooms out
	Zoom(delta float32)

	// RepaintNeeded reports whether a repaint was signaled since the last call, and clears the flag.
	//
	// Returns:
	//   - bool: true if the host should redraw
	RepaintNeeded() bool

	// SetRepaintCallback registers the function called on every repaint signal.
	//
	// Parameters:
	//   - fn: the callback, or nil to remove it
	SetRepaintCallback(fn func())

	// ExportImage writes the current image as PNG. An empty path is a no-op.
	//
	// Parameters:
	//   - path: the destination file
	//
	// Returns:
	//   - error: an error wrapping ErrExportFailure
	ExportImage(path string) error

	// LastExportPath returns the path of the last successful export, or DefaultExportPath.
	//
	// Returns:
	//   - string: the path
	LastExportPath() string

	// Session returns the offscreen render session.
	//
	// Returns:
	//   - session.Session: the session
	Session() session.Session

	// Close releases the session if the engine created it.
	Close()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine. Collaborators not supplied through options are created with
// defaults: the default asset registry, a software-rendered session and a compositor bound to
// the same registry.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:             &sync.Mutex{},
		supersample:    1,
		lastExportPath: DefaultExportPath,
	}
	for _, option := range options {
		option(e)
	}

	if e.registry == nil {
		e.registry = assets.NewDefaultRegistry()
	}
	if e.profilingEnabled && e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}
	if e.session == nil {
		opts := []session.SessionBuilderOption{
			session.WithRegistry(e.registry),
			session.WithSupersample(e.supersample),
			session.WithProfiler(e.profiler),
		}
		if e.scene != nil {
			opts = append(opts, session.WithScene(e.scene))
		}
		if e.renderer != nil {
			opts = append(opts, session.WithRenderer(e.renderer))
		}
		e.session = session.NewSession(opts...)
		e.ownsSession = true
	}
	if e.compositor == nil {
		e.compositor = compositor.NewCompositor(compositor.WithRegistry(e.registry))
	}
	if e.controller == nil {
		e.controller = camera.NewCameraController()
	}
	return e
}

func (e *engine) Render(req RenderRequest) (*compositor.RenderedImage, error) {
	if req.Subject == nil {
		return nil, nil
	}
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil, ErrRenderInFlight
	}
	defer e.inFlight.Store(false)

	req.Normalize()
	basis := req.Basis
	if basis == nil {
		basis = e.controller.Basis()
	}
	name := req.Subject.Name()
	log := common.Logger().With("subject", name)

	res, err := e.session.Render(session.Params{
		Subject:    req.Subject,
		Pose:       req.Pose,
		Basis:      basis,
		ClearColor: req.Background.ClearColor(),
		Width:      req.Width,
		Height:     req.Height,
	})
	if err != nil {
		log.Error("preview render failed", "err", err)
		return nil, fmt.Errorf("render %q: %w", name, err)
	}

	img, err := e.compositor.Merge(res.Color, req.Background, res.Alpha)
	if err != nil {
		log.Error("preview composite failed", "background", req.Background.Kind().String(), "err", err)
		return nil, fmt.Errorf("composite %q: %w", name, err)
	}

	e.image.Store(img)
	log.Debug("preview rendered", "width", req.Width, "height", req.Height)
	e.signalRepaint()
	return img, nil
}

func (e *engine) Image() *compositor.RenderedImage {
	return e.image.Load()
}

func (e *engine) Reset() {
	e.image.Store(nil)
}

func (e *engine) Controller() camera.CameraController {
	return e.controller
}

func (e *engine) Basis() camera.ViewBasis {
	return e.controller.Basis()
}

func (e *engine) HandleDrag(deltaX, deltaY float32, mods common.Modifier) {
	if e.controller.HandleDrag(deltaX, deltaY, mods) {
		e.signalRepaint()
	}
}

func (e *engine) Orbit(deltaX, deltaY float32) {
	e.controller.Orbit(deltaX, deltaY)
	e.signalRepaint()
}

func (e *engine) Pan(deltaX, deltaY float32) {
	e.controller.Pan(deltaX, deltaY)
	e.signalRepaint()
}

func (e *engine) Zoom(delta float32) {
	e.controller.Zoom(delta)
	e.signalRepaint()
}

func (e *engine) RepaintNeeded() bool {
	return e.repaint.Swap(false)
}

func (e *engine) SetRepaintCallback(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.repaintFn = fn
}

func (e *engine) ExportImage(path string) error {
	if path == "" {
		return nil
	}
	log := common.Logger()

	img := e.image.Load()
	if img == nil {
		return fmt.Errorf("%w: no image rendered", ErrExportFailure)
	}
	if err := writePNG(path, img); err != nil {
		log.Error("export failed", "path", path, "err", err)
		return fmt.Errorf("%w: %w", ErrExportFailure, err)
	}

	e.mu.Lock()
	e.lastExportPath = path
	e.mu.Unlock()
	log.Info("preview exported", "path", path)
	return nil
}

func (e *engine) LastExportPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastExportPath
}

func (e *engine) Session() session.Session {
	return e.session
}

func (e *engine) Close() {
	if e.ownsSession {
		e.session.Close()
	}
}

// signalRepaint raises the dirty flag and notifies the observer.
func (e *engine) signalRepaint() {
	e.repaint.Store(true)
	e.mu.Lock()
	fn := e.repaintFn
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// writePNG encodes img next to path and renames it into place, so a failed export never
// leaves a truncated file behind.
func writePNG(path string, img *compositor.RenderedImage) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".oxypreview-*.png")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	tmp := f.Name()

	if err := img.EncodePNG(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
