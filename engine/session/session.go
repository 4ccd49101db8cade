package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/assets"
	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/pose"
	"github.com/Carmen-Shannon/oxy-preview/engine/profiler"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-preview/engine/scene"
	"github.com/gogpu/gg"
)

// PreviewLayer is the layer ephemeral preview objects are placed on. Preview cameras render
// this layer only, so nothing else in the preview scene leaks into a thumbnail.
const PreviewLayer uint8 = 22

// PreviewMask is the culling mask of preview cameras.
const PreviewMask uint32 = 1 << PreviewLayer

// MaxSupersample bounds the supersample factor.
const MaxSupersample = 4

var (
	// ErrNoRenderer is returned when neither camera template can be instantiated.
	ErrNoRenderer = errors.New("no preview camera available")

	// ErrNoSubject is returned when Params carries no subject.
	ErrNoSubject = errors.New("no preview subject")

	// ErrRenderPanic wraps a panic recovered during an offscreen render.
	ErrRenderPanic = errors.New("offscreen render panicked")
)

// Params describes one offscreen render.
type Params struct {
	// Subject is the object to preview. It is cloned and never modified.
	Subject game_object.GameObject

	// Pose optionally samples one animation frame onto the clone.
	Pose *pose.Pose

	// Basis orients the camera. A nil basis uses the default view.
	Basis camera.ViewBasis

	// ClearColor is the color the target is cleared to before the color pass.
	ClearColor gg.RGBA

	// Width and Height are the output size, clamped into [1, 4096].
	Width  int
	Height int
}

// Result holds the buffers produced by a render. Both are owned by the caller.
type Result struct {
	// Color is the final color target after post-processing.
	Color *gg.Pixmap

	// Alpha is the color target as it was before post-processing, or nil when the camera
	// has no post-process pipeline.
	Alpha *gg.Pixmap
}

type session struct {
	mu *sync.Mutex

	scene    scene.Scene
	registry assets.Registry
	renderer renderer.Renderer
	sampler  pose.Sampler
	profiler *profiler.Profiler

	supersample  int
	ownsScene    bool
	ownsRenderer bool
}

// Session renders a single subject off-screen.
//
// Each call to Render instantiates its own subject clone, camera and render target, registers
// the objects as ephemeral in the preview scene and releases all of them before returning,
// on every exit path. Calls are serialized.
type Session interface {
	// Render clones the subject, applies the optional pose, frames a camera from the view basis
	// and draws the clone into an off-screen target.
	//
	// Parameters:
	//   - params: the render parameters
	//
	// Returns:
	//   - *Result: the color target and the captured alpha
	//   - error: ErrNoSubject, ErrNoRenderer, a wrapped renderer error or ErrRenderPanic
	Render(params Params) (*Result, error)

	// Scene returns the preview scene ephemeral objects are registered in.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Registry returns the asset registry camera templates are resolved from.
	//
	// Returns:
	//   - assets.Registry: the registry
	Registry() assets.Registry

	// Supersample returns the supersample factor.
	//
	// Returns:
	//   - int: the factor in [1, MaxSupersample]
	Supersample() int

	// Close releases the scene and renderer if the session created them.
	Close()
}

var _ Session = &session{}

// NewSession creates a new Session. Collaborators not supplied through options are created
// with defaults: a default asset registry, a private preview scene, a software renderer and
// a pose sampler bound to the registry.
//
// Parameters:
//   - options: functional options to configure the session
//
// Returns:
//   - Session: the session
func NewSession(options ...SessionBuilderOption) Session {
	s := &session{
		mu:          &sync.Mutex{},
		supersample: 1,
	}
	for _, option := range options {
		option(s)
	}

	if s.registry == nil {
		s.registry = assets.NewDefaultRegistry()
	}
	if s.scene == nil {
		s.scene = scene.NewScene("preview", scene.WithActive(true))
		s.ownsScene = true
	}
	if s.renderer == nil {
		s.renderer = renderer.NewRenderer(renderer.BackendTypeSoftware)
		s.ownsRenderer = true
	}
	if s.sampler == nil {
		s.sampler = pose.NewSampler(pose.WithRegistry(s.registry))
	}
	return s
}

func (s *session) Scene() scene.Scene {
	return s.scene
}

func (s *session) Registry() assets.Registry {
	return s.registry
}

func (s *session) Supersample() int {
	return s.supersample
}

func (s *session) Close() {
	if s.ownsRenderer {
		s.renderer.Close()
	}
	if s.ownsScene {
		s.scene.Close()
	}
}

func (s *session) Render(params Params) (res *Result, err error) {
	if params.Subject == nil {
		return nil, ErrNoSubject
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	width := camera.ClampRenderSize(params.Width)
	height := camera.ClampRenderSize(params.Height)
	basis := params.Basis
	if basis == nil {
		basis = camera.NewViewBasis()
	}
	s.profiler.Begin()

	// releases run in reverse order once the render is over, whatever the outcome
	var releases []func()
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: %v", ErrRenderPanic, r)
		}
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
		s.profiler.Report(params.Subject.Name())
	}()

	clone := params.Subject.Clone()
	s.prepareEphemeral(clone)
	cloneID := s.scene.Add(clone)
	releases = append(releases, func() { s.scene.RemoveEphemeral(cloneID) })

	camObj, cam, err := s.instantiateCamera()
	if err != nil {
		return nil, err
	}
	s.prepareEphemeral(camObj)
	camID := s.scene.Add(camObj)
	releases = append(releases, func() { s.scene.RemoveEphemeral(camID) })

	cam.SetCullingMask(PreviewMask)
	cam.SetAutoRender(false)
	cam.SetBackgroundColor(params.ClearColor)
	cam.SetAspect(float32(width) / float32(height))
	s.profiler.Mark("instantiate")

	s.sampler.Apply(clone, params.Pose)
	s.profiler.Mark("pose")

	cam.Frame(basis, clone.WorldBounds())

	var alpha *gg.Pixmap
	if post, ok := cam.Pipeline(); ok {
		remove := post.OnPassComplete(func(target *gg.Pixmap) {
			alpha = copyPixmap(target)
		})
		releases = append(releases, remove)
	}

	ss := s.supersample
	target := renderer.NewRenderTarget(width*ss, height*ss)
	releases = append(releases, target.Release)

	if err := s.renderer.Render(cam, s.scene, target); err != nil {
		return nil, fmt.Errorf("offscreen render: %w", err)
	}
	s.profiler.Mark("color")

	color := copyPixmap(target.Color())
	if ss > 1 {
		color = downsample(color, width, height)
		if alpha != nil {
			alpha = downsample(alpha, width, height)
		}
		s.profiler.Mark("downsample")
	}
	return &Result{Color: color, Alpha: alpha}, nil
}

// instantiateCamera clones the default camera template, falling back to the fallback template.
func (s *session) instantiateCamera() (game_object.GameObject, camera.Camera, error) {
	log := common.Logger()
	for _, name := range []string{assets.DefaultCameraName, assets.FallbackCameraName} {
		obj, err := s.registry.Instantiate(name)
		if err != nil {
			log.Warn("camera template unavailable", "asset", name, "err", err)
			continue
		}
		if cam, ok := obj.Camera(); ok {
			return obj, cam, nil
		}
		log.Warn("camera template has no camera", "asset", name)
	}
	return nil, nil, ErrNoRenderer
}

func (s *session) prepareEphemeral(obj game_object.GameObject) {
	obj.SetHideFlags(game_object.HideAndDontSave)
	obj.SetLayer(PreviewLayer)
	obj.SetEphemeral(true)
}

func copyPixmap(src *gg.Pixmap) *gg.Pixmap {
	out := gg.NewPixmap(src.Width(), src.Height())
	copy(out.Data(), src.Data())
	return out
}
