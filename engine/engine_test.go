package engine

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/compositor"
	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-preview/engine/scene"
	"github.com/Carmen-Shannon/oxy-preview/engine/session"
	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected color pass failure")

// hookRenderer delegates to a real renderer unless an injected hook intercepts the call.
type hookRenderer struct {
	renderer.Renderer

	before func() error
}

func (r *hookRenderer) Render(cam camera.Camera, sc scene.Scene, target *renderer.RenderTarget) error {
	if r.before != nil {
		if err := r.before(); err != nil {
			return err
		}
	}
	return r.Renderer.Render(cam, sc, target)
}

type fixture struct {
	engine   Engine
	scene    scene.Scene
	renderer *hookRenderer
}

func newFixture(t *testing.T, options ...EngineBuilderOption) *fixture {
	t.Helper()
	sc := scene.NewScene("preview", scene.WithComputeWorkers(1))
	r := &hookRenderer{Renderer: renderer.NewRenderer(renderer.BackendTypeSoftware, renderer.WithWorkers(2))}
	base := []EngineBuilderOption{WithScene(sc), WithRenderer(r)}
	e := NewEngine(append(base, options...)...)
	t.Cleanup(func() {
		e.Close()
		r.Close()
		sc.Close()
	})
	return &fixture{engine: e, scene: sc, renderer: r}
}

func cube() game_object.GameObject {
	return game_object.NewGameObject(game_object.WithName("cube"), game_object.WithModel(model.NewCube(1)))
}

func cubeRequest(size int, bg compositor.Background) RenderRequest {
	return RenderRequest{
		Subject:    cube(),
		Basis:      camera.NewViewBasis(camera.WithDirection([3]float32{-1, -1, -1}), camera.WithOrthographic(true)),
		Background: bg,
		Width:      size,
		Height:     size,
	}
}

func TestRenderCubeTransparent(t *testing.T) {
	f := newFixture(t)

	img, err := f.engine.Render(cubeRequest(64, compositor.Transparent()))
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Same(t, img, f.engine.Image())
	assert.Equal(t, 64, img.Width())

	pix := img.Bytes()
	alphaAt := func(x, y int) uint8 { return pix[(y*64+x)*4+3] }
	assert.Equal(t, uint8(255), alphaAt(32, 32))
	for _, c := range [][2]int{{0, 0}, {63, 0}, {0, 63}, {63, 63}} {
		assert.Zero(t, alphaAt(c[0], c[1]))
	}

	covered := 0
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0 {
			covered++
			assert.NotZero(t, pix[i-3]|pix[i-2]|pix[i-1], "covered pixels carry lit color")
		}
	}
	assert.Greater(t, covered, 64*64/4)
	assert.Less(t, covered, 64*64)

	again, err := f.engine.Render(cubeRequest(64, compositor.Transparent()))
	require.NoError(t, err)
	assert.Equal(t, pix, again.Bytes(), "identical requests render identical bytes")
}

func TestRenderTransparentWithoutCoverage(t *testing.T) {
	f := newFixture(t)
	empty := game_object.NewGameObject(game_object.WithName("empty"), game_object.WithModel(model.NewModel()))

	img, err := f.engine.Render(RenderRequest{Subject: empty, Background: compositor.Transparent(), Width: 16, Height: 16})
	require.NoError(t, err)
	pix := img.Bytes()
	for i := 3; i < len(pix); i += 4 {
		assert.Zero(t, pix[i])
	}
}

func TestRenderSolidColorIsOpaque(t *testing.T) {
	f := newFixture(t)
	img, err := f.engine.Render(cubeRequest(32, compositor.SolidColor(gg.RGBA{R: 1, A: 1})))
	require.NoError(t, err)

	pix := img.Bytes()
	for i := 3; i < len(pix); i += 4 {
		assert.Equal(t, uint8(255), pix[i])
	}
	assert.Equal(t, []uint8{255, 0, 0, 255}, pix[:4])
}

func TestRenderClampsSize(t *testing.T) {
	f := newFixture(t)
	req := cubeRequest(0, compositor.Transparent())
	req.Height = 5000

	img, err := f.engine.Render(req)
	require.NoError(t, err)
	assert.Equal(t, 1, img.Width())
	assert.Equal(t, 4096, img.Height())

	req.Normalize()
	assert.Equal(t, 1, req.Width)
	assert.Equal(t, 4096, req.Height)
}

func TestRenderReleasesEphemeralObjects(t *testing.T) {
	f := newFixture(t)
	before := f.scene.CountEphemeral()

	_, err := f.engine.Render(cubeRequest(8, compositor.Transparent()))
	require.NoError(t, err)
	assert.Equal(t, before, f.scene.CountEphemeral())

	previous := f.engine.Image()
	f.renderer.before = func() error { return errInjected }
	_, err = f.engine.Render(cubeRequest(8, compositor.Transparent()))
	assert.ErrorIs(t, err, errInjected)
	assert.Equal(t, before, f.scene.CountEphemeral())
	assert.Same(t, previous, f.engine.Image(), "a failed render keeps the previous image")
}

func TestRenderKeepsHostObjects(t *testing.T) {
	f := newFixture(t)
	holder := game_object.NewGameObject(game_object.WithID(1), game_object.WithName("holder"))
	f.scene.Add(holder)

	_, err := f.engine.Render(cubeRequest(16, compositor.Transparent()))
	require.NoError(t, err)
	assert.Equal(t, 1, f.scene.Count())
	assert.Equal(t, 0, f.scene.CountEphemeral())
	assert.Same(t, holder, f.scene.Get(1))
}

func TestRenderNilSubject(t *testing.T) {
	f := newFixture(t)
	img, err := f.engine.Render(RenderRequest{Width: 8, Height: 8})
	assert.NoError(t, err)
	assert.Nil(t, img)
	assert.False(t, f.engine.RepaintNeeded())
}

func TestRenderRejectsReentry(t *testing.T) {
	f := newFixture(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	f.renderer.before = func() error {
		close(entered)
		<-release
		return nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.engine.Render(cubeRequest(8, compositor.Transparent()))
		done <- err
	}()

	<-entered
	_, err := f.engine.Render(cubeRequest(8, compositor.Transparent()))
	assert.ErrorIs(t, err, ErrRenderInFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestRepaintSignals(t *testing.T) {
	var calls atomic.Int32
	f := newFixture(t, WithRepaintCallback(func() { calls.Add(1) }))
	e := f.engine

	_, err := e.Render(cubeRequest(8, compositor.Transparent()))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, e.RepaintNeeded())
	assert.False(t, e.RepaintNeeded(), "polling clears the flag")

	e.HandleDrag(0, 0, common.ModNone)
	assert.Equal(t, int32(1), calls.Load(), "no movement, no repaint")

	dir := e.Basis().Direction()
	e.HandleDrag(10, 0, common.ModNone)
	assert.Equal(t, int32(2), calls.Load())
	assert.NotEqual(t, dir, e.Basis().Direction())

	e.Pan(4, 0)
	e.Zoom(1)
	e.Orbit(0, 3)
	assert.Equal(t, int32(5), calls.Load())

	e.SetRepaintCallback(nil)
	e.Orbit(1, 1)
	assert.Equal(t, int32(5), calls.Load())
	assert.True(t, e.RepaintNeeded())
}

func TestRenderUsesNavigationBasis(t *testing.T) {
	f := newFixture(t)
	req := cubeRequest(16, compositor.Transparent())
	req.Basis = nil

	first, err := f.engine.Render(req)
	require.NoError(t, err)

	f.engine.Pan(2000, 0)
	second, err := f.engine.Render(req)
	require.NoError(t, err)
	assert.NotEqual(t, first.Bytes(), second.Bytes())
}

func TestExportImage(t *testing.T) {
	f := newFixture(t)
	e := f.engine
	dir := t.TempDir()

	assert.Equal(t, DefaultExportPath, e.LastExportPath())
	assert.ErrorIs(t, e.ExportImage(filepath.Join(dir, "early.png")), ErrExportFailure)

	img, err := e.Render(cubeRequest(16, compositor.Transparent()))
	require.NoError(t, err)

	bad := filepath.Join(dir, "missing", "nested", "out.png")
	assert.ErrorIs(t, e.ExportImage(bad), ErrExportFailure)
	assert.Same(t, img, e.Image())
	assert.Equal(t, DefaultExportPath, e.LastExportPath())

	good := filepath.Join(dir, "out.png")
	require.NoError(t, e.ExportImage(good))
	assert.Equal(t, good, e.LastExportPath())
	info, err := os.Stat(good)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	require.NoError(t, e.ExportImage(""))
	assert.Equal(t, good, e.LastExportPath())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestResetClearsImage(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Render(cubeRequest(8, compositor.Transparent()))
	require.NoError(t, err)
	f.engine.Reset()
	assert.Nil(t, f.engine.Image())
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name  string
		req   RenderRequest
		valid bool
	}{
		{name: "valid", req: cubeRequest(64, compositor.Transparent()), valid: true},
		{name: "no subject", req: RenderRequest{Width: 8, Height: 8}},
		{name: "no model", req: RenderRequest{Subject: game_object.NewGameObject(), Width: 8, Height: 8}},
		{name: "too large", req: cubeRequest(5000, compositor.Transparent())},
		{name: "zero size", req: cubeRequest(0, compositor.Transparent())},
		{name: "tiled without texture", req: cubeRequest(8, compositor.TiledTexture(nil, false))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

type countingCompositor struct {
	compositor.Compositor

	merges int
}

func (c *countingCompositor) Merge(color *gg.Pixmap, bg compositor.Background, alpha *gg.Pixmap) (*compositor.RenderedImage, error) {
	c.merges++
	return c.Compositor.Merge(color, bg, alpha)
}

func TestInjectedSessionAndCompositor(t *testing.T) {
	sess := session.NewSession(session.WithSupersample(2))
	t.Cleanup(sess.Close)
	comp := &countingCompositor{Compositor: compositor.NewCompositor()}

	e := NewEngine(WithSession(sess), WithCompositor(comp), WithSupersample(4))
	img, err := e.Render(cubeRequest(12, compositor.Transparent()))
	require.NoError(t, err)
	assert.Equal(t, 12, img.Width())
	assert.Equal(t, 1, comp.merges)
	e.Close()

	assert.Equal(t, 2, sess.Supersample(), "an injected session keeps its own settings")
	_, err = sess.Render(session.Params{Subject: cube(), Width: 4, Height: 4})
	assert.NoError(t, err, "the session stays usable after the engine closes")
}
