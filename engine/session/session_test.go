package session

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-preview/engine/assets"
	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
	"github.com/Carmen-Shannon/oxy-preview/engine/pose"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-preview/engine/scene"
	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRenderer wraps a real renderer and replaces Render with an injected outcome.
type stubRenderer struct {
	renderer.Renderer

	err        error
	panicValue any
	ephemeral  int
	mask       uint32
}

func (r *stubRenderer) Render(cam camera.Camera, sc scene.Scene, target *renderer.RenderTarget) error {
	r.ephemeral = sc.CountEphemeral()
	r.mask = cam.CullingMask()
	if r.panicValue != nil {
		panic(r.panicValue)
	}
	return r.err
}

func newTestSession(t *testing.T, options ...SessionBuilderOption) Session {
	t.Helper()
	sc := scene.NewScene("preview", scene.WithComputeWorkers(1))
	r := renderer.NewRenderer(renderer.BackendTypeSoftware, renderer.WithWorkers(2))
	t.Cleanup(func() {
		r.Close()
		sc.Close()
	})
	base := []SessionBuilderOption{WithScene(sc), WithRenderer(r)}
	return NewSession(append(base, options...)...)
}

func cubeSubject() game_object.GameObject {
	return game_object.NewGameObject(game_object.WithName("cube"), game_object.WithModel(model.NewCube(1)))
}

func cubeParams(size int) Params {
	return Params{
		Subject: cubeSubject(),
		Basis:   camera.NewViewBasis(camera.WithOrthographic(true)),
		Width:   size,
		Height:  size,
	}
}

func TestRenderCapturesAlphaBeforePostProcess(t *testing.T) {
	s := newTestSession(t)
	res, err := s.Render(cubeParams(32))
	require.NoError(t, err)
	require.NotNil(t, res.Alpha)

	assert.Equal(t, 32, res.Color.Width())
	assert.Equal(t, 32, res.Alpha.Height())

	// the default camera resolves the color target to opaque
	assert.Equal(t, uint8(255), res.Color.Data()[3])
	assert.Equal(t, uint8(0), res.Alpha.Data()[3])

	center := (16*32 + 16) * 4
	assert.Equal(t, uint8(255), res.Alpha.Data()[center+3])
}

func TestRenderWithFallbackCameraSkipsAlpha(t *testing.T) {
	reg := assets.NewDefaultRegistry()
	reg.Unregister(assets.DefaultCameraName)
	s := newTestSession(t, WithRegistry(reg))

	res, err := s.Render(cubeParams(16))
	require.NoError(t, err)
	assert.Nil(t, res.Alpha)
	assert.Equal(t, uint8(0), res.Color.Data()[3])
}

func TestRenderWithoutCamera(t *testing.T) {
	s := newTestSession(t, WithRegistry(assets.NewRegistry()))
	before := s.Scene().CountEphemeral()

	_, err := s.Render(cubeParams(8))
	assert.ErrorIs(t, err, ErrNoRenderer)
	assert.Equal(t, before, s.Scene().CountEphemeral())
}

func TestRenderReleasesEphemeralObjects(t *testing.T) {
	tests := []struct {
		name    string
		stub    *stubRenderer
		wantErr error
	}{
		{name: "success", stub: &stubRenderer{}},
		{name: "renderer error", stub: &stubRenderer{err: renderer.ErrTargetReleased}, wantErr: renderer.ErrTargetReleased},
		{name: "renderer panic", stub: &stubRenderer{panicValue: "boom"}, wantErr: ErrRenderPanic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := renderer.NewRenderer(renderer.BackendTypeSoftware, renderer.WithWorkers(1))
			t.Cleanup(backend.Close)
			tt.stub.Renderer = backend

			s := newTestSession(t, WithRenderer(tt.stub))
			persistent := s.Scene().Add(game_object.NewGameObject(game_object.WithName("bystander")))
			before := s.Scene().CountEphemeral()

			_, err := s.Render(cubeParams(8))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, before+2, tt.stub.ephemeral, "clone and camera are registered during the render")
			assert.Equal(t, PreviewMask, tt.stub.mask)
			assert.Equal(t, before, s.Scene().CountEphemeral())
			assert.NotNil(t, s.Scene().Get(persistent))
		})
	}
}

func TestRenderLeavesSubjectUntouched(t *testing.T) {
	s := newTestSession(t)
	params := cubeParams(8)
	params.Subject.SetLayer(3)

	_, err := s.Render(params)
	require.NoError(t, err)

	assert.Equal(t, uint8(3), params.Subject.Layer())
	assert.Equal(t, game_object.HideNone, params.Subject.HideFlags())
	assert.False(t, params.Subject.Ephemeral())
	assert.Zero(t, params.Subject.ID())
}

func TestRenderClampsSize(t *testing.T) {
	s := newTestSession(t)
	params := cubeParams(0)
	params.Height = -4

	res, err := s.Render(params)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Color.Width())
	assert.Equal(t, 1, res.Color.Height())
}

func TestRenderSupersample(t *testing.T) {
	s := newTestSession(t, WithSupersample(9))
	assert.Equal(t, MaxSupersample, s.Supersample())

	params := cubeParams(16)
	params.ClearColor = gg.RGBA{R: 0, G: 0, B: 1, A: 1}
	res, err := s.Render(params)
	require.NoError(t, err)

	assert.Equal(t, 16, res.Color.Width())
	assert.Equal(t, 16, res.Alpha.Width())
	assert.InDelta(t, 255, int(res.Alpha.Data()[(8*16+8)*4+3]), 1)

	corner := res.Alpha.Data()[:4]
	assert.Zero(t, corner[0])
	assert.InDelta(t, 255, int(corner[2]), 1)
	assert.InDelta(t, 255, int(corner[3]), 1)
}

func TestRenderWithoutSubject(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Render(Params{Width: 4, Height: 4})
	assert.True(t, errors.Is(err, ErrNoSubject))
}

type recordingSampler struct {
	pose.Sampler

	applied []string
}

func (s *recordingSampler) Apply(obj game_object.GameObject, p *pose.Pose) bool {
	if p != nil {
		s.applied = append(s.applied, p.Clip)
	}
	return s.Sampler.Apply(obj, p)
}

func TestRenderUsesConfiguredSampler(t *testing.T) {
	rec := &recordingSampler{Sampler: pose.NewSampler()}
	s := newTestSession(t, WithSampler(rec))

	params := cubeParams(8)
	params.Pose = &pose.Pose{Clip: "idle"}
	_, err := s.Render(params)
	require.NoError(t, err)
	assert.Equal(t, []string{"idle"}, rec.applied)
}

func TestOwnedSceneIsActive(t *testing.T) {
	s := NewSession()
	t.Cleanup(s.Close)
	assert.True(t, s.Scene().Active())
}
