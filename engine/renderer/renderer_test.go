package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/light"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-preview/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity() [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	return m
}

// ndcTriangle is a counter-clockwise triangle covering the lower-left half of the viewport.
func ndcTriangle(z float32) []model.Vertex {
	return []model.Vertex{
		{Position: [3]float32{-1, -1, z}, Normal: [3]float32{0, 0, 1}, Color: [4]float32{1, 1, 1, 1}},
		{Position: [3]float32{1, -1, z}, Normal: [3]float32{0, 0, 1}, Color: [4]float32{1, 1, 1, 1}},
		{Position: [3]float32{-1, 1, z}, Normal: [3]float32{0, 0, 1}, Color: [4]float32{1, 1, 1, 1}},
	}
}

func flatCall(verts []model.Vertex, indices []uint32, col [4]float32, p pipeline.Pipeline) DrawCall {
	return DrawCall{
		Vertices: verts,
		Indices:  indices,
		World:    identity(),
		ViewProj: identity(),
		Material: material.NewMaterial(material.WithBaseColor(col), material.WithUnlit(true)),
		Pipeline: p,
		Lighting: &shader.Lighting{},
	}
}

func newTestRenderer(t *testing.T, workers int) Renderer {
	t.Helper()
	r := NewRenderer(BackendTypeSoftware, WithWorkers(workers))
	t.Cleanup(r.Close)
	return r
}

func TestDrawCoversTriangle(t *testing.T) {
	r := newTestRenderer(t, 2)
	target := NewRenderTarget(16, 16)

	p := pipeline.NewPipeline("flat", pipeline.PipelineTypeRender)
	require.NoError(t, r.Draw(target, []DrawCall{flatCall(ndcTriangle(0.5), []uint32{0, 1, 2}, [4]float32{1, 0, 0, 1}, p)}))

	inside := target.Color().GetPixel(2, 13)
	assert.Equal(t, 1.0, inside.R)
	assert.Equal(t, 1.0, inside.A)
	assert.InDelta(t, 0.5, target.Depth(2, 13), 1e-5)

	outside := target.Color().GetPixel(14, 1)
	assert.Equal(t, 0.0, outside.A)
	assert.Equal(t, float32(1), target.Depth(14, 1))
}

func TestCullAndWinding(t *testing.T) {
	r := newTestRenderer(t, 1)
	target := NewRenderTarget(8, 8)
	cw := []uint32{0, 2, 1}

	back := pipeline.NewPipeline("back", pipeline.PipelineTypeRender, pipeline.WithCullMode(wgpu.CullModeBack))
	require.NoError(t, r.Draw(target, []DrawCall{flatCall(ndcTriangle(0.5), cw, [4]float32{1, 1, 1, 1}, back)}))
	assert.Equal(t, 0.0, target.Color().GetPixel(1, 6).A)

	frontCW := pipeline.NewPipeline("cw", pipeline.PipelineTypeRender,
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithFrontFace(wgpu.FrontFaceCW),
	)
	require.NoError(t, r.Draw(target, []DrawCall{flatCall(ndcTriangle(0.5), cw, [4]float32{1, 1, 1, 1}, frontCW)}))
	assert.Equal(t, 1.0, target.Color().GetPixel(1, 6).A)
}

func TestDepthTestKeepsNearest(t *testing.T) {
	r := newTestRenderer(t, 3)
	target := NewRenderTarget(8, 8)
	p := pipeline.NewPipeline("flat", pipeline.PipelineTypeRender)

	near := flatCall(ndcTriangle(0.2), []uint32{0, 1, 2}, [4]float32{0, 1, 0, 1}, p)
	far := flatCall(ndcTriangle(0.8), []uint32{0, 1, 2}, [4]float32{0, 0, 1, 1}, p)
	require.NoError(t, r.Draw(target, []DrawCall{near, far}))

	px := target.Color().GetPixel(1, 6)
	assert.Equal(t, 1.0, px.G)
	assert.Equal(t, 0.0, px.B)
}

func TestWriteMaskAndBlend(t *testing.T) {
	r := newTestRenderer(t, 2)
	target := NewRenderTarget(8, 8)

	alphaOnly := pipeline.NewPipeline("alpha", pipeline.PipelineTypeRender, pipeline.WithWriteMask(wgpu.ColorWriteMaskAlpha))
	require.NoError(t, r.Draw(target, []DrawCall{flatCall(ndcTriangle(0.5), []uint32{0, 1, 2}, [4]float32{1, 1, 1, 1}, alphaOnly)}))
	px := target.Color().Data()[(6*8+1)*4:]
	assert.Equal(t, []uint8{0, 0, 0, 255}, px[:4])

	target.Clear(gg.RGBA{R: 0, G: 0, B: 1, A: 1})
	blend := pipeline.NewPipeline("blend", pipeline.PipelineTypeRender, pipeline.WithBlendEnabled(true))
	require.NoError(t, r.Draw(target, []DrawCall{flatCall(ndcTriangle(0.5), []uint32{0, 1, 2}, [4]float32{1, 0, 0, 0.5}, blend)}))
	got := target.Color().GetPixel(1, 6)
	assert.InDelta(t, 0.5, got.R, 1.0/255)
	assert.InDelta(t, 0.5, got.B, 1.0/255)
	assert.Equal(t, 1.0, got.A)
}

func TestNearPlaneClipping(t *testing.T) {
	r := newTestRenderer(t, 1)
	target := NewRenderTarget(8, 8)
	p := pipeline.NewPipeline("flat", pipeline.PipelineTypeRender)

	verts := []model.Vertex{
		{Position: [3]float32{-1, -1, -0.5}, Color: [4]float32{1, 1, 1, 1}},
		{Position: [3]float32{1, -1, 0.5}, Color: [4]float32{1, 1, 1, 1}},
		{Position: [3]float32{-1, 1, 0.5}, Color: [4]float32{1, 1, 1, 1}},
	}
	require.NoError(t, r.Draw(target, []DrawCall{flatCall(verts, []uint32{0, 1, 2}, [4]float32{1, 1, 1, 1}, p)}))
	assert.Equal(t, 0.0, target.Color().GetPixel(0, 7).A)
	assert.Equal(t, 1.0, target.Color().GetPixel(2, 4).A)
}

func renderCube(t *testing.T, workers int) []uint8 {
	t.Helper()
	r := newTestRenderer(t, workers)
	sc := scene.NewScene("cube", scene.WithComputeWorkers(1))
	t.Cleanup(sc.Close)

	obj := game_object.NewGameObject(game_object.WithModel(model.NewCube(1)))
	sc.Add(obj)

	cam := camera.NewCamera()
	cam.Frame(camera.NewViewBasis(camera.WithOrthographic(true)), obj.WorldBounds())

	target := NewRenderTarget(32, 32)
	require.NoError(t, r.Render(cam, sc, target))
	return append([]uint8(nil), target.Color().Data()...)
}

func TestRenderSceneCube(t *testing.T) {
	pix := renderCube(t, 3)
	alphaAt := func(x, y int) uint8 { return pix[(y*32+x)*4+3] }

	assert.Equal(t, uint8(255), alphaAt(16, 16))
	assert.Equal(t, uint8(0), alphaAt(0, 0))
	assert.Equal(t, uint8(0), alphaAt(31, 31))
	assert.NotZero(t, pix[(16*32+16)*4])

	assert.Equal(t, pix, renderCube(t, 1), "band split must not change the output")
}

func TestRenderRunsCameraPipeline(t *testing.T) {
	r := newTestRenderer(t, 1)
	sc := scene.NewScene("empty", scene.WithComputeWorkers(1))
	t.Cleanup(sc.Close)

	post := pipeline.NewPipeline("post", pipeline.PipelineTypePostProcess, pipeline.WithStages(pipeline.OpaqueStage()))
	var captured uint8 = 99
	remove := post.OnPassComplete(func(p *gg.Pixmap) { captured = p.Data()[3] })
	defer remove()

	cam := camera.NewCamera(camera.WithPipeline(post))
	target := NewRenderTarget(4, 4)
	require.NoError(t, r.Render(cam, sc, target))
	assert.Equal(t, uint8(0), captured)
	assert.Equal(t, uint8(255), target.Color().Data()[3])
}

func TestReleasedTarget(t *testing.T) {
	r := newTestRenderer(t, 1)
	target := NewRenderTarget(0, -3)
	assert.Equal(t, 1, target.Width())
	assert.Equal(t, 1, target.Height())
	target.Release()
	target.Release()
	assert.Nil(t, target.Color())
	assert.ErrorIs(t, r.Draw(target, nil), ErrTargetReleased)
}

func TestRegisterPipelines(t *testing.T) {
	r := newTestRenderer(t, 1)
	require.NotNil(t, r.Pipeline(DefaultPipelineKey))
	assert.Equal(t, wgpu.CullModeBack, r.Pipeline(DefaultPipelineKey).CullMode())

	p := pipeline.NewPipeline("custom", pipeline.PipelineTypeRender)
	require.NoError(t, r.RegisterPipelines(p))
	assert.Same(t, p, r.Pipeline("custom"))
	assert.Len(t, r.Pipelines(), 2)
	assert.Error(t, r.RegisterPipelines(pipeline.NewPipeline("", pipeline.PipelineTypeRender)))
}

type countingBackend struct {
	calls int
}

func (b *countingBackend) Type() RendererBackendType { return BackendTypeSoftware }

func (b *countingBackend) Draw(_ *RenderTarget, calls []DrawCall) error {
	b.calls += len(calls)
	return nil
}

func (b *countingBackend) Close() {}

func TestRenderSkipsObjectsOutsideView(t *testing.T) {
	r := newTestRenderer(t, 1).(*renderer)
	counter := &countingBackend{}
	r.backend.Close()
	r.backend = counter

	sc := scene.NewScene("cull", scene.WithComputeWorkers(1))
	t.Cleanup(sc.Close)

	visible := game_object.NewGameObject(game_object.WithModel(model.NewCube(1)))
	sc.Add(visible)
	sc.Add(game_object.NewGameObject(game_object.WithModel(model.NewCube(1)), game_object.WithPosition(500, 0, 0)))

	cam := camera.NewCamera()
	cam.Frame(camera.NewViewBasis(camera.WithOrthographic(true)), visible.WorldBounds())

	require.NoError(t, r.Render(cam, sc, NewRenderTarget(8, 8)))
	assert.Equal(t, len(visible.Model().Meshes()), counter.calls)
}

func TestRenderLiteralMesh(t *testing.T) {
	r := newTestRenderer(t, 2)
	sc := scene.NewScene("quad", scene.WithComputeWorkers(1))
	t.Cleanup(sc.Close)

	quad := model.Mesh{
		Name: "quad",
		Vertices: []model.Vertex{
			{Position: [3]float32{-1, -1, 0}, Normal: [3]float32{0, 0, 1}},
			{Position: [3]float32{1, -1, 0}, Normal: [3]float32{0, 0, 1}},
			{Position: [3]float32{1, 1, 0}, Normal: [3]float32{0, 0, 1}},
			{Position: [3]float32{-1, 1, 0}, Normal: [3]float32{0, 0, 1}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
	obj := game_object.NewGameObject(game_object.WithModel(model.NewModel(model.WithMeshes(quad))))
	sc.Add(obj)

	cam := camera.NewCamera()
	cam.Frame(camera.NewViewBasis(camera.WithOrthographic(true)), obj.WorldBounds())
	target := NewRenderTarget(32, 32)
	require.NoError(t, r.Render(cam, sc, target))

	covered := 0
	pix := target.Color().Data()
	for i := 3; i < len(pix); i += 4 {
		if pix[i] > 0 {
			covered++
		}
	}
	assert.Equal(t, uint8(255), pix[(16*32+16)*4+3], "unset vertex colors render opaque")
	assert.Less(t, covered, 32*32, "the whole quad is framed")
	assert.Equal(t, uint8(0), pix[3])
}

func TestDefaultLightsWhenSceneHasNone(t *testing.T) {
	red := light.NewLight(light.LightTypeAmbient, light.WithColor(1, 0, 0), light.WithIntensity(1))
	r := NewRenderer(BackendTypeSoftware, WithWorkers(1), WithDefaultLights(red))
	t.Cleanup(r.Close)

	sc := scene.NewScene("dark", scene.WithComputeWorkers(1))
	t.Cleanup(sc.Close)
	obj := game_object.NewGameObject(game_object.WithModel(model.NewCube(1)))
	sc.Add(obj)

	cam := camera.NewCamera()
	cam.Frame(camera.NewViewBasis(camera.WithOrthographic(true)), obj.WorldBounds())
	target := NewRenderTarget(16, 16)
	require.NoError(t, r.Render(cam, sc, target))

	px := target.Color().Data()[(8*16+8)*4:]
	assert.Equal(t, []uint8{255, 0, 0, 255}, px[:4])
}
