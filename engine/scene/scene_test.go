package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/light"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/animator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T, options ...SceneBuilderOption) Scene {
	t.Helper()
	s := NewScene("test", append([]SceneBuilderOption{WithComputeWorkers(2)}, options...)...)
	t.Cleanup(s.Close)
	return s
}

func TestAddAssignsIDsAndTracksEphemeral(t *testing.T) {
	s := newTestScene(t)

	a := game_object.NewGameObject()
	b := game_object.NewGameObject(game_object.WithEphemeral(true))
	idA := s.Add(a)
	idB := s.Add(b)

	assert.NotZero(t, idA)
	assert.NotEqual(t, idA, idB)
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, 1, s.CountEphemeral())
	assert.Same(t, b, s.Get(idB))

	assert.True(t, s.Remove(idB))
	assert.False(t, s.Remove(idB))
	assert.Equal(t, 0, s.CountEphemeral())
	assert.Nil(t, s.Get(idB))
}

func TestAddSkipsTakenIDs(t *testing.T) {
	held := game_object.NewGameObject(game_object.WithID(1))
	s := newTestScene(t, WithObjects(held))

	auto := game_object.NewGameObject(game_object.WithEphemeral(true))
	id := s.Add(auto)
	assert.NotEqual(t, uint64(1), id)
	assert.Same(t, held, s.Get(1))

	dup := game_object.NewGameObject(game_object.WithID(1), game_object.WithEphemeral(true))
	dupID := s.Add(dup)
	assert.NotEqual(t, uint64(1), dupID, "a held ID is reassigned")
	assert.NotEqual(t, id, dupID)
	assert.Equal(t, dupID, dup.ID())

	assert.Equal(t, uint64(1), s.Add(held), "re-adding the holder keeps its ID")
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, 2, s.CountEphemeral())
}

func TestRemoveEphemeralLeavesPersistent(t *testing.T) {
	held := game_object.NewGameObject(game_object.WithID(5))
	s := newTestScene(t, WithObjects(held))
	temp := game_object.NewGameObject(game_object.WithEphemeral(true))
	id := s.Add(temp)

	assert.False(t, s.RemoveEphemeral(5))
	assert.Same(t, held, s.Get(5))
	assert.True(t, s.RemoveEphemeral(id))
	assert.False(t, s.RemoveEphemeral(id))
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, 0, s.CountEphemeral())
}

func TestRenderablesFiltersAndOrders(t *testing.T) {
	cube := model.NewCube(1)
	onLayer := game_object.NewGameObject(game_object.WithID(9), game_object.WithModel(cube), game_object.WithLayer(22))
	first := game_object.NewGameObject(game_object.WithID(3), game_object.WithModel(cube), game_object.WithLayer(22))
	otherLayer := game_object.NewGameObject(game_object.WithModel(cube))
	disabled := game_object.NewGameObject(game_object.WithModel(cube), game_object.WithLayer(22), game_object.WithEnabled(false))
	noModel := game_object.NewGameObject(game_object.WithLayer(22))

	s := newTestScene(t, WithObjects(onLayer, first, otherLayer, disabled, noModel))

	got := s.Renderables(1 << 22)
	require.Len(t, got, 2)
	assert.Same(t, first, got[0])
	assert.Same(t, onLayer, got[1])
	assert.Len(t, s.Objects(), 5)
	assert.Empty(t, s.Cameras())

	camObj := game_object.NewGameObject(game_object.WithCamera(camera.NewCamera()))
	s.Add(camObj)
	require.Len(t, s.Cameras(), 1)
	assert.Same(t, camObj, s.Cameras()[0])
}

func TestLightsSyncAttachedPositions(t *testing.T) {
	sceneLight := light.NewLight(light.LightTypeAmbient)
	attached := light.NewLight(light.LightTypePoint)
	obj := game_object.NewGameObject(game_object.WithLight(attached), game_object.WithPosition(4, 5, 6))

	s := newTestScene(t, WithLights(sceneLight), WithObjects(obj))
	lights := s.Lights()
	require.Len(t, lights, 2)
	assert.Same(t, sceneLight, lights[0])
	assert.Equal(t, [3]float32{4, 5, 6}, attached.Position())

	s.RemoveLight(sceneLight)
	assert.Len(t, s.Lights(), 1)
}

func TestPrepareAnimators(t *testing.T) {
	cube := model.NewCube(1)
	s := newTestScene(t)
	for range 4 {
		s.Add(game_object.NewGameObject(
			game_object.WithModel(cube),
			game_object.WithAnimator(animator.NewAnimator(animator.BackendTypeSimple, animator.WithModel(cube))),
		))
	}
	require.NoError(t, s.PrepareAnimators(1))
	assert.NoError(t, s.PrepareAnimators(0))
}

func TestClear(t *testing.T) {
	s := newTestScene(t)
	s.Add(game_object.NewGameObject())
	s.Add(game_object.NewGameObject(game_object.WithEphemeral(true)))
	s.Clear()
	assert.Zero(t, s.Count())
	assert.Zero(t, s.CountEphemeral())
}
