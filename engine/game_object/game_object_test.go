package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/animator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	obj := NewGameObject()
	assert.True(t, obj.Enabled())
	assert.False(t, obj.Ephemeral())
	assert.Equal(t, uint8(0), obj.Layer())
	assert.Equal(t, uint32(1), obj.LayerMask())
	assert.Equal(t, [4]float32{0, 0, 0, 1}, obj.Transform().Rotation)
	assert.Equal(t, [3]float32{1, 1, 1}, obj.Transform().Scale)
	assert.True(t, obj.WorldBounds().Empty())

	_, ok := obj.Animator()
	assert.False(t, ok)
	_, ok = obj.Camera()
	assert.False(t, ok)
}

func TestLayerClamp(t *testing.T) {
	obj := NewGameObject(WithLayer(40))
	assert.Equal(t, uint8(MaxLayer), obj.Layer())
	obj.SetLayer(22)
	assert.Equal(t, uint32(1<<22), obj.LayerMask())
}

func TestHideFlags(t *testing.T) {
	assert.True(t, HideAndDontSave.Has(DontSave))
	assert.True(t, HideAndDontSave.Has(HideInHierarchy|HideInInspector))
	assert.False(t, DontSave.Has(HideInHierarchy))
	assert.False(t, HideAndDontSave.Has(HideNone))
}

func TestWorldBoundsFollowsTransform(t *testing.T) {
	obj := NewGameObject(
		WithModel(model.NewCube(2)),
		WithPosition(10, 0, 0),
		WithScale(2, 2, 2),
	)
	b := obj.WorldBounds()
	assert.InDelta(t, 8, b.Min[0], 1e-5)
	assert.InDelta(t, 12, b.Max[0], 1e-5)
	assert.InDelta(t, -2, b.Min[1], 1e-5)
	assert.InDelta(t, 2, b.Max[1], 1e-5)
}

func TestWithRotationTurnsBounds(t *testing.T) {
	obj := NewGameObject(WithModel(model.NewCube(1)), WithRotation(0, 45, 0))
	b := obj.WorldBounds()
	assert.InDelta(t, 0.7071, b.Max[0], 1e-3)
	assert.InDelta(t, 0.7071, b.Max[2], 1e-3)
	assert.InDelta(t, 0.5, b.Max[1], 1e-5)
}

func TestSetRotationNormalizes(t *testing.T) {
	obj := NewGameObject()
	obj.SetRotation(0, 90, 0)
	q := obj.Transform().Rotation
	assert.InDelta(t, 0.7071, q[1], 1e-3)
	assert.InDelta(t, 0.7071, q[3], 1e-3)

	obj.SetRotationQuat([4]float32{0, 0, 0, 2})
	assert.Equal(t, [4]float32{0, 0, 0, 1}, obj.Transform().Rotation)
}

func TestCloneIsolation(t *testing.T) {
	cube := model.NewCube(1)
	anim := animator.NewAnimator(animator.BackendTypeSimple, animator.WithModel(cube))
	cam := camera.NewCamera()
	src := NewGameObject(
		WithID(7),
		WithName("subject"),
		WithModel(cube),
		WithAnimator(anim),
		WithCamera(cam),
		WithEphemeral(true),
		WithEnabled(false),
		WithPosition(1, 2, 3),
	)

	clone := src.Clone()
	assert.Equal(t, uint64(0), clone.ID())
	assert.Equal(t, "subject", clone.Name())
	assert.True(t, clone.Enabled())
	assert.False(t, clone.Ephemeral())
	assert.Equal(t, [3]float32{1, 2, 3}, clone.Transform().Position)
	assert.Same(t, cube, clone.Model())

	cloneAnim, ok := clone.Animator()
	require.True(t, ok)
	assert.NotSame(t, anim, cloneAnim)
	cloneCam, ok := clone.Camera()
	require.True(t, ok)
	assert.NotSame(t, cam, cloneCam)

	clone.SetPosition(0, 0, 0)
	clone.SetName("copy")
	clone.SetLayer(5)
	assert.Equal(t, [3]float32{1, 2, 3}, src.Transform().Position)
	assert.Equal(t, "subject", src.Name())
	assert.Equal(t, uint8(0), src.Layer())
}
