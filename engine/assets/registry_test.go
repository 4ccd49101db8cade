package assets

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryBuiltins(t *testing.T) {
	r := NewDefaultRegistry()

	assert.Equal(t, []string{
		CombinerMaterialName,
		DefaultCameraName,
		DummyControllerName,
		FallbackCameraName,
	}, r.Names())

	cam, err := r.Instantiate(DefaultCameraName)
	require.NoError(t, err)
	c, ok := cam.Camera()
	require.True(t, ok)
	assert.False(t, c.AutoRender())
	assert.Equal(t, float32(1), c.Aspect())
	post, ok := c.Pipeline()
	require.True(t, ok)
	assert.Len(t, post.Stages(), 1)

	fallback, err := r.Instantiate(FallbackCameraName)
	require.NoError(t, err)
	fc, ok := fallback.Camera()
	require.True(t, ok)
	_, ok = fc.Pipeline()
	assert.False(t, ok)

	_, err = r.Controller(DummyControllerName)
	assert.NoError(t, err)
	m, err := r.Material(CombinerMaterialName)
	require.NoError(t, err)
	_, ok = m.Shader().Combiner()
	assert.True(t, ok)
}

func TestInstantiateReturnsIndependentClones(t *testing.T) {
	r := NewDefaultRegistry()
	a, err := r.Instantiate(DefaultCameraName)
	require.NoError(t, err)
	b, err := r.Instantiate(DefaultCameraName)
	require.NoError(t, err)

	ca, _ := a.Camera()
	cb, _ := b.Camera()
	assert.NotSame(t, ca, cb)
	ca.SetCullingMask(1 << 22)
	assert.NotEqual(t, ca.CullingMask(), cb.CullingMask())
}

func TestMissingAssets(t *testing.T) {
	r := NewRegistry()
	_, err := r.Instantiate(DefaultCameraName)
	assert.ErrorIs(t, err, ErrAssetMissing)
	_, err = r.Material(CombinerMaterialName)
	assert.ErrorIs(t, err, ErrAssetMissing)
	_, err = r.Controller(DummyControllerName)
	assert.ErrorIs(t, err, ErrAssetMissing)
}

func TestUnregisterAndReplace(t *testing.T) {
	r := NewDefaultRegistry()
	r.Unregister(CombinerMaterialName)
	_, err := r.Material(CombinerMaterialName)
	assert.ErrorIs(t, err, ErrAssetMissing)

	r.RegisterMaterial(material.NewMaterial(material.WithName(CombinerMaterialName)))
	_, err = r.Material(CombinerMaterialName)
	assert.NoError(t, err)

	r.RegisterTemplate("thing", game_object.NewGameObject())
	obj, err := r.Instantiate("thing")
	require.NoError(t, err)
	assert.Equal(t, "thing", obj.Name())
}
