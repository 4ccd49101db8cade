package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatherFiltersByLayerAndEnabled(t *testing.T) {
	lights := []Light{
		NewLight(LightTypeDirectional, WithDirection(0, -2, 0), WithLayerMask(1<<22)),
		NewLight(LightTypeDirectional, WithLayerMask(1<<3)),
		NewLight(LightTypeAmbient, WithIntensity(0.5), WithColor(1, 0, 0)),
		NewLight(LightTypePoint, WithPosition(1, 2, 3), WithRange(4)),
		NewLight(LightTypeAmbient, WithEnabled(false)),
		nil,
	}

	env := Gather(lights, 1<<22)
	require.Len(t, env.Directional, 1)
	assert.Equal(t, [3]float32{0, -1, 0}, env.Directional[0].Direction)
	assert.Equal(t, [3]float32{0.5, 0, 0}, env.Ambient)
	require.Len(t, env.Point, 1)
	assert.Equal(t, float32(4), env.Point[0].Range)
}

func TestPreviewRigLayer(t *testing.T) {
	rig := PreviewRig(1 << 22)
	require.Len(t, rig, 3)
	assert.Empty(t, Gather(rig, 1).Directional)
	assert.Len(t, Gather(rig, 1<<22).Directional, 2)
}

func TestSetters(t *testing.T) {
	l := NewLight(LightTypePoint)
	l.SetDirection(2, 0, 0)
	l.SetPosition(1, 1, 1)
	l.SetIntensity(2)
	l.SetColor(0, 1, 0)
	l.SetEnabled(false)
	assert.Equal(t, [3]float32{1, 0, 0}, l.Direction())
	assert.Equal(t, [3]float32{1, 1, 1}, l.Position())
	assert.Equal(t, float32(2), l.Intensity())
	assert.Equal(t, [3]float32{0, 1, 0}, l.Color())
	assert.False(t, l.Enabled())
}
