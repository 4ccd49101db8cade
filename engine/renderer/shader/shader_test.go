package shader

import (
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShaderCapabilities(t *testing.T) {
	frag, ok := Lambert().Fragment()
	require.True(t, ok)
	require.NotNil(t, frag)

	_, ok = Lambert().Combiner()
	assert.False(t, ok)

	comb, ok := Combiner().Combiner()
	require.True(t, ok)
	require.NotNil(t, comb)

	_, ok = Combiner().Fragment()
	assert.False(t, ok)
	assert.Equal(t, ShaderTypeCombine, Combiner().Type())
	assert.Equal(t, "fragment", Unlit().Type().String())
}

func TestLambertFacingLight(t *testing.T) {
	shade, _ := Lambert().Fragment()
	lighting := &Lighting{
		Directional: []DirectionalLight{{Direction: [3]float32{0, -1, 0}, Color: [3]float32{1, 1, 1}, Intensity: 1}},
	}

	lit := shade(&Fragment{Normal: [3]float32{0, 1, 0}, Albedo: gg.RGB(0.5, 0.5, 0.5)}, lighting)
	assert.InDelta(t, 0.5, lit.R, 1e-6)
	assert.InDelta(t, 1.0, lit.A, 1e-6)

	dark := shade(&Fragment{Normal: [3]float32{0, -1, 0}, Albedo: gg.RGB(0.5, 0.5, 0.5)}, lighting)
	assert.InDelta(t, 0, dark.R, 1e-6)
}

func TestLambertAmbientOnly(t *testing.T) {
	shade, _ := Lambert().Fragment()
	out := shade(&Fragment{Normal: [3]float32{0, 0, 1}, Albedo: gg.RGB(1, 1, 1)}, &Lighting{Ambient: [3]float32{0.25, 0.25, 0.25}})
	assert.InDelta(t, 0.25, out.G, 1e-6)
}

func TestCombineModes(t *testing.T) {
	comb, _ := Combiner().Combiner()
	red := gg.RGB(1, 0, 0)
	blue := gg.RGB(0, 0, 1)

	tests := []struct {
		name string
		in   CombineInput
		want gg.RGBA
	}{
		{"transparent keeps color and coverage", CombineInput{Mode: CombineTransparent, Color: red, Background: blue, Coverage: 0.25}, gg.RGBA{R: 1, A: 0.25}},
		{"opaque full coverage", CombineInput{Mode: CombineOpaque, Color: red, Background: blue, Coverage: 1}, gg.RGBA{R: 1, A: 1}},
		{"opaque no coverage", CombineInput{Mode: CombineOpaque, Color: red, Background: blue, Coverage: 0}, gg.RGBA{B: 1, A: 1}},
		{"blend alpha over clear background", CombineInput{Mode: CombineBlendAlpha, Color: red, Background: gg.Transparent, Coverage: 0.5}, gg.RGBA{R: 0.5, A: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := comb(tt.in)
			assert.InDelta(t, tt.want.R, got.R, 1e-9)
			assert.InDelta(t, tt.want.G, got.G, 1e-9)
			assert.InDelta(t, tt.want.B, got.B, 1e-9)
			assert.InDelta(t, tt.want.A, got.A, 1e-9)
		})
	}
}
