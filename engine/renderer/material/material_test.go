package material

import (
	"image"
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func checker2x2() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 128})
	return img
}

func TestAddressModes(t *testing.T) {
	tests := []struct {
		mode wgpu.AddressMode
		in   int
		want int
	}{
		{wgpu.AddressModeRepeat, 5, 1},
		{wgpu.AddressModeRepeat, -1, 3},
		{wgpu.AddressModeClampToEdge, -3, 0},
		{wgpu.AddressModeClampToEdge, 9, 3},
		{wgpu.AddressModeMirrorRepeat, 4, 3},
		{wgpu.AddressModeMirrorRepeat, 5, 2},
		{wgpu.AddressModeMirrorRepeat, -1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Address(tt.in, 4, tt.mode), "mode %v input %d", tt.mode, tt.in)
	}
}

func TestTextureTexelRepeats(t *testing.T) {
	tex := NewTexture("checker", checker2x2(), common.RepeatSampler())
	assert.Equal(t, 2, tex.Width())
	assert.Equal(t, tex.Texel(0, 0), tex.Texel(2, 2))
	assert.Equal(t, tex.Texel(1, 0), tex.Texel(-1, 0))
	assert.InDelta(t, 128.0/255, tex.Texel(1, 1).A, 1e-9)
}

func TestTextureNearestSample(t *testing.T) {
	tex := NewTexture("checker", checker2x2(), common.ClampSampler())
	c := tex.Sample(0.25, 0.25)
	assert.InDelta(t, 1.0, c.R, 1e-9)
	assert.InDelta(t, 0.0, c.G, 1e-9)
}

func TestAlbedoMultipliesTexture(t *testing.T) {
	tex := NewTexture("checker", checker2x2(), common.ClampSampler())
	m := NewMaterial(WithBaseColor([4]float32{0.5, 1, 1, 1}), WithDiffuseTexture(tex))
	c := m.Albedo(0.25, 0.25)
	assert.InDelta(t, 0.5, c.R, 1e-6)
}

func TestShaderResolution(t *testing.T) {
	assert.Equal(t, shader.LambertKey, NewMaterial().Shader().Key())
	assert.Equal(t, shader.UnlitKey, NewMaterial(WithUnlit(true)).Shader().Key())

	p := pipeline.NewPipeline("mesh", pipeline.PipelineTypeRender, pipeline.WithFragmentShader(shader.Unlit()))
	assert.Equal(t, shader.UnlitKey, NewMaterial(WithPipeline(p)).Shader().Key())

	comb := NewCombinerMaterial()
	assert.Equal(t, CombinerMaterialName, comb.Name())
	_, ok := comb.Shader().Combiner()
	assert.True(t, ok)
}
