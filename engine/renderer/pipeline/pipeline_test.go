package pipeline

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooksRunBeforeStages(t *testing.T) {
	p := NewPipeline("post", PipelineTypePostProcess, WithStages(OpaqueStage()))
	target := gg.NewPixmap(2, 2)
	target.Clear(gg.RGBA2(1, 0, 0, 0.5))

	var seen uint8
	remove := p.OnPassComplete(func(px *gg.Pixmap) {
		seen = px.Data()[3]
	})

	require.NoError(t, p.Run(target))
	assert.Equal(t, uint8(127), seen)
	assert.Equal(t, uint8(255), target.Data()[3])

	remove()
	remove()
	seen = 0
	target.Clear(gg.Transparent)
	require.NoError(t, p.Run(target))
	assert.Equal(t, uint8(0), seen)
}

func TestStageErrorAbortsChain(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	p := NewPipeline("post", PipelineTypePostProcess, WithStages(
		NewStage("fail", func(*gg.Pixmap) error { return boom }),
		NewStage("after", func(*gg.Pixmap) error { ran = true; return nil }),
	))

	err := p.Run(gg.NewPixmap(1, 1))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fail")
	assert.False(t, ran)
}

func TestCloneDropsHooks(t *testing.T) {
	p := NewPipeline("post", PipelineTypePostProcess, WithStages(ExposureStage(2)))
	called := false
	p.OnPassComplete(func(*gg.Pixmap) { called = true })

	clone := p.Clone()
	require.Len(t, clone.Stages(), 1)
	require.NoError(t, clone.Run(gg.NewPixmap(1, 1)))
	assert.False(t, called)
}

func TestRenderDefaults(t *testing.T) {
	p := NewPipeline("mesh", PipelineTypeRender, WithCullMode(wgpu.CullModeBack))
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
}

func TestExposureSaturates(t *testing.T) {
	target := gg.NewPixmap(1, 1)
	target.Clear(gg.RGB(0.8, 0.1, 0))
	require.NoError(t, ExposureStage(2).Apply(target))
	assert.Equal(t, uint8(255), target.Data()[0])
	assert.Equal(t, uint8(50), target.Data()[1])
}
