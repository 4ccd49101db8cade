package compositor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/assets"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pixmap builds a w x h pixmap from per-pixel RGBA bytes, repeating px when it is shorter.
func pixmap(w, h int, px ...uint8) *gg.Pixmap {
	pm := gg.NewPixmap(w, h)
	data := pm.Data()
	for i := range data {
		data[i] = px[i%len(px)]
	}
	return pm
}

func alphaChannel(img *RenderedImage) []uint8 {
	b := img.Bytes()
	out := make([]uint8, 0, len(b)/4)
	for i := 3; i < len(b); i += 4 {
		out = append(out, b[i])
	}
	return out
}

func TestMergeTransparent(t *testing.T) {
	c := NewCompositor()

	t.Run("zero captured alpha", func(t *testing.T) {
		col := pixmap(4, 4, 200, 100, 50, 255)
		img, err := c.Merge(col, Transparent(), pixmap(4, 4, 0, 0, 0, 0))
		require.NoError(t, err)
		for _, a := range alphaChannel(img) {
			assert.Zero(t, a)
		}
		assert.Equal(t, []uint8{200, 100, 50}, img.Bytes()[:3])
	})

	t.Run("coverage multiplies", func(t *testing.T) {
		col := pixmap(1, 1, 10, 20, 30, 255)
		img, err := c.Merge(col, Transparent(), pixmap(1, 1, 0, 0, 0, 51))
		require.NoError(t, err)
		assert.Equal(t, []uint8{10, 20, 30, 51}, img.Bytes())
	})

	t.Run("no capture uses color alpha", func(t *testing.T) {
		col := pixmap(2, 1, 10, 20, 30, 128, 0, 0, 0, 0)
		img, err := c.Merge(col, Transparent(), nil)
		require.NoError(t, err)
		assert.Equal(t, []uint8{128, 0}, alphaChannel(img))
	})
}

func TestMergeSolidColorIsOpaque(t *testing.T) {
	c := NewCompositor()
	red := gg.RGBA{R: 1, A: 1}

	col := pixmap(3, 2, 0, 0, 255, 255)
	alpha := pixmap(3, 2, 0, 0, 0, 0, 0, 0, 0, 255, 0, 0, 0, 77)
	img, err := c.Merge(col, SolidColor(red), alpha)
	require.NoError(t, err)

	for _, a := range alphaChannel(img) {
		assert.Equal(t, uint8(255), a)
	}
	b := img.Bytes()
	assert.Equal(t, []uint8{255, 0, 0, 255}, b[0:4], "uncovered pixel shows the background")
	assert.Equal(t, []uint8{0, 0, 255, 255}, b[4:8], "covered pixel shows the subject")
}

func checkerTexture() *material.Texture {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{A: 0})
	return material.NewTexture("checker", img, common.ClampSampler())
}

func TestMergeTiledTexture(t *testing.T) {
	c := NewCompositor()
	col := pixmap(5, 2, 0, 0, 0, 0)

	t.Run("repeat at native size", func(t *testing.T) {
		img, err := c.Merge(col, TiledTexture(checkerTexture(), false), nil)
		require.NoError(t, err)
		b := img.Bytes()
		reds := []uint8{b[0], b[4], b[8], b[12], b[16], b[20]}
		assert.Equal(t, []uint8{255, 0, 255, 0, 255, 255}, reds)
		for _, a := range alphaChannel(img) {
			assert.Equal(t, uint8(255), a)
		}
	})

	t.Run("use alpha keeps texture alpha", func(t *testing.T) {
		img, err := c.Merge(col, TiledTexture(checkerTexture(), true), nil)
		require.NoError(t, err)
		assert.Equal(t, []uint8{255, 0, 255, 0, 255}, alphaChannel(img)[:5])
	})

	t.Run("covered subject wins", func(t *testing.T) {
		subject := pixmap(2, 1, 0, 255, 0, 255)
		img, err := c.Merge(subject, TiledTexture(checkerTexture(), true), nil)
		require.NoError(t, err)
		assert.Equal(t, []uint8{0, 255, 0, 255, 0, 255, 0, 255}, img.Bytes())
	})
}

func TestMergeAlphaClampToEdge(t *testing.T) {
	c := NewCompositor()
	col := pixmap(3, 1, 9, 9, 9, 255)
	img, err := c.Merge(col, Transparent(), pixmap(1, 1, 0, 0, 0, 255))
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 255, 255}, alphaChannel(img))
}

func TestMergeErrors(t *testing.T) {
	_, err := NewCompositor().Merge(nil, Transparent(), nil)
	assert.ErrorIs(t, err, ErrNoColor)

	c := NewCompositor(WithRegistry(assets.NewRegistry()))
	_, err = c.Merge(pixmap(1, 1, 0, 0, 0, 0), Transparent(), nil)
	assert.ErrorIs(t, err, assets.ErrAssetMissing)

	broken := assets.NewRegistry(assets.WithMaterial(material.NewMaterial(material.WithName(assets.CombinerMaterialName))))
	_, err = NewCompositor(WithRegistry(broken)).Merge(pixmap(1, 1, 0, 0, 0, 0), Transparent(), nil)
	assert.ErrorIs(t, err, assets.ErrAssetMissing)
}

func TestBackgroundClearColor(t *testing.T) {
	assert.Equal(t, BackgroundTransparent, Background{}.Kind())
	assert.Equal(t, gg.Transparent, Transparent().ClearColor())
	assert.Equal(t, gg.RGBA{R: 1, A: 1}, SolidColor(gg.RGBA{R: 1, A: 0.2}).ClearColor())
	assert.Equal(t, gg.Transparent, TiledTexture(checkerTexture(), true).ClearColor())
	assert.Equal(t, "tiled", BackgroundTiledTexture.String())
}

func TestRenderedImage(t *testing.T) {
	src := pixmap(2, 2, 1, 2, 3, 4)
	img := NewRenderedImage(src)
	src.Data()[0] = 99

	b := img.Bytes()
	assert.Equal(t, uint8(1), b[0], "image is detached from its source")
	b[0] = 42
	assert.Equal(t, uint8(1), img.Bytes()[0], "Bytes returns a copy")

	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 4}, img.At(1, 1))
	assert.Equal(t, color.NRGBA{}, img.At(5, 0))
	assert.Nil(t, NewRenderedImage(nil))

	var buf bytes.Buffer
	require.NoError(t, img.EncodePNG(&buf))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), decoded.Bounds())
	r, _, _, a := decoded.At(0, 0).RGBA()
	assert.Equal(t, uint32(4*0x101), a)
	assert.Equal(t, uint32(1*4*0x101/255), r)
}
