package material

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gg"
)

// Texture is a decoded straight-alpha RGBA image plus the sampler settings used to read it.
type Texture struct {
	Name    string
	Pixels  *gg.Pixmap
	Sampler common.SamplerStagingData
}

// NewTexture copies img into a straight-alpha pixmap.
//
// Parameters:
//   - name: the texture identifier
//   - img: the source image
//   - sampler: the address and filter settings
//
// Returns:
//   - *Texture: the texture
func NewTexture(name string, img image.Image, sampler common.SamplerStagingData) *Texture {
	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)

	pm := gg.NewPixmap(bounds.Dx(), bounds.Dy())
	copy(pm.Data(), nrgba.Pix)
	return &Texture{Name: name, Pixels: pm, Sampler: sampler}
}

// NewTextureFromImported decodes an imported texture. Sampler settings fall back to
// common.RepeatSampler when the import carries none.
//
// Parameters:
//   - it: the imported texture
//
// Returns:
//   - *Texture: the decoded texture
//   - error: decode failure
func NewTextureFromImported(it *common.ImportedTexture) (*Texture, error) {
	img, err := it.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", it.Name, err)
	}
	sampler := common.RepeatSampler()
	if it.SamplerData != nil {
		sampler = *it.SamplerData
	}
	return NewTexture(it.Name, img, sampler), nil
}

// Width returns the texture width in texels.
func (t *Texture) Width() int {
	if t == nil || t.Pixels == nil {
		return 0
	}
	return t.Pixels.Width()
}

// Height returns the texture height in texels.
func (t *Texture) Height() int {
	if t == nil || t.Pixels == nil {
		return 0
	}
	return t.Pixels.Height()
}

// Texel reads one texel at integer coordinates, resolving out-of-range coordinates with
// the sampler's U and V address modes.
//
// Parameters:
//   - x, y: texel coordinates, possibly out of range
//
// Returns:
//   - gg.RGBA: the texel, or transparent for an empty texture
func (t *Texture) Texel(x, y int) gg.RGBA {
	w, h := t.Width(), t.Height()
	if w == 0 || h == 0 {
		return gg.Transparent
	}
	x = Address(x, w, t.Sampler.AddressModeU)
	y = Address(y, h, t.Sampler.AddressModeV)
	return t.Pixels.GetPixel(x, y)
}

// Sample reads the texture at normalized coordinates using the sampler's mag filter.
//
// Parameters:
//   - u, v: normalized texture coordinates
//
// Returns:
//   - gg.RGBA: the filtered color
func (t *Texture) Sample(u, v float32) gg.RGBA {
	w, h := t.Width(), t.Height()
	if w == 0 || h == 0 {
		return gg.Transparent
	}
	fx := u*float32(w) - 0.5
	fy := v*float32(h) - 0.5

	if t.Sampler.MagFilter != wgpu.FilterModeLinear {
		return t.Texel(int(math32.Floor(fx+0.5)), int(math32.Floor(fy+0.5)))
	}

	x0 := int(math32.Floor(fx))
	y0 := int(math32.Floor(fy))
	tx := float64(fx - float32(x0))
	ty := float64(fy - float32(y0))

	top := t.Texel(x0, y0).Lerp(t.Texel(x0+1, y0), tx)
	bottom := t.Texel(x0, y0+1).Lerp(t.Texel(x0+1, y0+1), tx)
	return top.Lerp(bottom, ty)
}

// Address maps coordinate i into [0, n) following a wgpu address mode.
// Unknown modes clamp to the edge.
//
// Parameters:
//   - i: the coordinate
//   - n: the axis length, must be positive
//   - mode: the address mode
//
// Returns:
//   - int: the resolved coordinate
func Address(i, n int, mode wgpu.AddressMode) int {
	switch mode {
	case wgpu.AddressModeRepeat:
		return ((i % n) + n) % n
	case wgpu.AddressModeMirrorRepeat:
		period := 2 * n
		m := ((i % period) + period) % period
		if m >= n {
			return period - 1 - m
		}
		return m
	default:
		return min(max(i, 0), n-1)
	}
}
