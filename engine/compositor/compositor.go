package compositor

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-preview/engine/assets"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gg"
)

// ErrNoColor is returned when Merge is called without a color target.
var ErrNoColor = errors.New("no color target to composite")

type compositor struct {
	mu *sync.Mutex

	registry assets.Registry
}

// Compositor merges a rendered color target, an optional captured alpha target and a
// background into the final preview image.
//
// The merge program is the combine shader of the registry's combiner material. Effective
// subject coverage per pixel is color.A times the captured alpha (1 when none was captured).
type Compositor interface {
	// Merge composites one preview.
	//
	// Transparent keeps the subject color and writes coverage as alpha. SolidColor blends the
	// subject over the color and writes opaque alpha. TiledTexture repeats the texture at its
	// native texel size and blends the subject over it, either on all four channels (useAlpha)
	// or on color only with opaque alpha. The alpha target is read with clamp-to-edge
	// addressing, so a smaller capture stretches its border.
	//
	// Parameters:
	//   - color: the color target
	//   - bg: the background
	//   - alpha: the captured alpha target, or nil
	//
	// Returns:
	//   - *RenderedImage: a new image with the color target's dimensions
	//   - error: ErrNoColor, or an error wrapping assets.ErrAssetMissing without a combiner
	Merge(color *gg.Pixmap, bg Background, alpha *gg.Pixmap) (*RenderedImage, error)

	// Registry returns the registry the combiner material is resolved from.
	//
	// Returns:
	//   - assets.Registry: the registry, or nil
	Registry() assets.Registry
}

var _ Compositor = &compositor{}

// NewCompositor creates a new Compositor. Without WithRegistry it resolves the combiner from
// a default asset registry.
//
// Parameters:
//   - options: functional options to configure the compositor
//
// Returns:
//   - Compositor: the compositor
func NewCompositor(options ...CompositorBuilderOption) Compositor {
	c := &compositor{mu: &sync.Mutex{}}
	for _, option := range options {
		option(c)
	}
	if c.registry == nil {
		c.registry = assets.NewDefaultRegistry()
	}
	return c
}

func (c *compositor) Registry() assets.Registry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry
}

func (c *compositor) Merge(color *gg.Pixmap, bg Background, alpha *gg.Pixmap) (*RenderedImage, error) {
	if color == nil {
		return nil, ErrNoColor
	}
	combine, err := c.combiner()
	if err != nil {
		return nil, err
	}

	w, h := color.Width(), color.Height()
	out := gg.NewPixmap(w, h)
	src := color.Data()
	dst := out.Data()

	var alphaData []uint8
	var aw, ah int
	if alpha != nil && alpha.Width() > 0 && alpha.Height() > 0 {
		alphaData = alpha.Data()
		aw, ah = alpha.Width(), alpha.Height()
	}

	in := shader.CombineInput{Mode: combineMode(bg), Background: bg.ClearColor()}
	tex := bg.Texture()
	tiled := bg.Kind() == BackgroundTiledTexture && tex.Width() > 0 && tex.Height() > 0

	for y := range h {
		for x := range w {
			i := (y*w + x) * 4
			in.Color = load(src, i)
			in.Coverage = in.Color.A
			if alphaData != nil {
				ax := material.Address(x, aw, wgpu.AddressModeClampToEdge)
				ay := material.Address(y, ah, wgpu.AddressModeClampToEdge)
				in.Coverage *= float64(alphaData[(ay*aw+ax)*4+3]) / 255
			}
			if tiled {
				in.Background = tex.Pixels.GetPixel(
					material.Address(x, tex.Width(), wgpu.AddressModeRepeat),
					material.Address(y, tex.Height(), wgpu.AddressModeRepeat),
				)
			}
			store(dst, i, combine(in))
		}
	}
	return &RenderedImage{pix: out}, nil
}

// combiner resolves the combine program of the registry's combiner material.
func (c *compositor) combiner() (shader.CombineFunc, error) {
	reg := c.Registry()
	if reg == nil {
		return nil, fmt.Errorf("combiner: no asset registry: %w", assets.ErrAssetMissing)
	}
	mat, err := reg.Material(assets.CombinerMaterialName)
	if err != nil {
		return nil, fmt.Errorf("combiner: %w", err)
	}
	if s := mat.Shader(); s != nil {
		if fn, ok := s.Combiner(); ok {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("material %q has no combine program: %w", mat.Name(), assets.ErrAssetMissing)
}

func combineMode(bg Background) shader.CombineMode {
	switch bg.Kind() {
	case BackgroundSolidColor:
		return shader.CombineOpaque
	case BackgroundTiledTexture:
		if bg.UseAlpha() {
			return shader.CombineBlendAlpha
		}
		return shader.CombineOpaque
	default:
		return shader.CombineTransparent
	}
}

func load(data []uint8, i int) gg.RGBA {
	return gg.RGBA{
		R: float64(data[i]) / 255,
		G: float64(data[i+1]) / 255,
		B: float64(data[i+2]) / 255,
		A: float64(data[i+3]) / 255,
	}
}

// store rounds to the nearest byte so unchanged channels survive a load/store round trip.
func store(data []uint8, i int, c gg.RGBA) {
	data[i] = quantize(c.R)
	data[i+1] = quantize(c.G)
	data[i+2] = quantize(c.B)
	data[i+3] = quantize(c.A)
}

func quantize(v float64) uint8 {
	return uint8(math.Round(min(max(v, 0), 1) * 255))
}
