package session

import (
	"image"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
)

// downsample resamples a supersampled target to width x height with a bilinear kernel,
// which widens to cover every source texel when shrinking.
func downsample(src *gg.Pixmap, width, height int) *gg.Pixmap {
	in := &image.NRGBA{
		Pix:    src.Data(),
		Stride: 4 * src.Width(),
		Rect:   image.Rect(0, 0, src.Width(), src.Height()),
	}
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(out, out.Bounds(), in, in.Bounds(), draw.Src, nil)

	pm := gg.NewPixmap(width, height)
	copy(pm.Data(), out.Pix)
	return pm
}
