package compositor

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/gogpu/gg"
)

// RenderedImage is an immutable 8-bit straight-alpha RGBA raster.
type RenderedImage struct {
	pix *gg.Pixmap
}

var _ image.Image = &RenderedImage{}

// NewRenderedImage copies a pixmap into a new image.
//
// Parameters:
//   - pm: the source pixmap
//
// Returns:
//   - *RenderedImage: the image, or nil for a nil pixmap
func NewRenderedImage(pm *gg.Pixmap) *RenderedImage {
	if pm == nil {
		return nil
	}
	out := gg.NewPixmap(pm.Width(), pm.Height())
	copy(out.Data(), pm.Data())
	return &RenderedImage{pix: out}
}

// Width returns the width in pixels.
func (r *RenderedImage) Width() int {
	return r.pix.Width()
}

// Height returns the height in pixels.
func (r *RenderedImage) Height() int {
	return r.pix.Height()
}

// Bytes returns a copy of the pixel data, four bytes per pixel in R, G, B, A order, rows top
// to bottom.
//
// Returns:
//   - []byte: the pixel data
func (r *RenderedImage) Bytes() []byte {
	out := make([]byte, len(r.pix.Data()))
	copy(out, r.pix.Data())
	return out
}

// NRGBA returns a copy of the image as an *image.NRGBA.
func (r *RenderedImage) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.Bytes(),
		Stride: 4 * r.Width(),
		Rect:   image.Rect(0, 0, r.Width(), r.Height()),
	}
}

// ColorModel implements image.Image.
func (r *RenderedImage) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements image.Image.
func (r *RenderedImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width(), r.Height())
}

// At implements image.Image.
func (r *RenderedImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(r.Bounds())) {
		return color.NRGBA{}
	}
	i := (y*r.Width() + x) * 4
	d := r.pix.Data()
	return color.NRGBA{R: d[i], G: d[i+1], B: d[i+2], A: d[i+3]}
}

// EncodePNG writes the image as a non-premultiplied PNG.
//
// Parameters:
//   - w: the destination
//
// Returns:
//   - error: an encode or write failure
func (r *RenderedImage) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, r.NRGBA()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
