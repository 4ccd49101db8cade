package main

import (
	"image"

	"github.com/gogpu/gg"
)

const checkerCell = 16

// checkerboard draws the grey checks shown behind transparent previews.
func checkerboard(width, height, cell int) image.Image {
	if width <= 0 || height <= 0 {
		return nil
	}
	dc := gg.NewContext(width, height)
	defer dc.Close()

	dc.ClearWithColor(gg.Hex("#cccccc"))
	dc.SetHexColor("#999999")
	for y := 0; y*cell < height; y++ {
		for x := (y + 1) % 2; x*cell < width; x += 2 {
			dc.DrawRectangle(float64(x*cell), float64(y*cell), float64(cell), float64(cell))
		}
	}
	_ = dc.Fill()
	return dc.Image()
}
