package compositor

import (
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
	"github.com/gogpu/gg"
)

// BackgroundKind identifies which variant a Background holds.
type BackgroundKind int

const (
	// BackgroundTransparent leaves uncovered pixels fully transparent.
	BackgroundTransparent BackgroundKind = iota
	// BackgroundSolidColor fills uncovered pixels with one opaque color.
	BackgroundSolidColor
	// BackgroundTiledTexture repeats a texture at its native texel size.
	BackgroundTiledTexture
)

// String returns the name of the kind.
func (k BackgroundKind) String() string {
	switch k {
	case BackgroundSolidColor:
		return "solid"
	case BackgroundTiledTexture:
		return "tiled"
	default:
		return "transparent"
	}
}

// Background describes what a preview is composited over. The zero value is transparent.
type Background struct {
	kind     BackgroundKind
	color    gg.RGBA
	texture  *material.Texture
	useAlpha bool
}

// Transparent returns a background that keeps the subject's coverage as output alpha.
func Transparent() Background {
	return Background{kind: BackgroundTransparent}
}

// SolidColor returns an opaque single-color background.
//
// Parameters:
//   - c: the background color; its alpha is ignored
//
// Returns:
//   - Background: the background
func SolidColor(c gg.RGBA) Background {
	return Background{kind: BackgroundSolidColor, color: c}
}

// TiledTexture returns a background that repeats t across the output.
//
// Parameters:
//   - t: the tile texture
//   - useAlpha: blend all four channels, keeping the texture's alpha where the subject is absent
//
// Returns:
//   - Background: the background
func TiledTexture(t *material.Texture, useAlpha bool) Background {
	return Background{kind: BackgroundTiledTexture, texture: t, useAlpha: useAlpha}
}

// Kind returns the background variant.
func (b Background) Kind() BackgroundKind {
	return b.kind
}

// Color returns the solid color. Only meaningful for BackgroundSolidColor.
func (b Background) Color() gg.RGBA {
	return b.color
}

// Texture returns the tile texture. Only meaningful for BackgroundTiledTexture.
func (b Background) Texture() *material.Texture {
	return b.texture
}

// UseAlpha reports whether a tiled background keeps its own alpha.
func (b Background) UseAlpha() bool {
	return b.useAlpha
}

// ClearColor is the color an offscreen target is cleared to before rendering over this
// background: the solid color for BackgroundSolidColor, transparent black otherwise.
//
// Returns:
//   - gg.RGBA: the clear color
func (b Background) ClearColor() gg.RGBA {
	if b.kind == BackgroundSolidColor {
		c := b.color
		c.A = 1
		return c
	}
	return gg.Transparent
}
