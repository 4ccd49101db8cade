package shader

import "github.com/gogpu/gg"

// Fragment is the interpolated surface data handed to a fragment program.
type Fragment struct {
	// Position is the world-space position of the fragment.
	Position [3]float32
	// Normal is the unit world-space normal, already flipped toward the viewer.
	Normal [3]float32
	// UV is the interpolated texture coordinate.
	UV [2]float32
	// Albedo is the material base color multiplied by the sampled texel.
	Albedo gg.RGBA
}

// DirectionalLight is an infinitely distant light. Direction is the direction the light travels.
type DirectionalLight struct {
	Direction [3]float32
	Color     [3]float32
	Intensity float32
}

// PointLight is a light radiating from a position with a finite range.
type PointLight struct {
	Position  [3]float32
	Color     [3]float32
	Intensity float32
	Range     float32
}

// Lighting is the per-render light environment shared by all fragments.
type Lighting struct {
	Ambient     [3]float32
	Directional []DirectionalLight
	Point       []PointLight
}

// CombineMode selects the merge rule a combine program applies.
type CombineMode int

const (
	// CombineTransparent keeps the subject color and writes its coverage as alpha.
	CombineTransparent CombineMode = iota
	// CombineOpaque blends the subject over the background color and writes opaque alpha.
	CombineOpaque
	// CombineBlendAlpha blends all four channels of the opaque subject over the background.
	CombineBlendAlpha
)

// CombineInput is one pixel's worth of compositor input.
type CombineInput struct {
	Mode       CombineMode
	Color      gg.RGBA
	Background gg.RGBA
	// Coverage is the effective subject coverage in [0, 1].
	Coverage float64
}
