package shader

import (
	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/chewxy/math32"
	"github.com/gogpu/gg"
)

const (
	// LambertKey is the key of the built-in diffuse lit fragment shader.
	LambertKey = "lambert"
	// UnlitKey is the key of the built-in unlit fragment shader.
	UnlitKey = "unlit"
	// CombinerKey is the key of the built-in compositor shader.
	CombinerKey = "combiner"
)

// Lambert returns a fragment shader computing ambient plus Lambert diffuse lighting.
func Lambert() Shader {
	return NewFragmentShader(LambertKey, shadeLambert)
}

// Unlit returns a fragment shader that outputs the albedo unchanged.
func Unlit() Shader {
	return NewFragmentShader(UnlitKey, shadeUnlit)
}

// Combiner returns the compositor shader.
func Combiner() Shader {
	return NewCombineShader(CombinerKey, combine)
}

func shadeUnlit(frag *Fragment, _ *Lighting) gg.RGBA {
	return frag.Albedo
}

func shadeLambert(frag *Fragment, lighting *Lighting) gg.RGBA {
	if lighting == nil {
		return frag.Albedo
	}
	light := lighting.Ambient
	for _, dl := range lighting.Directional {
		toLight := common.Scale3(common.Normalize3(dl.Direction), -1)
		ndotl := max(common.Dot3(frag.Normal, toLight), 0)
		light = common.Add3(light, common.Scale3(dl.Color, ndotl*dl.Intensity))
	}
	for _, pl := range lighting.Point {
		delta := common.Sub3(pl.Position, frag.Position)
		dist := common.Length3(delta)
		if dist <= 0 || (pl.Range > 0 && dist > pl.Range) {
			continue
		}
		toLight := common.Scale3(delta, 1/dist)
		ndotl := max(common.Dot3(frag.Normal, toLight), 0)
		var atten float32
		if pl.Range > 0 {
			falloff := 1 - dist/pl.Range
			atten = falloff * falloff
		} else {
			atten = 1 / (1 + dist*dist)
		}
		light = common.Add3(light, common.Scale3(pl.Color, ndotl*pl.Intensity*atten))
	}

	return gg.RGBA{
		R: frag.Albedo.R * float64(math32.Min(light[0], 1)),
		G: frag.Albedo.G * float64(math32.Min(light[1], 1)),
		B: frag.Albedo.B * float64(math32.Min(light[2], 1)),
		A: frag.Albedo.A,
	}
}

func combine(in CombineInput) gg.RGBA {
	a := min(max(in.Coverage, 0), 1)
	switch in.Mode {
	case CombineTransparent:
		return gg.RGBA{R: in.Color.R, G: in.Color.G, B: in.Color.B, A: a}
	case CombineBlendAlpha:
		subject := gg.RGBA{R: in.Color.R, G: in.Color.G, B: in.Color.B, A: 1}
		return in.Background.Lerp(subject, a)
	default:
		out := in.Background.Lerp(in.Color, a)
		out.A = 1
		return out
	}
}
