// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SamplerStagingData describes how a texture is addressed and filtered when sampled.
// The field set mirrors the WebGPU sampler descriptor so imported sampler settings
// carry over unchanged; the CPU samplers honor the address and mag/min filter modes.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside [0, 1].
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail.
	LodMinClamp, LodMaxClamp float32
	// Compare specifies the comparison function for comparison samplers.
	Compare wgpu.CompareFunction
	// MaxAnisotropy specifies the maximum anisotropy level.
	MaxAnisotropy uint16
}

// RepeatSampler returns linear-filtered sampler settings that wrap in U and V.
// Used for tiled backgrounds and imported textures without explicit sampler data.
//
// Returns:
//   - SamplerStagingData: the sampler settings
func RepeatSampler() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

// ClampSampler returns nearest-filtered sampler settings that clamp to the edge texels.
// Used for the rendered subject and its alpha snapshot, which match the output size.
//
// Returns:
//   - SamplerStagingData: the sampler settings
func ClampSampler() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

// ImportedMaterial represents material properties from an imported model file.
type ImportedMaterial struct {
	// Name is the material identifier.
	Name string

	// BaseColor is the albedo/diffuse color (RGBA).
	BaseColor [4]float32

	// Unlit marks materials that should skip lighting (KHR_materials_unlit).
	Unlit bool

	// DiffuseTexturePath is the file path for the diffuse/albedo texture.
	DiffuseTexturePath string

	// DiffuseTexture holds embedded texture data (if present).
	DiffuseTexture *ImportedTexture
}

// ImportedTexture represents texture data extracted from a model file or loaded from disk.
// For embedded textures (GLB), the Data field contains raw image bytes.
// For external textures, the Path field contains the file path.
type ImportedTexture struct {
	// Name is an identifier for this texture (e.g., "diffuse").
	Name string

	// Path is the file path for external textures (empty for embedded).
	Path string

	// Data contains raw image bytes for embedded textures.
	Data []byte

	// MimeType indicates the image format (e.g., "image/png").
	MimeType string

	// Width is the texture width in pixels (populated after Decode).
	Width int

	// Height is the texture height in pixels (populated after Decode).
	Height int

	// SamplerData holds sampler parameters extracted from the model file.
	// When nil, RepeatSampler settings are used.
	SamplerData *SamplerStagingData
}

// Decode decodes the texture into an RGBA image.
// Uses either embedded Data bytes or loads from Path on disk.
// Supports PNG, JPEG, BMP, TIFF and WebP.
//
// Returns:
//   - *image.RGBA: the decoded image with bounds starting at (0, 0)
//   - error: error if decoding fails
func (t *ImportedTexture) Decode() (*image.RGBA, error) {
	if t == nil {
		return nil, fmt.Errorf("texture is nil")
	}

	var img image.Image
	var err error

	switch {
	case len(t.Data) > 0:
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode embedded image: %w", err)
		}
	case t.Path != "":
		file, openErr := os.Open(t.Path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open texture file %s: %w", t.Path, openErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return nil, fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
	default:
		return nil, fmt.Errorf("texture has neither data nor path")
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	t.Width = bounds.Dx()
	t.Height = bounds.Dy()
	return rgba, nil
}
