package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// extractMaterials reads base color, the unlit extension and the base color texture of
// every material. Image bytes are loaded but not decoded.
func extractMaterials(parser gltfParser) ([]common.ImportedMaterial, error) {
	doc := parser.Document()
	out := make([]common.ImportedMaterial, len(doc.Materials))

	for i := range doc.Materials {
		gm := &doc.Materials[i]
		mat := common.ImportedMaterial{Name: gm.Name, BaseColor: [4]float32{1, 1, 1, 1}}
		if mat.Name == "" {
			mat.Name = fmt.Sprintf("material%d", i)
		}
		_, mat.Unlit = gm.Extensions[gltfExtensionUnlit]

		if pbr := gm.PbrMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				mat.BaseColor = *pbr.BaseColorFactor
			}
			if pbr.BaseColorTexture != nil {
				tex, err := extractTexture(parser, pbr.BaseColorTexture.Index)
				if err != nil {
					return nil, fmt.Errorf("material %q: %w", mat.Name, err)
				}
				mat.DiffuseTexture = tex
				if tex != nil {
					mat.DiffuseTexturePath = tex.Path
				}
			}
		}
		out[i] = mat
	}
	return out, nil
}

func extractTexture(parser gltfParser, index int) (*common.ImportedTexture, error) {
	doc := parser.Document()
	if index < 0 || index >= len(doc.Textures) {
		return nil, fmt.Errorf("texture %d out of range", index)
	}
	gt := doc.Textures[index]
	if gt.Source == nil {
		return nil, nil
	}
	if *gt.Source < 0 || *gt.Source >= len(doc.Images) {
		return nil, fmt.Errorf("texture %d: image %d out of range", index, *gt.Source)
	}

	img := doc.Images[*gt.Source]
	tex := &common.ImportedTexture{Name: img.Name, MimeType: img.MimeType}
	if tex.Name == "" {
		tex.Name = fmt.Sprintf("image%d", *gt.Source)
	}
	if gt.Sampler != nil && *gt.Sampler >= 0 && *gt.Sampler < len(doc.Samplers) {
		sampler := samplerData(doc.Samplers[*gt.Sampler])
		tex.SamplerData = &sampler
	}

	switch {
	case img.BufferView != nil:
		data, err := parser.BufferView(*img.BufferView)
		if err != nil {
			return nil, fmt.Errorf("image %q: %w", tex.Name, err)
		}
		tex.Data = data
	case img.URI != "":
		if !strings.HasPrefix(img.URI, "data:") {
			tex.Path = filepath.Join(parser.BaseDir(), filepath.FromSlash(img.URI))
		}
		data, mime, err := parser.ReadURI(img.URI)
		switch {
		case err != nil && tex.Path != "":
			// Decode retries from Path and reports the failure there
			common.Logger().Warn("texture not readable", "path", tex.Path, "err", err)
		case err != nil:
			return nil, fmt.Errorf("image %q: %w", tex.Name, err)
		default:
			tex.Data = data
			tex.MimeType = common.Coalesce(tex.MimeType, mime)
		}
	default:
		return nil, nil
	}
	return tex, nil
}

// samplerData maps glTF sampler enums onto the sampler descriptor. Unset fields keep
// common.RepeatSampler values.
func samplerData(s gltfSampler) common.SamplerStagingData {
	out := common.RepeatSampler()
	if s.MagFilter != nil {
		out.MagFilter = filterMode(*s.MagFilter)
	}
	if s.MinFilter != nil {
		out.MinFilter = filterMode(*s.MinFilter)
	}
	if s.WrapS != nil {
		out.AddressModeU = addressMode(*s.WrapS)
	}
	if s.WrapT != nil {
		out.AddressModeV = addressMode(*s.WrapT)
	}
	return out
}

// filterMode treats the NEAREST variants, which are the even enum values, as nearest filtering.
func filterMode(v int) wgpu.FilterMode {
	if v%2 == gltfFilterNearest%2 {
		return wgpu.FilterModeNearest
	}
	return wgpu.FilterModeLinear
}

func addressMode(v int) wgpu.AddressMode {
	switch v {
	case gltfWrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case gltfWrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}
