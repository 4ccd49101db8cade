package loader

import (
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithModel pre-populates the model cache.
//
// Parameters:
//   - key: the cache key for the model
//   - m: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, m model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = m
	}
}

// WithTextureDecoding controls whether imported diffuse textures are decoded into render
// materials. Disabled decoding renders base colors only.
//
// Parameters:
//   - enabled: decode textures when true (the default)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithTextureDecoding(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.decodeTextures = enabled
	}
}

// WithUnlitMaterials forces every imported material to skip lighting.
//
// Parameters:
//   - unlit: true to render all materials unlit
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithUnlitMaterials(unlit bool) LoaderBuilderOption {
	return func(l *loader) {
		l.unlitMaterials = unlit
	}
}
