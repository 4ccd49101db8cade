package compositor

import (
	"github.com/Carmen-Shannon/oxy-preview/engine/assets"
)

// CompositorBuilderOption is a functional option applied to a compositor during construction via NewCompositor.
type CompositorBuilderOption func(*compositor)

// WithRegistry sets the registry the combiner material is resolved from.
//
// Parameters:
//   - r: the asset registry
//
// Returns:
//   - CompositorBuilderOption: a function that applies the registry option to a compositor
func WithRegistry(r assets.Registry) CompositorBuilderOption {
	return func(c *compositor) {
		c.registry = r
	}
}
