package pose

import "github.com/Carmen-Shannon/oxy-preview/engine/assets"

// SamplerBuilderOption is a functional option for configuring a Sampler.
type SamplerBuilderOption func(*sampler)

// WithRegistry sets the registry used to resolve the dummy animation controller.
//
// Parameters:
//   - r: the asset registry
//
// Returns:
//   - SamplerBuilderOption: option function to apply
func WithRegistry(r assets.Registry) SamplerBuilderOption {
	return func(s *sampler) {
		s.registry = r
	}
}
