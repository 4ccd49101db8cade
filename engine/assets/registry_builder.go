package assets

import (
	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
)

// RegistryBuilderOption is a functional option for populating a Registry.
type RegistryBuilderOption func(*registry)

// WithTemplate registers a game object template.
//
// Parameters:
//   - name: the template name
//   - obj: the template object
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithTemplate(name string, obj game_object.GameObject) RegistryBuilderOption {
	return func(r *registry) {
		if obj != nil {
			r.templates[name] = obj
		}
	}
}

// WithMaterial registers a material under its name.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithMaterial(m material.Material) RegistryBuilderOption {
	return func(r *registry) {
		if m != nil {
			r.materials[m.Name()] = m
		}
	}
}

// WithController registers an animation controller under its name.
//
// Parameters:
//   - c: the controller
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithController(c animator.Controller) RegistryBuilderOption {
	return func(r *registry) {
		if c != nil {
			r.controllers[c.Name()] = c
		}
	}
}
