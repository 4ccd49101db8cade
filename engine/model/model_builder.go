package model

import (
	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
)

// ModelBuilderOption is a function that configures a model instance during construction.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the identifier for the model
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMeshes is an option builder that appends meshes to the Model.
//
// Parameters:
//   - meshes: the meshes to append
//
// Returns:
//   - ModelBuilderOption: a function that applies the meshes option to a model
func WithMeshes(meshes ...Mesh) ModelBuilderOption {
	return func(m *model) {
		m.meshes = append(m.meshes, meshes...)
	}
}

// WithSkeleton is an option builder that sets the node hierarchy of the Model.
//
// Parameters:
//   - skeleton: the skeleton
//
// Returns:
//   - ModelBuilderOption: a function that applies the skeleton option to a model
func WithSkeleton(skeleton *Skeleton) ModelBuilderOption {
	return func(m *model) {
		m.skeleton = skeleton
	}
}

// WithAnimations is an option builder that sets the animation clips of the Model.
//
// Parameters:
//   - animations: the animation clips
//
// Returns:
//   - ModelBuilderOption: a function that applies the animations option to a model
func WithAnimations(animations []*AnimationClip) ModelBuilderOption {
	return func(m *model) {
		m.animations = animations
	}
}

// WithImportedMaterials is an option builder that sets the raw imported materials of the Model.
//
// Parameters:
//   - materials: the imported materials
//
// Returns:
//   - ModelBuilderOption: a function that applies the imported materials option to a model
func WithImportedMaterials(materials []common.ImportedMaterial) ModelBuilderOption {
	return func(m *model) {
		m.importedMaterials = materials
	}
}

// WithRenderMaterials is an option builder that sets the render-ready materials for the Model.
//
// Parameters:
//   - mats: the render-ready materials to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the render materials option to a model
func WithRenderMaterials(mats ...material.Material) ModelBuilderOption {
	return func(m *model) {
		m.renderMaterials = mats
	}
}

// WithImportedModel is an option builder that copies everything an importer produced.
//
// Parameters:
//   - im: the imported model
//
// Returns:
//   - ModelBuilderOption: a function that applies the imported model to a model
func WithImportedModel(im *ImportedModel) ModelBuilderOption {
	return func(m *model) {
		if im == nil {
			return
		}
		if m.name == "" {
			m.name = im.Name
		}
		m.meshes = append(m.meshes, im.Meshes...)
		WithSkeleton(im.Skeleton)(m)
		WithAnimations(im.Animations)(m)
		WithImportedMaterials(im.Materials)(m)
	}
}
