package model

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	mu *sync.Mutex

	name              string
	meshes            []Mesh
	skeleton          *Skeleton
	animations        []*AnimationClip
	importedMaterials []common.ImportedMaterial
	renderMaterials   []material.Material
	bounds            common.AABB
}

// Model defines the interface for a loaded 3D model.
// A Model is an immutable container of bind-pose meshes, the node hierarchy, animation clips
// and materials. Per-instance pose state lives in the animator attached to the owning
// game object, so one Model can be shared by any number of instances and clones.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Meshes retrieves the bind-pose meshes. The slice must be treated as read-only.
	//
	// Returns:
	//   - []Mesh: the meshes
	Meshes() []Mesh

	// Skinned reports whether any mesh carries bone weights.
	//
	// Returns:
	//   - bool: true if the model has bone data
	Skinned() bool

	// Skeleton retrieves the node hierarchy for this model.
	// Returns nil for models without nodes.
	//
	// Returns:
	//   - *Skeleton: the skeleton or nil
	Skeleton() *Skeleton

	// Animations retrieves all animation clips bundled with this model.
	//
	// Returns:
	//   - []*AnimationClip: the animation clips
	Animations() []*AnimationClip

	// AnimationCount returns the number of available animation clips.
	//
	// Returns:
	//   - int: the animation count
	AnimationCount() int

	// AnimationNames returns the names of all animation clips.
	//
	// Returns:
	//   - []string: the animation clip names
	AnimationNames() []string

	// GetAnimationIndex returns the index of an animation by name, or -1 if not found.
	//
	// Parameters:
	//   - name: the animation clip name to search for
	//
	// Returns:
	//   - int: the animation index, or -1 if not found
	GetAnimationIndex(name string) int

	// ImportedMaterials retrieves the raw material properties imported from the model file.
	//
	// Returns:
	//   - []common.ImportedMaterial: the imported materials
	ImportedMaterials() []common.ImportedMaterial

	// RenderMaterials retrieves the render-ready materials for this model.
	//
	// Returns:
	//   - []material.Material: the render-ready materials
	RenderMaterials() []material.Material

	// SetRenderMaterials replaces the render-ready material list for this model.
	//
	// Parameters:
	//   - mats: the render-ready materials to set
	SetRenderMaterials(mats []material.Material)

	// MaterialFor returns the render material used by a mesh, or nil when the mesh
	// references no material.
	//
	// Parameters:
	//   - meshIndex: index into Meshes
	//
	// Returns:
	//   - material.Material: the material, or nil
	MaterialFor(meshIndex int) material.Material

	// Bounds returns the bind-pose bounding box in model space.
	//
	// Returns:
	//   - common.AABB: the bounds
	Bounds() common.AABB

	// BoundingRadius returns the radius of the sphere circumscribing Bounds.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// TriangleCount returns the number of triangles over all meshes.
	//
	// Returns:
	//   - int: the triangle count
	TriangleCount() int
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// Bounds are computed from the meshes after all options ran.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{mu: &sync.Mutex{}}
	for _, opt := range options {
		opt(m)
	}

	m.bounds = common.EmptyAABB()
	for i := range m.meshes {
		// a zero box is an unset field, not a point at the origin
		if b := m.meshes[i].Bounds; b.Empty() || b == (common.AABB{}) {
			m.meshes[i].ComputeBounds()
		}
		m.bounds.Union(m.meshes[i].Bounds)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Meshes() []Mesh {
	return m.meshes
}

func (m *model) Skinned() bool {
	if m.skeleton == nil {
		return false
	}
	for i := range m.meshes {
		if m.meshes[i].Skinned() {
			return true
		}
	}
	return false
}

func (m *model) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *model) Animations() []*AnimationClip {
	return m.animations
}

func (m *model) AnimationCount() int {
	return len(m.animations)
}

func (m *model) AnimationNames() []string {
	names := make([]string, len(m.animations))
	for i, anim := range m.animations {
		names[i] = anim.Name
	}
	return names
}

func (m *model) GetAnimationIndex(name string) int {
	for i, anim := range m.animations {
		if anim.Name == name {
			return i
		}
	}
	return -1
}

func (m *model) ImportedMaterials() []common.ImportedMaterial {
	return m.importedMaterials
}

func (m *model) RenderMaterials() []material.Material {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renderMaterials
}

func (m *model) SetRenderMaterials(mats []material.Material) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renderMaterials = mats
}

func (m *model) MaterialFor(meshIndex int) material.Material {
	if meshIndex < 0 || meshIndex >= len(m.meshes) {
		return nil
	}
	idx := m.meshes[meshIndex].MaterialIndex
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx < 0 || idx >= len(m.renderMaterials) {
		return nil
	}
	return m.renderMaterials[idx]
}

func (m *model) Bounds() common.AABB {
	return m.bounds
}

func (m *model) BoundingRadius() float32 {
	if m.bounds.Empty() {
		return 0
	}
	return m.bounds.Radius()
}

func (m *model) TriangleCount() int {
	n := 0
	for i := range m.meshes {
		n += len(m.meshes[i].Indices) / 3
	}
	return n
}
