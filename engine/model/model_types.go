package model

import (
	"github.com/Carmen-Shannon/oxy-preview/common"
)

// --- Geometry Types ---

// Vertex is a single mesh vertex including optional skinning data.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	// Color is the per-vertex color multiplier. The zero value renders as white.
	Color [4]float32

	// BoneIndices are indices of up to 4 influencing bones.
	BoneIndices [4]uint32
	// BoneWeights are blend weights for each bone. All zero for unskinned vertices.
	BoneWeights [4]float32
}

// Mesh is an indexed triangle list drawn with a single material.
type Mesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices are the bind-pose vertices in model space.
	Vertices []Vertex

	// Indices are the triangle indices.
	Indices []uint32

	// MaterialIndex references Model.RenderMaterials; -1 uses the renderer default.
	MaterialIndex int

	// NodeIndex is the skeleton node that rigidly carries an unskinned mesh, or -1.
	NodeIndex int32

	// Bounds is the bind-pose bounding box in model space.
	Bounds common.AABB
}

// ComputeBounds recomputes Bounds from the vertex positions.
func (m *Mesh) ComputeBounds() {
	b := common.EmptyAABB()
	for i := range m.Vertices {
		b.Extend(m.Vertices[i].Position)
	}
	m.Bounds = b
}

// Skinned reports whether any vertex carries a bone weight.
func (m *Mesh) Skinned() bool {
	for i := range m.Vertices {
		w := m.Vertices[i].BoneWeights
		if w[0]+w[1]+w[2]+w[3] > 0 {
			return true
		}
	}
	return false
}

// --- Transform & Skeleton Types ---

// Transform represents a decomposed transform for animation interpolation.
type Transform struct {
	// Translation is the position offset.
	Translation [3]float32

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the scale factor along each axis.
	Scale [3]float32
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}}
}

// Matrix composes the transform into a column-major 4x4 matrix.
func (t Transform) Matrix() [16]float32 {
	var out [16]float32
	common.ComposeTRS(out[:], t.Translation, t.Rotation, t.Scale)
	return out
}

// Bone represents a single bone (or scene node) in a skeleton hierarchy.
type Bone struct {
	// Name is the bone's identifier (for debugging and animation targeting).
	Name string

	// ParentIndex is the index of the parent bone (-1 for root bones).
	ParentIndex int32

	// InverseBindMatrix transforms from model space to bone space at bind pose.
	// This is the inverse of the bone's world transform when the mesh was bound.
	InverseBindMatrix [16]float32

	// LocalTransform is the bone's rest transform relative to its parent.
	LocalTransform Transform
}

// Skeleton represents a bone hierarchy. Bones are ordered so that parents precede children.
type Skeleton struct {
	// Bones is the array of all bones in the skeleton.
	Bones []Bone

	// RootBoneIndices are indices of bones with no parent.
	RootBoneIndices []int32

	// BoneNameToIndex maps bone names to their indices for quick lookup.
	BoneNameToIndex map[string]int32
}

// RestPose returns a copy of every bone's rest transform.
func (s *Skeleton) RestPose() []Transform {
	if s == nil {
		return nil
	}
	out := make([]Transform, len(s.Bones))
	for i := range s.Bones {
		out[i] = s.Bones[i].LocalTransform
	}
	return out
}

// --- Animation Types ---

// AnimationClip represents a single animation (walk, run, attack, etc.).
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in seconds.
	Duration float32

	// TicksPerSecond is the sample rate of the animation.
	TicksPerSecond float32

	// Channels contains animation data for each animated bone.
	Channels []AnimationChannel
}

// AnimationChannel contains keyframe data for a single bone.
type AnimationChannel struct {
	// BoneIndex is the index of the bone this channel animates.
	BoneIndex int32

	// PositionKeys are keyframes for translation.
	PositionKeys []VectorKeyframe

	// RotationKeys are keyframes for rotation (quaternion).
	RotationKeys []QuaternionKeyframe

	// ScaleKeys are keyframes for scale.
	ScaleKeys []VectorKeyframe
}

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the 3D vector value at this keyframe.
	Value [3]float32
}

// QuaternionKeyframe stores a quaternion rotation at a specific time.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the quaternion value at this keyframe (x, y, z, w).
	Value [4]float32
}

// --- Import Types ---

// ImportedModel represents a 3D model loaded from an external format.
// This is the universal format that importers produce.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Meshes contains all mesh data (may have multiple meshes/submeshes).
	Meshes []Mesh

	// Skeleton is the node hierarchy (nil for models without nodes worth animating).
	Skeleton *Skeleton

	// Animations are all animation clips bundled with the model.
	Animations []*AnimationClip

	// Materials are the materials referenced by Mesh.MaterialIndex.
	Materials []common.ImportedMaterial
}
