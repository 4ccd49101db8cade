package animator

import (
	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
)

// AnimatorBackendType identifies the type of deformation backend used by an Animator.
type AnimatorBackendType int

const (
	// BackendTypeSimple moves whole meshes rigidly with the node that carries them.
	BackendTypeSimple AnimatorBackendType = iota

	// BackendTypeSkeletal blends vertices between up to four bones using their bind matrices.
	BackendTypeSkeletal
)

// AnimatorBackend deforms bind-pose meshes by a posed node hierarchy.
type AnimatorBackend interface {
	// Type returns the backend type.
	Type() AnimatorBackendType

	// Deform returns the mesh vertices in model space for the given node world matrices.
	// worlds may be nil when the model has no skeleton; the bind pose is returned then.
	//
	// Parameters:
	//   - mesh: the bind-pose mesh
	//   - skel: the model skeleton, or nil
	//   - worlds: node world matrices, one per bone
	//
	// Returns:
	//   - []model.Vertex: freshly allocated deformed vertices
	Deform(mesh *model.Mesh, skel *model.Skeleton, worlds [][16]float32) []model.Vertex
}

// newAnimatorBackend picks the backend implementation for a type.
func newAnimatorBackend(t AnimatorBackendType) AnimatorBackend {
	if t == BackendTypeSkeletal {
		return &skeletalAnimatorBackendImpl{}
	}
	return &simpleAnimatorBackendImpl{}
}

// rigidDeform moves every vertex by the world matrix of the mesh's node.
func rigidDeform(mesh *model.Mesh, worlds [][16]float32) []model.Vertex {
	out := make([]model.Vertex, len(mesh.Vertices))
	copy(out, mesh.Vertices)
	if mesh.NodeIndex < 0 || int(mesh.NodeIndex) >= len(worlds) {
		return out
	}
	m := worlds[mesh.NodeIndex][:]
	for i := range out {
		p := common.TransformPoint(m, out[i].Position)
		out[i].Position = [3]float32{p[0], p[1], p[2]}
		out[i].Normal = common.Normalize3(common.TransformDirection(m, out[i].Normal))
	}
	return out
}
