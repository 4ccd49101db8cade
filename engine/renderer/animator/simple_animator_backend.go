package animator

import (
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
)

// simpleAnimatorBackendImpl ignores bone weights and moves meshes with their carrier node.
type simpleAnimatorBackendImpl struct{}

var _ AnimatorBackend = &simpleAnimatorBackendImpl{}

func (s *simpleAnimatorBackendImpl) Type() AnimatorBackendType {
	return BackendTypeSimple
}

func (s *simpleAnimatorBackendImpl) Deform(mesh *model.Mesh, _ *model.Skeleton, worlds [][16]float32) []model.Vertex {
	return rigidDeform(mesh, worlds)
}
