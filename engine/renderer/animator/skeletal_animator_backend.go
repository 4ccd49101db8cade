package animator

import (
	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
)

// skeletalAnimatorBackendImpl performs linear blend skinning on the CPU.
// Meshes without bone weights fall back to rigid node transforms.
type skeletalAnimatorBackendImpl struct{}

var _ AnimatorBackend = &skeletalAnimatorBackendImpl{}

func (s *skeletalAnimatorBackendImpl) Type() AnimatorBackendType {
	return BackendTypeSkeletal
}

func (s *skeletalAnimatorBackendImpl) Deform(mesh *model.Mesh, skel *model.Skeleton, worlds [][16]float32) []model.Vertex {
	if skel == nil || len(worlds) == 0 || !mesh.Skinned() {
		return rigidDeform(mesh, worlds)
	}

	skins := skinMatrices(skel, worlds)
	out := make([]model.Vertex, len(mesh.Vertices))
	copy(out, mesh.Vertices)

	for i := range out {
		v := &out[i]
		var pos, nrm [3]float32
		var total float32
		for k := range 4 {
			w := v.BoneWeights[k]
			bi := int(v.BoneIndices[k])
			if w <= 0 || bi >= len(skins) {
				continue
			}
			m := skins[bi][:]
			p := common.TransformPoint(m, mesh.Vertices[i].Position)
			pos = common.Add3(pos, common.Scale3([3]float32{p[0], p[1], p[2]}, w))
			nrm = common.Add3(nrm, common.Scale3(common.TransformDirection(m, mesh.Vertices[i].Normal), w))
			total += w
		}
		if total <= 0 {
			continue
		}
		v.Position = common.Scale3(pos, 1/total)
		v.Normal = common.Normalize3(nrm)
	}
	return out
}

// skinMatrices returns world * inverseBind for every bone.
func skinMatrices(skel *model.Skeleton, worlds [][16]float32) [][16]float32 {
	out := make([][16]float32, len(skel.Bones))
	for i := range skel.Bones {
		if i >= len(worlds) {
			common.Identity(out[i][:])
			continue
		}
		common.Mul4(out[i][:], worlds[i][:], skel.Bones[i].InverseBindMatrix[:])
	}
	return out
}
