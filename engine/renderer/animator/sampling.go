package animator

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
)

// samplePose writes the clip evaluated at time t over the rest pose. Bones without a channel
// keep their rest transform. t must already be clamped to the clip range.
func samplePose(clip *model.AnimationClip, t float32, rest []model.Transform) []model.Transform {
	pose := make([]model.Transform, len(rest))
	copy(pose, rest)
	for _, ch := range clip.Channels {
		if ch.BoneIndex < 0 || int(ch.BoneIndex) >= len(pose) {
			continue
		}
		tr := &pose[ch.BoneIndex]
		if len(ch.PositionKeys) > 0 {
			tr.Translation = sampleVector(ch.PositionKeys, t)
		}
		if len(ch.RotationKeys) > 0 {
			tr.Rotation = sampleQuaternion(ch.RotationKeys, t)
		}
		if len(ch.ScaleKeys) > 0 {
			tr.Scale = sampleVector(ch.ScaleKeys, t)
		}
	}
	return pose
}

// bracket finds the keyframe pair around t and the blend factor between them.
func bracket(n int, timeAt func(int) float32, t float32) (i0, i1 int, f float32) {
	if n == 1 || t <= timeAt(0) {
		return 0, 0, 0
	}
	if t >= timeAt(n-1) {
		return n - 1, n - 1, 0
	}
	i1 = sort.Search(n, func(i int) bool { return timeAt(i) > t })
	i0 = i1 - 1
	span := timeAt(i1) - timeAt(i0)
	if span <= 0 {
		return i0, i0, 0
	}
	return i0, i1, (t - timeAt(i0)) / span
}

func sampleVector(keys []model.VectorKeyframe, t float32) [3]float32 {
	i0, i1, f := bracket(len(keys), func(i int) float32 { return keys[i].Time }, t)
	return common.Lerp3(keys[i0].Value, keys[i1].Value, f)
}

func sampleQuaternion(keys []model.QuaternionKeyframe, t float32) [4]float32 {
	i0, i1, f := bracket(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if i0 == i1 {
		return common.QuatNormalize(keys[i0].Value)
	}
	return common.QuatSlerp(keys[i0].Value, keys[i1].Value, f)
}

// worldMatrices composes local transforms down the hierarchy. Parents precede children
// in the bone order, so a single forward pass suffices.
func worldMatrices(skel *model.Skeleton, pose []model.Transform) [][16]float32 {
	if skel == nil {
		return nil
	}
	out := make([][16]float32, len(skel.Bones))
	for i, bone := range skel.Bones {
		local := pose[i].Matrix()
		if bone.ParentIndex < 0 || int(bone.ParentIndex) >= i {
			out[i] = local
			continue
		}
		common.Mul4(out[i][:], out[bone.ParentIndex][:], local[:])
	}
	return out
}
