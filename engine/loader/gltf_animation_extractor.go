package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
)

// extractAnimations converts every animation into a clip keyed by bone index. Times stay in
// seconds. STEP samplers are expanded into duplicated keys and CUBICSPLINE samplers keep only
// their values.
func extractAnimations(parser gltfParser, g *nodeGraph) ([]*model.AnimationClip, error) {
	doc := parser.Document()
	clips := make([]*model.AnimationClip, 0, len(doc.Animations))

	for ai := range doc.Animations {
		anim := &doc.Animations[ai]
		clip := &model.AnimationClip{Name: anim.Name, TicksPerSecond: 1}
		if clip.Name == "" {
			clip.Name = fmt.Sprintf("animation%d", ai)
		}

		channelOf := make(map[int32]int)
		for ci, ch := range anim.Channels {
			switch ch.Target.Path {
			case "translation", "rotation", "scale":
			default:
				continue
			}
			if ch.Target.Node == nil {
				continue
			}
			bone, ok := g.boneOf[*ch.Target.Node]
			if !ok {
				continue
			}
			if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
				return nil, fmt.Errorf("%s channel %d: sampler %d out of range", clip.Name, ci, ch.Sampler)
			}
			sampler := anim.Samplers[ch.Sampler]

			times, _, err := parser.ReadFloats(sampler.Input)
			if err != nil {
				return nil, fmt.Errorf("%s channel %d input: %w", clip.Name, ci, err)
			}
			values, comps, err := parser.ReadFloats(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("%s channel %d output: %w", clip.Name, ci, err)
			}
			values = keyValues(values, comps, len(times), sampler.Interpolation)
			if len(values) != len(times)*comps {
				return nil, fmt.Errorf("%s channel %d: %d keys but %d values", clip.Name, ci, len(times), len(values)/max(comps, 1))
			}

			idx, seen := channelOf[bone]
			if !seen {
				idx = len(clip.Channels)
				channelOf[bone] = idx
				clip.Channels = append(clip.Channels, model.AnimationChannel{BoneIndex: bone})
			}
			target := &clip.Channels[idx]
			step := sampler.Interpolation == gltfInterpolationStep

			switch ch.Target.Path {
			case "translation", "scale":
				if comps != 3 {
					return nil, fmt.Errorf("%s channel %d: %w", clip.Name, ci, errAccessorFormat)
				}
				keys := vectorKeys(times, values, step)
				if ch.Target.Path == "translation" {
					target.PositionKeys = keys
				} else {
					target.ScaleKeys = keys
				}
			case "rotation":
				if comps != 4 {
					return nil, fmt.Errorf("%s channel %d: %w", clip.Name, ci, errAccessorFormat)
				}
				target.RotationKeys = quaternionKeys(times, values, step)
			}
			if n := len(times); n > 0 {
				clip.Duration = max(clip.Duration, times[n-1])
			}
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

// keyValues drops the in and out tangents of cubic spline output.
func keyValues(values []float32, comps, keys int, interpolation string) []float32 {
	if interpolation != gltfInterpolationCubicSpline || len(values) != keys*comps*3 {
		return values
	}
	out := make([]float32, 0, keys*comps)
	for k := range keys {
		base := (k*3 + 1) * comps
		out = append(out, values[base:base+comps]...)
	}
	return out
}

func vectorKeys(times, values []float32, step bool) []model.VectorKeyframe {
	keys := make([]model.VectorKeyframe, 0, len(times))
	for i, t := range times {
		v := [3]float32{values[i*3], values[i*3+1], values[i*3+2]}
		if step && i > 0 {
			keys = append(keys, model.VectorKeyframe{Time: t, Value: keys[len(keys)-1].Value})
		}
		keys = append(keys, model.VectorKeyframe{Time: t, Value: v})
	}
	return keys
}

func quaternionKeys(times, values []float32, step bool) []model.QuaternionKeyframe {
	keys := make([]model.QuaternionKeyframe, 0, len(times))
	for i, t := range times {
		q := common.QuatNormalize([4]float32{values[i*4], values[i*4+1], values[i*4+2], values[i*4+3]})
		if step && i > 0 {
			keys = append(keys, model.QuaternionKeyframe{Time: t, Value: keys[len(keys)-1].Value})
		}
		keys = append(keys, model.QuaternionKeyframe{Time: t, Value: q})
	}
	return keys
}
