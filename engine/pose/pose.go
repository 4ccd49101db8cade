package pose

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/assets"
	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/animator"
)

// Pose selects a single frame of an animation clip. Time is clamped into the clip's
// duration when sampled.
type Pose struct {
	Clip string
	Time float32
}

type sampler struct {
	mu *sync.Mutex

	registry assets.Registry
}

// Sampler applies an optional pose to a game object's animator. Failures never abort a
// render: they are logged and the object keeps its current pose.
type Sampler interface {
	// Apply samples p onto obj. A nil pose is a no-op.
	//
	// An object without an animator whose model has a skeleton and clips gets a minimal one
	// first; other objects are skipped. An animator without a controller receives the
	// registry's dummy controller first; if that asset is missing sampling is skipped.
	// Unknown clips are skipped.
	//
	// Parameters:
	//   - obj: the object to pose, normally an ephemeral clone
	//   - p: the pose, or nil
	//
	// Returns:
	//   - bool: true if a clip was sampled onto the object
	Apply(obj game_object.GameObject, p *Pose) bool

	// Registry returns the registry used to resolve the dummy controller.
	//
	// Returns:
	//   - assets.Registry: the registry, or nil
	Registry() assets.Registry
}

var _ Sampler = &sampler{}

// NewSampler creates a new Sampler.
//
// Parameters:
//   - options: functional options to configure the sampler
//
// Returns:
//   - Sampler: the sampler
func NewSampler(options ...SamplerBuilderOption) Sampler {
	s := &sampler{mu: &sync.Mutex{}}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *sampler) Registry() assets.Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry
}

func (s *sampler) Apply(obj game_object.GameObject, p *Pose) bool {
	if p == nil || obj == nil {
		return false
	}
	log := common.Logger()

	anim, ok := obj.Animator()
	if !ok {
		m := obj.Model()
		if m == nil || len(m.Animations()) == 0 {
			log.Debug("pose skipped: object has no clips", "object", obj.Name(), "clip", p.Clip)
			return false
		}
		if anim = animator.NewModelAnimator(m); anim == nil {
			log.Debug("pose skipped: model has no skeleton", "object", obj.Name(), "clip", p.Clip)
			return false
		}
		obj.SetAnimator(anim)
		log.Debug("animator attached", "object", obj.Name(), "backend", anim.BackendType())
	}

	if anim.Controller() == nil {
		reg := s.Registry()
		if reg == nil {
			log.Warn("pose skipped", "asset", assets.DummyControllerName,
				"err", fmt.Errorf("no asset registry: %w", assets.ErrAssetMissing))
			return false
		}
		ctrl, err := reg.Controller(assets.DummyControllerName)
		if err != nil {
			log.Warn("pose skipped", "asset", assets.DummyControllerName, "err", err)
			return false
		}
		anim.SetController(ctrl)
	}

	t, err := anim.SampleClip(p.Clip, p.Time)
	if err != nil {
		log.Warn("pose skipped", "object", obj.Name(), "clip", p.Clip, "err", err)
		return false
	}
	log.Debug("pose applied", "object", obj.Name(), "clip", p.Clip, "time", t)
	return true
}
