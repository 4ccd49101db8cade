package animator

import (
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
)

// DummyControllerName is the registry name of the placeholder controller attached to
// animators that have none, so a single pose can still be sampled.
const DummyControllerName = "PreviewGeneratorDummyController"

type controllerImpl struct {
	name    string
	allowed map[string]struct{}
}

// Controller decides which clips of a model an animator may evaluate.
// An animator without a controller refuses to sample.
type Controller interface {
	// Name returns the controller identifier.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Resolve looks up a clip by name on the given model.
	//
	// Parameters:
	//   - m: the model whose clips are searched
	//   - clip: the clip name
	//
	// Returns:
	//   - *model.AnimationClip: the clip, or nil
	//   - bool: true if the clip exists and the controller allows it
	Resolve(m model.Model, clip string) (*model.AnimationClip, bool)
}

var _ Controller = &controllerImpl{}

// NewController creates a controller. Without an allow-list every clip of the model resolves.
//
// Parameters:
//   - name: the controller name
//   - clips: optional allow-list of clip names
//
// Returns:
//   - Controller: the controller
func NewController(name string, clips ...string) Controller {
	c := &controllerImpl{name: name}
	if len(clips) > 0 {
		c.allowed = make(map[string]struct{}, len(clips))
		for _, clip := range clips {
			c.allowed[clip] = struct{}{}
		}
	}
	return c
}

func (c *controllerImpl) Name() string {
	return c.name
}

func (c *controllerImpl) Resolve(m model.Model, clip string) (*model.AnimationClip, bool) {
	if m == nil {
		return nil, false
	}
	if c.allowed != nil {
		if _, ok := c.allowed[clip]; !ok {
			return nil, false
		}
	}
	idx := m.GetAnimationIndex(clip)
	if idx < 0 {
		return nil, false
	}
	return m.Animations()[idx], true
}
