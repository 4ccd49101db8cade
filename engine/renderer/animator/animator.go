package animator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
	"github.com/jinzhu/copier"
)

var (
	// ErrNoModel is returned when sampling an animator without a model.
	ErrNoModel = errors.New("animator has no model")
	// ErrNoController is returned when sampling an animator without a controller.
	ErrNoController = errors.New("animator has no controller")
	// ErrUnknownClip is returned when the controller cannot resolve the requested clip.
	ErrUnknownClip = errors.New("unknown animation clip")
)

// State is the per-instance pose of an animator: the last sampled clip and time and the
// resulting local transform of every node. It carries exported fields only so it can be
// deep-copied.
type State struct {
	Clip string
	Time float32
	Pose []model.Transform
}

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	backend    AnimatorBackend
	model      model.Model
	controller Controller
	state      State

	deformed [][]model.Vertex
	worlds   [][16]float32
	dirty    bool
}

// Animator defines the public interface for single-pose evaluation.
//
// The Animator owns the pose of one game object instance. Sampling a clip writes local node
// transforms into the instance state; the backend turns the posed hierarchy into deformed
// vertices on demand. The shared Model is never written to.
type Animator interface {
	// BackendType returns the type of deformation backend used by this animator.
	//
	// Returns:
	//   - AnimatorBackendType: the backend type
	BackendType() AnimatorBackendType

	// Model returns the model this animator poses.
	//
	// Returns:
	//   - model.Model: the model, or nil
	Model() model.Model

	// SetModel assigns the model and resets the pose to the model's rest pose.
	//
	// Parameters:
	//   - m: the model to associate with this animator
	SetModel(m model.Model)

	// Controller returns the attached controller, or nil.
	//
	// Returns:
	//   - Controller: the controller
	Controller() Controller

	// SetController attaches a controller.
	//
	// Parameters:
	//   - c: the controller
	SetController(c Controller)

	// State returns a deep copy of the instance pose state.
	//
	// Returns:
	//   - State: the state copy
	State() State

	// SetState replaces the instance pose state with a deep copy of s.
	//
	// Parameters:
	//   - s: the state to copy in
	SetState(s State)

	// SampleClip evaluates a clip at a single time and stores the pose. The time is clamped
	// into [0, clip duration].
	//
	// Parameters:
	//   - clip: the clip name
	//   - t: the sample time in seconds
	//
	// Returns:
	//   - float32: the clamped time actually sampled
	//   - error: ErrNoModel, ErrNoController or ErrUnknownClip
	SampleClip(clip string, t float32) (float32, error)

	// ResetPose restores the rest pose.
	ResetPose()

	// WorldMatrices returns the model-space matrix of every node for the current pose.
	//
	// Returns:
	//   - [][16]float32: one column-major matrix per node, nil without a skeleton
	WorldMatrices() [][16]float32

	// DeformMesh returns the vertices of one mesh in model space for the current pose.
	// The returned slice is shared until the next pose change and must not be modified.
	//
	// Parameters:
	//   - meshIndex: index into Model().Meshes()
	//
	// Returns:
	//   - []model.Vertex: the deformed vertices, or nil for an invalid index
	DeformMesh(meshIndex int) []model.Vertex

	// PosedBounds returns the model-space bounds of every deformed mesh.
	//
	// Returns:
	//   - common.AABB: the bounds
	PosedBounds() common.AABB

	// Clone returns an animator sharing the model and controller with a deep copy of the state.
	//
	// Returns:
	//   - Animator: the copy
	Clone() Animator
}

var _ Animator = &animator{}

// NewAnimator creates a new Animator instance with the specified backend type.
//
// Parameters:
//   - backendType: the deformation backend (BackendTypeSimple or BackendTypeSkeletal)
//   - options: variadic list of AnimatorBuilderOption functions to configure the Animator
//
// Returns:
//   - Animator: a new instance of Animator configured with the specified backend and options
func NewAnimator(backendType AnimatorBackendType, options ...AnimatorBuilderOption) Animator {
	a := &animator{
		mu:      &sync.Mutex{},
		backend: newAnimatorBackend(backendType),
		dirty:   true,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// NewModelAnimator creates the minimal animator able to evaluate m: the skeletal backend for
// skinned models, the simple backend otherwise.
//
// Parameters:
//   - m: the model to animate
//
// Returns:
//   - Animator: the animator, or nil when m is nil or has no skeleton
func NewModelAnimator(m model.Model) Animator {
	if m == nil || m.Skeleton() == nil {
		return nil
	}
	backend := BackendTypeSimple
	if m.Skinned() {
		backend = BackendTypeSkeletal
	}
	return NewAnimator(backend, WithModel(m))
}

func (a *animator) BackendType() AnimatorBackendType {
	return a.backend.Type()
}

func (a *animator) Model() model.Model {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model
}

func (a *animator) SetModel(m model.Model) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.model = m
	a.resetPose()
}

func (a *animator) Controller() Controller {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.controller
}

func (a *animator) SetController(c Controller) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.controller = c
}

func (a *animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out State
	copyState(&out, &a.state)
	return out
}

func (a *animator) SetState(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var in State
	copyState(&in, &s)
	a.state = in
	a.dirty = true
}

func (a *animator) SampleClip(clip string, t float32) (float32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.model == nil {
		return 0, ErrNoModel
	}
	if a.controller == nil {
		return 0, ErrNoController
	}
	c, ok := a.controller.Resolve(a.model, clip)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownClip, clip)
	}

	t = common.Clamp(t, 0, max(c.Duration, 0))
	a.state = State{
		Clip: clip,
		Time: t,
		Pose: samplePose(c, t, a.model.Skeleton().RestPose()),
	}
	a.dirty = true
	return t, nil
}

func (a *animator) ResetPose() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetPose()
}

func (a *animator) WorldMatrices() [][16]float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.refresh()
	out := make([][16]float32, len(a.worlds))
	copy(out, a.worlds)
	return out
}

func (a *animator) DeformMesh(meshIndex int) []model.Vertex {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.refresh()
	if meshIndex < 0 || meshIndex >= len(a.deformed) {
		return nil
	}
	return a.deformed[meshIndex]
}

func (a *animator) PosedBounds() common.AABB {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.refresh()
	b := common.EmptyAABB()
	for _, verts := range a.deformed {
		for i := range verts {
			b.Extend(verts[i].Position)
		}
	}
	return b
}

func (a *animator) Clone() Animator {
	a.mu.Lock()
	defer a.mu.Unlock()

	clone := &animator{
		mu:         &sync.Mutex{},
		backend:    newAnimatorBackend(a.backend.Type()),
		model:      a.model,
		controller: a.controller,
		dirty:      true,
	}
	copyState(&clone.state, &a.state)
	return clone
}

// copyState deep-copies src into dst. When copier fails the error is logged and the pose is
// copied by hand.
func copyState(dst, src *State) {
	if err := copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true}); err != nil {
		common.Logger().Warn("animator state copy failed", "clip", src.Clip, "err", err)
		*dst = State{Clip: src.Clip, Time: src.Time, Pose: append([]model.Transform(nil), src.Pose...)}
	}
}

// resetPose is ResetPose without locking.
func (a *animator) resetPose() {
	a.state = State{}
	if a.model != nil {
		a.state.Pose = a.model.Skeleton().RestPose()
	}
	a.dirty = true
}

// refresh recomputes world matrices and deformed meshes after a pose change.
func (a *animator) refresh() {
	if !a.dirty {
		return
	}
	a.dirty = false
	a.worlds = nil
	a.deformed = nil
	if a.model == nil {
		return
	}

	skel := a.model.Skeleton()
	if skel != nil && len(a.state.Pose) == len(skel.Bones) {
		a.worlds = worldMatrices(skel, a.state.Pose)
	} else if skel != nil {
		a.worlds = worldMatrices(skel, skel.RestPose())
	}

	meshes := a.model.Meshes()
	a.deformed = make([][]model.Vertex, len(meshes))
	for i := range meshes {
		a.deformed[i] = a.backend.Deform(&meshes[i], skel, a.worlds)
	}
}
