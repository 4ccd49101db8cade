package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/light"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/animator"
	"github.com/jinzhu/copier"
)

// HideFlags control how an object is exposed to editors and persistence.
type HideFlags uint8

const (
	// HideNone exposes the object normally.
	HideNone HideFlags = 0
	// HideInHierarchy keeps the object out of hierarchy listings.
	HideInHierarchy HideFlags = 1 << 0
	// HideInInspector keeps the object's properties out of inspectors.
	HideInInspector HideFlags = 1 << 1
	// DontSave keeps the object out of saved scenes.
	DontSave HideFlags = 1 << 2
	// HideAndDontSave combines every flag; used for temporary preview objects.
	HideAndDontSave = HideInHierarchy | HideInInspector | DontSave
)

// Has reports whether every bit of flag is set.
func (h HideFlags) Has(flag HideFlags) bool {
	return flag != 0 && h&flag == flag
}

// MaxLayer is the highest valid layer index.
const MaxLayer = 31

// Transform is the local placement of a game object.
type Transform struct {
	Position [3]float32
	// Rotation is a unit quaternion (x, y, z, w).
	Rotation [4]float32
	Scale    [3]float32
}

// objectState is the copyable part of a game object. Fields are exported so the
// whole state can be deep-copied in one call.
type objectState struct {
	Name      string
	Layer     uint8
	HideFlags HideFlags
	Transform Transform
}

type gameObject struct {
	mu *sync.Mutex

	id        uint64
	enabled   atomic.Bool
	ephemeral atomic.Bool
	state     objectState

	mdl           model.Model
	animator      animator.Animator
	cam           camera.Camera
	attachedLight light.Light
}

// GameObject defines the interface for a scene entity: a transform, a layer, hide flags and
// optional components (model, animator, camera, light).
//
// Components are queried as capabilities returning (handle, ok), so callers never need to
// know the concrete object kind.
type GameObject interface {
	// ID returns the object's unique identifier. Zero until a scene assigns one.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Name returns the object name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// SetName sets the object name.
	//
	// Parameters:
	//   - name: the name
	SetName(name string)

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Ephemeral returns whether this object only lives for the duration of one operation.
	//
	// Returns:
	//   - bool: true if ephemeral
	Ephemeral() bool

	// SetEphemeral marks the object as ephemeral.
	//
	// Parameters:
	//   - ephemeral: true if ephemeral
	SetEphemeral(ephemeral bool)

	// Layer returns the layer index in [0, 31].
	//
	// Returns:
	//   - uint8: the layer
	Layer() uint8

	// SetLayer sets the layer index. Values above MaxLayer are clamped.
	//
	// Parameters:
	//   - layer: the layer
	SetLayer(layer uint8)

	// LayerMask returns 1 << Layer().
	//
	// Returns:
	//   - uint32: the single-bit layer mask
	LayerMask() uint32

	// HideFlags returns the hide flags.
	//
	// Returns:
	//   - HideFlags: the flags
	HideFlags() HideFlags

	// SetHideFlags replaces the hide flags.
	//
	// Parameters:
	//   - flags: the flags
	SetHideFlags(flags HideFlags)

	// Transform returns the local transform.
	//
	// Returns:
	//   - Transform: the transform
	Transform() Transform

	// SetPosition sets the position.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// SetRotation sets the rotation from Euler angles in degrees applied X, then Y, then Z.
	//
	// Parameters:
	//   - rx, ry, rz: rotation angles in degrees
	SetRotation(rx, ry, rz float32)

	// SetRotationQuat sets the rotation from a quaternion (x, y, z, w). It is normalized.
	//
	// Parameters:
	//   - q: the rotation
	SetRotationQuat(q [4]float32)

	// SetScale sets the scale.
	//
	// Parameters:
	//   - sx, sy, sz: new scale factors
	SetScale(sx, sy, sz float32)

	// WorldMatrix composes the transform into a column-major matrix.
	//
	// Returns:
	//   - [16]float32: the model matrix
	WorldMatrix() [16]float32

	// WorldBounds returns the world-space bounds of the posed model, or an empty box
	// without a model.
	//
	// Returns:
	//   - common.AABB: the bounds
	WorldBounds() common.AABB

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// SetModel assigns a Model to this object.
	//
	// Parameters:
	//   - m: the Model to associate
	SetModel(m model.Model)

	// Animator returns the animator component.
	//
	// Returns:
	//   - animator.Animator: the animator, or nil
	//   - bool: true if the object has an animator
	Animator() (animator.Animator, bool)

	// SetAnimator sets the animator component. Pass nil to detach.
	//
	// Parameters:
	//   - anim: the Animator to associate
	SetAnimator(anim animator.Animator)

	// Camera returns the camera component.
	//
	// Returns:
	//   - camera.Camera: the camera, or nil
	//   - bool: true if the object has a camera
	Camera() (camera.Camera, bool)

	// SetCamera sets the camera component. Pass nil to detach.
	//
	// Parameters:
	//   - c: the camera
	SetCamera(c camera.Camera)

	// Light returns the Light attached to this object, or nil if none is set.
	//
	// Returns:
	//   - light.Light: the attached light or nil
	Light() light.Light

	// SetLight attaches a Light to this object. Pass nil to detach.
	//
	// Parameters:
	//   - l: the Light to attach, or nil to detach
	SetLight(l light.Light)

	// Clone returns a deep copy: transform, layer, hide flags and name are copied, the animator
	// and camera components are cloned, the model and light are shared. The clone has ID zero,
	// is enabled and is not ephemeral.
	//
	// Returns:
	//   - GameObject: the copy
	Clone() GameObject
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new enabled GameObject with an identity transform on layer 0.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu: &sync.Mutex{},
		state: objectState{
			Transform: Transform{
				Rotation: [4]float32{0, 0, 0, 1},
				Scale:    [3]float32{1, 1, 1},
			},
		},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.id = id
}

func (g *gameObject) Name() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Name
}

func (g *gameObject) SetName(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Name = name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Ephemeral() bool {
	return g.ephemeral.Load()
}

func (g *gameObject) SetEphemeral(ephemeral bool) {
	g.ephemeral.Store(ephemeral)
}

func (g *gameObject) Layer() uint8 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Layer
}

func (g *gameObject) SetLayer(layer uint8) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Layer = min(layer, MaxLayer)
}

func (g *gameObject) LayerMask() uint32 {
	return 1 << g.Layer()
}

func (g *gameObject) HideFlags() HideFlags {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.HideFlags
}

func (g *gameObject) SetHideFlags(flags HideFlags) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.HideFlags = flags
}

func (g *gameObject) Transform() Transform {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Transform
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Transform.Position = [3]float32{x, y, z}
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.SetRotationQuat(common.QuatFromEuler(rx*common.Deg2Rad, ry*common.Deg2Rad, rz*common.Deg2Rad))
}

func (g *gameObject) SetRotationQuat(q [4]float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Transform.Rotation = common.QuatNormalize(q)
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Transform.Scale = [3]float32{sx, sy, sz}
}

func (g *gameObject) WorldMatrix() [16]float32 {
	t := g.Transform()
	var out [16]float32
	common.ComposeTRS(out[:], t.Position, t.Rotation, t.Scale)
	return out
}

func (g *gameObject) WorldBounds() common.AABB {
	g.mu.Lock()
	mdl, anim := g.mdl, g.animator
	g.mu.Unlock()

	if mdl == nil {
		return common.EmptyAABB()
	}
	local := mdl.Bounds()
	if anim != nil && anim.Model() == mdl {
		local = anim.PosedBounds()
	}
	world := g.WorldMatrix()
	return local.Transform(world[:])
}

func (g *gameObject) Model() model.Model {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mdl
}

func (g *gameObject) SetModel(m model.Model) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mdl = m
}

func (g *gameObject) Animator() (animator.Animator, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.animator, g.animator != nil
}

func (g *gameObject) SetAnimator(anim animator.Animator) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.animator = anim
}

func (g *gameObject) Camera() (camera.Camera, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cam, g.cam != nil
}

func (g *gameObject) SetCamera(c camera.Camera) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cam = c
}

func (g *gameObject) Light() light.Light {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attachedLight
}

func (g *gameObject) SetLight(l light.Light) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.attachedLight = l
}

func (g *gameObject) Clone() GameObject {
	g.mu.Lock()
	defer g.mu.Unlock()

	clone := &gameObject{
		mu:            &sync.Mutex{},
		mdl:           g.mdl,
		attachedLight: g.attachedLight,
	}
	clone.enabled.Store(true)
	if err := copier.CopyWithOption(&clone.state, &g.state, copier.Option{DeepCopy: true}); err != nil {
		common.Logger().Warn("object state copy failed", "object", g.state.Name, "err", err)
		clone.state = g.state
	}

	if g.animator != nil {
		clone.animator = g.animator.Clone()
	}
	if g.cam != nil {
		clone.cam = g.cam.Clone()
	}
	return clone
}
