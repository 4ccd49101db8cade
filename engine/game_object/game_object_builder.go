package game_object

import (
	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/light"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/animator"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the name of the GameObject.
//
// Parameters:
//   - name: the display name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.state.Name = name
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithEphemeral marks the GameObject as ephemeral. A scene tracks ephemeral objects
// separately so callers can verify none outlive the operation that created them.
//
// Parameters:
//   - ephemeral: true to mark as ephemeral
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Ephemeral flag
func WithEphemeral(ephemeral bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.ephemeral.Store(ephemeral)
	}
}

// WithLayer sets the layer index, clamped to MaxLayer.
//
// Parameters:
//   - layer: the layer index
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the layer
func WithLayer(layer uint8) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.state.Layer = min(layer, MaxLayer)
	}
}

// WithHideFlags sets the hide flags.
//
// Parameters:
//   - flags: the hide flags
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the hide flags
func WithHideFlags(flags HideFlags) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.state.HideFlags = flags
	}
}

// WithModel sets the Model for this GameObject.
//
// Parameters:
//   - m: the Model to associate
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Model
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
	}
}

// WithAnimator attaches an animator component.
//
// Parameters:
//   - anim: the Animator to attach
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the animator
func WithAnimator(anim animator.Animator) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.animator = anim
	}
}

// WithCamera attaches a camera component.
//
// Parameters:
//   - c: the Camera to attach
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the camera
func WithCamera(c camera.Camera) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.cam = c
	}
}

// WithPosition sets the initial position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.state.Transform.Position = [3]float32{x, y, z}
	}
}

// WithScale sets the initial scale.
//
// Parameters:
//   - sx, sy, sz: scale factors
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.state.Transform.Scale = [3]float32{sx, sy, sz}
	}
}

// WithRotation sets the initial rotation from Euler angles in degrees.
//
// Parameters:
//   - rx, ry, rz: rotation angles in degrees
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.state.Transform.Rotation = common.QuatFromEuler(rx*common.Deg2Rad, ry*common.Deg2Rad, rz*common.Deg2Rad)
	}
}

// WithLight attaches a Light to this GameObject.
//
// Parameters:
//   - l: the Light to attach
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the attached Light
func WithLight(l light.Light) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.attachedLight = l
	}
}
