package animator

import (
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
)

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithModel is an option builder that assigns a Model to the Animator during construction
// and initializes the rest pose from its skeleton.
//
// Parameters:
//   - m: the Model to associate with this animator
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the model option to an animator
func WithModel(m model.Model) AnimatorBuilderOption {
	return func(a *animator) {
		a.model = m
		a.resetPose()
	}
}

// WithController is an option builder that attaches a Controller.
//
// Parameters:
//   - c: the controller
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the controller option to an animator
func WithController(c Controller) AnimatorBuilderOption {
	return func(a *animator) {
		a.controller = c
	}
}
