package pipeline

import (
	"github.com/gogpu/gg"
)

// Stage is one step of a post-process pipeline. Stages mutate the target in place.
type Stage interface {
	// Name identifies the stage in errors and logs.
	Name() string

	// Apply processes the target in place.
	Apply(target *gg.Pixmap) error
}

type stageFunc struct {
	name string
	fn   func(target *gg.Pixmap) error
}

// NewStage wraps a function as a Stage.
//
// Parameters:
//   - name: the stage name
//   - fn: the function applied to the target
//
// Returns:
//   - Stage: the stage
func NewStage(name string, fn func(target *gg.Pixmap) error) Stage {
	return &stageFunc{name: name, fn: fn}
}

func (s *stageFunc) Name() string {
	return s.name
}

func (s *stageFunc) Apply(target *gg.Pixmap) error {
	return s.fn(target)
}

// OpaqueStage forces every pixel's alpha to fully opaque, the way a tonemapping
// resolve drops coverage information.
func OpaqueStage() Stage {
	return NewStage("opaque", func(target *gg.Pixmap) error {
		data := target.Data()
		for i := 3; i < len(data); i += 4 {
			data[i] = 255
		}
		return nil
	})
}

// ExposureStage scales color channels by a constant factor, saturating at 255.
//
// Parameters:
//   - factor: the multiplier applied to red, green and blue
func ExposureStage(factor float64) Stage {
	return NewStage("exposure", func(target *gg.Pixmap) error {
		data := target.Data()
		for i := 0; i < len(data); i += 4 {
			for c := range 3 {
				v := float64(data[i+c]) * factor
				data[i+c] = uint8(min(max(v, 0), 255))
			}
		}
		return nil
	})
}
