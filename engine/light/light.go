package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/shader"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Affects all fragments uniformly with no distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Attenuates with distance up to a configurable range.
	LightTypePoint

	// LightTypeAmbient adds a constant term to every lit fragment.
	LightTypeAmbient
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	lightType  LightType
	position   [3]float32
	direction  [3]float32
	color      [3]float32
	intensity  float32
	lightRange float32
	layerMask  uint32
	enabled    bool
}

// Light defines the interface for a light source in the scene.
//
// Lights are scene-level entities gathered once per render into a shader.Lighting
// environment. All light types share this interface; type-specific properties return
// values that are simply ignored where they do not apply.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or ambient)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for directional and ambient lights.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Direction returns the normalized direction the light travels.
	// Meaningless for point and ambient lights.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Range returns the maximum attenuation distance for point lights.
	//
	// Returns:
	//   - float32: the range value
	Range() float32

	// LayerMask returns the bitmask of layers this light illuminates.
	//
	// Returns:
	//   - uint32: the layer mask
	LayerMask() uint32

	// Enabled returns whether this light is active for rendering.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetEnabled enables or disables the light for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create (directional, point, or ambient)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:         &sync.Mutex{},
		lightType:  lightType,
		direction:  [3]float32{0, -1, 0},
		color:      [3]float32{1, 1, 1},
		intensity:  1.0,
		lightRange: 10.0,
		layerMask:  0xFFFFFFFF,
		enabled:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Direction() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lightRange
}

func (l *lightImpl) LayerMask() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.layerMask
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.direction = common.Normalize3([3]float32{x, y, z})
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// Gather collects enabled lights that affect any layer in cullingMask into a shader
// lighting environment. Ambient lights are summed.
//
// Parameters:
//   - lights: the candidate lights
//   - cullingMask: the camera culling mask
//
// Returns:
//   - *shader.Lighting: the lighting environment
func Gather(lights []Light, cullingMask uint32) *shader.Lighting {
	env := &shader.Lighting{}
	for _, l := range lights {
		if l == nil || !l.Enabled() || l.LayerMask()&cullingMask == 0 {
			continue
		}
		c := common.Scale3(l.Color(), l.Intensity())
		switch l.Type() {
		case LightTypeAmbient:
			env.Ambient = common.Add3(env.Ambient, c)
		case LightTypeDirectional:
			env.Directional = append(env.Directional, shader.DirectionalLight{
				Direction: l.Direction(),
				Color:     l.Color(),
				Intensity: l.Intensity(),
			})
		case LightTypePoint:
			env.Point = append(env.Point, shader.PointLight{
				Position:  l.Position(),
				Color:     l.Color(),
				Intensity: l.Intensity(),
				Range:     l.Range(),
			})
		}
	}
	return env
}

// PreviewRig returns the key, fill and ambient lights used for thumbnails.
//
// Parameters:
//   - layerMask: the layers the rig illuminates
//
// Returns:
//   - []Light: the lights
func PreviewRig(layerMask uint32) []Light {
	return []Light{
		NewLight(LightTypeDirectional,
			WithDirection(-0.4, -0.8, -0.45),
			WithIntensity(0.85),
			WithLayerMask(layerMask)),
		NewLight(LightTypeDirectional,
			WithDirection(0.6, 0.3, 0.75),
			WithColor(0.8, 0.85, 1),
			WithIntensity(0.35),
			WithLayerMask(layerMask)),
		NewLight(LightTypeAmbient,
			WithIntensity(0.2),
			WithLayerMask(layerMask)),
	}
}
