package assets

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
)

// ErrAssetMissing is returned when a named asset is not registered or has the wrong kind.
var ErrAssetMissing = errors.New("asset missing")

const (
	// DefaultCameraName is the camera template used for preview renders.
	DefaultCameraName = "PreviewGeneratorDefaultCamera"
	// FallbackCameraName is the camera template used when the default one is unavailable.
	FallbackCameraName = "PreviewGeneratorFallbackCamera"
	// DummyControllerName is the controller attached to animators that have none.
	DummyControllerName = animator.DummyControllerName
	// CombinerMaterialName is the material carrying the compositor shader.
	CombinerMaterialName = material.CombinerMaterialName
)

type registry struct {
	mu *sync.RWMutex

	templates   map[string]game_object.GameObject
	materials   map[string]material.Material
	controllers map[string]animator.Controller
}

// Registry resolves engine assets by name. Templates are instantiated by cloning so callers
// never mutate the registered original.
type Registry interface {
	// RegisterTemplate stores a game object template under name, replacing any previous one.
	//
	// Parameters:
	//   - name: the template name
	//   - obj: the template object
	RegisterTemplate(name string, obj game_object.GameObject)

	// Instantiate clones the named template.
	//
	// Parameters:
	//   - name: the template name
	//
	// Returns:
	//   - game_object.GameObject: a fresh clone of the template
	//   - error: ErrAssetMissing if no template is registered under name
	Instantiate(name string) (game_object.GameObject, error)

	// RegisterMaterial stores a material under its name.
	//
	// Parameters:
	//   - m: the material
	RegisterMaterial(m material.Material)

	// Material returns the named material.
	//
	// Parameters:
	//   - name: the material name
	//
	// Returns:
	//   - material.Material: the material
	//   - error: ErrAssetMissing if no material is registered under name
	Material(name string) (material.Material, error)

	// RegisterController stores an animation controller under its name.
	//
	// Parameters:
	//   - c: the controller
	RegisterController(c animator.Controller)

	// Controller returns the named controller.
	//
	// Parameters:
	//   - name: the controller name
	//
	// Returns:
	//   - animator.Controller: the controller
	//   - error: ErrAssetMissing if no controller is registered under name
	Controller(name string) (animator.Controller, error)

	// Unregister removes every asset registered under name.
	//
	// Parameters:
	//   - name: the asset name
	Unregister(name string)

	// Names returns the sorted names of all registered assets.
	//
	// Returns:
	//   - []string: the names
	Names() []string
}

var _ Registry = &registry{}

// NewRegistry creates an empty Registry.
//
// Parameters:
//   - options: functional options to populate the registry
//
// Returns:
//   - Registry: the registry
func NewRegistry(options ...RegistryBuilderOption) Registry {
	r := &registry{
		mu:          &sync.RWMutex{},
		templates:   make(map[string]game_object.GameObject),
		materials:   make(map[string]material.Material),
		controllers: make(map[string]animator.Controller),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// NewDefaultRegistry creates a Registry holding the built-in preview assets: the default and
// fallback camera templates, the dummy animation controller and the combiner material.
//
// Parameters:
//   - options: functional options applied after the built-ins
//
// Returns:
//   - Registry: the registry
func NewDefaultRegistry(options ...RegistryBuilderOption) Registry {
	defaults := []RegistryBuilderOption{
		WithTemplate(DefaultCameraName, newDefaultCameraTemplate()),
		WithTemplate(FallbackCameraName, newFallbackCameraTemplate()),
		WithController(animator.NewController(DummyControllerName)),
		WithMaterial(material.NewCombinerMaterial()),
	}
	return NewRegistry(append(defaults, options...)...)
}

func (r *registry) RegisterTemplate(name string, obj game_object.GameObject) {
	if obj == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[name] = obj
}

func (r *registry) Instantiate(name string) (game_object.GameObject, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("template %q: %w", name, ErrAssetMissing)
	}
	obj := tmpl.Clone()
	obj.SetName(name)
	return obj, nil
}

func (r *registry) RegisterMaterial(m material.Material) {
	if m == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.materials[m.Name()] = m
}

func (r *registry) Material(name string) (material.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.materials[name]
	if !ok {
		return nil, fmt.Errorf("material %q: %w", name, ErrAssetMissing)
	}
	return m, nil
}

func (r *registry) RegisterController(c animator.Controller) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers[c.Name()] = c
}

func (r *registry) Controller(name string) (animator.Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("controller %q: %w", name, ErrAssetMissing)
	}
	return c, nil
}

func (r *registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.templates, name)
	delete(r.materials, name)
	delete(r.controllers, name)
}

func (r *registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.templates)+len(r.materials)+len(r.controllers))
	for name := range r.templates {
		names = append(names, name)
	}
	for name := range r.materials {
		names = append(names, name)
	}
	for name := range r.controllers {
		names = append(names, name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}
