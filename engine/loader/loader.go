package loader

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
)

// ErrUnsupportedFormat is returned for file extensions no backend handles.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// meshOnlySuffix separates the cache entries of full and mesh-only imports of one file.
const meshOnlySuffix = "#mesh"

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model

	backend        loaderBackend
	decodeTextures bool
	unlitMaterials bool
}

// Loader imports model files into CPU models and caches them by path or name.
type Loader interface {
	// Load imports a model file and caches the result by its cleaned path. A cached model
	// is returned without touching the file.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: ErrUnsupportedFormat for unknown extensions, or the import failure
	Load(path string) (model.Model, error)

	// LoadMeshOnly imports static geometry with node transforms baked into the vertices.
	// The model has no skeleton and no clips.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: ErrUnsupportedFormat for unknown extensions, or the import failure
	LoadMeshOnly(path string) (model.Model, error)

	// LoadReader imports a model from a stream and caches it by name.
	//
	// Parameters:
	//   - name: the cache key and model name
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: the import failure
	LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error)

	// Get retrieves a cached model.
	//
	// Parameters:
	//   - key: the cleaned path or stream name
	//
	// Returns:
	//   - model.Model: the cached model
	//   - bool: true if the key was cached
	Get(key string) (model.Model, bool)

	// Evict drops a cached model so the next Load re-imports it. Both the full and the
	// mesh-only entries of a path are dropped.
	//
	// Parameters:
	//   - key: the cleaned path or stream name
	//
	// Returns:
	//   - bool: true if anything was dropped
	Evict(key string) bool

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by path or name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a Loader for the given backend.
//
// Parameters:
//   - backendType: the file format backend (BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the configured loader
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache:     make(map[string]model.Model),
		decodeTextures: true,
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

// NewSubject wraps a model in a game object ready to preview. Models with a node hierarchy get
// an animator so rigid node transforms and skinning apply even without a pose.
//
// Parameters:
//   - m: the model
//   - options: extra game object options applied after the model
//
// Returns:
//   - game_object.GameObject: the subject
func NewSubject(m model.Model, options ...game_object.GameObjectBuilderOption) game_object.GameObject {
	base := []game_object.GameObjectBuilderOption{
		game_object.WithName(m.Name()),
		game_object.WithModel(m),
	}
	if anim := animator.NewModelAnimator(m); anim != nil {
		base = append(base, game_object.WithAnimator(anim))
	}
	return game_object.NewGameObject(append(base, options...)...)
}

func (l *loader) Load(path string) (model.Model, error) {
	key := filepath.Clean(path)
	return l.load(key, func(b loaderBackend) (*model.ImportedModel, error) {
		return b.Load(key)
	}, key)
}

func (l *loader) LoadMeshOnly(path string) (model.Model, error) {
	key := filepath.Clean(path)
	return l.load(key+meshOnlySuffix, func(b loaderBackend) (*model.ImportedModel, error) {
		return b.LoadMeshOnly(key)
	}, key)
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error) {
	return l.load(name, func(b loaderBackend) (*model.ImportedModel, error) {
		return b.LoadReader(name, r, isGLB)
	}, "")
}

// load serves key from the cache or runs fn on the backend for path. An empty path skips
// extension matching.
func (l *loader) load(key string, fn func(loaderBackend) (*model.ImportedModel, error), path string) (model.Model, error) {
	if m, ok := l.Get(key); ok {
		return m, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}
	imported, err := fn(backend)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	m := l.importedToModel(imported)

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.modelCache[key]; ok {
		return cached, nil
	}
	l.modelCache[key] = m
	common.Logger().Debug("model loaded", "model", key, "meshes", len(m.Meshes()), "triangles", m.TriangleCount(), "clips", m.AnimationCount())
	return m, nil
}

func (l *loader) Get(key string) (model.Model, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.modelCache[key]
	return m, ok
}

func (l *loader) Evict(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, full := l.modelCache[key]
	_, mesh := l.modelCache[key+meshOnlySuffix]
	delete(l.modelCache, key)
	delete(l.modelCache, key+meshOnlySuffix)
	return full || mesh
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.modelCache)
}

func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	if l.backend == nil {
		return nil, fmt.Errorf("%w: no backend configured", ErrUnsupportedFormat)
	}
	if path == "" {
		return l.backend, nil
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// importedToModel builds the render materials of an import. A texture that fails to decode
// is logged and the material keeps its base color.
func (l *loader) importedToModel(im *model.ImportedModel) model.Model {
	mats := make([]material.Material, len(im.Materials))
	for i := range im.Materials {
		src := &im.Materials[i]
		opts := []material.MaterialBuilderOption{
			material.WithName(src.Name),
			material.WithBaseColor(src.BaseColor),
			material.WithUnlit(src.Unlit || l.unlitMaterials),
		}
		if l.decodeTextures && src.DiffuseTexture != nil {
			tex, err := material.NewTextureFromImported(src.DiffuseTexture)
			if err != nil {
				common.Logger().Warn("diffuse texture skipped", "model", im.Name, "material", src.Name, "err", err)
			} else {
				opts = append(opts, material.WithDiffuseTexture(tex))
			}
		}
		mats[i] = material.NewMaterial(opts...)
	}
	return model.NewModel(model.WithImportedModel(im), model.WithRenderMaterials(mats...))
}
