package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-preview/engine/model"
)

// loaderBackend imports one file format into the universal ImportedModel.
type loaderBackend interface {
	// Load performs a full import: meshes, node hierarchy, clips and materials.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	Load(path string) (*model.ImportedModel, error)

	// LoadMeshOnly imports static geometry with node transforms baked in. The result has no
	// skeleton and no clips.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.ImportedModel: the imported model with meshes and materials only
	//   - error: error if loading fails
	LoadMeshOnly(path string) (*model.ImportedModel, error)

	// LoadReader imports a model from a stream.
	//
	// Parameters:
	//   - name: the model name
	//   - r: the reader providing model data
	//   - isGLB: true for binary containers
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error)
}
