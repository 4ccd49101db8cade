package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-preview/engine/model"
)

// gltfLoaderBackendImpl is the loaderBackend for .gltf and .glb files.
type gltfLoaderBackendImpl struct {
	importer gltfImporter
}

var _ loaderBackend = &gltfLoaderBackendImpl{}

func newGLTFLoaderBackend() loaderBackend {
	return &gltfLoaderBackendImpl{importer: newGLTFImporter()}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*model.ImportedModel, error) {
	return b.importer.Import(path, false)
}

func (b *gltfLoaderBackendImpl) LoadMeshOnly(path string) (*model.ImportedModel, error) {
	return b.importer.Import(path, true)
}

func (b *gltfLoaderBackendImpl) LoadReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error) {
	return b.importer.ImportReader(name, r, isGLB)
}
