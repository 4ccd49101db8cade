package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-preview/engine/model"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter turns a parsed glTF document into a model.ImportedModel.
type gltfImporter interface {
	// Import parses and extracts a .gltf or .glb file.
	//
	// Parameters:
	//   - path: path to the file
	//   - meshOnly: bake node transforms into the vertices and skip the skeleton and clips
	//
	// Returns:
	//   - *model.ImportedModel: the extracted model
	//   - error: parse or extraction failure
	Import(path string, meshOnly bool) (*model.ImportedModel, error)

	// ImportReader parses and extracts a document from a stream.
	//
	// Parameters:
	//   - name: the model name
	//   - r: reader with glTF JSON or GLB bytes
	//   - isGLB: true for the binary container
	//
	// Returns:
	//   - *model.ImportedModel: the extracted model
	//   - error: parse or extraction failure
	ImportReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error)
}

var _ gltfImporter = &gltfImporterImpl{}

func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string, meshOnly bool) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return imp.extract(parser, name, meshOnly)
}

func (imp *gltfImporterImpl) ImportReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return imp.extract(parser, name, false)
}

func (imp *gltfImporterImpl) extract(parser gltfParser, name string, meshOnly bool) (*model.ImportedModel, error) {
	doc := parser.Document()
	graph := buildNodeGraph(doc)

	skeleton, err := extractSkeleton(parser, graph)
	if err != nil {
		return nil, fmt.Errorf("skeleton: %w", err)
	}

	meshes, err := extractMeshes(parser, graph, skeleton, meshOnly)
	if err != nil {
		return nil, fmt.Errorf("meshes: %w", err)
	}

	materials, err := extractMaterials(parser)
	if err != nil {
		return nil, fmt.Errorf("materials: %w", err)
	}

	im := &model.ImportedModel{
		Name:      name,
		Meshes:    meshes,
		Materials: materials,
	}
	if meshOnly {
		return im, nil
	}

	im.Skeleton = skeleton
	if im.Animations, err = extractAnimations(parser, graph); err != nil {
		return nil, fmt.Errorf("animations: %w", err)
	}
	return im, nil
}
