package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

var (
	errInvalidVersion  = errors.New("unsupported glTF version")
	errInvalidGLB      = errors.New("invalid GLB container")
	errMissingJSON     = errors.New("GLB container has no JSON chunk")
	errInvalidDataURI  = errors.New("invalid data URI")
	errBufferTooSmall  = errors.New("buffer shorter than declared byteLength")
	errAccessorRange   = errors.New("accessor out of range")
	errAccessorSparse  = errors.New("sparse accessors are not supported")
	errAccessorFormat  = errors.New("unsupported accessor format")
	errAccessorOverrun = errors.New("accessor reads past the end of its buffer")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	baseDir  string
	document *gltfDocument
	binChunk []byte
}

// gltfParser decodes a glTF JSON or GLB container and reads typed accessor data from it.
type gltfParser interface {
	// Parse reads and decodes a .gltf or .glb file. The container is detected from the
	// extension or the GLB magic number.
	//
	// Parameters:
	//   - path: path to the file
	//
	// Returns:
	//   - error: read or decode failure
	Parse(path string) error

	// ParseReader decodes a document from r. External buffer URIs resolve against the
	// working directory.
	//
	// Parameters:
	//   - r: reader with glTF JSON or GLB bytes
	//   - isGLB: true for the binary container
	//
	// Returns:
	//   - error: read or decode failure
	ParseReader(r io.Reader, isGLB bool) error

	// Document returns the decoded document, or nil before a successful parse.
	Document() *gltfDocument

	// BaseDir returns the directory relative URIs resolve against.
	BaseDir() string

	// ReadFloats reads an accessor as float32 values, flattened element by element.
	// Normalized integer components are mapped into [0, 1] or [-1, 1].
	//
	// Parameters:
	//   - index: accessor index
	//
	// Returns:
	//   - []float32: count * components values
	//   - int: components per element
	//   - error: range or format failure
	ReadFloats(index int) ([]float32, int, error)

	// ReadUints reads an unsigned integer accessor, flattened element by element.
	//
	// Parameters:
	//   - index: accessor index
	//
	// Returns:
	//   - []uint32: count * components values
	//   - int: components per element
	//   - error: range or format failure
	ReadUints(index int) ([]uint32, int, error)

	// ReadURI resolves a base64 data URI or a path relative to BaseDir.
	//
	// Parameters:
	//   - uri: the URI from a buffer or image
	//
	// Returns:
	//   - []byte: the payload
	//   - string: the mime type of a data URI, empty for files
	//   - error: read or decode failure
	ReadURI(uri string) ([]byte, string, error)

	// BufferView returns a copy of the bytes of a buffer view.
	//
	// Parameters:
	//   - index: buffer view index
	//
	// Returns:
	//   - []byte: the view's bytes
	//   - error: range failure
	BufferView(index int) ([]byte, error)
}

var _ gltfParser = &gltfParserImpl{}

func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) BaseDir() string {
	return p.baseDir
}

func (p *gltfParserImpl) Parse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	p.baseDir = filepath.Dir(path)

	isGLB := strings.EqualFold(filepath.Ext(path), ".glb") ||
		(len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic)
	return p.decode(data, isGLB)
}

func (p *gltfParserImpl) ParseReader(r io.Reader, isGLB bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read model stream: %w", err)
	}
	return p.decode(data, isGLB)
}

func (p *gltfParserImpl) decode(data []byte, isGLB bool) error {
	jsonData := data
	if isGLB {
		var err error
		if jsonData, p.binChunk, err = splitGLB(data); err != nil {
			return err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("decode glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return fmt.Errorf("%w: %q", errInvalidVersion, doc.Asset.Version)
	}
	if err := p.resolveBuffers(&doc); err != nil {
		return err
	}
	p.document = &doc
	return nil
}

// splitGLB returns the JSON and BIN chunks of a GLB container.
func splitGLB(data []byte) (jsonChunk, binChunk []byte, err error) {
	if len(data) < 12 {
		return nil, nil, fmt.Errorf("%w: %d bytes", errInvalidGLB, len(data))
	}
	if binary.LittleEndian.Uint32(data[0:]) != glbMagic {
		return nil, nil, fmt.Errorf("%w: bad magic", errInvalidGLB)
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != glbVersion {
		return nil, nil, fmt.Errorf("%w: version %d", errInvalidGLB, v)
	}

	rest := data[12:]
	for len(rest) >= 8 {
		size := int(binary.LittleEndian.Uint32(rest[0:]))
		kind := binary.LittleEndian.Uint32(rest[4:])
		rest = rest[8:]
		if size > len(rest) {
			return nil, nil, fmt.Errorf("%w: truncated chunk", errInvalidGLB)
		}
		switch kind {
		case glbChunkJSON:
			jsonChunk = rest[:size]
		case glbChunkBIN:
			binChunk = rest[:size]
		}
		rest = rest[size:]
	}
	if jsonChunk == nil {
		return nil, nil, errMissingJSON
	}
	return jsonChunk, binChunk, nil
}

func (p *gltfParserImpl) resolveBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && p.binChunk != nil:
			buf.data = p.binChunk
		case buf.URI == "":
			return fmt.Errorf("buffer %d: no uri and no GLB BIN chunk", i)
		default:
			data, _, err := p.ReadURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.data = data
		}
		if len(buf.data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferTooSmall)
		}
	}
	return nil
}

func (p *gltfParserImpl) ReadURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		data, err := os.ReadFile(filepath.Join(p.baseDir, filepath.FromSlash(uri)))
		if err != nil {
			return nil, "", err
		}
		return data, "", nil
	}

	header, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return nil, "", errInvalidDataURI
	}
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return nil, "", fmt.Errorf("%w: only base64 payloads are supported", errInvalidDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", errInvalidDataURI, err)
	}
	return data, mime, nil
}

func (p *gltfParserImpl) BufferView(index int) ([]byte, error) {
	if p.document == nil || index < 0 || index >= len(p.document.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", index)
	}
	bv := p.document.BufferViews[index]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, fmt.Errorf("buffer view %d: buffer %d out of range", index, bv.Buffer)
	}
	data := p.document.Buffers[bv.Buffer].data
	end := bv.ByteOffset + bv.ByteLength
	if bv.ByteOffset < 0 || end > len(data) {
		return nil, fmt.Errorf("buffer view %d: %w", index, errAccessorOverrun)
	}
	return bytes.Clone(data[bv.ByteOffset:end]), nil
}

// elements calls fn with the raw bytes of every accessor element in order.
func (p *gltfParserImpl) elements(index int, fn func(i int, elem []byte)) (*gltfAccessor, int, error) {
	if p.document == nil || index < 0 || index >= len(p.document.Accessors) {
		return nil, 0, fmt.Errorf("%w: %d", errAccessorRange, index)
	}
	acc := &p.document.Accessors[index]
	if acc.Sparse != nil {
		return nil, 0, fmt.Errorf("accessor %d: %w", index, errAccessorSparse)
	}
	comps := componentCount(acc.Type)
	size := componentSize(acc.ComponentType)
	if comps == 0 || size == 0 {
		return nil, 0, fmt.Errorf("accessor %d: %w: %s/%d", index, errAccessorFormat, acc.Type, acc.ComponentType)
	}
	if acc.BufferView == nil {
		// all-zero accessor
		zero := make([]byte, comps*size)
		for i := range acc.Count {
			fn(i, zero)
		}
		return acc, comps, nil
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(p.document.BufferViews) {
		return nil, 0, fmt.Errorf("accessor %d: %w: buffer view %d", index, errAccessorRange, *acc.BufferView)
	}

	bv := p.document.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, 0, fmt.Errorf("accessor %d: %w: buffer %d", index, errAccessorRange, bv.Buffer)
	}
	data := p.document.Buffers[bv.Buffer].data
	elemSize := comps * size
	stride := elemSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}
	start := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 && start+(acc.Count-1)*stride+elemSize > len(data) {
		return nil, 0, fmt.Errorf("accessor %d: %w", index, errAccessorOverrun)
	}
	for i := range acc.Count {
		off := start + i*stride
		fn(i, data[off:off+elemSize])
	}
	return acc, comps, nil
}

func (p *gltfParserImpl) ReadFloats(index int) ([]float32, int, error) {
	var out []float32
	var readErr error
	acc, comps, err := p.elements(index, func(i int, elem []byte) {
		if out == nil {
			out = make([]float32, 0, p.document.Accessors[index].Count*len(elem))
		}
		acc := &p.document.Accessors[index]
		size := componentSize(acc.ComponentType)
		for c := 0; c+size <= len(elem); c += size {
			v, ok := decodeFloat(elem[c:c+size], acc.ComponentType, acc.Normalized)
			if !ok {
				readErr = fmt.Errorf("accessor %d: %w: component %d", index, errAccessorFormat, acc.ComponentType)
				return
			}
			out = append(out, v)
		}
	})
	if err != nil {
		return nil, 0, err
	}
	if readErr != nil {
		return nil, 0, readErr
	}
	if acc.Count == 0 {
		out = []float32{}
	}
	return out, comps, nil
}

func (p *gltfParserImpl) ReadUints(index int) ([]uint32, int, error) {
	var out []uint32
	var readErr error
	acc, comps, err := p.elements(index, func(i int, elem []byte) {
		acc := &p.document.Accessors[index]
		switch acc.ComponentType {
		case gltfComponentUnsignedByte:
			for _, b := range elem {
				out = append(out, uint32(b))
			}
		case gltfComponentUnsignedShort:
			for c := 0; c+2 <= len(elem); c += 2 {
				out = append(out, uint32(binary.LittleEndian.Uint16(elem[c:])))
			}
		case gltfComponentUnsignedInt:
			for c := 0; c+4 <= len(elem); c += 4 {
				out = append(out, binary.LittleEndian.Uint32(elem[c:]))
			}
		default:
			readErr = fmt.Errorf("accessor %d: %w: component %d is not unsigned", index, errAccessorFormat, acc.ComponentType)
		}
	})
	if err != nil {
		return nil, 0, err
	}
	if readErr != nil {
		return nil, 0, readErr
	}
	if acc.Count == 0 {
		out = []uint32{}
	}
	return out, comps, nil
}

func decodeFloat(b []byte, componentType int, normalized bool) (float32, bool) {
	switch componentType {
	case gltfComponentFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), true
	case gltfComponentUnsignedByte:
		v := float32(b[0])
		if normalized {
			v /= 255
		}
		return v, true
	case gltfComponentByte:
		v := float32(int8(b[0]))
		if normalized {
			v = max(v/127, -1)
		}
		return v, true
	case gltfComponentUnsignedShort:
		v := float32(binary.LittleEndian.Uint16(b))
		if normalized {
			v /= 65535
		}
		return v, true
	case gltfComponentShort:
		v := float32(int16(binary.LittleEndian.Uint16(b)))
		if normalized {
			v = max(v/32767, -1)
		}
		return v, true
	default:
		return 0, false
	}
}

func componentSize(componentType int) int {
	switch componentType {
	case gltfComponentByte, gltfComponentUnsignedByte:
		return 1
	case gltfComponentShort, gltfComponentUnsignedShort:
		return 2
	case gltfComponentUnsignedInt, gltfComponentFloat:
		return 4
	default:
		return 0
	}
}

func componentCount(accessorType string) int {
	switch accessorType {
	case "SCALAR":
		return 1
	case "VEC2":
		return 2
	case "VEC3":
		return 3
	case "VEC4", "MAT2":
		return 4
	case "MAT3":
		return 9
	case "MAT4":
		return 16
	default:
		return 0
	}
}
