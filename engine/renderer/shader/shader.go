package shader

import (
	"github.com/gogpu/gg"
)

// ShaderType identifies which stage of the software renderer a shader program runs in.
type ShaderType int

const (
	// ShaderTypeFragment is a per-pixel surface program invoked by the rasterizer.
	ShaderTypeFragment ShaderType = iota

	// ShaderTypeCombine is a per-pixel program that merges a rendered subject with a background.
	ShaderTypeCombine
)

// String returns a human readable name for the shader type.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeFragment:
		return "fragment"
	case ShaderTypeCombine:
		return "combine"
	default:
		return "unknown"
	}
}

// FragmentFunc shades one rasterized fragment.
type FragmentFunc func(frag *Fragment, lighting *Lighting) gg.RGBA

// CombineFunc merges one subject pixel with one background pixel.
type CombineFunc func(in CombineInput) gg.RGBA

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	shaderType ShaderType

	fragment FragmentFunc
	combine  CombineFunc
}

// Shader defines the interface for a CPU shader program. A shader carries a unique key
// and exactly one program matching its ShaderType.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Type retrieves the stage this shader runs in.
	//
	// Returns:
	//   - ShaderType: the shader type
	Type() ShaderType

	// Fragment returns the fragment program if this is a fragment shader.
	//
	// Returns:
	//   - FragmentFunc: the program, or nil
	//   - bool: true if the shader is a fragment shader
	Fragment() (FragmentFunc, bool)

	// Combiner returns the combine program if this is a combine shader.
	//
	// Returns:
	//   - CombineFunc: the program, or nil
	//   - bool: true if the shader is a combine shader
	Combiner() (CombineFunc, bool)
}

var _ Shader = &shader{}

// NewFragmentShader creates a fragment shader from a program.
//
// Parameters:
//   - key: the unique key for the shader
//   - fn: the fragment program
//
// Returns:
//   - Shader: the new shader
func NewFragmentShader(key string, fn FragmentFunc) Shader {
	return &shader{key: key, shaderType: ShaderTypeFragment, fragment: fn}
}

// NewCombineShader creates a combine shader from a program.
//
// Parameters:
//   - key: the unique key for the shader
//   - fn: the combine program
//
// Returns:
//   - Shader: the new shader
func NewCombineShader(key string, fn CombineFunc) Shader {
	return &shader{key: key, shaderType: ShaderTypeCombine, combine: fn}
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Type() ShaderType {
	return s.shaderType
}

func (s *shader) Fragment() (FragmentFunc, bool) {
	return s.fragment, s.shaderType == ShaderTypeFragment && s.fragment != nil
}

func (s *shader) Combiner() (CombineFunc, bool) {
	return s.combine, s.shaderType == ShaderTypeCombine && s.combine != nil
}
