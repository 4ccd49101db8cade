package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a settings file encoding.
type Format int

const (
	// FormatTOML selects TOML encoding (.toml).
	FormatTOML Format = iota
	// FormatYAML selects YAML encoding (.yaml, .yml).
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// codec pairs the decode and encode functions of one format.
type codec struct {
	decode func(data []byte, v any) error
	encode func(v any) ([]byte, error)
}

var codecs = map[Format]codec{
	FormatTOML: {
		decode: func(data []byte, v any) error {
			dec := toml.NewDecoder(bytes.NewReader(data))
			dec.DisallowUnknownFields()
			return dec.Decode(v)
		},
		encode: func(v any) ([]byte, error) {
			var buf bytes.Buffer
			enc := toml.NewEncoder(&buf)
			enc.SetIndentTables(true)
			if err := enc.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	},
	FormatYAML: {
		decode: func(data []byte, v any) error {
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(true)
			return dec.Decode(v)
		},
		encode: func(v any) ([]byte, error) {
			var buf bytes.Buffer
			enc := yaml.NewEncoder(&buf)
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return nil, err
			}
			if err := enc.Close(); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	},
}

// FormatFor picks the settings format from a file extension.
//
// Parameters:
//   - path: the settings file path
//
// Returns:
//   - Format: the matching format
//   - error: ErrUnsupportedFormat for unknown extensions
func FormatFor(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
