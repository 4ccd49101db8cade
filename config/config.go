package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/compositor"
	"github.com/Carmen-Shannon/oxy-preview/engine/loader"
	"github.com/Carmen-Shannon/oxy-preview/engine/pose"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-preview/engine/session"
	"github.com/gogpu/gg"
)

var (
	// ErrUnsupportedFormat is returned for settings files that are neither TOML nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported settings format")

	// ErrInvalidSettings is returned by Validate for values that cannot be clamped into range.
	ErrInvalidSettings = errors.New("invalid settings")
)

// DefaultExportPath is the PNG path used when no export path is configured.
const DefaultExportPath = "default.png"

// Background kinds accepted in settings files.
const (
	BackgroundTransparent = "transparent"
	BackgroundSolid       = "solid"
	BackgroundTiled       = "tiled"
)

// Settings is the host-side description of a preview: the model to load, the output size, the
// viewpoint, the background, an optional pose and the export target.
type Settings struct {
	// Model is a .gltf or .glb path. Empty previews the built-in cube.
	Model string `toml:"model" yaml:"model"`
	// MeshOnly loads static geometry without skeleton or clips.
	MeshOnly bool `toml:"mesh_only" yaml:"mesh_only"`
	// Unlit renders every imported material without lighting.
	Unlit bool `toml:"unlit" yaml:"unlit"`
	// NoTextures skips decoding imported diffuse textures.
	NoTextures bool `toml:"no_textures" yaml:"no_textures"`

	Width       int `toml:"width" yaml:"width"`
	Height      int `toml:"height" yaml:"height"`
	Supersample int `toml:"supersample" yaml:"supersample"`

	View       View       `toml:"view" yaml:"view"`
	Background Background `toml:"background" yaml:"background"`
	Pose       Pose       `toml:"pose" yaml:"pose"`

	Export    string `toml:"export" yaml:"export"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	Profiling bool   `toml:"profiling" yaml:"profiling"`
}

// View holds the persisted navigation state.
type View struct {
	Direction    [3]float32 `toml:"direction" yaml:"direction"`
	Up           [3]float32 `toml:"up" yaml:"up"`
	Pan          [2]float32 `toml:"pan" yaml:"pan"`
	Zoom         float32    `toml:"zoom" yaml:"zoom"`
	Orthographic bool       `toml:"orthographic" yaml:"orthographic"`
}

// Background selects what is composited behind the subject.
type Background struct {
	// Kind is one of transparent, solid or tiled.
	Kind string `toml:"kind" yaml:"kind"`
	// Color is a hex color ("#rgb", "#rgba", "#rrggbb" or "#rrggbbaa") used by solid backgrounds.
	Color string `toml:"color" yaml:"color"`
	// Texture is the image file tiled behind the subject.
	Texture  string `toml:"texture" yaml:"texture"`
	UseAlpha bool   `toml:"use_alpha" yaml:"use_alpha"`
}

// Pose samples one animation frame. An empty clip disables posing.
type Pose struct {
	Clip string  `toml:"clip" yaml:"clip"`
	Time float32 `toml:"time" yaml:"time"`
}

// Default returns the settings used when no file is given.
//
// Returns:
//   - Settings: 256x256 orthographic preview along (-1,-1,-1) on a transparent background
func Default() Settings {
	return Settings{
		Width:       256,
		Height:      256,
		Supersample: 1,
		View: View{
			Direction:    [3]float32{-1, -1, -1},
			Up:           common.WorldUp,
			Orthographic: true,
		},
		Background: Background{Kind: BackgroundTransparent, Color: "#000000"},
		Export:     DefaultExportPath,
		LogLevel:   "info",
	}
}

// Load reads settings from a TOML or YAML file, picked by extension. Fields missing from the
// file keep their Default values. The result is validated.
//
// Parameters:
//   - path: the settings file
//
// Returns:
//   - Settings: the loaded settings
//   - error: ErrUnsupportedFormat, a read or decode failure, or ErrInvalidSettings
func Load(path string) (Settings, error) {
	s := Default()
	format, err := FormatFor(path)
	if err != nil {
		return s, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := codecs[format].decode(data, &s); err != nil {
			return s, fmt.Errorf("decode %s settings %s: %w", format, path, err)
		}
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes the settings in the format matching the path's extension.
//
// Parameters:
//   - path: the settings file
//
// Returns:
//   - error: ErrUnsupportedFormat, or an encode or write failure
func (s Settings) Save(path string) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := codecs[format].encode(s)
	if err != nil {
		return fmt.Errorf("encode %s settings: %w", format, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Validate clamps sizes, zoom and supersample into range and fills empty fields with defaults.
//
// Returns:
//   - error: ErrInvalidSettings for an unknown background kind, a malformed color or a tiled
//     background without a texture
func (s *Settings) Validate() error {
	s.Width = camera.ClampRenderSize(s.Width)
	s.Height = camera.ClampRenderSize(s.Height)
	s.Supersample = common.Clamp(s.Supersample, 1, session.MaxSupersample)

	if common.IsZero3(s.View.Direction) {
		s.View.Direction = camera.DefaultDirection
	}
	if common.IsZero3(s.View.Up) {
		s.View.Up = common.WorldUp
	}
	if s.View.Orthographic {
		s.View.Zoom = min(s.View.Zoom, camera.MaxOrthographicZoom)
	}
	s.Pose.Time = max(s.Pose.Time, 0)

	if s.Export == "" {
		s.Export = DefaultExportPath
	}
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}

	s.Background.Kind = strings.ToLower(strings.TrimSpace(s.Background.Kind))
	switch s.Background.Kind {
	case "", BackgroundTransparent:
		s.Background.Kind = BackgroundTransparent
	case BackgroundSolid:
		if !validHex(s.Background.Color) {
			return fmt.Errorf("%w: background color %q", ErrInvalidSettings, s.Background.Color)
		}
	case BackgroundTiled:
		if s.Background.Texture == "" {
			return fmt.Errorf("%w: tiled background without texture", ErrInvalidSettings)
		}
	default:
		return fmt.Errorf("%w: background kind %q", ErrInvalidSettings, s.Background.Kind)
	}
	return nil
}

// NewViewBasis builds a navigation basis from the persisted view.
//
// Returns:
//   - camera.ViewBasis: the validated basis
func (s Settings) NewViewBasis() camera.ViewBasis {
	return camera.NewViewBasis(
		camera.WithDirection(s.View.Direction),
		camera.WithUp(s.View.Up),
		camera.WithPanOffset(s.View.Pan),
		camera.WithZoom(s.View.Zoom),
		camera.WithOrthographic(s.View.Orthographic),
	)
}

// CaptureView stores the current state of vb so a later Save persists it.
//
// Parameters:
//   - vb: the basis to record
func (s *Settings) CaptureView(vb camera.ViewBasis) {
	s.View = View{
		Direction:    vb.Direction(),
		Up:           vb.Up(),
		Pan:          vb.PanOffset(),
		Zoom:         vb.Zoom(),
		Orthographic: vb.Orthographic(),
	}
}

// PoseFor returns the configured pose, or nil when no clip is named.
func (s Settings) PoseFor() *pose.Pose {
	if s.Pose.Clip == "" {
		return nil
	}
	return &pose.Pose{Clip: s.Pose.Clip, Time: s.Pose.Time}
}

// NewLoader returns a glTF loader honoring the material settings.
func (s Settings) NewLoader() loader.Loader {
	return loader.NewLoader(loader.BackendTypeGLTF,
		loader.WithUnlitMaterials(s.Unlit),
		loader.WithTextureDecoding(!s.NoTextures),
	)
}

// Level returns the configured log level.
func (s Settings) Level() slog.Level {
	return common.ParseLogLevel(s.LogLevel)
}

// NewBackground builds the compositor background. Tiled backgrounds decode their texture file
// and repeat it at native texel size.
//
// Returns:
//   - compositor.Background: the background
//   - error: ErrInvalidSettings, or the texture decode failure
func (s Settings) NewBackground() (compositor.Background, error) {
	switch s.Background.Kind {
	case "", BackgroundTransparent:
		return compositor.Transparent(), nil
	case BackgroundSolid:
		if !validHex(s.Background.Color) {
			return compositor.Transparent(), fmt.Errorf("%w: background color %q", ErrInvalidSettings, s.Background.Color)
		}
		return compositor.SolidColor(gg.Hex(s.Background.Color)), nil
	case BackgroundTiled:
		tex, err := material.NewTextureFromImported(&common.ImportedTexture{
			Name: s.Background.Texture,
			Path: s.Background.Texture,
		})
		if err != nil {
			return compositor.Transparent(), fmt.Errorf("background texture: %w", err)
		}
		return compositor.TiledTexture(tex, s.Background.UseAlpha), nil
	default:
		return compositor.Transparent(), fmt.Errorf("%w: background kind %q", ErrInvalidSettings, s.Background.Kind)
	}
}

func validHex(hex string) bool {
	hex = strings.TrimPrefix(hex, "#")
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, c := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
