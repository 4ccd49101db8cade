package config

import (
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/compositor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, 256, s.Width)
	assert.Equal(t, 256, s.Height)
	assert.Equal(t, [3]float32{-1, -1, -1}, s.View.Direction)
	assert.Equal(t, [3]float32{0, 1, 0}, s.View.Up)
	assert.True(t, s.View.Orthographic)
	assert.Equal(t, BackgroundTransparent, s.Background.Kind)
	assert.Equal(t, DefaultExportPath, s.Export)
	assert.Nil(t, s.PoseFor())
	assert.Equal(t, slog.LevelInfo, s.Level())
	require.NoError(t, s.Validate())
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "preview.toml", `
model = "fox.glb"
unlit = true
width = 0
height = 5000
supersample = 9
log_level = "DEBUG"

[view]
zoom = 3.0
orthographic = true

[background]
kind = "solid"
color = "#ff0000"

[pose]
clip = "Walk"
time = -2.0
`)
	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fox.glb", s.Model)
	assert.True(t, s.Unlit)
	assert.False(t, s.NoTextures)
	assert.NotNil(t, s.NewLoader())
	assert.Equal(t, 1, s.Width)
	assert.Equal(t, 4096, s.Height)
	assert.Equal(t, 4, s.Supersample)
	assert.Equal(t, camera.MaxOrthographicZoom, s.View.Zoom)
	assert.Equal(t, [3]float32{-1, -1, -1}, s.View.Direction, "missing fields keep defaults")
	assert.Equal(t, slog.LevelDebug, s.Level())

	p := s.PoseFor()
	require.NotNil(t, p)
	assert.Equal(t, "Walk", p.Clip)
	assert.Zero(t, p.Time)

	bg, err := s.NewBackground()
	require.NoError(t, err)
	assert.Equal(t, compositor.BackgroundSolidColor, bg.Kind())
	assert.InDelta(t, 1, bg.Color().R, 1e-9)
	assert.InDelta(t, 0, bg.Color().G, 1e-9)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "preview.yml", `
width: 128
view:
  direction: [0, 0, -1]
  orthographic: false
  zoom: 2.5
`)
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 128, s.Width)
	assert.Equal(t, 256, s.Height)
	assert.False(t, s.View.Orthographic)
	assert.Equal(t, float32(2.5), s.View.Zoom, "perspective zoom is unbounded")

	vb := s.NewViewBasis()
	assert.Equal(t, [3]float32{0, 0, -1}, vb.Direction())
	assert.False(t, vb.Orthographic())
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	s, err := Load(writeFile(t, "empty.yaml", "\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("settings.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "bad.toml", "width = \"wide\""))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "unknown.yaml", "colour: red\n"))
	assert.Error(t, err, "unknown fields are rejected")

	_, err = Load(writeFile(t, "kind.toml", "[background]\nkind = \"gradient\""))
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestValidateBackground(t *testing.T) {
	tests := []struct {
		name    string
		bg      Background
		wantErr bool
	}{
		{"empty kind", Background{}, false},
		{"solid short hex", Background{Kind: "Solid", Color: "#f00"}, false},
		{"solid bad hex", Background{Kind: "solid", Color: "#ggg"}, true},
		{"solid wrong length", Background{Kind: "solid", Color: "#ff00f"}, true},
		{"tiled without texture", Background{Kind: "tiled"}, true},
		{"tiled", Background{Kind: "tiled", Texture: "checker.png"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			s.Background = tt.bg
			err := s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSettings)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTiledBackground(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "tile.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	s := Default()
	s.Background = Background{Kind: BackgroundTiled, Texture: path, UseAlpha: true}
	require.NoError(t, s.Validate())

	bg, err := s.NewBackground()
	require.NoError(t, err)
	assert.Equal(t, compositor.BackgroundTiledTexture, bg.Kind())
	assert.True(t, bg.UseAlpha())
	require.NotNil(t, bg.Texture())
	assert.Equal(t, 2, bg.Texture().Width())

	s.Background.Texture = filepath.Join(t.TempDir(), "missing.png")
	_, err = s.NewBackground()
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"out.toml", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			s := Default()
			s.Model = "cube.gltf"
			s.Background = Background{Kind: BackgroundSolid, Color: "#00ff00"}
			s.Pose = Pose{Clip: "Idle", Time: 0.5}

			vb := camera.NewViewBasis(camera.WithDirection([3]float32{0, 0, -1}))
			vb.Pan(2, -1, 0.5)
			s.CaptureView(vb)

			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, s.Save(path))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, s.Model, got.Model)
			assert.Equal(t, s.Background, got.Background)
			assert.Equal(t, s.Pose, got.Pose)
			assert.Equal(t, [2]float32{1, -0.5}, got.View.Pan)
			for i := range 3 {
				assert.InDelta(t, s.View.Direction[i], got.View.Direction[i], 1e-6)
				assert.InDelta(t, s.View.Up[i], got.View.Up[i], 1e-6)
			}
		})
	}

	assert.ErrorIs(t, Default().Save(filepath.Join(t.TempDir(), "out.ini")), ErrUnsupportedFormat)
}
