package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/config"
	"github.com/Carmen-Shannon/oxy-preview/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViewer(t *testing.T, configPath string) *viewer {
	t.Helper()
	settings := config.Default()
	if configPath != "" {
		var err error
		settings, err = config.Load(configPath)
		require.NoError(t, err)
	}
	settings.Width, settings.Height = 24, 24
	v, err := newViewer(window.NewWindow(), settings, configPath)
	require.NoError(t, err)
	t.Cleanup(v.close)
	return v
}

func TestViewerRendersOnlyWhenDirty(t *testing.T) {
	v := newTestViewer(t, "")

	v.frame()
	first := v.eng.Image()
	require.NotNil(t, first)
	assert.Equal(t, 24, first.Bounds().Dx())

	v.frame()
	assert.Same(t, first, v.eng.Image(), "idle frames keep the image")

	v.eng.HandleDrag(10, 0, common.ModNone)
	v.frame()
	assert.NotSame(t, first, v.eng.Image())
}

func TestViewerKeys(t *testing.T) {
	v := newTestViewer(t, "")
	v.frame()

	ortho := v.eng.Basis().Orthographic()
	v.keyDown(common.KeyO)
	assert.Equal(t, !ortho, v.eng.Basis().Orthographic())
	assert.True(t, v.dirty)
	v.frame()

	dir := v.eng.Basis().Direction()
	v.keyDown(common.KeyLeft)
	assert.NotEqual(t, dir, v.eng.Basis().Direction())
	v.keyDown(common.KeyR)
	for i, c := range v.eng.Basis().Direction() {
		assert.InDelta(t, dir[i], c, 1e-5)
	}
	assert.True(t, v.eng.Basis().Orthographic(), "reset restores the configured projection")

	v.keyDown(common.KeyP)
	assert.Equal(t, -1, v.clipIndex, "the cube has no clips")
	assert.Nil(t, v.pose())

	v.dirty = false
	v.keyDown(common.KeyZ)
	assert.False(t, v.dirty)
}

func TestViewerExportAndSave(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "view.toml")
	require.NoError(t, config.Default().Save(cfg))

	v := newTestViewer(t, cfg)
	v.settings.Export = filepath.Join(dir, "shot.png")
	v.frame()

	v.keyDown(common.KeyS)
	assert.FileExists(t, v.settings.Export)
	assert.Equal(t, v.settings.Export, v.eng.LastExportPath())

	v.keyDown(common.KeyUp)
	v.keyDown(common.KeyW)
	saved, err := config.Load(cfg)
	require.NoError(t, err)
	for i, c := range v.eng.Basis().Direction() {
		assert.InDelta(t, c, saved.View.Direction[i], 1e-5)
	}
}

func TestViewerReloadSettings(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "view.yaml")
	require.NoError(t, config.Default().Save(cfg))
	v := newTestViewer(t, cfg)
	v.frame()

	s := config.Default()
	s.Width, s.Height = 16, 8
	s.Background = config.Background{Kind: config.BackgroundSolid, Color: "#0000ff"}
	require.NoError(t, s.Save(cfg))

	changed := make(chan string, 1)
	changed <- cfg
	v.changed = changed
	v.frame()

	img := v.eng.Image()
	require.NotNil(t, img)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
	_, _, _, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), a)

	require.NoError(t, os.WriteFile(cfg, []byte("width: [broken"), 0o644))
	v.reload(cfg)
	assert.Equal(t, 16, v.settings.Width, "a broken file keeps the previous settings")
}

func TestCheckerboard(t *testing.T) {
	img := checkerboard(64, 32, checkerCell)
	require.NotNil(t, img)
	assert.Equal(t, 64, img.Bounds().Dx())

	light, _, _, _ := img.At(4, 4).RGBA()
	dark, _, _, _ := img.At(checkerCell+4, 4).RGBA()
	below, _, _, _ := img.At(4, checkerCell+4).RGBA()
	assert.Greater(t, light, dark)
	assert.Equal(t, dark, below)

	assert.Nil(t, checkerboard(0, 10, checkerCell))
}

func TestWatchFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gltf")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	changed, err := watchFiles(ctx, path, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("{\"asset\":{}}"), 0o644))

	select {
	case got := <-changed:
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-changed:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}
