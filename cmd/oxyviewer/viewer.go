package main

import (
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/config"
	"github.com/Carmen-Shannon/oxy-preview/engine"
	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/compositor"
	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/loader"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
	"github.com/Carmen-Shannon/oxy-preview/engine/pose"
	"github.com/Carmen-Shannon/oxy-preview/engine/window"
)

// viewer re-renders the preview whenever navigation, keys or watched files change it.
// All methods run on the window's update goroutine.
type viewer struct {
	win window.Window
	eng engine.Engine
	ldr loader.Loader

	settings   config.Settings
	configPath string

	subject    game_object.GameObject
	background compositor.Background
	clips      []string
	clipIndex  int

	dirty   bool
	changed <-chan string
}

func newViewer(win window.Window, settings config.Settings, configPath string) (*viewer, error) {
	v := &viewer{
		win:        win,
		ldr:        settings.NewLoader(),
		settings:   settings,
		configPath: configPath,
		eng: engine.NewEngine(
			engine.WithProfiling(settings.Profiling),
			engine.WithSupersample(settings.Supersample),
			engine.WithController(camera.NewCameraController(camera.WithBasis(settings.NewViewBasis()))),
		),
	}
	if err := v.loadSubject(); err != nil {
		v.eng.Close()
		return nil, err
	}
	bg, err := settings.NewBackground()
	if err != nil {
		v.eng.Close()
		return nil, err
	}
	v.background = bg
	v.dirty = true

	win.SetUpdateCallback(v.frame)
	win.SetResizeCallback(v.resize)
	win.SetKeyDownCallback(v.keyDown)
	win.SetScrollCallback(func(delta float32) { v.eng.Zoom(delta) })
	win.SetDragCallback(v.eng.HandleDrag)
	win.SetBackdrop(checkerboard(win.Width(), win.Height(), checkerCell))
	return v, nil
}

// loadSubject (re)loads the configured model and picks the configured clip.
func (v *viewer) loadSubject() error {
	var m model.Model
	switch {
	case v.settings.Model == "":
		m = model.NewCube(1)
	case v.settings.MeshOnly:
		var err error
		if m, err = v.ldr.LoadMeshOnly(v.settings.Model); err != nil {
			return err
		}
	default:
		var err error
		if m, err = v.ldr.Load(v.settings.Model); err != nil {
			return err
		}
	}

	v.subject = loader.NewSubject(m)
	v.clips = m.AnimationNames()
	v.clipIndex = -1
	for i, name := range v.clips {
		if name == v.settings.Pose.Clip {
			v.clipIndex = i
		}
	}
	v.dirty = true
	return nil
}

func (v *viewer) pose() *pose.Pose {
	if v.clipIndex < 0 || v.clipIndex >= len(v.clips) {
		return nil
	}
	return &pose.Pose{Clip: v.clips[v.clipIndex], Time: v.settings.Pose.Time}
}

// frame applies pending file changes and renders when anything moved.
func (v *viewer) frame() {
	for pending := true; pending; {
		select {
		case path, ok := <-v.changed:
			if !ok {
				v.changed = nil
				pending = false
				continue
			}
			v.reload(path)
		default:
			pending = false
		}
	}

	if !v.dirty && !v.eng.RepaintNeeded() {
		return
	}
	v.dirty = false
	v.render()
}

func (v *viewer) render() {
	img, err := v.eng.Render(engine.RenderRequest{
		Subject:    v.subject,
		Pose:       v.pose(),
		Background: v.background,
		Width:      v.settings.Width,
		Height:     v.settings.Height,
	})
	// the render's own repaint signal is already handled
	v.eng.RepaintNeeded()
	if err != nil {
		common.Logger().Warn("preview not updated", "err", err)
		return
	}
	v.win.SetImage(img)
}

func (v *viewer) resize(width, height int) {
	v.win.SetBackdrop(checkerboard(width, height, checkerCell))
}

// reload handles a change to the settings file or the model file.
func (v *viewer) reload(path string) {
	log := common.Logger()
	if v.configPath != "" && path == v.configPath {
		s, err := config.Load(path)
		if err != nil {
			log.Warn("settings reload failed", "path", path, "err", err)
			return
		}
		bg, err := s.NewBackground()
		if err != nil {
			log.Warn("settings reload failed", "path", path, "err", err)
			return
		}
		if s.Unlit != v.settings.Unlit || s.NoTextures != v.settings.NoTextures {
			v.ldr = s.NewLoader()
		}
		v.settings, v.background = s, bg
		v.eng.Controller().SetBasis(s.NewViewBasis())
		log.Info("settings reloaded", "path", path)
	} else {
		v.ldr.Evict(filepath.Clean(path))
	}

	if err := v.loadSubject(); err != nil {
		log.Warn("model reload failed", "path", v.settings.Model, "err", err)
		return
	}
	v.dirty = true
}

func (v *viewer) keyDown(code uint32) {
	ctrl := v.eng.Controller()
	switch code {
	case common.KeyO:
		b := v.eng.Basis()
		b.SetOrthographic(!b.Orthographic())
		b.Validate()
	case common.KeyR:
		ctrl.SetBasis(v.settings.NewViewBasis())
	case common.KeyP:
		v.clipIndex++
		if v.clipIndex >= len(v.clips) {
			v.clipIndex = -1
		}
	case common.KeyS:
		if err := v.eng.ExportImage(v.settings.Export); err != nil {
			common.Logger().Warn("export failed", "path", v.settings.Export, "err", err)
		}
		return
	case common.KeyW:
		v.saveSettings()
		return
	case common.KeyLeft:
		ctrl.OrbitLeft()
	case common.KeyRight:
		ctrl.OrbitRight()
	case common.KeyUp:
		ctrl.OrbitUp()
	case common.KeyDown:
		ctrl.OrbitDown()
	default:
		return
	}
	v.dirty = true
}

// saveSettings writes the current view and clip back to the settings file.
func (v *viewer) saveSettings() {
	if v.configPath == "" {
		return
	}
	v.settings.CaptureView(v.eng.Basis())
	v.settings.Pose.Clip = ""
	if p := v.pose(); p != nil {
		v.settings.Pose.Clip = p.Clip
	}
	if err := v.settings.Save(v.configPath); err != nil {
		common.Logger().Warn("settings not saved", "path", v.configPath, "err", err)
		return
	}
	common.Logger().Info("settings saved", "path", v.configPath)
}

func (v *viewer) close() {
	v.eng.Close()
}
