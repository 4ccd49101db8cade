// Command oxypreview renders a thumbnail of a glTF model (or the built-in cube) and writes it as
// a PNG.
//
//	oxypreview -model Fox.glb -clip Survey -time 1.5 -width 512 -height 512 -out fox.png
//	oxypreview -config preview.toml
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/config"
	"github.com/Carmen-Shannon/oxy-preview/engine"
	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/loader"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "oxypreview:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	// ── Flags ───────────────────────────────────────────────────────────
	fs := flag.NewFlagSet("oxypreview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath  = fs.String("config", "", "settings file (.toml, .yaml or .yml)")
		modelPath   = fs.String("model", "", "glTF or GLB model; empty renders a cube")
		meshOnly    = fs.Bool("mesh-only", false, "load static geometry without skeleton or clips")
		unlit       = fs.Bool("unlit", false, "render imported materials without lighting")
		noTextures  = fs.Bool("no-textures", false, "skip decoding imported textures")
		out         = fs.String("out", "", "PNG output path")
		width       = fs.Int("width", 0, "output width in pixels")
		height      = fs.Int("height", 0, "output height in pixels")
		supersample = fs.Int("supersample", 0, "samples per output pixel along each axis")
		ortho       = fs.Bool("ortho", true, "orthographic projection")
		zoom        = fs.Float64("zoom", 0, "zoom level")
		clip        = fs.String("clip", "", "animation clip to pose")
		poseTime    = fs.Float64("time", 0, "pose time in seconds")
		background  = fs.String("background", "", "transparent, solid or tiled")
		color       = fs.String("color", "", "solid background color (#rrggbb)")
		texture     = fs.String("texture", "", "tiled background image")
		logLevel    = fs.String("log-level", "", "debug, info, warn or error")
		profile     = fs.Bool("profile", false, "log per-stage render timings")
		saveConfig  = fs.String("save-config", "", "write the effective settings to this file")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	// ── Settings ────────────────────────────────────────────────────────
	settings := config.Default()
	if *configPath != "" {
		var err error
		if settings, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "model":
			settings.Model = *modelPath
		case "mesh-only":
			settings.MeshOnly = *meshOnly
		case "unlit":
			settings.Unlit = *unlit
		case "no-textures":
			settings.NoTextures = *noTextures
		case "out":
			settings.Export = *out
		case "width":
			settings.Width = *width
		case "height":
			settings.Height = *height
		case "supersample":
			settings.Supersample = *supersample
		case "ortho":
			settings.View.Orthographic = *ortho
		case "zoom":
			settings.View.Zoom = float32(*zoom)
		case "clip":
			settings.Pose.Clip = *clip
		case "time":
			settings.Pose.Time = float32(*poseTime)
		case "background":
			settings.Background.Kind = *background
		case "color":
			settings.Background.Color = *color
		case "texture":
			settings.Background.Texture = *texture
		case "log-level":
			settings.LogLevel = *logLevel
		case "profile":
			settings.Profiling = *profile
		}
	})
	if err := settings.Validate(); err != nil {
		return err
	}

	common.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: settings.Level()})))
	defer common.SetLogger(nil)

	if *saveConfig != "" {
		if err := settings.Save(*saveConfig); err != nil {
			return err
		}
	}

	// ── Subject + Background ────────────────────────────────────────────
	subject, err := loadSubject(settings)
	if err != nil {
		return err
	}
	bg, err := settings.NewBackground()
	if err != nil {
		return err
	}

	// ── Render + Export ─────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithProfiling(settings.Profiling),
		engine.WithSupersample(settings.Supersample),
		engine.WithController(camera.NewCameraController(camera.WithBasis(settings.NewViewBasis()))),
	)
	defer eng.Close()

	if _, err := eng.Render(engine.RenderRequest{
		Subject:    subject,
		Pose:       settings.PoseFor(),
		Background: bg,
		Width:      settings.Width,
		Height:     settings.Height,
	}); err != nil {
		return err
	}
	return eng.ExportImage(settings.Export)
}

func loadSubject(settings config.Settings) (game_object.GameObject, error) {
	if settings.Model == "" {
		return loader.NewSubject(model.NewCube(1)), nil
	}
	ldr := settings.NewLoader()
	load := ldr.Load
	if settings.MeshOnly {
		load = ldr.LoadMeshOnly
	}
	m, err := load(settings.Model)
	if err != nil {
		return nil, err
	}
	return loader.NewSubject(m), nil
}
