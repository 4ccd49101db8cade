// Command oxyviewer shows a live preview of a glTF model (or the built-in cube).
//
// Left-drag orbits, Ctrl+drag pans, Shift+drag or the wheel zooms. O toggles the projection,
// P cycles animation clips, R resets the view, S exports a PNG, W writes the view back to the
// settings file and Esc quits. The preview re-renders when the model or settings file changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/config"
	"github.com/Carmen-Shannon/oxy-preview/engine/window"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "oxyviewer:", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	// ── Flags + Settings ────────────────────────────────────────────────
	fs := flag.NewFlagSet("oxyviewer", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "settings file (.toml, .yaml or .yml)")
		modelPath  = fs.String("model", "", "glTF or GLB model; empty shows a cube")
		size       = fs.Int("size", 0, "preview width and height in pixels")
		logLevel   = fs.String("log-level", "", "debug, info, warn or error")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings := config.Default()
	if *configPath != "" {
		var err error
		if settings, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	if *modelPath != "" {
		settings.Model = *modelPath
	}
	if *size > 0 {
		settings.Width, settings.Height = *size, *size
	}
	if *logLevel != "" {
		settings.LogLevel = *logLevel
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: settings.Level()})))

	// ── Window + Viewer ─────────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle("oxy preview - "+subjectTitle(settings.Model)),
		window.WithSize(max(settings.Width, 512), max(settings.Height, 512)),
	)
	v, err := newViewer(win, settings, *configPath)
	if err != nil {
		return err
	}
	defer v.close()

	// ── File Watching ───────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// TODO: re-watch when a settings reload points at a different model file.
	changed, err := watchFiles(ctx, *configPath, settings.Model)
	if err != nil {
		common.Logger().Warn("live reload disabled", "err", err)
	} else {
		v.changed = changed
	}
	go func() {
		<-ctx.Done()
		_ = win.Close()
	}()

	return win.Run()
}

func subjectTitle(modelPath string) string {
	if modelPath == "" {
		return "cube"
	}
	return modelPath
}
