package main

import (
	"context"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/fsnotify/fsnotify"
)

// watchFiles reports writes to paths on the returned channel until ctx is done. Parent
// directories are watched so editors that replace files by rename are still seen. Events
// are dropped while the channel is full.
func watchFiles(ctx context.Context, paths ...string) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]string, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		wanted[abs] = p
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	changed := make(chan string, 8)
	go func() {
		defer watcher.Close()
		defer close(changed)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				abs, err := filepath.Abs(event.Name)
				if err != nil {
					continue
				}
				if p, ok := wanted[abs]; ok {
					select {
					case changed <- p:
					default:
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				common.Logger().Warn("file watch error", "err", err)
			}
		}
	}()
	return changed, nil
}
