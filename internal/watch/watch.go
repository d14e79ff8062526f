// Package watch rebuilds content whenever a pack document or manifest changes.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/packindex/internal/loader"
	"github.com/starford/packindex/internal/storage"
)

// DefaultDebounce is the quiet period between the last change and a rebuild.
const DefaultDebounce = 200 * time.Millisecond

// RebuildFunc runs one build. A returned error is logged and watching continues.
type RebuildFunc func(ctx context.Context) error

// Options configures Watch.
type Options struct {
	Debounce   time.Duration
	Extensions []string
	Logger     *slog.Logger
}

// Watch starts an fsnotify watcher on the content root and calls rebuild
// once per burst of relevant changes until ctx is cancelled.
//
// New directories created at runtime (a new pack, a new skills/ folder) are
// automatically added to the watch list.
func Watch(ctx context.Context, root string, opts Options, rebuild RebuildFunc) error {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = loader.DefaultExtensions
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dirs := map[string]struct{}{}
	if err := addDirsRecursive(w, root, dirs); err != nil {
		return err
	}

	logger.Info("watch: started", slog.String("root", root), slog.Duration("debounce", debounce))

	var timer *time.Timer
	var timerCh <-chan time.Time
	pending := 0

	schedule := func() {
		pending++
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case <-timerCh:
			logger.Info("watch: rebuilding", slog.Int("changes", pending))
			pending = 0
			if err := rebuild(ctx); err != nil {
				logger.Error("watch: rebuild failed; previous output kept", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if isHidden(root, ev.Name) {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name, dirs); addErr != nil {
						logger.Warn("watch: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watch: watching new dir", slog.String("path", ev.Name))
					}
					schedule()
					continue
				}
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && forgetDir(w, dirs, ev.Name) {
				logger.Debug("watch: dir gone", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				schedule()
				continue
			}
			if !Relevant(ev.Name, exts) {
				continue
			}
			logger.Debug("watch: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}

// Relevant reports whether a change to path can affect a build: a content
// document with one of exts or a pack manifest.
func Relevant(path string, exts []string) bool {
	name := filepath.Base(path)
	if slices.Contains(loader.ManifestFiles, name) {
		return true
	}
	return storage.HasExt(name, exts)
}

// isHidden reports whether any element of path below root starts with a dot.
func isHidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// forgetDir drops path and everything below it from the watched set and
// reports whether path was a watched directory.
func forgetDir(w *fsnotify.Watcher, dirs map[string]struct{}, path string) bool {
	if _, ok := dirs[path]; !ok {
		return false
	}
	prefix := path + string(filepath.Separator)
	for d := range dirs {
		if d == path || strings.HasPrefix(d, prefix) {
			delete(dirs, d)
			_ = w.Remove(d)
		}
	}
	return true
}

// addDirsRecursive adds root and all its non-hidden subdirectories to the
// watcher and records them in dirs.
func addDirsRecursive(w *fsnotify.Watcher, root string, dirs map[string]struct{}) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return err
		}
		dirs[path] = struct{}{}
		return nil
	})
}
