package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ziadkadry99/pagenav/internal/walker"
)

// DefaultDebounce groups the bursts of events editors produce on save.
const DefaultDebounce = 150 * time.Millisecond

// Watch refreshes documents as they change on disk until ctx is done.
// onChange is called with the slug of every document that was re-rendered
// or removed.
func (l *Library) Watch(ctx context.Context, debounce time.Duration, onChange func(slug string)) (err error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("library: creating watcher: %w", err)
	}
	defer func() {
		err = multierr.Append(err, w.Close())
	}()

	dirs, err := walker.Dirs(l.root)
	if err != nil {
		return fmt.Errorf("library: %w", err)
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("library: watching %s: %w", d, err)
		}
	}
	l.logger.Debug("watching documents", zap.String("root", l.root), zap.Int("dirs", len(dirs)))

	pending := make(map[string]*time.Timer)
	fire := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					l.watchTree(w, ev.Name)
					continue
				}
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			path := ev.Name
			if t, ok := pending[path]; ok {
				t.Reset(debounce)
				continue
			}
			pending[path] = time.AfterFunc(debounce, func() {
				select {
				case fire <- path:
				case <-ctx.Done():
				}
			})

		case path := <-fire:
			delete(pending, path)
			slug, changed, refreshErr := l.Refresh(path)
			if refreshErr != nil {
				l.logger.Warn("refreshing document", zap.String("path", path), zap.Error(refreshErr))
				continue
			}
			if changed && onChange != nil {
				onChange(slug)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("watcher error", zap.Error(watchErr))
		}
	}
}

// watchTree adds a newly created directory and its subdirectories.
func (l *Library) watchTree(w *fsnotify.Watcher, dir string) {
	dirs, err := walker.Dirs(dir)
	if err != nil {
		l.logger.Debug("new directory vanished", zap.String("dir", dir), zap.Error(err))
		return
	}
	for _, d := range dirs {
		rel, err := filepath.Rel(l.root, d)
		if err != nil || walker.InExcludedDir(filepath.Join(rel, "x")) {
			continue
		}
		if err := w.Add(d); err != nil {
			l.logger.Warn("watching directory", zap.String("dir", d), zap.Error(err))
		}
	}
}
