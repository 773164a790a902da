// Package dropdir watches a directory for form documents and hands each new
// or changed file to a callback.
package dropdir

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/formwright/internal/logger"
)

// ErrNotDirectory is returned when the watched path is not a directory.
var ErrNotDirectory = errors.New("dropdir: not a directory")

// HandlerFunc receives the path of a document that appeared or changed.
// A returned error is logged and the file is retried on its next change.
type HandlerFunc func(ctx context.Context, path string) error

// stamp identifies one version of a file on disk.
type stamp struct {
	size    int64
	modTime time.Time
}

// Watcher delivers form documents written into a directory.
type Watcher struct {
	dir     string
	handle  HandlerFunc
	seen    map[string]stamp
	ready   chan struct{}
	started bool
}

// New returns a watcher for dir.
func New(dir string, handle HandlerFunc) *Watcher {
	return &Watcher{
		dir:    dir,
		handle: handle,
		seen:   make(map[string]stamp),
		ready:  make(chan struct{}),
	}
}

// Ready is closed once the directory is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is cancelled. Hidden files and files that are not
// JSON or YAML are ignored, as are events that leave a file unchanged.
func (w *Watcher) Run(ctx context.Context) error {
	if w.started {
		return errors.New("dropdir: watcher already started")
	}
	w.started = true

	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("dropdir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, w.dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("dropdir: creating watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("dropdir: watching %s: %w", w.dir, err)
	}
	logger.Debug("watching %s for form documents", w.dir)
	close(w.ready)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.dispatch(ctx, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("dropdir: %v", err)
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		delete(w.seen, event.Name)
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !Accepts(event.Name) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return
	}
	current := stamp{size: info.Size(), modTime: info.ModTime()}
	if prev, ok := w.seen[event.Name]; ok && prev == current {
		return
	}

	if err := w.handle(ctx, event.Name); err != nil {
		logger.Warn("dropdir: %s: %v", filepath.Base(event.Name), err)
		return
	}
	w.seen[event.Name] = current
}

// Accepts reports whether path names a visible JSON or YAML document.
func Accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
