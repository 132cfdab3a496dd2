// Package watch re-renders a chart whenever its data file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 100 * time.Millisecond

// RenderFunc rebuilds the output from scratch.
type RenderFunc func(ctx context.Context) error

type Option func(*Watcher)

func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

type Watcher struct {
	path     string
	render   RenderFunc
	logger   *log.Logger
	debounce time.Duration
}

func New(path string, render RenderFunc, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		render:   render,
		logger:   log.Default(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run renders once, then again after every burst of changes to the file,
// until ctx is done. The parent directory is watched so that editors which
// replace the file on save are still seen. A failed render is logged and
// the watcher keeps going.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	w.renderOnce(ctx)

	debounce := time.NewTimer(0)
	<-debounce.C
	defer debounce.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending = true
			debounce.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "err", err)

		case <-debounce.C:
			if pending {
				pending = false
				w.renderOnce(ctx)
			}
		}
	}
}

func (w *Watcher) renderOnce(ctx context.Context) {
	start := time.Now()
	if err := w.render(ctx); err != nil {
		w.logger.Error("render failed", "path", w.path, "err", err)
		return
	}
	w.logger.Info("rendered", "path", w.path, "took", time.Since(start).Round(time.Millisecond))
}
