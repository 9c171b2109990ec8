// Package watch reloads the language folder when its files change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports changes to the YAML files of a language folder. Language
// folders created after the watcher starts are picked up.
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   *zap.Logger
	fs       *fsnotify.Watcher
}

// New starts watching dir and every language folder below it.
func New(dir string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{dir: dir, debounce: debounce, logger: logger, fs: fw}

	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() && !hidden(e.Name()) {
			w.add(filepath.Join(dir, e.Name()))
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) {
	if err := w.fs.Add(path); err != nil {
		w.logger.Warn("cannot watch language folder", zap.String("path", path), zap.Error(err))
		return
	}
	w.logger.Debug("watching language folder", zap.String("path", path))
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run calls onChange once per burst of changes until ctx is done. An error
// from onChange is logged and does not stop the watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context) error) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("language file changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			if err := onChange(ctx); err != nil {
				w.logger.Error("reload failed", zap.Error(err))
			}
		}
	}
}

// relevant reports whether ev touches a language file. New language
// folders are added to the watch list as a side effect.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	name := filepath.Base(ev.Name)
	if hidden(name) {
		return false
	}
	if ev.Has(fsnotify.Create) && filepath.Dir(ev.Name) == filepath.Clean(w.dir) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			w.add(ev.Name)
			return true
		}
	}
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return strings.HasSuffix(name, ".yaml")
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
