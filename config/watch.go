package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOption configures Watch.
type WatchOption func(*watcher)

type watcher struct {
	debounce time.Duration
	logger   *slog.Logger
}

// WithDebounce sets how long Watch waits for further events before
// reloading. Default is 100ms.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *watcher) {
		w.debounce = d
	}
}

// WithWatchLogger sets the logger for watcher errors.
func WithWatchLogger(l *slog.Logger) WatchOption {
	return func(w *watcher) {
		w.logger = l
	}
}

// Watch calls fn with the configuration at path, and again each time the
// file changes, until ctx is done. A file that fails to load is reported
// through fn with a nil Config; the previous configuration stays in effect
// for the caller.
//
// The directory of path is watched rather than the file itself, so
// editors replacing the file by rename are seen.
func Watch(ctx context.Context, path string, fn func(*Config, error), opts ...WatchOption) error {
	w := &watcher{debounce: 100 * time.Millisecond, logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	fn(Load(path))

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnContext(ctx, "config: watcher error", "path", path, "error", err)
		case <-timer.C:
			fn(Load(path))
		}
	}
}
