package layout

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sandrolain/bindtree/pkg/value"
)

// DefaultDebounce is the quiet period Watch waits for after the last change
// before reloading.
const DefaultDebounce = 100 * time.Millisecond

type watchOptions struct {
	debounce time.Duration
	logger   *slog.Logger
}

// WatchOption configures Watch.
type WatchOption func(*watchOptions)

// WithDebounce sets the quiet period after the last change.
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		o.debounce = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) WatchOption {
	return func(o *watchOptions) {
		o.logger = logger
	}
}

// Watch reloads the layout file at path whenever it changes and passes the
// result to onChange. Bursts of events are coalesced. The directory of path
// is watched, so editors that replace the file on save are handled.
// Watch blocks until ctx is done and then returns nil.
func Watch(ctx context.Context, path string, c Compiler, onChange func(value.Layout, error), opts ...WatchOption) error {
	options := watchOptions{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(path)
	dir := filepath.Dir(target)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	options.logger.Info("watching layout", "path", target)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(options.debounce)
			} else {
				timer.Reset(options.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			l, err := LoadFile(path, c)
			if err != nil {
				options.logger.Warn("layout reload failed", "path", target, "error", err)
			} else {
				options.logger.Info("layout reloaded", "path", target)
			}
			onChange(l, err)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			options.logger.Warn("watcher error", "error", err)
		}
	}
}
