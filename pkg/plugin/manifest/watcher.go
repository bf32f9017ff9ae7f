package manifest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrymomot/localemux/pkg/logger"
	"github.com/dmitrymomot/localemux/pkg/plugin"
)

// Runner starts and stops plugins. *plugin.Manager implements it.
type Runner interface {
	Start(ctx context.Context, p plugin.Plugin) error
	Stop(ctx context.Context, name string) error
}

// Watcher keeps the plugins described by the manifests in one directory running.
type Watcher struct {
	dir      string
	runner   Runner
	factory  Factory
	logger   *slog.Logger
	debounce time.Duration

	mu     sync.Mutex
	loaded map[string]string // manifest path -> plugin name
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the watcher logger. Nil is ignored.
func WithLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDebounce sets how long file events are collected before they are applied.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a Watcher for dir.
func NewWatcher(dir string, runner Runner, factory Factory, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dir:      filepath.Clean(dir),
		runner:   runner,
		factory:  factory,
		logger:   logger.Discard(),
		debounce: 100 * time.Millisecond,
		loaded:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(logger.Component("manifest"), logger.File(w.dir))
	return w
}

// Sync applies every manifest in the directory and stops plugins whose manifest is gone.
// Errors of individual manifests are joined; the others are still applied.
func (w *Watcher) Sync(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read manifest dir: %w", err)
	}

	present := make(map[string]struct{}, len(entries))
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !IsManifest(e.Name()) {
			continue
		}
		path := filepath.Join(w.dir, e.Name())
		present[path] = struct{}{}
		errs = append(errs, w.apply(ctx, path))
	}

	for _, path := range w.loadedPaths() {
		if _, ok := present[path]; !ok {
			errs = append(errs, w.apply(ctx, path))
		}
	}
	return errors.Join(errs...)
}

// Run watches the directory until ctx is done. Manifests already in the directory are
// applied first. Plugins stay running when Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create manifest watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	if err := w.Sync(ctx); err != nil {
		w.logger.ErrorContext(ctx, "initial manifest sync", logger.Error(err))
	}
	w.logger.InfoContext(ctx, "watching plugin manifests")

	pending := make(map[string]struct{})
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "manifest watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.DebugContext(ctx, "manifest changed",
				logger.File(event.Name),
				slog.String("op", event.Op.String()),
			)
			pending[filepath.Clean(event.Name)] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerCh = timer.C

		case <-timerCh:
			timerCh = nil
			for path := range pending {
				if err := w.apply(ctx, path); err != nil {
					w.logger.ErrorContext(ctx, "apply manifest", logger.File(path), logger.Error(err))
				}
				delete(pending, path)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.ErrorContext(ctx, "manifest watcher error", logger.Error(err))
		}
	}
}

// Loaded returns the plugin names started from manifests, keyed by manifest path.
func (w *Watcher) Loaded() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[string]string, len(w.loaded))
	for k, v := range w.loaded {
		out[k] = v
	}
	return out
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !IsManifest(event.Name) || filepath.Dir(filepath.Clean(event.Name)) != w.dir {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

// apply brings the plugin of one manifest in line with the file: started (or restarted)
// when the file exists, stopped when it doesn't. A manifest that fails to load leaves
// the running plugin untouched.
func (w *Watcher) apply(ctx context.Context, path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev, wasLoaded := w.loaded[path]

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if !wasLoaded {
			return nil
		}
		delete(w.loaded, path)
		w.logger.InfoContext(ctx, "manifest removed", logger.File(path), logger.Plugin(prev))
		return w.runner.Stop(ctx, prev)
	}

	p, err := Load(path, w.factory)
	if err != nil {
		return err
	}

	var errs []error
	if wasLoaded && prev != p.Name() {
		errs = append(errs, w.runner.Stop(ctx, prev))
	}
	w.loaded[path] = p.Name()
	errs = append(errs, w.runner.Start(ctx, p))
	return errors.Join(errs...)
}

func (w *Watcher) loadedPaths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.loaded))
	for path := range w.loaded {
		paths = append(paths, path)
	}
	return paths
}
