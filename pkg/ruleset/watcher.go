package ruleset

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates store cache entries when backing rule-set files change
// on disk. The fingerprint check in Store.Load already guarantees
// correctness on its own; the watcher exists so that an edited rule set is
// dropped from the cache immediately instead of being detected on the next
// load. Events are debounced to avoid invalidation storms from editors that
// write files in several syscalls.
type Watcher struct {
	store    *Store
	dir      string
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Dir is the rule-set directory to watch.
	Dir string

	// Debounce is the quiet period before an invalidation fires after a
	// file event. Default: 100ms.
	Debounce time.Duration

	// Logger receives watch events. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewWatcher creates a watcher that clears store entries for changed files.
func NewWatcher(store *Store, config WatcherConfig) (*Watcher, error) {
	if config.Debounce <= 0 {
		config.Debounce = 100 * time.Millisecond
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		store:    store,
		dir:      config.Dir,
		debounce: config.Debounce,
		logger:   logger.With("component", "ruleset.watcher"),
		watcher:  fsw,
		pending:  make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch processes file events until the context is cancelled or Stop is
// called. It blocks; run it in its own goroutine.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %q: %w", w.dir, err)
	}

	w.logger.Info("rule set watcher started",
		"dir", w.dir,
		"debounce_ms", w.debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("rule set watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("rule set watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if name, ok := w.ruleSetName(event); ok {
				w.scheduleInvalidate(name, event.Op.String())
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			// Keep watching; a transient error must not stop invalidation.
			w.logger.Error("rule set watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.mu.Lock()
	for _, timer := range w.pending {
		timer.Stop()
	}
	w.pending = make(map[string]*time.Timer)
	w.mu.Unlock()

	return w.watcher.Close()
}

// ruleSetName maps a file event to a rule-set name, filtering out events
// that cannot affect a cached document.
func (w *Watcher) ruleSetName(event fsnotify.Event) (string, bool) {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return "", false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return "", false
	}

	ext := strings.ToLower(filepath.Ext(base))
	switch ext {
	case ".json", ".yaml", ".yml":
		return strings.TrimSuffix(base, filepath.Ext(base)), true
	}
	return "", false
}

// scheduleInvalidate drops the named cache entry after the debounce window,
// resetting the timer when further events arrive for the same name.
func (w *Watcher) scheduleInvalidate(name, op string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[name]; ok {
		timer.Stop()
	}

	w.pending[name] = time.AfterFunc(w.debounce, func() {
		w.store.Clear(name)
		w.logger.Info("rule set cache entry invalidated",
			"name", name,
			"op", op,
		)

		w.mu.Lock()
		delete(w.pending, name)
		w.mu.Unlock()
	})
}
