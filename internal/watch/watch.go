// Package watch reports changes made to a .todo/ workspace by other
// processes.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for more changes before
// reporting them.
const DefaultDebounce = 100 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Dirs are the directories to watch (not recursive).
	Dirs []string

	// Debounce is how long to wait for more changes before notifying.
	Debounce time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// Watcher coalesces filesystem events in a set of directories into change
// notifications.
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   bool

	changes chan struct{}
}

// New creates a Watcher. Call Start to begin watching.
func New(config Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		changes: make(chan struct{}, 1),
	}, nil
}

// Changes returns the notification channel. At most one notification is
// buffered; a receiver that falls behind sees one notification for many
// changes. The channel is closed when the watcher stops.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Start adds the watches and processes events until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	for _, dir := range w.config.Dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.watcher.Close()
			return err
		}
		w.logger.Debug("Watching directory", "path", dir)
	}

	go w.processEvents(ctx)
	return nil
}

func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.config.Debounce)
	defer ticker.Stop()
	defer close(w.changes)
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

// handleEvent records a relevant change. Temporary files written during an
// atomic slot update are ignored; the rename onto the slot is what counts.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !Relevant(event) {
		return
	}

	w.pendingMu.Lock()
	w.pending = true
	w.pendingMu.Unlock()

	w.logger.Debug("Change detected", "path", event.Name, "op", event.Op.String())
}

func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	fire := w.pending
	w.pending = false
	w.pendingMu.Unlock()

	if !fire {
		return
	}
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// Relevant reports whether event can change the persisted task list.
func Relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.Contains(base, ".tmp-") {
		return false
	}
	return true
}
