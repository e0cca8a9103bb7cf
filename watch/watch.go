// Package watch re-runs sync when authored files under the spec root
// change. Events for generated outputs and the lock file are suppressed,
// otherwise the engine's own writes would re-trigger it forever.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ucspec/ucsync/conf"
	"github.com/ucspec/ucsync/errors"
	"github.com/ucspec/ucsync/fixture"
	"github.com/ucspec/ucsync/logger"
)

// SyncFunc runs one full sync pass. Watch re-invokes it sequentially; it
// is never called concurrently with itself.
type SyncFunc func() error

// Watcher debounces filesystem events under a spec root into rate-limited
// resyncs.
type Watcher struct {
	root     string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	limiter  *rate.Limiter
	resync   SyncFunc
	log      *zap.SugaredLogger

	mu            sync.Mutex
	debounceTimer *time.Timer
	trigger       chan struct{}
}

// New creates a watcher over the configured spec root with every existing
// directory registered. Directories created later are picked up from their
// Create events.
func New(cfg *conf.Config, resync SyncFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		root:     cfg.Spec.Root,
		fsw:      fsw,
		debounce: cfg.DebounceDuration(),
		limiter:  rate.NewLimiter(rate.Every(cfg.MinSyncInterval()), 1),
		resync:   resync,
		log:      logger.ComponentLogger("watch"),
		trigger:  make(chan struct{}, 1),
	}

	if err := w.addRecursive(cfg.Spec.Root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run performs an initial sync, then blocks resyncing on changes until ctx
// is canceled. Sync failures are logged and the loop continues; the next
// change gets a fresh chance to succeed.
func (w *Watcher) Run(ctx context.Context) error {
	go w.eventLoop()
	defer w.fsw.Close()

	w.log.Infow("Watching for changes",
		logger.FieldPath, w.root,
		"debounce", w.debounce,
		"min_interval", w.limiter.Limit())

	if err := w.limiter.Wait(ctx); err != nil {
		return nil
	}
	w.runSync()

	for {
		select {
		case <-ctx.Done():
			w.log.Infow("Watch stopped")
			return nil
		case <-w.trigger:
			if err := w.limiter.Wait(ctx); err != nil {
				w.log.Infow("Watch stopped")
				return nil
			}
			w.runSync()
		}
	}
}

func (w *Watcher) runSync() {
	if err := w.resync(); err != nil {
		w.log.Errorw("Resync failed", logger.FieldError, err)
	}
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if ignored(event.Name) {
		return
	}

	// A freshly created directory has to be registered before anything
	// inside it can be seen.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.log.Warnw("Failed to watch new directory",
					logger.FieldPath, event.Name,
					logger.FieldError, err)
			}
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.log.Debugw("Change detected",
		logger.FieldPath, event.Name,
		"op", event.Op.String())
	w.scheduleTrigger()
}

// scheduleTrigger arms (or re-arms) the debounce timer; the trigger fires
// once the burst has been quiet for the full window.
func (w *Watcher) scheduleTrigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default: // a resync is already pending
		}
	})
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return errors.Wrapf(err, "failed to watch %s", p)
		}
		return nil
	})
}

// ignored reports whether a changed path must not trigger a resync: the
// lock file and generated outputs are the engine's own writes, and
// dotfiles are editor noise.
func ignored(path string) bool {
	base := filepath.Base(path)
	if base == conf.LockFileName {
		return true
	}
	if strings.HasPrefix(base, ".") {
		return true
	}
	return strings.HasPrefix(base, fixture.GeneratedPrefix)
}
