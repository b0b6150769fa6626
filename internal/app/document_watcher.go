package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mural/internal/logger"
	"mural/internal/service"
	"mural/internal/storage"
)

// documentWatcher reloads the session when another process rewrites the
// document (a second window, an editor, a sync client) and emits an event so
// the presentation layer refreshes.
type documentWatcher struct {
	doc      *storage.DocumentFile
	session  *Session
	emitter  service.EventEmitter
	log      *logger.Logger
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
}

func newDocumentWatcher(doc *storage.DocumentFile, session *Session, emitter service.EventEmitter, debounce time.Duration, log *logger.Logger) *documentWatcher {
	return &documentWatcher{
		doc:      doc,
		session:  session,
		emitter:  emitter,
		debounce: debounce,
		log:      log.WithComponent("watcher"),
	}
}

// Start begins watching. The directory is watched rather than the file
// because the document is replaced by rename on every write.
func (w *documentWatcher) Start(ctx context.Context) error {
	w.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	target, err := filepath.Abs(w.doc.Path())
	if err != nil {
		watcher.Close()
		return fmt.Errorf("resolve document path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %q: %w", filepath.Dir(target), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	w.mu.Lock()
	w.watcher = watcher
	w.cancel = cancel
	w.done = done
	w.mu.Unlock()

	go w.loop(watchCtx, watcher, target, done)

	w.log.Infow("watching document", "path", target)
	return nil
}

// Stop terminates the watch loop and waits for it to exit.
func (w *documentWatcher) Stop() {
	w.mu.Lock()
	watcher, cancel, done := w.watcher, w.cancel, w.done
	w.watcher, w.cancel, w.done = nil, nil, nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if watcher != nil {
		watcher.Close()
	}
	if done != nil {
		<-done
	}
}

func (w *documentWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher, target string, done chan struct{}) {
	defer close(done)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if abs, _ := filepath.Abs(event.Name); abs != target {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() { w.check(ctx) })
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("watch error")
		}
	}
}

// check reloads the session unless the file holds what the session last wrote.
func (w *documentWatcher) check(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	raw, err := w.doc.ReadRaw(ctx)
	if err != nil {
		w.log.WithError(err).Warn("read document failed")
		return
	}
	// removed, or mid-replace; the following create event triggers another check
	if raw == nil {
		return
	}
	if w.session.InSync(raw) {
		return
	}

	c, err := w.session.Reload(ctx)
	if err != nil {
		w.log.WithError(err).Error("reload after external change failed")
		return
	}
	w.log.Infow("document changed externally, reloaded", "pages", len(c))
	w.emitter.Emit(ctx, service.EventExternalChange, map[string]int{"pages": len(c)})
}
