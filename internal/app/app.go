package app

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"mural/internal/config"
	"mural/internal/domain"
	"mural/internal/logger"
	"mural/internal/service"
	"mural/internal/storage"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// App wires storage, services and the session together.
type App struct {
	cfg     *config.Config
	log     *logger.Logger
	fs     afero.Fs
	events *service.Broadcaster

	doc       *storage.DocumentFile
	db        *storage.DB
	mutations *service.MutationService
	history   *service.HistoryService
	session   *Session
	watcher   *documentWatcher
}

// Option customizes an App.
type Option func(*App)

// WithFs swaps the filesystem the document lives on.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithEmitter adds a receiver for session and history events.
func WithEmitter(e service.EventEmitter) Option {
	return func(a *App) { a.events.Subscribe(e) }
}

// New creates a new App. Call Startup before use.
func New(cfg *config.Config, log *logger.Logger, opts ...Option) *App {
	a := &App{
		cfg:    cfg,
		log:    log,
		fs:     afero.NewOsFs(),
		events: &service.Broadcaster{},
	}
	a.events.Subscribe(service.NewLogEmitter(log))
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Startup opens the snapshot archive, loads the document into the session
// and starts the snapshot schedule when one is configured.
func (a *App) Startup(ctx context.Context) error {
	a.doc = storage.NewDocumentFile(a.fs, a.cfg.Document.Path)
	a.mutations = service.NewMutationService(a.doc)
	a.session = NewSession(a.mutations, a.doc, a.events)

	pages, err := a.session.Reload(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	a.log.Infow("document loaded", "path", a.doc.Path(), "pages", len(pages))

	db, err := storage.New(a.cfg.History.DBPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	a.db = db
	a.history = service.NewHistoryService(
		storage.NewSnapshotStore(db),
		a.doc,
		a.session,
		a.cfg.History.MaxSnapshots,
		a.events,
		a.log,
	)
	if err := a.history.Schedule(ctx, a.cfg.History.Schedule); err != nil {
		return err
	}

	a.watcher = newDocumentWatcher(a.doc, a.session, a.events, a.cfg.Watch.Debounce, a.log)
	return nil
}

// Shutdown stops background work and closes the archive.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.history != nil {
		a.history.Stop()
		a.history.Wait(ctx)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.WithError(err).Warn("close history db")
		}
	}
}

// Session returns the collection owner.
func (a *App) Session() *Session {
	return a.session
}

// Watch reloads the session whenever another process rewrites the document.
func (a *App) Watch(ctx context.Context) error {
	return a.watcher.Start(ctx)
}

// ── History ────────────────────────────────────────────────

func (a *App) ListSnapshots() ([]storage.Snapshot, error) {
	return a.history.List()
}

func (a *App) TakeSnapshot(ctx context.Context, label string) (*storage.Snapshot, error) {
	return a.history.Snapshot(ctx, label)
}

// RestoreSnapshot rewrites the document from a snapshot. The write goes
// through the session, which adopts the restored pages.
func (a *App) RestoreSnapshot(ctx context.Context, id string) (domain.Collection, error) {
	return a.history.Restore(ctx, id)
}
