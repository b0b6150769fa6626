package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"mural/internal/domain"
	"mural/internal/logger"
	"mural/internal/storage"
)

// ErrHistoryBusy is returned when the same history operation is already in progress.
var ErrHistoryBusy = errors.New("history operation already running")

const (
	snapshotTask = "snapshot"
	restoreTask  = "restore"
)

// HistoryService archives whole-document snapshots and restores them.
// Snapshots are full copies of the document, never diffs.
type HistoryService struct {
	store        *storage.SnapshotStore
	source       domain.DocumentSource
	sink         domain.DocumentSink
	emitter      EventEmitter
	log          *logger.Logger
	maxSnapshots int

	guard runGuard

	mu    sync.Mutex
	sched *cron.Cron
}

// NewHistoryService creates a HistoryService. Snapshots read the document
// from source; restores write through sink, which is the session in the app
// so a restore cannot interleave with a mutation. maxSnapshots <= 0 disables
// pruning.
func NewHistoryService(
	store *storage.SnapshotStore,
	source domain.DocumentSource,
	sink domain.DocumentSink,
	maxSnapshots int,
	emitter EventEmitter,
	log *logger.Logger,
) *HistoryService {
	return &HistoryService{
		store:        store,
		source:       source,
		sink:         sink,
		emitter:      emitter,
		log:          log.WithComponent("history"),
		maxSnapshots: maxSnapshots,
	}
}

// Snapshot archives the document as it currently is on disk.
func (s *HistoryService) Snapshot(ctx context.Context, label string) (*storage.Snapshot, error) {
	if !s.guard.TryLock(snapshotTask) {
		return nil, ErrHistoryBusy
	}
	defer s.guard.Unlock(snapshotTask)

	c, err := s.source.ReadDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	data, err := storage.Encode(c)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	snap := &storage.Snapshot{
		ID:           uuid.NewString(),
		Label:        label,
		DocumentJSON: string(data),
		PageCount:    len(c),
		NoteCount:    countNotes(c),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Push(snap); err != nil {
		return nil, err
	}

	if removed, err := s.store.Prune(s.maxSnapshots); err != nil {
		s.log.WithError(err).Warn("prune failed")
	} else if removed > 0 {
		s.log.Debugw("pruned snapshots", "removed", removed)
	}

	s.emitter.Emit(ctx, EventSnapshotCreated, map[string]string{"snapshotId": snap.ID})
	return snap, nil
}

// List returns archived snapshots, newest first.
func (s *HistoryService) List() ([]storage.Snapshot, error) {
	return s.store.List()
}

// Restore replaces the document with snapshot id through the sink and
// returns the restored collection.
func (s *HistoryService) Restore(ctx context.Context, id string) (domain.Collection, error) {
	if !s.guard.TryLock(restoreTask) {
		return nil, ErrHistoryBusy
	}
	defer s.guard.Unlock(restoreTask)

	snap, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	c, err := storage.Decode([]byte(snap.DocumentJSON))
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", id, err)
	}
	if err := s.sink.WriteDocument(ctx, c); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, EventSnapshotRestored, map[string]string{"snapshotId": id})
	return c, nil
}

// Schedule starts taking snapshots on the cron expression expr, replacing
// any previous schedule. An empty expr just stops the current one.
func (s *HistoryService) Schedule(ctx context.Context, expr string) error {
	s.Stop()
	if expr == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		snap, err := s.Snapshot(ctx, "scheduled")
		switch {
		case errors.Is(err, ErrHistoryBusy):
			s.log.Debugw("scheduled snapshot skipped, another run in progress")
		case err != nil:
			s.log.WithError(err).Error("scheduled snapshot failed")
		default:
			s.log.Infow("scheduled snapshot taken", "snapshot_id", snap.ID, "pages", snap.PageCount)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	c.Start()

	s.mu.Lock()
	s.sched = c
	s.mu.Unlock()
	s.log.Infow("snapshot schedule started", "schedule", expr)
	return nil
}

// Stop tears down the schedule, waiting for a job started by it to finish.
func (s *HistoryService) Stop() {
	s.mu.Lock()
	sched := s.sched
	s.sched = nil
	s.mu.Unlock()
	if sched != nil {
		<-sched.Stop().Done()
	}
}

// Wait blocks until any in-flight snapshot or restore finishes or ctx is done.
func (s *HistoryService) Wait(ctx context.Context) {
	s.guard.WaitAll(ctx)
}

func countNotes(c domain.Collection) int {
	n := 0
	for _, p := range c {
		n += len(p.Notes)
	}
	return n
}
