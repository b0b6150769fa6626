package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mural/internal/domain"
	"mural/internal/logger"
	"mural/internal/service"
	"mural/internal/storage"
)

type historyFixture struct {
	doc     *storage.DocumentFile
	history *service.HistoryService
	emitter *service.MockEmitter
}

func newHistoryFixture(t *testing.T, maxSnapshots int) *historyFixture {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	doc := storage.NewDocumentFile(afero.NewMemMapFs(), "/home/u/.mural_data.json")
	emitter := &service.MockEmitter{}
	h := service.NewHistoryService(storage.NewSnapshotStore(db), doc, doc, maxSnapshots, emitter, logger.NewNop())
	t.Cleanup(h.Stop)
	return &historyFixture{doc: doc, history: h, emitter: emitter}
}

func TestHistoryService_SnapshotAndRestore(t *testing.T) {
	ctx := context.Background()
	f := newHistoryFixture(t, 10)
	svc := service.NewMutationService(f.doc)

	c, err := svc.AddPage(ctx, domain.Collection{}, "Ideas")
	require.NoError(t, err)
	c, err = svc.AddNote(ctx, c, c[0].ID, "Buy milk", "2%")
	require.NoError(t, err)

	snap, err := f.history.Snapshot(ctx, "before cleanup")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.PageCount)
	assert.Equal(t, 1, snap.NoteCount)

	_, err = svc.DeletePage(ctx, c, c[0].ID)
	require.NoError(t, err)

	restored, err := f.history.Restore(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, c, restored)

	onDisk, err := f.doc.ReadDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, c, onDisk)

	assert.Equal(t, []string{service.EventSnapshotCreated, service.EventSnapshotRestored}, f.emitter.Names())
}

func TestHistoryService_SnapshotOfMissingDocument(t *testing.T) {
	f := newHistoryFixture(t, 10)

	snap, err := f.history.Snapshot(context.Background(), "empty")
	require.NoError(t, err)
	assert.Equal(t, "[]", snap.DocumentJSON)
	assert.Zero(t, snap.PageCount)
}

func TestHistoryService_Prunes(t *testing.T) {
	ctx := context.Background()
	f := newHistoryFixture(t, 2)

	for i := 0; i < 4; i++ {
		_, err := f.history.Snapshot(ctx, "s")
		require.NoError(t, err)
	}

	snaps, err := f.history.List()
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestHistoryService_RestoreUnknown(t *testing.T) {
	f := newHistoryFixture(t, 10)

	_, err := f.history.Restore(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)
}

func TestHistoryService_Schedule(t *testing.T) {
	f := newHistoryFixture(t, 10)
	ctx := context.Background()

	assert.Error(t, f.history.Schedule(ctx, "not a cron expression"))
	require.NoError(t, f.history.Schedule(ctx, "@every 1h"))
	require.NoError(t, f.history.Schedule(ctx, ""))
	f.history.Stop()
}

func TestHistoryService_RestoreWritesThroughSink(t *testing.T) {
	ctx := context.Background()
	db, err := storage.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	doc := storage.NewDocumentFile(afero.NewMemMapFs(), "/home/u/.mural_data.json")
	saved := domain.Collection{domain.NewPage("p1", "Ideas", fixedNow.Truncate(time.Millisecond))}
	require.NoError(t, doc.WriteDocument(ctx, saved))

	sink := &recordingSink{}
	h := service.NewHistoryService(storage.NewSnapshotStore(db), doc, sink, 10, service.NopEmitter{}, logger.NewNop())

	snap, err := h.Snapshot(ctx, "s")
	require.NoError(t, err)
	require.NoError(t, doc.WriteDocument(ctx, domain.Collection{}))

	_, err = h.Restore(ctx, snap.ID)
	require.NoError(t, err)
	require.Len(t, sink.writes, 1)
	assert.Equal(t, saved, sink.last())

	onDisk, err := doc.ReadDocument(ctx)
	require.NoError(t, err)
	assert.Empty(t, onDisk, "restore goes through the sink only")
}

func TestHistoryService_RestoreWriteFailure(t *testing.T) {
	ctx := context.Background()
	db, err := storage.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	doc := storage.NewDocumentFile(afero.NewMemMapFs(), "/home/u/.mural_data.json")
	emitter := &service.MockEmitter{}
	h := service.NewHistoryService(storage.NewSnapshotStore(db), doc, &recordingSink{err: domain.ErrWrite}, 10, emitter, logger.NewNop())

	snap, err := h.Snapshot(ctx, "s")
	require.NoError(t, err)

	_, err = h.Restore(ctx, snap.ID)
	assert.ErrorIs(t, err, domain.ErrWrite)
	assert.Equal(t, []string{service.EventSnapshotCreated}, emitter.Names())
}
