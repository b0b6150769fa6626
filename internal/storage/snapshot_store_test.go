package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mural/internal/storage"
)

func openStore(t *testing.T) *storage.SnapshotStore {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "history", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.NewSnapshotStore(db)
}

func TestSnapshotStore_PushGet(t *testing.T) {
	s := openStore(t)

	snap := &storage.Snapshot{ID: "s1", Label: "manual", DocumentJSON: `[]`, PageCount: 0}
	require.NoError(t, s.Push(snap))
	assert.False(t, snap.CreatedAt.IsZero())

	got, err := s.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "manual", got.Label)
	assert.Equal(t, `[]`, got.DocumentJSON)
	assert.WithinDuration(t, snap.CreatedAt, got.CreatedAt, time.Second)
}

func TestSnapshotStore_GetMissing(t *testing.T) {
	_, err := openStore(t).Get("nope")
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)
}

func TestSnapshotStore_ListNewestFirst(t *testing.T) {
	s := openStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Push(&storage.Snapshot{
			ID:           id,
			DocumentJSON: `[]`,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	snaps, err := s.List()
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{snaps[0].ID, snaps[1].ID, snaps[2].ID})
	assert.Empty(t, snaps[0].DocumentJSON, "list carries metadata only")
}

func TestSnapshotStore_Prune(t *testing.T) {
	s := openStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.Push(&storage.Snapshot{
			ID:           id,
			DocumentJSON: `[]`,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	removed, err := s.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	snaps, err := s.List()
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "d", snaps[0].ID)
	assert.Equal(t, "c", snaps[1].ID)

	removed, err = s.Prune(0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
