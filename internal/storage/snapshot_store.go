package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrSnapshotNotFound is returned by Get for an unknown snapshot id.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is one archived copy of the whole document.
type Snapshot struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	DocumentJSON string    `json:"documentJson,omitempty"`
	PageCount    int       `json:"pageCount"`
	NoteCount    int       `json:"noteCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SnapshotStore manages document snapshots in SQLite.
type SnapshotStore struct {
	db *DB
}

func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Push stores a snapshot. CreatedAt is set when zero.
func (s *SnapshotStore) Push(snap *Snapshot) error {
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Conn().Exec(
		`INSERT INTO snapshots (id, label, document_json, page_count, note_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Label, snap.DocumentJSON, snap.PageCount, snap.NoteCount, snap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// List returns snapshot metadata, newest first. DocumentJSON is left empty.
func (s *SnapshotStore) List() ([]Snapshot, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, label, page_count, note_count, created_at
		 FROM snapshots ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Label, &snap.PageCount, &snap.NoteCount, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Get returns a snapshot including its document.
func (s *SnapshotStore) Get(id string) (*Snapshot, error) {
	snap := &Snapshot{}
	err := s.db.Conn().QueryRow(
		`SELECT id, label, document_json, page_count, note_count, created_at FROM snapshots WHERE id = ?`, id,
	).Scan(&snap.ID, &snap.Label, &snap.DocumentJSON, &snap.PageCount, &snap.NoteCount, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

// Prune keeps the newest maxSnapshots entries and deletes the rest.
// It returns how many snapshots were removed.
func (s *SnapshotStore) Prune(maxSnapshots int) (int, error) {
	if maxSnapshots <= 0 {
		return 0, nil
	}
	res, err := s.db.Conn().Exec(
		`DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, maxSnapshots,
	)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
