package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"mural/internal/domain"
)

// DocumentFileName is the hidden file the collection lives in, relative to the home directory.
const DocumentFileName = ".mural_data.json"

var _ domain.DocumentStore = (*DocumentFile)(nil)

// DocumentFile persists the whole collection as one pretty-printed JSON file.
// Every write replaces the file; nothing is appended or diffed.
type DocumentFile struct {
	fs   afero.Fs
	path string
}

// NewDocumentFile returns a DocumentFile for path on fs.
func NewDocumentFile(fs afero.Fs, path string) *DocumentFile {
	return &DocumentFile{fs: fs, path: path}
}

// DefaultDocumentPath joins the user's home directory with DocumentFileName.
func DefaultDocumentPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DocumentFileName), nil
}

// Path returns the document location.
func (d *DocumentFile) Path() string {
	return d.path
}

// Encode renders c the way it is stored on disk: UTF-8 JSON, 2-space indent.
func Encode(c domain.Collection) ([]byte, error) {
	data, err := json.MarshalIndent(c.Normalize(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSerialize, err)
	}
	return data, nil
}

// Decode parses a stored document.
func Decode(data []byte) (domain.Collection, error) {
	var c domain.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRead, err)
	}
	return c.Normalize(), nil
}

// WriteDocument serializes c and replaces the document with it.
// The bytes go to a sibling temp file first and are renamed over the target.
func (d *DocumentFile) WriteDocument(ctx context.Context, c domain.Collection) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}
	return d.WriteRaw(ctx, data)
}

// WriteRaw replaces the document with already-encoded bytes.
func (d *DocumentFile) WriteRaw(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWrite, err)
	}
	if err := d.fs.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return fmt.Errorf("%w: create dir: %w", domain.ErrWrite, err)
	}

	tmp := d.path + ".tmp"
	if err := afero.WriteFile(d.fs, tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWrite, err)
	}
	if err := d.fs.Rename(tmp, d.path); err != nil {
		_ = d.fs.Remove(tmp)
		return fmt.Errorf("%w: rename: %w", domain.ErrWrite, err)
	}
	return nil
}

// ReadDocument loads the collection. A missing file is an empty collection.
func (d *DocumentFile) ReadDocument(ctx context.Context) (domain.Collection, error) {
	data, err := d.ReadRaw(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return domain.Collection{}, nil
	}
	return Decode(data)
}

// ReadRaw returns the document bytes, or nil when the file does not exist.
func (d *DocumentFile) ReadRaw(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRead, err)
	}
	data, err := afero.ReadFile(d.fs, d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrRead, err)
	}
	return data, nil
}
