package domain

import (
	"context"
	"errors"
)

// Failure categories surfaced by document persistence. Callers match them with errors.Is.
var (
	ErrSerialize = errors.New("serialize document")
	ErrWrite     = errors.New("write document")
	ErrRead      = errors.New("read document")
)

// DocumentSink replaces the persisted document with c.
type DocumentSink interface {
	WriteDocument(ctx context.Context, c Collection) error
}

// DocumentSource loads the persisted document.
type DocumentSource interface {
	ReadDocument(ctx context.Context) (Collection, error)
}

// DocumentStore is a sink that can also be read back.
type DocumentStore interface {
	DocumentSink
	DocumentSource
}
