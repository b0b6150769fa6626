package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mural/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Mutation Service: page and note operations
// ─────────────────────────────────────────────────────────────

// Clock returns the current instant.
type Clock func() time.Time

// IDGenerator returns a fresh page or note identifier.
type IDGenerator func() string

// MutationService applies one change to a collection and rewrites the whole
// document. It never holds the collection between calls: the caller passes
// the current value in and keeps the returned one.
//
// When the write fails the method returns a nil collection and the error;
// the caller must keep its previous value.
type MutationService struct {
	sink  domain.DocumentSink
	now   Clock
	newID IDGenerator
}

// MutationOption customizes a MutationService.
type MutationOption func(*MutationService)

// WithClock replaces the wall clock.
func WithClock(c Clock) MutationOption {
	return func(s *MutationService) { s.now = c }
}

// WithIDGenerator replaces the identifier source.
func WithIDGenerator(g IDGenerator) MutationOption {
	return func(s *MutationService) { s.newID = g }
}

// NewMutationService creates a MutationService writing through sink.
func NewMutationService(sink domain.DocumentSink, opts ...MutationOption) *MutationService {
	s := &MutationService{
		sink:  sink,
		now:   time.Now,
		newID: newTimeOrderedID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newTimeOrderedID returns a UUIDv7: ordered by creation time like a
// timestamp, but without collisions inside one clock tick.
func newTimeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *MutationService) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *MutationService) commit(ctx context.Context, c domain.Collection) (domain.Collection, error) {
	if err := s.sink.WriteDocument(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddPage puts a new empty page titled title at the front of the collection.
func (s *MutationService) AddPage(ctx context.Context, c domain.Collection, title string) (domain.Collection, error) {
	page := domain.NewPage(s.newID(), title, s.stamp())
	return s.commit(ctx, domain.WithPage(c, page))
}

// DeletePage removes the page with pageID. Unknown ids leave the collection as is.
func (s *MutationService) DeletePage(ctx context.Context, c domain.Collection, pageID string) (domain.Collection, error) {
	return s.commit(ctx, domain.WithoutPage(c, pageID))
}

// AddNote appends a note with default geometry to the page with pageID.
func (s *MutationService) AddNote(ctx context.Context, c domain.Collection, pageID, title, content string) (domain.Collection, error) {
	note := domain.NewNote(s.newID(), title, content, s.stamp())
	return s.commit(ctx, domain.WithNote(c, pageID, note))
}

// DeleteNote removes the note with noteID from the page with pageID.
func (s *MutationService) DeleteNote(ctx context.Context, c domain.Collection, pageID, noteID string) (domain.Collection, error) {
	return s.commit(ctx, domain.WithoutNote(c, pageID, noteID))
}

// ToggleMinimizeNote flips the note's minimized flag.
func (s *MutationService) ToggleMinimizeNote(ctx context.Context, c domain.Collection, pageID, noteID string) (domain.Collection, error) {
	return s.commit(ctx, domain.WithNoteToggled(c, pageID, noteID, domain.ToggleMinimized))
}

// ToggleMaximizeNote flips the note's maximized flag.
func (s *MutationService) ToggleMaximizeNote(ctx context.Context, c domain.Collection, pageID, noteID string) (domain.Collection, error) {
	return s.commit(ctx, domain.WithNoteToggled(c, pageID, noteID, domain.ToggleMaximized))
}
