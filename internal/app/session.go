package app

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"mural/internal/domain"
	"mural/internal/service"
	"mural/internal/storage"
)

// Session owns the collection for the lifetime of the process.
//
// It is the caller the mutation service expects: it serializes mutations so
// no two writes race on stale copies, and it only adopts a new collection
// after the write that produced it succeeded.
type Session struct {
	mu        sync.Mutex
	pages     domain.Collection
	mutations *service.MutationService
	store     domain.DocumentStore
	emitter   service.EventEmitter
}

var _ domain.DocumentSink = (*Session)(nil)

// NewSession creates a Session with an empty collection. Call Reload to load the document.
func NewSession(mutations *service.MutationService, store domain.DocumentStore, emitter service.EventEmitter) *Session {
	return &Session{
		pages:     domain.Collection{},
		mutations: mutations,
		store:     store,
		emitter:   emitter,
	}
}

// Pages returns a copy of the current collection.
func (s *Session) Pages() domain.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages.Clone()
}

// Page returns a copy of the page with id, or false.
func (s *Session) Page(id string) (domain.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.pages.FindPage(id)
	if p == nil {
		return domain.Page{}, false
	}
	return domain.Collection{*p}.Clone()[0], true
}

// Reload replaces the held collection with the persisted document.
func (s *Session) Reload(ctx context.Context) (domain.Collection, error) {
	c, err := s.store.ReadDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload: %w", err)
	}
	s.adopt(c)
	return c.Clone(), nil
}

// adopt makes c the current collection without writing it.
func (s *Session) adopt(c domain.Collection) {
	s.mu.Lock()
	s.pages = c.Normalize().Clone()
	s.mu.Unlock()
}

// WriteDocument replaces the document and the held collection with c under
// the same lock as the mutations. Snapshot restores go through here.
func (s *Session) WriteDocument(ctx context.Context, c domain.Collection) error {
	_, err := s.apply(ctx, func(domain.Collection) (domain.Collection, error) {
		if err := s.store.WriteDocument(ctx, c); err != nil {
			return nil, err
		}
		return c.Normalize().Clone(), nil
	})
	return err
}

// InSync reports whether raw is exactly what the session would write for
// its current collection. The watcher uses it to ignore its own writes.
func (s *Session) InSync(raw []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := storage.Encode(s.pages)
	if err != nil {
		return false
	}
	return bytes.Equal(data, raw)
}

func (s *Session) apply(ctx context.Context, fn func(domain.Collection) (domain.Collection, error)) (domain.Collection, error) {
	s.mu.Lock()
	next, err := fn(s.pages)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.pages = next
	out := next.Clone()
	s.mu.Unlock()

	s.emitter.Emit(ctx, service.EventPagesChanged, map[string]int{"pages": len(out)})
	return out, nil
}

// AddPage creates a page and returns it.
func (s *Session) AddPage(ctx context.Context, title string) (domain.Page, error) {
	c, err := s.apply(ctx, func(cur domain.Collection) (domain.Collection, error) {
		return s.mutations.AddPage(ctx, cur, title)
	})
	if err != nil {
		return domain.Page{}, err
	}
	return c[0], nil
}

// DeletePage removes a page. Unknown ids are a no-op.
func (s *Session) DeletePage(ctx context.Context, pageID string) (domain.Collection, error) {
	return s.apply(ctx, func(cur domain.Collection) (domain.Collection, error) {
		return s.mutations.DeletePage(ctx, cur, pageID)
	})
}

// AddNote appends a note to a page and returns it. The note is nil when no
// page matches pageID; the document is still rewritten.
func (s *Session) AddNote(ctx context.Context, pageID, title, content string) (*domain.Note, error) {
	c, err := s.apply(ctx, func(cur domain.Collection) (domain.Collection, error) {
		return s.mutations.AddNote(ctx, cur, pageID, title, content)
	})
	if err != nil {
		return nil, err
	}
	p := c.FindPage(pageID)
	if p == nil || len(p.Notes) == 0 {
		return nil, nil
	}
	n := p.Notes[len(p.Notes)-1]
	return &n, nil
}

// DeleteNote removes a note from a page.
func (s *Session) DeleteNote(ctx context.Context, pageID, noteID string) (domain.Collection, error) {
	return s.apply(ctx, func(cur domain.Collection) (domain.Collection, error) {
		return s.mutations.DeleteNote(ctx, cur, pageID, noteID)
	})
}

// ToggleMinimizeNote flips a note's minimized flag.
func (s *Session) ToggleMinimizeNote(ctx context.Context, pageID, noteID string) (domain.Collection, error) {
	return s.apply(ctx, func(cur domain.Collection) (domain.Collection, error) {
		return s.mutations.ToggleMinimizeNote(ctx, cur, pageID, noteID)
	})
}

// ToggleMaximizeNote flips a note's maximized flag.
func (s *Session) ToggleMaximizeNote(ctx context.Context, pageID, noteID string) (domain.Collection, error) {
	return s.apply(ctx, func(cur domain.Collection) (domain.Collection, error) {
		return s.mutations.ToggleMaximizeNote(ctx, cur, pageID, noteID)
	})
}
