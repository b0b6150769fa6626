package domain

import "time"

// Note geometry and stacking defaults applied to every new note.
const (
	DefaultNoteX      = 100
	DefaultNoteY      = 100
	DefaultNoteWidth  = 200
	DefaultNoteHeight = 150
	DefaultNoteZIndex = 1
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Position  Position  `json:"position"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Minimized bool      `json:"minimized"`
	Maximized bool      `json:"maximized"`
	ZIndex    int       `json:"zIndex"`
}

type Page struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     []Note    `json:"notes"`
}

// NewPage returns an empty page stamped with now.
func NewPage(id, title string, now time.Time) Page {
	return Page{
		ID:        id,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		Notes:     []Note{},
	}
}

// NewNote returns a note with the default position, size and display flags.
func NewNote(id, title, content string, now time.Time) Note {
	return Note{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Position:  Position{X: DefaultNoteX, Y: DefaultNoteY},
		Width:     DefaultNoteWidth,
		Height:    DefaultNoteHeight,
		ZIndex:    DefaultNoteZIndex,
	}
}

// FindNote returns the note with the given id, or nil.
func (p *Page) FindNote(id string) *Note {
	for i := range p.Notes {
		if p.Notes[i].ID == id {
			return &p.Notes[i]
		}
	}
	return nil
}
