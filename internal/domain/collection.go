package domain

// Collection is the full ordered set of pages that makes up the document.
//
// Collections are values: the With* / Without* functions below never modify
// their input and return a fresh top-level slice. Pages and notes that a
// transformation does not touch are shared with the input.
type Collection []Page

// FindPage returns the page with the given id, or nil.
func (c Collection) FindPage(id string) *Page {
	for i := range c {
		if c[i].ID == id {
			return &c[i]
		}
	}
	return nil
}

// Clone returns a deep copy of c.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i, p := range c {
		notes := make([]Note, len(p.Notes))
		copy(notes, p.Notes)
		p.Notes = notes
		out[i] = p
	}
	return out
}

// Normalize returns c with nil note slices replaced by empty ones so the
// document always encodes "notes": []. c itself is left untouched.
func (c Collection) Normalize() Collection {
	if c == nil {
		return Collection{}
	}
	out := c
	copied := false
	for i := range c {
		if c[i].Notes != nil {
			continue
		}
		if !copied {
			out = append(Collection(nil), c...)
			copied = true
		}
		out[i].Notes = []Note{}
	}
	return out
}

// WithPage prepends p.
func WithPage(c Collection, p Page) Collection {
	out := make(Collection, 0, len(c)+1)
	out = append(out, p)
	return append(out, c...)
}

// WithoutPage drops every page whose id equals pageID. The result is never
// nil, even for a nil input, so it encodes as [].
func WithoutPage(c Collection, pageID string) Collection {
	out := make(Collection, 0, len(c))
	for _, p := range c {
		if p.ID != pageID {
			out = append(out, p)
		}
	}
	return out
}

// WithNote appends n to the notes of the page matching pageID.
func WithNote(c Collection, pageID string, n Note) Collection {
	return mapPage(c, pageID, func(p Page) Page {
		notes := make([]Note, 0, len(p.Notes)+1)
		notes = append(notes, p.Notes...)
		p.Notes = append(notes, n)
		return p
	})
}

// WithoutNote drops the note matching noteID from the page matching pageID.
func WithoutNote(c Collection, pageID, noteID string) Collection {
	return mapPage(c, pageID, func(p Page) Page {
		notes := make([]Note, 0, len(p.Notes))
		for _, n := range p.Notes {
			if n.ID != noteID {
				notes = append(notes, n)
			}
		}
		p.Notes = notes
		return p
	})
}

// WithNoteToggled applies toggle to the note matching noteID inside the page
// matching pageID.
func WithNoteToggled(c Collection, pageID, noteID string, toggle func(*Note)) Collection {
	return mapPage(c, pageID, func(p Page) Page {
		notes := make([]Note, len(p.Notes))
		copy(notes, p.Notes)
		for i := range notes {
			if notes[i].ID == noteID {
				toggle(&notes[i])
			}
		}
		p.Notes = notes
		return p
	})
}

// ToggleMinimized flips the minimized flag.
func ToggleMinimized(n *Note) { n.Minimized = !n.Minimized }

// ToggleMaximized flips the maximized flag.
func ToggleMaximized(n *Note) { n.Maximized = !n.Maximized }

func mapPage(c Collection, pageID string, fn func(Page) Page) Collection {
	out := make(Collection, len(c))
	for i, p := range c {
		if p.ID == pageID {
			p = fn(p)
		}
		out[i] = p
	}
	return out
}
