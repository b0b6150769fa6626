package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mural/internal/domain"
)

var stamp = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func board() domain.Collection {
	p1 := domain.NewPage("p1", "Ideas", stamp)
	p1.Notes = []domain.Note{
		domain.NewNote("n1", "Buy milk", "2%", stamp),
		domain.NewNote("n2", "Call Bob", "", stamp),
	}
	p2 := domain.NewPage("p2", "Work", stamp)
	p2.Notes = []domain.Note{domain.NewNote("n3", "Standup", "10am", stamp)}
	return domain.Collection{p1, p2}
}

func TestNewNote_Defaults(t *testing.T) {
	n := domain.NewNote("n", "t", "c", stamp)

	assert.Equal(t, domain.Position{X: 100, Y: 100}, n.Position)
	assert.Equal(t, 200.0, n.Width)
	assert.Equal(t, 150.0, n.Height)
	assert.Equal(t, 1, n.ZIndex)
	assert.False(t, n.Minimized)
	assert.False(t, n.Maximized)
	assert.Equal(t, stamp, n.CreatedAt)
	assert.Equal(t, stamp, n.UpdatedAt)
}

func TestWithPage_Prepends(t *testing.T) {
	c := board()
	before := c.Clone()

	out := domain.WithPage(c, domain.NewPage("p0", "New", stamp))

	require.Len(t, out, 3)
	assert.Equal(t, "p0", out[0].ID)
	assert.Equal(t, before, out[1:])
	assert.Equal(t, before, c, "input must not change")
}

func TestWithoutPage(t *testing.T) {
	c := board()

	out := domain.WithoutPage(c, "p1")
	require.Len(t, out, 1)
	assert.Equal(t, "p2", out[0].ID)

	assert.Equal(t, c, domain.WithoutPage(c, "missing"))
	assert.Len(t, c, 2)

	empty := domain.WithoutPage(nil, "x")
	assert.NotNil(t, empty)
	assert.Equal(t, domain.Collection{}, empty)
}

func TestWithNote_AppendsToMatchingPageOnly(t *testing.T) {
	c := board()
	before := c.Clone()

	out := domain.WithNote(c, "p2", domain.NewNote("n4", "Lunch", "", stamp))

	require.Len(t, out[1].Notes, 2)
	assert.Equal(t, "n4", out[1].Notes[1].ID)
	assert.Equal(t, before[0], out[0])
	assert.Equal(t, before, c)
}

func TestWithNote_UnknownPageIsNoop(t *testing.T) {
	c := board()
	assert.Equal(t, c, domain.WithNote(c, "nope", domain.NewNote("x", "", "", stamp)))
}

func TestWithoutNote(t *testing.T) {
	c := board()

	out := domain.WithoutNote(c, "p1", "n1")
	require.Len(t, out[0].Notes, 1)
	assert.Equal(t, "n2", out[0].Notes[0].ID)
	assert.Len(t, c[0].Notes, 2)

	// the note id has to be on the named page
	assert.Equal(t, c, domain.WithoutNote(c, "p2", "n1"))
}

func TestWithNoteToggled_OnlyTouchesTargetFlag(t *testing.T) {
	c := board()

	out := domain.WithNoteToggled(c, "p1", "n2", domain.ToggleMinimized)

	require.True(t, out[0].Notes[1].Minimized)
	expected := c.Clone()
	expected[0].Notes[1].Minimized = true
	assert.Equal(t, expected, out)
	assert.False(t, c[0].Notes[1].Minimized, "input must not change")
}

func TestToggleFlagsAreIndependent(t *testing.T) {
	c := board()

	c = domain.WithNoteToggled(c, "p1", "n1", domain.ToggleMaximized)
	assert.True(t, c[0].Notes[0].Maximized)
	assert.False(t, c[0].Notes[0].Minimized)

	c = domain.WithNoteToggled(c, "p1", "n1", domain.ToggleMinimized)
	assert.True(t, c[0].Notes[0].Maximized)
	assert.True(t, c[0].Notes[0].Minimized)

	c = domain.WithNoteToggled(c, "p1", "n1", domain.ToggleMaximized)
	assert.False(t, c[0].Notes[0].Maximized)
	assert.True(t, c[0].Notes[0].Minimized)
}

func TestFindPageAndNote(t *testing.T) {
	c := board()

	p := c.FindPage("p2")
	require.NotNil(t, p)
	assert.Equal(t, "Work", p.Title)
	assert.Nil(t, c.FindPage("P2"), "lookup is exact")

	n := p.FindNote("n3")
	require.NotNil(t, n)
	assert.Equal(t, "Standup", n.Title)
	assert.Nil(t, p.FindNote("n1"))
}

func TestClone_IsDeep(t *testing.T) {
	c := board()
	cp := c.Clone()

	cp[0].Notes[0].Title = "changed"
	cp[1].Title = "changed"

	assert.Equal(t, "Buy milk", c[0].Notes[0].Title)
	assert.Equal(t, "Work", c[1].Title)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, domain.Collection{}, domain.Collection(nil).Normalize())

	c := domain.Collection{{ID: "a"}}
	out := c.Normalize()
	assert.NotNil(t, out[0].Notes)
	assert.Nil(t, c[0].Notes, "input must not change")
}
