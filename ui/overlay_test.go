package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/reelsearch/tmdb"
)

func newTestOverlay(t *testing.T) (Overlay, *ScrollLock) {
	t.Helper()
	lock := &ScrollLock{}
	keys := defaultKeyMap()
	keys.Add.SetEnabled(true)

	o := NewOverlay(tmdb.DefaultImages, lock, keys)
	o.SetSize(100, 30)
	return o, lock
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

func TestOverlayOpenClose(t *testing.T) {
	o, lock := newTestOverlay(t)
	assert.False(t, o.IsOpen())
	assert.Empty(t, o.View())

	o.Open(sampleMovies()[0])
	assert.True(t, o.IsOpen())
	assert.True(t, lock.Held())

	o.Close()
	assert.False(t, o.IsOpen())
	assert.False(t, lock.Held())

	o.Close()
	assert.False(t, lock.Held(), "closing twice is harmless")
}

func TestOverlayCloseKeys(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune("x")},
	}

	for _, k := range keys {
		t.Run(k.String(), func(t *testing.T) {
			o, lock := newTestOverlay(t)
			o.Open(sampleMovies()[0])

			o, _ = o.Update(k)
			assert.False(t, o.IsOpen())
			assert.False(t, lock.Held())
		})
	}
}

func TestOverlayIgnoresOtherKeys(t *testing.T) {
	o, lock := newTestOverlay(t)
	o.Open(sampleMovies()[0])

	o, cmd := o.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.Nil(t, cmd)
	assert.True(t, o.IsOpen())
	assert.True(t, lock.Held())
}

func TestOverlayClicks(t *testing.T) {
	o, _ := newTestOverlay(t)
	o.Open(sampleMovies()[0])

	box := o.box()
	bw, bh := lipgloss.Width(box), lipgloss.Height(box)
	left, top := (o.width-bw)/2, (o.height-bh)/2

	t.Run("inside the box keeps it open", func(t *testing.T) {
		next, _ := o.Update(click(left+bw/2, top+bh-2))
		assert.True(t, next.IsOpen())
	})

	t.Run("backdrop closes", func(t *testing.T) {
		next, _ := o.Update(click(0, 0))
		assert.False(t, next.IsOpen())
	})

	t.Run("close label closes", func(t *testing.T) {
		o.Open(sampleMovies()[0])
		labelTop := top + 2
		labelRight := left + bw - 1 - 2
		next, _ := o.Update(click(labelRight-1, labelTop))
		assert.False(t, next.IsOpen())
	})

	t.Run("release is ignored", func(t *testing.T) {
		o.Open(sampleMovies()[0])
		msg := click(0, 0)
		msg.Action = tea.MouseActionRelease
		next, _ := o.Update(msg)
		assert.True(t, next.IsOpen())
	})
}

func TestOverlayBackdrop(t *testing.T) {
	o, _ := newTestOverlay(t)

	o.Open(tmdb.Movie{ID: 1, Title: "Nothing"})
	assert.Equal(t, tmdb.DefaultImages.BackdropPlaceholder, o.BackdropURL())
	assert.Contains(t, o.View(), "No overview available.")

	o.Open(tmdb.Movie{ID: 2, Title: "Heat", BackdropPath: "/heat.jpg", Overview: "A crew of thieves."})
	assert.Equal(t, "https://image.tmdb.org/t/p/original/heat.jpg", o.BackdropURL())
	assert.Contains(t, o.View(), "A crew of thieves.")
}

func TestOverlayAddKey(t *testing.T) {
	o, _ := newTestOverlay(t)
	movie := sampleMovies()[0]
	o.Open(movie)

	addKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}

	_, cmd := o.Update(addKey)
	assert.Nil(t, cmd, "add is only offered once the movie is known to be missing")

	o.setLibrary(libraryMissing)
	_, cmd = o.Update(addKey)
	require.NotNil(t, cmd)
	assert.Equal(t, addToLibraryMsg{movie: movie}, cmd())
}

func TestOverlayAddKeyDisabled(t *testing.T) {
	lock := &ScrollLock{}
	o := NewOverlay(tmdb.DefaultImages, lock, defaultKeyMap())
	o.Open(sampleMovies()[0])
	o.setLibrary(libraryMissing)

	_, cmd := o.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	assert.Nil(t, cmd)
}
