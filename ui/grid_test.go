package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/reelsearch/tmdb"
)

func sampleMovies() []tmdb.Movie {
	return []tmdb.Movie{
		{ID: 268, Title: "Batman", PosterPath: "/batman.jpg", ReleaseDate: "1989-06-23", VoteAverage: 7.2},
		{ID: 364, Title: "Batman Returns", ReleaseDate: "1992-06-19", VoteAverage: 6.9},
		{ID: 414, Title: "Batman Forever", PosterPath: "/forever.jpg", VoteAverage: 5.4},
	}
}

func TestGridTiles(t *testing.T) {
	g := NewGrid(tmdb.DefaultImages)
	g.SetMovies(sampleMovies())

	tiles := g.Tiles()
	require.Len(t, tiles, 3)

	assert.Equal(t, []string{"Batman", "Batman Returns", "Batman Forever"},
		[]string{tiles[0].Title, tiles[1].Title, tiles[2].Title})
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/batman.jpg", tiles[0].Poster)
	assert.Equal(t, tmdb.DefaultImages.PosterPlaceholder, tiles[1].Poster)
	assert.Contains(t, tiles[0].Meta, "1989")
	assert.Contains(t, tiles[2].Meta, "n/a")
}

func TestGridEmpty(t *testing.T) {
	g := NewGrid(tmdb.DefaultImages)
	assert.Empty(t, g.Tiles())
	assert.Empty(t, g.View())
	assert.Nil(t, g.Select())

	_, ok := g.Selected()
	assert.False(t, ok)
}

func TestGridCursor(t *testing.T) {
	g := NewGrid(tmdb.DefaultImages)
	g.SetWidth(2 * (tileWidth + 2 + tileGap))
	require.Equal(t, 2, g.Columns())
	g.SetMovies(sampleMovies())

	g.Move(1, 0)
	assert.Equal(t, 1, g.Cursor())

	g.Move(0, 1)
	assert.Equal(t, 2, g.Cursor(), "clamped to the last tile")

	g.Move(-5, -5)
	assert.Equal(t, 0, g.Cursor())

	g.SetCursor(2)
	g.SetMovies(sampleMovies()[:1])
	assert.Equal(t, 0, g.Cursor(), "cursor follows a shorter result set")
}

func TestGridSelect(t *testing.T) {
	g := NewGrid(tmdb.DefaultImages)
	g.SetMovies(sampleMovies())
	g.SetCursor(1)

	cmd := g.Select()
	require.NotNil(t, cmd)
	msg, ok := cmd().(MovieSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, int64(364), msg.Movie.ID)
}

func TestGridIndexAt(t *testing.T) {
	g := NewGrid(tmdb.DefaultImages)
	g.SetWidth(2 * (tileWidth + 2 + tileGap))
	g.SetMovies(sampleMovies())

	h := g.tileHeight()
	assert.Equal(t, 0, g.IndexAt(0, 0))
	assert.Equal(t, 1, g.IndexAt(tileWidth+2+tileGap, 1))
	assert.Equal(t, 2, g.IndexAt(0, h))
	assert.Equal(t, -1, g.IndexAt(tileWidth+2+tileGap, h), "no tile in that cell")
	assert.Equal(t, -1, g.IndexAt(-1, 0))
}
