package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/s0up4200/reelsearch/tmdb"
)

const (
	tileWidth = 26
	tileGap   = 1
)

// Tile is the rendered content of one movie in the grid
type Tile struct {
	ID     int64
	Title  string
	Meta   string
	Poster string
}

// Grid lays movie tiles out in rows that fit the terminal width
type Grid struct {
	movies  []tmdb.Movie
	images  tmdb.ImageConfig
	cursor  int
	columns int
}

func NewGrid(images tmdb.ImageConfig) Grid {
	return Grid{images: images, columns: 1}
}

// SetMovies replaces the tiles and keeps the cursor in range
func (g *Grid) SetMovies(movies []tmdb.Movie) {
	g.movies = movies
	g.clampCursor()
}

// SetWidth recomputes how many tiles fit on a row
func (g *Grid) SetWidth(width int) {
	outer := tileWidth + 2 + tileGap
	g.columns = max(1, (width+tileGap)/outer)
}

func (g Grid) Len() int {
	return len(g.movies)
}

func (g Grid) Columns() int {
	return g.columns
}

func (g Grid) Cursor() int {
	return g.cursor
}

// ResetCursor moves the selection back to the first tile
func (g *Grid) ResetCursor() {
	g.cursor = 0
}

// Move shifts the cursor by dx columns and dy rows
func (g *Grid) Move(dx, dy int) {
	if len(g.movies) == 0 {
		return
	}
	g.cursor += dx + dy*g.columns
	g.clampCursor()
}

func (g *Grid) clampCursor() {
	if g.cursor >= len(g.movies) {
		g.cursor = len(g.movies) - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
}

// Selected returns the movie under the cursor
func (g Grid) Selected() (tmdb.Movie, bool) {
	if len(g.movies) == 0 {
		return tmdb.Movie{}, false
	}
	return g.movies[g.cursor], true
}

// Select emits a MovieSelectedMsg for the tile under the cursor
func (g Grid) Select() tea.Cmd {
	movie, ok := g.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return MovieSelectedMsg{Movie: movie}
	}
}

// Tiles returns one tile per movie in input order
func (g Grid) Tiles() []Tile {
	tiles := make([]Tile, 0, len(g.movies))
	for _, m := range g.movies {
		tiles = append(tiles, Tile{
			ID:     m.ID,
			Title:  m.Title,
			Meta:   tileMeta(m),
			Poster: g.images.Poster(m.PosterPath),
		})
	}
	return tiles
}

func tileMeta(m tmdb.Movie) string {
	year := "n/a"
	if y := m.Year(); y > 0 {
		year = fmt.Sprint(y)
	}
	return fmt.Sprintf("%s  %s", year, ratingStyle.Render("★ "+m.Rating()))
}

// CursorLine returns the first line of the row holding the cursor
func (g Grid) CursorLine() int {
	return (g.cursor / g.columns) * g.tileHeight()
}

// tileHeight returns the height of a row of tiles
func (g Grid) tileHeight() int {
	return lipgloss.Height(g.renderTile(Tile{}, false))
}

func (g Grid) renderTile(t Tile, selected bool) string {
	inner := tileWidth - 2
	lines := []string{
		tileTitleStyle.Render(ansi.Truncate(t.Title, inner, "…")),
		t.Meta,
		faintStyle.Render(ansi.Truncate(t.Poster, inner, "…")),
	}

	style := tileStyle
	if selected {
		style = selectedTileStyle
	}
	return style.Width(tileWidth).Render(strings.Join(lines, "\n"))
}

func (g Grid) View() string {
	tiles := g.Tiles()
	if len(tiles) == 0 {
		return ""
	}

	var rows []string
	for start := 0; start < len(tiles); start += g.columns {
		end := min(start+g.columns, len(tiles))
		cells := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				cells = append(cells, strings.Repeat(" ", tileGap))
			}
			cells = append(cells, g.renderTile(tiles[i], i == g.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// SetCursor moves the cursor to tile i
func (g *Grid) SetCursor(i int) {
	g.cursor = i
	g.clampCursor()
}

// IndexAt returns the tile at content coordinates x, y or -1 when there is none
func (g Grid) IndexAt(x, y int) int {
	if x < 0 || y < 0 {
		return -1
	}
	col := x / (tileWidth + 2 + tileGap)
	if col >= g.columns {
		return -1
	}
	idx := (y/g.tileHeight())*g.columns + col
	if idx >= len(g.movies) {
		return -1
	}
	return idx
}
