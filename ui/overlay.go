package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/s0up4200/reelsearch/tmdb"
)

const closeLabel = "[x]"

// ScrollLock suspends scrolling of the page behind the overlay
type ScrollLock struct {
	mu   sync.Mutex
	held bool
}

func (l *ScrollLock) Acquire() {
	l.mu.Lock()
	l.held = true
	l.mu.Unlock()
}

func (l *ScrollLock) Release() {
	l.mu.Lock()
	l.held = false
	l.mu.Unlock()
}

func (l *ScrollLock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

type libraryState int

const (
	libraryUnknown libraryState = iota
	libraryChecking
	libraryMissing
	libraryPresent
	libraryAdding
	libraryUnavailable
)

// Overlay shows the details of one movie in a modal box. While it is open the
// page scroll lock is held.
type Overlay struct {
	movie   *tmdb.Movie
	images  tmdb.ImageConfig
	lock    *ScrollLock
	keys    keyMap
	library libraryState

	width  int
	height int
}

func NewOverlay(images tmdb.ImageConfig, lock *ScrollLock, keys keyMap) Overlay {
	return Overlay{images: images, lock: lock, keys: keys}
}

// Open shows movie and acquires the scroll lock
func (o *Overlay) Open(movie tmdb.Movie) {
	o.movie = &movie
	o.library = libraryUnknown
	o.lock.Acquire()
}

// Close hides the overlay and releases the scroll lock. Closing a closed overlay
// is a no-op.
func (o *Overlay) Close() {
	if o.movie == nil {
		return
	}
	o.movie = nil
	o.library = libraryUnknown
	o.lock.Release()
}

func (o Overlay) IsOpen() bool {
	return o.movie != nil
}

// Movie returns the displayed movie
func (o Overlay) Movie() (tmdb.Movie, bool) {
	if o.movie == nil {
		return tmdb.Movie{}, false
	}
	return *o.movie, true
}

// BackdropURL returns the backdrop URL of the displayed movie, falling back to the
// placeholder
func (o Overlay) BackdropURL() string {
	if o.movie == nil {
		return ""
	}
	return o.images.Backdrop(o.movie.BackdropPath)
}

func (o *Overlay) SetSize(width, height int) {
	o.width, o.height = width, height
}

func (o *Overlay) setLibrary(state libraryState) {
	o.library = state
}

// Update handles input while open. Keys other than the close and add bindings are
// swallowed so nothing behind the overlay reacts to them.
func (o Overlay) Update(msg tea.Msg) (Overlay, tea.Cmd) {
	if o.movie == nil {
		return o, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, o.keys.Close):
			o.Close()
		case key.Matches(msg, o.keys.Add) && o.library == libraryMissing:
			movie := *o.movie
			return o, func() tea.Msg { return addToLibraryMsg{movie: movie} }
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if o.closeHit(msg.X, msg.Y) {
				o.Close()
			}
		}
	}

	return o, nil
}

// closeHit reports whether a click lands on the backdrop or the close label
func (o Overlay) closeHit(x, y int) bool {
	box := o.box()
	bw, bh := lipgloss.Width(box), lipgloss.Height(box)
	left := max(0, (o.width-bw)/2)
	top := max(0, (o.height-bh)/2)

	if x < left || x >= left+bw || y < top || y >= top+bh {
		return true
	}

	// The close label sits on the first content row, right aligned.
	labelTop := top + modalStyle.GetBorderTopSize() + modalStyle.GetPaddingTop()
	labelRight := left + bw - modalStyle.GetBorderRightSize() - modalStyle.GetPaddingRight()
	return y == labelTop && x >= labelRight-len(closeLabel) && x < labelRight
}

func (o Overlay) contentWidth() int {
	w := o.width - modalStyle.GetHorizontalFrameSize() - 4
	return max(30, min(w, 72))
}

func (o Overlay) box() string {
	if o.movie == nil {
		return ""
	}
	m := *o.movie
	width := o.contentWidth()

	title := modalTitleStyle.Render(ansi.Truncate(m.Title, width-len(closeLabel)-1, "…"))
	gap := max(1, width-lipgloss.Width(title)-len(closeLabel))
	header := title + strings.Repeat(" ", gap) + faintStyle.Render(closeLabel)

	overview := m.Overview
	if overview == "" {
		overview = "No overview available."
	}

	lines := []string{
		header,
		"",
		lipgloss.NewStyle().Width(width).Render(overview),
		"",
		labelStyle.Render("Release Date: ") + valueOr(m.ReleaseDate, "unknown"),
		labelStyle.Render("Rating: ") + ratingStyle.Render("★ "+m.Rating()+"/10"),
		labelStyle.Render("Backdrop: ") + faintStyle.Render(ansi.Truncate(o.BackdropURL(), width-10, "…")),
	}
	if status := o.libraryLine(); status != "" {
		lines = append(lines, "", status)
	}

	return modalStyle.Render(strings.Join(lines, "\n"))
}

func (o Overlay) libraryLine() string {
	switch o.library {
	case libraryChecking:
		return faintStyle.Render("Radarr: checking library…")
	case libraryMissing:
		return fmt.Sprintf("Radarr: not in library  %s", faintStyle.Render("press a to add"))
	case libraryPresent:
		return toastSuccessIconStyle.UnsetBackground().Render("Radarr: in library ✓")
	case libraryAdding:
		return faintStyle.Render("Radarr: adding…")
	case libraryUnavailable:
		return errorStyle.Render("Radarr: unavailable")
	default:
		return ""
	}
}

func (o Overlay) View() string {
	if o.movie == nil {
		return ""
	}
	return lipgloss.Place(o.width, o.height, lipgloss.Center, lipgloss.Center, o.box(),
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(backdropStyle.GetForeground()),
	)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
