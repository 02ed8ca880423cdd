// Package ui implements the interactive movie search screen.
package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/s0up4200/reelsearch/query"
	"github.com/s0up4200/reelsearch/radarr"
	"github.com/s0up4200/reelsearch/tmdb"
)

const (
	appTitle = "🎬 reelsearch"

	defaultWidth  = 100
	defaultHeight = 30

	loadingText = "Loading movies…"
	errorText   = "Something went wrong while loading movies. Please try again."
	idleText    = "Type a movie title and press enter."
)

// Searches is the query coordinator for movie search pages
type Searches = query.Coordinator[tmdb.SearchRequest, *tmdb.MoviesResponse]

// Options configures the search screen
type Options struct {
	Images         tmdb.ImageConfig
	MaxPages       int
	NotifyDuration time.Duration
	PrefetchNext   bool
	InitialQuery   string

	// Library enables the Radarr badge and add action when set
	Library radarr.Library

	Logger zerolog.Logger
}

type focusArea int

const (
	focusSearch focusArea = iota
	focusGrid
)

// Model owns the committed query, the current page and the selected movie
type Model struct {
	ctx      context.Context
	searches *Searches
	opts     Options
	logger   zerolog.Logger
	keys     keyMap

	search    SearchBar
	grid      Grid
	pager     Pager
	overlay   Overlay
	toasts    Notifier
	noResults NoResultsTracker
	scroll    *ScrollLock
	spinner   spinner.Model
	viewport  viewport.Model
	help      help.Model

	committed string
	page      int
	result    query.Result[*tmdb.MoviesResponse]
	focus     focusArea

	width   int
	height  int
	gridTop int
	initCmd tea.Cmd
}

// New builds the screen. A non-blank InitialQuery is committed right away.
func New(ctx context.Context, searches *Searches, opts Options) Model {
	if opts.Images == (tmdb.ImageConfig{}) {
		opts.Images = tmdb.DefaultImages
	}

	keys := defaultKeyMap()
	keys.Add.SetEnabled(opts.Library != nil)

	lock := &ScrollLock{}

	m := Model{
		ctx:      ctx,
		searches: searches,
		opts:     opts,
		logger:   opts.Logger.With().Str("component", "ui").Logger(),
		keys:     keys,
		search:   NewSearchBar(),
		grid:     NewGrid(opts.Images),
		pager:    NewPager(opts.MaxPages),
		overlay:  NewOverlay(opts.Images, lock, keys),
		toasts:   NewNotifier(opts.NotifyDuration),
		scroll:   lock,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(appTitleStyle)),
		viewport: viewport.New(defaultWidth, defaultHeight),
		help:     help.New(),
		page:     1,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.layout()

	m.search.SetValue(opts.InitialQuery)
	if text, ok := m.search.Submit(); ok {
		var cmd tea.Cmd
		m.focusGrid()
		m, cmd = m.commit(text)
		m.initCmd = cmd
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.initCmd)
}

// Close releases the scroll lock if the overlay is still open
func (m Model) Close() {
	m.overlay.Close()
}

// Query returns the committed query
func (m Model) Query() string {
	return m.committed
}

// Page returns the current 1-based page
func (m Model) Page() int {
	return m.page
}

// Result returns what is displayed for the current page
func (m Model) Result() query.Result[*tmdb.MoviesResponse] {
	return m.result
}

func (m Model) key() tmdb.SearchRequest {
	return tmdb.SearchRequest{Query: m.committed, Page: m.page}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case MovieSelectedMsg:
		return m.openDetails(msg.Movie)

	case PageChangedMsg:
		return m.changePage(msg.Page)

	case pageLoadedMsg:
		return m.pageLoaded(msg)

	case toastExpiredMsg:
		m.toasts.Expire(msg.id)
		m.layout()
		return m, nil

	case addToLibraryMsg:
		return m.addToLibrary(msg.movie)

	case libraryStatusMsg:
		return m.libraryStatus(msg), nil

	case libraryAddedMsg:
		return m.libraryAdded(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and similar input housekeeping
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.Close()
		return m, tea.Quit
	}

	if m.overlay.IsOpen() {
		var cmd tea.Cmd
		m.overlay, cmd = m.overlay.Update(msg)
		return m, cmd
	}

	if m.focus == focusSearch {
		switch {
		case key.Matches(msg, m.keys.Submit):
			text, ok := m.search.Submit()
			if !ok {
				return m, nil
			}
			m.focusGrid()
			return m.commit(text)
		case msg.Type == tea.KeyEsc || msg.Type == tea.KeyTab:
			if m.committed != "" {
				m.focusGrid()
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		return m, m.focusSearch()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.keys.Select):
		if m.showGrid() {
			return m, m.grid.Select()
		}
	case key.Matches(msg, m.keys.NextPage):
		return m, m.pager.Next()
	case key.Matches(msg, m.keys.PrevPage):
		return m, m.pager.Prev()
	case key.Matches(msg, m.keys.FirstPage):
		return m, m.pager.First()
	case key.Matches(msg, m.keys.LastPage):
		return m, m.pager.Last()
	}

	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if tea.MouseEvent(msg).IsWheel() {
		if m.scroll.Held() {
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.overlay.IsOpen() {
		var cmd tea.Cmd
		m.overlay, cmd = m.overlay.Update(msg)
		return m, cmd
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || !m.showGrid() {
		return m, nil
	}

	idx := m.grid.IndexAt(msg.X, msg.Y-m.gridTop+m.viewport.YOffset)
	if msg.Y < m.gridTop || idx < 0 {
		return m, nil
	}
	m.grid.SetCursor(idx)
	m.viewport.SetContent(m.grid.View())
	return m, m.grid.Select()
}

// commit makes text the active query and starts over at page 1
func (m Model) commit(text string) (Model, tea.Cmd) {
	m.noResults.Arm(text)
	m.committed = text
	m.page = 1
	m.pager.SetPage(1)
	m.grid.ResetCursor()
	m.viewport.GotoTop()

	m.logger.Debug().Str("query", text).Msg("Committed search")
	return m.load()
}

func (m Model) changePage(page int) (Model, tea.Cmd) {
	if m.committed == "" {
		return m, nil
	}
	page = m.pager.Clamp(page)
	if page == m.page {
		return m, nil
	}

	m.page = page
	m.pager.SetPage(page)
	m.grid.ResetCursor()
	m.viewport.GotoTop()
	return m.load()
}

// load shows whatever the coordinator has for the current key and fetches when
// needed
func (m Model) load() (Model, tea.Cmd) {
	key := m.key()
	res, needFetch := m.searches.Request(key)

	m, cmd := m.apply(key, res)
	if !needFetch {
		return m, cmd
	}

	m.logger.Debug().Stringer("key", key).Msg("Fetching search results")
	return m, tea.Batch(cmd, m.fetch(key))
}

func (m Model) fetch(key tmdb.SearchRequest) tea.Cmd {
	ctx, searches := m.ctx, m.searches
	return func() tea.Msg {
		_, err := searches.Fetch(ctx, key)
		return pageLoadedMsg{key: key, err: err}
	}
}

func (m Model) prefetch(key tmdb.SearchRequest) tea.Cmd {
	ctx, searches := m.ctx, m.searches
	return func() tea.Msg {
		searches.Prefetch(ctx, key)
		return nil
	}
}

func (m Model) pageLoaded(msg pageLoadedMsg) (Model, tea.Cmd) {
	if msg.key != m.key() {
		m.logger.Debug().Stringer("key", msg.key).Msg("Dropping response for inactive search")
		return m, nil
	}
	if errors.Is(msg.err, context.Canceled) {
		return m, nil
	}
	return m.apply(msg.key, m.searches.Observe(msg.key))
}

// apply renders res for key. Arrival of a real result for the key is what the
// empty-result notification is evaluated against.
func (m Model) apply(key tmdb.SearchRequest, res query.Result[*tmdb.MoviesResponse]) (Model, tea.Cmd) {
	m.result = res

	var cmds []tea.Cmd
	switch {
	case res.HasData():
		data := res.Data
		m.grid.SetMovies(data.Results)
		m.pager.SetTotal(data.TotalPages)
		m.pager.SetPage(m.page)

		if !res.Placeholder {
			if m.noResults.ShouldNotify(key.Query, data) {
				cmds = append(cmds, m.toasts.Error(NoResultsMessage))
			}
			if m.opts.PrefetchNext && data.Page < min(data.TotalPages, m.pager.maxPages) {
				cmds = append(cmds, m.prefetch(tmdb.SearchRequest{Query: key.Query, Page: key.Page + 1}))
			}
		}

	case res.IsError():
		m.grid.SetMovies(nil)
		m.logger.Warn().Err(res.Err).Stringer("key", key).Msg("Search failed")

	default:
		m.grid.SetMovies(nil)
	}

	m.layout()
	return m, tea.Batch(cmds...)
}

func (m Model) openDetails(movie tmdb.Movie) (Model, tea.Cmd) {
	m.overlay.Open(movie)
	if m.opts.Library == nil {
		return m, nil
	}

	m.overlay.setLibrary(libraryChecking)
	ctx, lib := m.ctx, m.opts.Library
	return m, func() tea.Msg {
		present, err := lib.InLibrary(ctx, movie.ID)
		return libraryStatusMsg{tmdbID: movie.ID, present: present, err: err}
	}
}

func (m Model) overlayShows(tmdbID int64) bool {
	movie, ok := m.overlay.Movie()
	return ok && movie.ID == tmdbID
}

func (m Model) libraryStatus(msg libraryStatusMsg) Model {
	if !m.overlayShows(msg.tmdbID) {
		return m
	}

	switch {
	case msg.err != nil:
		m.logger.Warn().Err(msg.err).Int64("tmdb_id", msg.tmdbID).Msg("Failed to check Radarr library")
		m.overlay.setLibrary(libraryUnavailable)
	case msg.present:
		m.overlay.setLibrary(libraryPresent)
	default:
		m.overlay.setLibrary(libraryMissing)
	}
	return m
}

func (m Model) addToLibrary(movie tmdb.Movie) (Model, tea.Cmd) {
	if m.opts.Library == nil {
		return m, nil
	}

	m.overlay.setLibrary(libraryAdding)
	ctx, lib := m.ctx, m.opts.Library
	return m, func() tea.Msg {
		return libraryAddedMsg{movie: movie, err: lib.AddMovie(ctx, movie)}
	}
}

func (m Model) libraryAdded(msg libraryAddedMsg) (Model, tea.Cmd) {
	shown := m.overlayShows(msg.movie.ID)
	title := msg.movie.DisplayTitle()

	var cmd tea.Cmd
	switch {
	case msg.err == nil:
		if shown {
			m.overlay.setLibrary(libraryPresent)
		}
		cmd = m.toasts.Success(fmt.Sprintf("Added %s to Radarr", title))
	case errors.Is(msg.err, radarr.ErrAlreadyInLibrary):
		if shown {
			m.overlay.setLibrary(libraryPresent)
		}
		cmd = m.toasts.Success(fmt.Sprintf("%s is already in Radarr", title))
	default:
		m.logger.Error().Err(msg.err).Str("title", title).Msg("Failed to add movie to Radarr")
		if shown {
			m.overlay.setLibrary(libraryMissing)
		}
		cmd = m.toasts.Error(fmt.Sprintf("Could not add %s: %v", title, msg.err))
	}

	m.layout()
	return m, cmd
}

func (m *Model) focusGrid() {
	m.search.Blur()
	m.focus = focusGrid
}

func (m *Model) focusSearch() tea.Cmd {
	m.focus = focusSearch
	return m.search.Focus()
}

func (m *Model) moveCursor(dx, dy int) {
	if !m.showGrid() {
		return
	}
	m.grid.Move(dx, dy)
	m.viewport.SetContent(m.grid.View())

	top := m.grid.CursorLine()
	bottom := top + m.grid.tileHeight()
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

func (m Model) showGrid() bool {
	return m.result.HasData() && !m.result.Data.IsEmpty()
}

func (m Model) showPager() bool {
	return m.result.HasData() && Visible(m.result.Data.TotalPages, len(m.result.Data.Results))
}

// layout sizes the components to the terminal
func (m *Model) layout() {
	m.search.SetWidth(m.width - lipgloss.Width(appTitle) - 10)
	m.grid.SetWidth(m.width)
	m.overlay.SetSize(m.width, max(0, m.height-1))
	m.help.Width = m.width

	m.gridTop = lipgloss.Height(m.headerView()) + len(m.toasts.Active())

	reserved := m.gridTop + 1
	if m.showPager() {
		reserved++
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(1, m.height-reserved)
	m.viewport.SetContent(m.grid.View())
}

func (m Model) headerView() string {
	return lipgloss.JoinHorizontal(lipgloss.Center,
		appTitleStyle.Render(appTitle), "  ", m.search.View())
}

func (m Model) bodyView() string {
	switch {
	case m.committed == "":
		return hintStyle.Render(idleText)
	case m.result.IsLoading():
		return m.spinner.View() + " " + loadingText
	case m.result.IsError():
		return errorStyle.Render(errorText)
	case m.showGrid():
		return m.viewport.View()
	default:
		return ""
	}
}

func (m Model) helpView() string {
	switch {
	case m.overlay.IsOpen():
		return m.help.View(overlayHelp(m.keys))
	case m.focus == focusSearch:
		return m.help.View(searchHelp(m.keys))
	default:
		return m.help.View(gridHelp(m.keys))
	}
}

func (m Model) View() string {
	if m.overlay.IsOpen() {
		return lipgloss.JoinVertical(lipgloss.Left, m.overlay.View(), m.helpView())
	}

	sections := []string{m.headerView()}
	if toasts := m.toasts.View(m.width); toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, m.bodyView())
	if m.showPager() {
		sections = append(sections, lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.pager.View()))
	}
	sections = append(sections, m.helpView())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Run starts the interactive program and blocks until it exits
func Run(ctx context.Context, searches *Searches, opts Options, programOpts ...tea.ProgramOption) error {
	m := New(ctx, searches, opts)

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, programOpts...)...)
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
