package ui

import "github.com/s0up4200/reelsearch/tmdb"

// MovieSelectedMsg is emitted when a grid tile is activated
type MovieSelectedMsg struct {
	Movie tmdb.Movie
}

// PageChangedMsg is emitted by the pager with the 1-based target page
type PageChangedMsg struct {
	Page int
}

// pageLoadedMsg reports the end of a fetch for key
type pageLoadedMsg struct {
	key tmdb.SearchRequest
	err error
}

type toastExpiredMsg struct {
	id int
}

type addToLibraryMsg struct {
	movie tmdb.Movie
}

type libraryStatusMsg struct {
	tmdbID  int64
	present bool
	err     error
}

type libraryAddedMsg struct {
	movie tmdb.Movie
	err   error
}
