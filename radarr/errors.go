package radarr

import "errors"

// Common errors returned by the Radarr client.
var (
	// ErrAlreadyInLibrary is returned when adding a movie Radarr already tracks.
	ErrAlreadyInLibrary = errors.New("movie is already in the Radarr library")

	// ErrNoRootFolder is returned when no root folder is configured for new movies.
	ErrNoRootFolder = errors.New("no Radarr root folder configured")
)
