package radarr

import (
	"context"

	"golift.io/starr/radarr"

	"github.com/s0up4200/reelsearch/tmdb"
)

// RadarrAPI defines the subset of the Radarr API used for library handoff
type RadarrAPI interface {
	// Movie operations
	GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error)
	AddMovieContext(ctx context.Context, movie *radarr.AddMovieInput) (*radarr.Movie, error)

	// Health check
	Ping() error
}

var _ RadarrAPI = (*radarr.Radarr)(nil)

// Library is what the UI needs from a media library
type Library interface {
	InLibrary(ctx context.Context, tmdbID int64) (bool, error)
	AddMovie(ctx context.Context, movie tmdb.Movie) error
}
