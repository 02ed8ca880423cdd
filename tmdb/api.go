package tmdb

import (
	"context"
)

// Searcher defines the search operation consumed by the UI and the CLI
type Searcher interface {
	// Search fetches one page of movie results
	Search(ctx context.Context, req SearchRequest) (*MoviesResponse, error)
}

// ConnectionTester verifies the configured credential against TMDB
type ConnectionTester interface {
	TestConnection(ctx context.Context) error
}
