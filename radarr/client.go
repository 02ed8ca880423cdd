package radarr

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"

	"github.com/s0up4200/reelsearch/tmdb"
)

// DefaultCacheTTL is how long the library listing is reused for membership checks
const DefaultCacheTTL = time.Minute

// AddOptions controls how new movies are added to Radarr
type AddOptions struct {
	QualityProfileID int64
	RootFolder       string
	Monitored        bool
	SearchOnAdd      bool
}

// Client wraps the starr Radarr client with a cached view of the library
type Client struct {
	api      RadarrAPI
	logger   zerolog.Logger
	add      AddOptions
	cacheTTL time.Duration

	mu        sync.Mutex
	library   map[int64]int64 // TMDB ID -> Radarr ID
	fetchedAt time.Time
}

// NewClient creates a new Radarr client
func NewClient(url, apiKey string, logger zerolog.Logger) (*Client, error) {
	config := starr.New(apiKey, url, 30*time.Second)
	radarrClient := radarr.New(config)

	// Test the connection
	if err := radarrClient.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Radarr: %w", err)
	}

	return NewClientWithAPI(radarrClient, logger), nil
}

// NewClientWithAPI creates a client around an existing API implementation
func NewClientWithAPI(api RadarrAPI, logger zerolog.Logger) *Client {
	return &Client{
		api:      api,
		logger:   logger,
		cacheTTL: DefaultCacheTTL,
	}
}

// SetAddOptions sets the defaults used by AddMovie
func (c *Client) SetAddOptions(opts AddOptions) {
	c.add = opts
}

// Ping tests the connection to Radarr
func (c *Client) Ping() error {
	return c.api.Ping()
}

// refreshLocked reloads the TMDB ID index of the library when it has expired.
// c.mu must be held.
func (c *Client) refreshLocked(ctx context.Context) error {
	if c.library != nil && time.Since(c.fetchedAt) < c.cacheTTL {
		return nil
	}

	movies, err := c.api.GetMovieContext(ctx, &radarr.GetMovie{})
	if err != nil {
		return fmt.Errorf("failed to get movies: %w", err)
	}

	library := make(map[int64]int64, len(movies))
	for _, movie := range movies {
		library[movie.TmdbID] = movie.ID
	}

	c.library = library
	c.fetchedAt = time.Now()

	c.logger.Debug().Msgf("Retrieved %d movies from Radarr", len(movies))
	return nil
}

// InLibrary reports whether Radarr already tracks the TMDB ID
func (c *Client) InLibrary(ctx context.Context, tmdbID int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.refreshLocked(ctx); err != nil {
		return false, err
	}
	_, ok := c.library[tmdbID]
	return ok, nil
}

// Count returns the number of movies in the library
func (c *Client) Count(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.refreshLocked(ctx); err != nil {
		return 0, err
	}
	return len(c.library), nil
}

// AddMovie adds a search result to Radarr using the configured AddOptions
func (c *Client) AddMovie(ctx context.Context, movie tmdb.Movie) error {
	if c.add.RootFolder == "" {
		return ErrNoRootFolder
	}

	exists, err := c.InLibrary(ctx, movie.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyInLibrary
	}

	input := &radarr.AddMovieInput{
		Title:               movie.Title,
		Year:                movie.Year(),
		TmdbID:              movie.ID,
		QualityProfileID:    c.add.QualityProfileID,
		RootFolderPath:      c.add.RootFolder,
		Monitored:           c.add.Monitored,
		MinimumAvailability: radarr.AvailabilityReleased,
		AddOptions: &radarr.AddMovieOptions{
			SearchForMovie: c.add.SearchOnAdd,
		},
	}

	added, err := c.api.AddMovieContext(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to add movie %s: %w", movie.Title, err)
	}

	c.mu.Lock()
	if c.library != nil {
		c.library[movie.ID] = added.ID
	}
	c.mu.Unlock()

	c.logger.Info().
		Str("title", movie.Title).
		Int64("tmdb_id", movie.ID).
		Int64("radarr_id", added.ID).
		Bool("search", c.add.SearchOnAdd).
		Msg("Added movie to Radarr")
	return nil
}
