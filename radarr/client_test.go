package radarr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"

	"github.com/s0up4200/reelsearch/tmdb"
)

// mockRadarrAPI implements RadarrAPI for testing
type mockRadarrAPI struct {
	movies []*radarr.Movie
	getErr error
	added  []*radarr.AddMovieInput

	// Track calls for verification
	getMovieCalls int
}

func (m *mockRadarrAPI) GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error) {
	m.getMovieCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.movies, nil
}

func (m *mockRadarrAPI) AddMovieContext(ctx context.Context, movie *radarr.AddMovieInput) (*radarr.Movie, error) {
	m.added = append(m.added, movie)
	return &radarr.Movie{ID: int64(100 + len(m.added)), TmdbID: movie.TmdbID, Title: movie.Title}, nil
}

func (m *mockRadarrAPI) Ping() error {
	return nil
}

func newTestClient(api *mockRadarrAPI) *Client {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	client := NewClientWithAPI(api, logger)
	client.SetAddOptions(AddOptions{
		QualityProfileID: 4,
		RootFolder:       "/movies",
		Monitored:        true,
		SearchOnAdd:      true,
	})
	return client
}

func TestClient_InLibrary_Caching(t *testing.T) {
	mockAPI := &mockRadarrAPI{
		movies: []*radarr.Movie{
			{ID: 1, Title: "Batman", TmdbID: 268},
			{ID: 2, Title: "Heat", TmdbID: 949},
		},
	}
	client := newTestClient(mockAPI)
	client.cacheTTL = time.Second
	ctx := context.Background()

	ok, err := client.InLibrary(ctx, 268)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("expected TMDB 268 to be in library")
	}

	ok, err = client.InLibrary(ctx, 364)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected TMDB 364 to be missing")
	}

	if mockAPI.getMovieCalls != 1 {
		t.Errorf("expected 1 API call, got %d", mockAPI.getMovieCalls)
	}

	// Expire the cache
	client.fetchedAt = time.Now().Add(-2 * time.Second)
	if _, err := client.InLibrary(ctx, 268); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mockAPI.getMovieCalls != 2 {
		t.Errorf("expected cache refresh, got %d calls", mockAPI.getMovieCalls)
	}
}

func TestClient_InLibrary_Error(t *testing.T) {
	mockAPI := &mockRadarrAPI{getErr: errors.New("connection refused")}
	client := newTestClient(mockAPI)

	_, err := client.InLibrary(context.Background(), 268)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestClient_AddMovie(t *testing.T) {
	mockAPI := &mockRadarrAPI{
		movies: []*radarr.Movie{{ID: 1, Title: "Heat", TmdbID: 949}},
	}
	client := newTestClient(mockAPI)
	ctx := context.Background()

	movie := tmdb.Movie{ID: 268, Title: "Batman", ReleaseDate: "1989-06-23"}
	if err := client.AddMovie(ctx, movie); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mockAPI.added) != 1 {
		t.Fatalf("expected 1 add call, got %d", len(mockAPI.added))
	}
	input := mockAPI.added[0]
	if input.TmdbID != 268 || input.Title != "Batman" || input.Year != 1989 {
		t.Errorf("unexpected add input: %+v", input)
	}
	if input.QualityProfileID != 4 || input.RootFolderPath != "/movies" || !input.Monitored {
		t.Errorf("add options not applied: %+v", input)
	}
	if input.AddOptions == nil || !input.AddOptions.SearchForMovie {
		t.Errorf("expected search on add")
	}

	// The added movie is now reported as present without another listing
	ok, err := client.InLibrary(ctx, 268)
	if err != nil || !ok {
		t.Errorf("expected added movie in library, ok=%v err=%v", ok, err)
	}
	if mockAPI.getMovieCalls != 1 {
		t.Errorf("expected 1 listing call, got %d", mockAPI.getMovieCalls)
	}
	if id := client.library[268]; id != 101 {
		t.Errorf("expected Radarr ID 101 for added movie, got %d", id)
	}

	if err := client.AddMovie(ctx, movie); !errors.Is(err, ErrAlreadyInLibrary) {
		t.Errorf("expected ErrAlreadyInLibrary, got %v", err)
	}
}

func TestClient_AddMovie_NoRootFolder(t *testing.T) {
	client := NewClientWithAPI(&mockRadarrAPI{}, zerolog.Nop())

	err := client.AddMovie(context.Background(), tmdb.Movie{ID: 1, Title: "Alien"})
	if !errors.Is(err, ErrNoRootFolder) {
		t.Errorf("expected ErrNoRootFolder, got %v", err)
	}
}

func TestClient_Count(t *testing.T) {
	mockAPI := &mockRadarrAPI{
		movies: []*radarr.Movie{
			{ID: 1, Title: "Batman", TmdbID: 268},
			{ID: 2, Title: "Heat", TmdbID: 949},
		},
	}
	client := newTestClient(mockAPI)

	n, err := client.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 movies, got %d", n)
	}

	if err := client.AddMovie(context.Background(), tmdb.Movie{ID: 364, Title: "Batman Returns"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := client.Count(context.Background()); n != 3 {
		t.Errorf("expected added movie to be counted, got %d", n)
	}
}

func TestStarrClientImplementsAPI(t *testing.T) {
	var api RadarrAPI = radarr.New(starr.New("key", "http://localhost:7878", time.Second))
	if api == nil {
		t.Fatal("expected starr client")
	}
}
