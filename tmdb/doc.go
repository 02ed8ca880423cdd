// Package tmdb provides a client for The Movie Database (TMDB) v3 search API.
//
// Only the movie search endpoint is implemented. Requests are authenticated with a
// v4 read access token sent as a bearer credential.
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := tmdb.NewClient(
//		os.Getenv("TMDB_TOKEN"),
//		logger,
//		tmdb.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	page, err := client.SearchMovies(ctx, "batman", 1)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Error Handling
//
// Search failures are wrapped in a single "failed to fetch movies" error. The cause
// can be inspected with errors.As:
//
//   - TransportError: the request never produced an HTTP response (network, timeout)
//   - UpstreamError: TMDB answered with a non-2xx status
//
// Image paths returned by the API are relative; ImageConfig turns them into full URLs
// and substitutes a placeholder for empty paths.
package tmdb
