package tmdb

import (
	"fmt"
	"strconv"
	"strings"
)

// Movie is a single search result
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
}

// Year returns the release year, or 0 when the release date is unknown
func (m Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// Rating formats the average vote with one decimal place
func (m Movie) Rating() string {
	return strconv.FormatFloat(m.VoteAverage, 'f', 1, 64)
}

// DisplayTitle returns "Title (Year)" or just the title when the year is unknown
func (m Movie) DisplayTitle() string {
	if year := m.Year(); year > 0 {
		return fmt.Sprintf("%s (%d)", m.Title, year)
	}
	return m.Title
}

// MoviesResponse is one page of search results
type MoviesResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// IsEmpty reports whether the page carries no results
func (r *MoviesResponse) IsEmpty() bool {
	return r == nil || len(r.Results) == 0
}

// HasMorePages checks if there are more pages to fetch
func (r *MoviesResponse) HasMorePages() bool {
	return r != nil && r.Page < r.TotalPages
}

// SearchRequest identifies one page of one committed query
type SearchRequest struct {
	Query string
	Page  int
}

// Normalize trims the query and clamps the page to at least 1
func (r SearchRequest) Normalize() SearchRequest {
	r.Query = strings.TrimSpace(r.Query)
	if r.Page < 1 {
		r.Page = 1
	}
	return r
}

// String implements fmt.Stringer
func (r SearchRequest) String() string {
	return fmt.Sprintf("%q page %d", r.Query, r.Page)
}

// statusResponse is the error envelope TMDB returns on failures
type statusResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
