package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"
)

// Client represents a TMDB API client
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	language   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client. Unlike the other service clients it does not
// test the connection up front; use TestConnection for that.
func NewClient(token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
		httpClient.Timeout = o.timeout
	}

	return &Client{
		baseURL:    strings.TrimRight(o.baseURL, "/"),
		token:      token,
		userAgent:  o.userAgent,
		language:   o.language,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// doRequest performs an authenticated GET and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "GET " + endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
		var status statusResponse
		if json.Unmarshal(body, &status) == nil && status.StatusMessage != "" {
			apiErr.Message = status.StatusMessage
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, apiErr
	}

	return body, nil
}

// TestConnection validates the bearer token against the authentication endpoint
func (c *Client) TestConnection(ctx context.Context) error {
	body, err := c.doRequest(ctx, "/authentication", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to TMDB: %w", err)
	}

	var status statusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !status.Success {
		return fmt.Errorf("failed to connect to TMDB: %s", status.StatusMessage)
	}

	c.logger.Debug().Msg("Successfully connected to TMDB")
	return nil
}

// SearchMovies is a convenience wrapper around Search
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*MoviesResponse, error) {
	return c.Search(ctx, SearchRequest{Query: query, Page: page})
}

// Search fetches one page of movies matching the query
func (c *Client) Search(ctx context.Context, req SearchRequest) (*MoviesResponse, error) {
	req = req.Normalize()
	if req.Query == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("query", req.Query)
	params.Set("page", strconv.Itoa(req.Page))
	params.Set("include_adult", "false")
	if c.language != "" {
		params.Set("language", c.language)
	}

	body, err := c.doRequest(ctx, "/search/movie", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movies: %w", err)
	}

	var response MoviesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch movies: failed to parse response: %w", err)
	}
	if response.Results == nil {
		response.Results = []Movie{}
	}

	c.logger.Debug().
		Str("query", req.Query).
		Int("page", response.Page).
		Int("count", len(response.Results)).
		Int("total_pages", response.TotalPages).
		Int("total_results", response.TotalResults).
		Msg("Retrieved movies from TMDB")

	return &response, nil
}
