package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reelsearch/filter"
	"github.com/s0up4200/reelsearch/radarr"
	"github.com/s0up4200/reelsearch/tmdb"
	"github.com/s0up4200/reelsearch/ui"
)

var (
	searchPage int
	filterExpr string
	preset     string
	jsonOutput bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Print one page of search results",
	Long: `Search TMDB and print one page of results.

Results can be narrowed with a filter expression, for example:
  reelsearch search alien --filter 'Rating >= 7 && Year < 2000'
  reelsearch search batman --preset acclaimed`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchPage, "page", 1, "page of results to print")
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	searchCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	searchCmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

// searchRun bundles what one search invocation needs
type searchRun struct {
	Searches *ui.Searches
	Images   tmdb.ImageConfig
	Filter   *filter.ExprFilter
	Library  radarr.Library
	JSON     bool
}

func runSearch(cmd *cobra.Command, args []string) error {
	req := tmdb.SearchRequest{Query: strings.Join(args, " "), Page: searchPage}

	expression, err := getFilterExpression()
	if err != nil {
		return err
	}

	run := searchRun{
		Searches: searches,
		Images:   cfg.Images,
		JSON:     jsonOutput,
	}
	if radarrClient != nil {
		run.Library = radarrClient
	}
	if expression != "" {
		logger.Debug().Str("filter", expression).Msg("Applying filter")
		run.Filter, err = filter.Compile(expression)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	return run.Execute(cmd.Context(), cmd.OutOrStdout(), req)
}

// getFilterExpression determines the filter expression to use
func getFilterExpression() (string, error) {
	presets := make(map[string]string, len(cfg.Filter.Presets))
	for name, p := range cfg.Filter.Presets {
		presets[name] = p.Expression
	}
	return filter.Resolve(filterExpr, preset, presets, cfg.Filter.DefaultExpression)
}

// Execute fetches the page for req and writes it to w
func (r searchRun) Execute(ctx context.Context, w io.Writer, req tmdb.SearchRequest) error {
	req = req.Normalize()
	if req.Query == "" {
		return tmdb.ErrEmptyQuery
	}
	if req.Page > ui.MaxPages {
		req.Page = ui.MaxPages
	}

	resp, err := r.Searches.Fetch(ctx, req)
	if err != nil {
		return err
	}

	movies := resp.Results
	if r.Filter != nil {
		movies, err = r.Filter.Apply(movies)
		if err != nil {
			return err
		}
	}

	inLibrary := r.libraryMembership(ctx, movies)

	if r.JSON {
		return writeJSON(w, req, resp, movies, r.Images, inLibrary)
	}

	if resp.IsEmpty() {
		fmt.Fprintln(w, ui.NoResultsMessage)
		return nil
	}

	f := newConsoleFormatter(r.Images)
	fmt.Fprint(w, f.FormatResults(req, resp, movies, inLibrary))
	return nil
}

// libraryMembership looks up which movies Radarr already has. Failures only cost
// the badge.
func (r searchRun) libraryMembership(ctx context.Context, movies []tmdb.Movie) map[int64]bool {
	if r.Library == nil {
		return nil
	}

	present := make(map[int64]bool, len(movies))
	for _, m := range movies {
		ok, err := r.Library.InLibrary(ctx, m.ID)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to check Radarr library")
			return nil
		}
		present[m.ID] = ok
	}
	return present
}

type jsonMovie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Year        int    `json:"year,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	Rating      string `json:"rating"`
	Overview    string `json:"overview,omitempty"`
	PosterURL   string `json:"poster_url"`
	BackdropURL string `json:"backdrop_url"`
	InLibrary   *bool  `json:"in_library,omitempty"`
}

type jsonPage struct {
	Query        string      `json:"query"`
	Page         int         `json:"page"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
	Results      []jsonMovie `json:"results"`
}

func writeJSON(w io.Writer, req tmdb.SearchRequest, resp *tmdb.MoviesResponse, movies []tmdb.Movie, images tmdb.ImageConfig, inLibrary map[int64]bool) error {
	out := jsonPage{
		Query:        req.Query,
		Page:         resp.Page,
		TotalPages:   min(resp.TotalPages, ui.MaxPages),
		TotalResults: resp.TotalResults,
		Results:      make([]jsonMovie, 0, len(movies)),
	}

	for _, m := range movies {
		jm := jsonMovie{
			ID:          m.ID,
			Title:       m.Title,
			Year:        m.Year(),
			ReleaseDate: m.ReleaseDate,
			Rating:      m.Rating(),
			Overview:    m.Overview,
			PosterURL:   images.Poster(m.PosterPath),
			BackdropURL: images.Backdrop(m.BackdropPath),
		}
		if present, ok := inLibrary[m.ID]; ok {
			jm.InLibrary = &present
		}
		out.Results = append(out.Results, jm)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
