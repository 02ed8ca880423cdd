package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/s0up4200/reelsearch/tmdb"
	"github.com/s0up4200/reelsearch/ui"
)

const overviewWidth = 100

// consoleFormatter renders search results as a tree for plain terminal output
type consoleFormatter struct {
	images tmdb.ImageConfig
}

func newConsoleFormatter(images tmdb.ImageConfig) *consoleFormatter {
	return &consoleFormatter{images: images}
}

// FormatResults formats one page of results. movies may be a filtered subset of
// resp.Results.
func (f *consoleFormatter) FormatResults(req tmdb.SearchRequest, resp *tmdb.MoviesResponse, movies []tmdb.Movie, inLibrary map[int64]bool) string {
	var sb strings.Builder

	// Header
	fmt.Fprintf(&sb, "\nMovies for %q (page %d of %d", req.Query, resp.Page, max(1, min(resp.TotalPages, ui.MaxPages)))
	if resp.TotalResults > 0 {
		fmt.Fprintf(&sb, ", %d results", resp.TotalResults)
	}
	sb.WriteString("):\n\n")

	if len(movies) == 0 {
		fmt.Fprintf(&sb, "None of the %d movies on this page match the filter.\n", len(resp.Results))
		return sb.String()
	}

	for i, movie := range movies {
		isLast := i == len(movies)-1
		prefix := "├"
		if isLast {
			prefix = "╰"
		}

		fmt.Fprintf(&sb, "%s── %s  ★ %s", prefix, movie.DisplayTitle(), movie.Rating())
		if inLibrary[movie.ID] {
			sb.WriteString(" [IN LIBRARY]")
		}
		sb.WriteString("\n")

		indent := "│   "
		if isLast {
			indent = "    "
		}

		if movie.ReleaseDate != "" {
			fmt.Fprintf(&sb, "%sReleased: %s\n", indent, movie.ReleaseDate)
		}
		fmt.Fprintf(&sb, "%sPoster: %s\n", indent, f.images.Poster(movie.PosterPath))
		if movie.Overview != "" {
			fmt.Fprintf(&sb, "%s%s\n", indent, ansi.Truncate(movie.Overview, overviewWidth, "..."))
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	if resp.HasMorePages() && resp.Page < ui.MaxPages {
		fmt.Fprintf(&sb, "\nMore results: --page %d\n", resp.Page+1)
	}

	return sb.String()
}
