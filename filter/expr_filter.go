// Package filter narrows search results with expr-lang expressions such as
//
//	Rating >= 7.5 && Year > 2000 && !hasText(Title, "christmas")
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/reelsearch/tmdb"
)

// ExprFilter represents a compiled expr filter
type ExprFilter struct {
	program *vm.Program
	expr    string
}

// CompileExprFilter compiles an expr filter expression. Unknown identifiers are
// rejected at compile time.
func CompileExprFilter(expression string) (*ExprFilter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	program, err := expr.Compile(expression,
		expr.Env(movieEnv(tmdb.Movie{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{Expression: expression, Reason: err.Error(), Err: err}
	}

	return &ExprFilter{
		program: program,
		expr:    expression,
	}, nil
}

// Match evaluates the filter against a movie
func (f *ExprFilter) Match(movie tmdb.Movie) (bool, error) {
	result, err := expr.Run(f.program, movieEnv(movie))
	if err != nil {
		return false, &EvaluationError{Expression: f.expr, MovieTitle: movie.Title, Err: err}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expr,
			MovieTitle: movie.Title,
			Err:        fmt.Errorf("expression returned %T, want bool", result),
		}
	}
	return matched, nil
}

// Apply returns the movies matching the filter, preserving order
func (f *ExprFilter) Apply(movies []tmdb.Movie) ([]tmdb.Movie, error) {
	matched := make([]tmdb.Movie, 0, len(movies))
	for _, movie := range movies {
		ok, err := f.Match(movie)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, movie)
		}
	}
	return matched, nil
}

// String returns the original expression
func (f *ExprFilter) String() string {
	return f.expr
}

// movieEnv exposes movie fields and helper functions to expressions
func movieEnv(movie tmdb.Movie) map[string]any {
	return map[string]any{
		// Movie data
		"ID":          movie.ID,
		"Title":       movie.Title,
		"Year":        movie.Year(),
		"Rating":      movie.VoteAverage,
		"Overview":    movie.Overview,
		"ReleaseDate": movie.ReleaseDate,
		"HasPoster":   movie.PosterPath != "",
		"HasBackdrop": movie.BackdropPath != "",

		// Date helpers
		"released": func() time.Time {
			t, _ := time.Parse(time.DateOnly, movie.ReleaseDate)
			return t
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse(time.DateOnly, dateStr)
			return t
		},
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"yearsAgo": func(years int) time.Time {
			return time.Now().AddDate(-years, 0, 0)
		},
		"now": time.Now,

		// String helpers
		"hasText": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"hasPrefix": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"hasSuffix": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}
