package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/reelsearch/config"
	"github.com/s0up4200/reelsearch/query"
	"github.com/s0up4200/reelsearch/radarr"
	"github.com/s0up4200/reelsearch/tmdb"
	"github.com/s0up4200/reelsearch/ui"
)

// skipInit marks commands that run without configuration
const skipInit = "skip-init"

var (
	cfgFile      string
	logLevel     string
	cfg          *config.Config
	logger       zerolog.Logger
	logFile      io.Closer
	tmdbClient   *tmdb.Client
	searches     *ui.Searches
	radarrClient *radarr.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reelsearch [query]",
	Short: "Search The Movie Database from your terminal",
	Long: `reelsearch is an interactive movie search for The Movie Database (TMDB).

Type a title, browse the paginated results and open a movie to see its details.
When Radarr is configured, movies can be handed off to your library from the
detail view.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
	RunE:               runRoot,
	SilenceUsage:       true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
}

// initializeApp loads configuration and creates the clients
func initializeApp(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipInit] == "true" {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	logger, logFile, err = setupLogger(cfg.Logging, runsTUI(cmd))
	if err != nil {
		return err
	}

	tmdbClient, err = tmdb.NewClient(cfg.TMDB.Token, logger,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithLanguage(cfg.TMDB.Language),
		tmdb.WithUserAgent("reelsearch/"+version),
	)
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	searches = newSearches(tmdbClient, cfg.Cache, logger)

	if cfg.Radarr.Enabled {
		radarrClient, err = radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to create Radarr client, continuing without library integration")
			radarrClient = nil
		} else {
			radarrClient.SetAddOptions(radarr.AddOptions{
				QualityProfileID: cfg.Radarr.QualityProfileID,
				RootFolder:       cfg.Radarr.RootFolder,
				Monitored:        cfg.Radarr.Monitored,
				SearchOnAdd:      cfg.Radarr.SearchOnAdd,
			})
			logger.Info().Msg("Radarr integration enabled")
		}
	}

	return nil
}

func shutdownApp(cmd *cobra.Command, args []string) error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}

// newSearches builds the query coordinator shared by the TUI and the search command
func newSearches(searcher tmdb.Searcher, cc config.CacheConfig, logger zerolog.Logger) *ui.Searches {
	return query.New(query.FetchFunc[tmdb.SearchRequest, *tmdb.MoviesResponse](searcher.Search),
		logger.With().Str("component", "query").Logger(),
		query.WithStaleTime(cc.StaleTime),
		query.WithRetries(cc.Retries),
		query.WithRetryDelay(cc.RetryDelay),
		query.WithMaxEntries(cc.MaxEntries),
		query.WithRetryIf(tmdb.IsRetryable),
	)
}

// setupLogger configures the zerolog logger. The interactive UI owns the terminal,
// so logs go to logging.file or nowhere while it runs.
func setupLogger(cfg config.LoggingConfig, interactive bool) (zerolog.Logger, io.Closer, error) {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	var (
		out    io.Writer = os.Stderr
		closer io.Closer
		color  = cfg.Color && isatty.IsTerminal(os.Stderr.Fd())
	)

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer, color = f, f, false
	} else if interactive {
		return zerolog.Nop(), nil, nil
	}

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger(), closer, nil
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger(), closer, nil
}

// runsTUI reports whether cmd will take over the terminal
func runsTUI(cmd *cobra.Command) bool {
	return !cmd.HasParent() && stdoutIsTerminal()
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// runRoot starts the interactive search, or prints one page when stdout is not a
// terminal
func runRoot(cmd *cobra.Command, args []string) error {
	initial := strings.Join(args, " ")

	if !stdoutIsTerminal() {
		if strings.TrimSpace(initial) == "" {
			return errors.New("no terminal detected: pass a query or use the search command")
		}
		return runSearch(cmd, args)
	}

	opts := ui.Options{
		Images:         cfg.Images,
		MaxPages:       cfg.UI.MaxPages,
		NotifyDuration: cfg.UI.NotificationDuration,
		PrefetchNext:   cfg.Cache.PrefetchNext,
		InitialQuery:   initial,
		Logger:         logger,
	}
	if radarrClient != nil {
		opts.Library = radarrClient
	}

	var programOpts []tea.ProgramOption
	if cfg.UI.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if cfg.UI.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	if err := ui.Run(cmd.Context(), searches, opts, programOpts...); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	stats := searches.Stats()
	logger.Debug().
		Int64("hits", stats.Hits).
		Int64("misses", stats.Misses).
		Int64("fetches", stats.Fetches).
		Int64("retries", stats.Retries).
		Msg("Search session finished")

	return nil
}
