package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reelsearch/tmdb"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to TMDB and Radarr",
	Long:  `Test the TMDB bearer token and, when enabled, the connection to your Radarr instance.`,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

// libraryCounter is the part of the Radarr client the test command reports on
type libraryCounter interface {
	Count(ctx context.Context) (int, error)
}

func runTest(cmd *cobra.Command, args []string) error {
	var library libraryCounter
	if radarrClient != nil {
		library = radarrClient
	}
	return testConnections(cmd.Context(), cmd.OutOrStdout(), tmdbClient, cfg.TMDB.BaseURL, cfg.Radarr.Enabled, cfg.Radarr.URL, library)
}

func testConnections(ctx context.Context, w io.Writer, tester tmdb.ConnectionTester, tmdbURL string, radarrEnabled bool, radarrURL string, library libraryCounter) error {
	fmt.Fprintf(w, "Testing connection to TMDB at %s...\n", tmdbURL)
	if err := tester.TestConnection(ctx); err != nil {
		fmt.Fprintln(w, "✗ Connection failed")
		return err
	}
	fmt.Fprintln(w, "✓ Connection successful!")

	if !radarrEnabled {
		fmt.Fprintln(w, "\nRadarr integration: Disabled")
		return nil
	}

	fmt.Fprintf(w, "\nTesting connection to Radarr at %s...\n", radarrURL)
	if library == nil {
		fmt.Fprintln(w, "✗ Radarr is enabled but could not be reached")
		return fmt.Errorf("radarr unavailable at %s", radarrURL)
	}

	total, err := library.Count(ctx)
	if err != nil {
		fmt.Fprintln(w, "✗ Failed to read the Radarr library")
		return err
	}
	fmt.Fprintln(w, "✓ Radarr connection successful!")

	fmt.Fprintf(w, "\nRadarr Statistics:\n")
	fmt.Fprintf(w, "- Total movies: %d\n", total)
	return nil
}
