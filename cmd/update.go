package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const releaseRepository = "s0up4200/reelsearch"

// errDevBuild is returned when a build without a release version tries to update
var errDevBuild = errors.New("development builds cannot be updated; install a release build")

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:         "update",
	Short:       "Update reelsearch to the latest release",
	Long:        `Check GitHub for a newer release of reelsearch and replace the running binary with it.`,
	Annotations: map[string]string{skipInit: "true"},
	RunE:        runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	current, err := currentVersion(version)
	if err != nil {
		return err
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Validator: &selfupdate.ChecksumValidator{UniqueFilename: "checksums.txt"},
	})
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}

	return applyUpdate(ctx, w, updater, current)
}

// currentVersion parses the build version, refusing dev builds
func currentVersion(v string) (semver.Version, error) {
	if v == "" || v == "dev" {
		return semver.Version{}, errDevBuild
	}
	parsed, err := semver.ParseTolerant(v)
	if err != nil {
		return semver.Version{}, fmt.Errorf("%w: version %q: %v", errDevBuild, v, err)
	}
	return parsed, nil
}

// isNewer reports whether latest is a newer release than current
func isNewer(current semver.Version, latest string) (bool, error) {
	parsed, err := semver.ParseTolerant(latest)
	if err != nil {
		return false, fmt.Errorf("failed to parse release version %q: %w", latest, err)
	}
	return parsed.GT(current), nil
}

func applyUpdate(ctx context.Context, w io.Writer, updater *selfupdate.Updater, current semver.Version) error {
	fmt.Fprintf(w, "Checking for updates (current version %s)...\n", current)

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(releaseRepository))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		fmt.Fprintln(w, "No release found for this platform.")
		return nil
	}

	newer, err := isNewer(current, latest.Version())
	if err != nil {
		return err
	}
	if !newer {
		fmt.Fprintf(w, "✓ Already up to date (%s)\n", current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(w, "✓ Updated to %s\n", latest.Version())
	if notes := latest.ReleaseNotes; notes != "" {
		fmt.Fprintf(w, "\nRelease notes:\n%s\n", notes)
	}
	return nil
}
