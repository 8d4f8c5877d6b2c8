package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	senseiserver "github.com/sensei-mcp/sensei/internal/server"
	"github.com/sensei-mcp/sensei/internal/updater"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update to the latest release",
	Long: `Check GitHub for a newer release and replace the current binary with
it. The server must be restarted by hand afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpdate()
	},
}

func runUpdate() error {
	fmt.Fprintln(os.Stderr, "Checking for updates...")

	result := updater.CheckVersion(senseiserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "Already at the latest version (v%s)\n", result.CurrentVersion)
		return nil
	}

	fmt.Fprintf(os.Stderr, "New version available: v%s -> v%s\n", result.CurrentVersion, result.LatestVersion)
	fmt.Fprintln(os.Stderr, "Downloading...")

	if err := updater.SelfUpdate(senseiserver.Version); err != nil {
		fmt.Fprintf(os.Stderr, "\nYou can download manually from:\n  %s\n", result.ReleaseURL)
		return errors.Wrap(err, "update failed")
	}

	fmt.Fprintf(os.Stderr, "Updated to v%s. Restart sensei to use the new version.\n", result.LatestVersion)
	return nil
}
