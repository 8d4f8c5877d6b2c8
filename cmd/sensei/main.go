// Sensei: an expert-skill knowledge server for AI agents.
//
// Sensei serves a curated library of expert skills over MCP: catalog
// listing and search, full-skill retrieval, regex validation of submitted
// code, known-pitfall scanning, persistent project memory, and plan
// orchestration.
//
// Usage:
//
//	sensei serve     # Start the MCP server (stdio transport)
//	sensei check     # Validate the skills directory and report load errors
//	sensei update    # Update to the latest release
//	sensei version   # Print the version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sensei",
	Short: "Expert-skill knowledge server for AI agents",
	Long: `Sensei indexes a directory of expert-skill documents and serves them to
AI coding agents over MCP: skill lookup and search, regex validation of
submitted code, known-pitfall analysis, and persistent project memory.

Add it to your AI tool's MCP config:

  {
    "mcpServers": {
      "sensei": {
        "command": "sensei",
        "args": ["serve"]
      }
    }
  }`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
