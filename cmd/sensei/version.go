package main

import (
	"fmt"

	"github.com/spf13/cobra"

	senseiserver "github.com/sensei-mcp/sensei/internal/server"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sensei v%s\n", senseiserver.Version)
	},
}
