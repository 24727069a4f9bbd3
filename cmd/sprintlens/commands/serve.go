package commands

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveMCP(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
