package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nselim/graphdesk/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the knowledge base to AI agents like Claude Code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client := newBackendClient(cfg)

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "graphdesk MCP server started on stdio (backend=%s)\n", client.BaseURL())

		srv := mcpserver.NewServer(client)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
