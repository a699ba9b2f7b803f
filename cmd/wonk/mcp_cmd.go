package main

import (
	"github.com/spf13/cobra"

	"github.com/etr/wonk-sub000/internal/mcpserver"
)

// version is overridden at build time via -ldflags, matching the teacher's
// convention for a single linkable version string.
var version = "dev"

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol surface",
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an MCP server over stdio, exposing read-only lookups as tools",
	Args:  cobra.NoArgs,
	RunE:  runMCPServe,
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}

	srv, err := mcpserver.New(root, version)
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.Serve(cmd.Context())
}
