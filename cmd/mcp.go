package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/intentlang/internal/audit"
	"github.com/ziadkadry99/intentlang/internal/catalog"
	"github.com/ziadkadry99/intentlang/internal/db"
	mcpserver "github.com/ziadkadry99/intentlang/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing the language
catalog to AI agents. The catalog is rebuilt on startup unless --no-index is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ws, err := openWorkspace(cfg, logger)
		if err != nil {
			return err
		}

		database, err := db.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store := catalog.NewStore(database)
		if noIndex, _ := cmd.Flags().GetBool("no-index"); !noIndex {
			if _, err := ws.index(cmd.Context(), store, audit.NewStore(database), audit.SourceStartup, false); err != nil {
				return err
			}
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		logger.Info("intentlang MCP server started on stdio")
		srv := mcpserver.NewServer(store, ws.agent)
		return srv.Serve()
	},
}

func init() {
	mcpCmd.Flags().Bool("no-index", false, "serve the existing catalog without reindexing")
	rootCmd.AddCommand(mcpCmd)
}
