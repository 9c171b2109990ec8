package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/intentlang/internal/audit"
	"github.com/ziadkadry99/intentlang/internal/catalog"
	"github.com/ziadkadry99/intentlang/internal/db"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Load every language file and store the result in the catalog",
	Long: `Loads the language data of every intent and custom entity and writes it to
the SQLite catalog as a new snapshot, replacing the previous one. Pairs that
fail to load are stored with their error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if c, _ := cmd.Flags().GetInt("concurrency"); c > 0 {
			cfg.MaxConcurrency = c
		}

		ws, err := openWorkspace(cfg, logger)
		if err != nil {
			return err
		}

		database, err := db.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		history := audit.NewStore(database)
		snap, err := ws.index(cmd.Context(), catalog.NewStore(database), history, audit.SourceCLI, !verbose)
		if err != nil {
			return err
		}
		if keep, _ := cmd.Flags().GetDuration("prune-history"); keep > 0 {
			n, err := history.DeleteBefore(cmd.Context(), time.Now().Add(-keep))
			if err != nil {
				return err
			}
			logger.Debug("pruned index history", zap.Int64("deleted", n))
		}

		fmt.Printf("Indexed %d intent languages of %s in %s (%d failures)\n",
			snap.IntentCount, snap.Agent, time.Since(start).Round(time.Millisecond), snap.FailedCount)
		fmt.Printf("  Snapshot: %s\n", snap.ID)
		fmt.Printf("  Database: %s\n", database.Path())
		if snap.FailedCount > 0 {
			fmt.Println("Run `intentlang validate` to see the errors.")
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().Int("concurrency", 0, "max files loaded in parallel (overrides config)")
	indexCmd.Flags().Duration("prune-history", 0, "drop index history older than this, e.g. 720h")
	rootCmd.AddCommand(indexCmd)
}
