package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/intentlang/internal/agent"
	"github.com/ziadkadry99/intentlang/internal/audit"
	"github.com/ziadkadry99/intentlang/internal/catalog"
	"github.com/ziadkadry99/intentlang/internal/config"
	"github.com/ziadkadry99/intentlang/internal/db"
	"github.com/ziadkadry99/intentlang/internal/server"
	"github.com/ziadkadry99/intentlang/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API over the language catalog",
	Long: `Indexes the language folder, then serves the catalog as a read-only JSON API.
With --watch the catalog is rebuilt whenever a language file changes. The
agent manifest is reread on each rebuild.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("watch", false, "reindex when language files change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if p, _ := cmd.Flags().GetInt("port"); p > 0 {
		cfg.Server.Port = p
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

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := catalog.NewStore(database)
	history := audit.NewStore(database)
	if _, err := ws.index(ctx, store, history, audit.SourceStartup, false); err != nil {
		return err
	}
	current := agent.NewCurrent(ws.agent)

	srv := server.New(server.Config{
		Port:     cfg.Server.Port,
		AllowAll: cfg.Server.AllowAllOrigins,
	}, database, logger)
	catalog.RegisterRoutes(srv.Router(), store, current)
	audit.RegisterRoutes(srv.Router(), history)

	if watchFlag, _ := cmd.Flags().GetBool("watch"); watchFlag {
		w, err := watch.New(cfg.LanguageDir, watch.DefaultDebounce, logger)
		if err != nil {
			return err
		}
		defer w.Close()
		go func() {
			err := w.Run(ctx, func(ctx context.Context) error {
				return reload(ctx, cfg, logger, store, history, current)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watcher stopped", zap.Error(err))
			}
		}()
		logger.Info("watching language folder", zap.String("dir", cfg.LanguageDir))
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logger.Info("intentlang server starting",
		zap.String("version", Version),
		zap.Int("port", cfg.Server.Port),
		zap.String("database", database.Path()))

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// reload rereads the manifest and the language folder, then swaps in the
// new snapshot and agent. On error the previous ones stay in use.
func reload(ctx context.Context, cfg *config.Config, logger *zap.Logger, store *catalog.Store, history *audit.Store, current *agent.Current) error {
	ws, err := openWorkspace(cfg, logger)
	if err != nil {
		if logErr := history.Log(ctx, &audit.Entry{Source: audit.SourceWatch, Error: err.Error()}); logErr != nil {
			logger.Warn("recording index run", zap.Error(logErr))
		}
		return err
	}
	if _, err := ws.index(ctx, store, history, audit.SourceWatch, false); err != nil {
		return err
	}
	current.Store(ws.agent)
	return nil
}
