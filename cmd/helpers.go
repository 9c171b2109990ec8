package cmd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/intentlang/internal/agent"
	"github.com/ziadkadry99/intentlang/internal/audit"
	"github.com/ziadkadry99/intentlang/internal/catalog"
	"github.com/ziadkadry99/intentlang/internal/config"
	"github.com/ziadkadry99/intentlang/internal/logging"
	"github.com/ziadkadry99/intentlang/internal/progress"
	"github.com/ziadkadry99/intentlang/internal/resources"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `intentlang init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// setup loads the config and builds the logger every command shares.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// workspace is an agent manifest together with its language folder.
type workspace struct {
	cfg    *config.Config
	logger *zap.Logger
	agent  *agent.Agent
	source *resources.Source
}

// openWorkspace reads the agent manifest and opens the language folder.
func openWorkspace(cfg *config.Config, logger *zap.Logger) (*workspace, error) {
	a, err := agent.LoadManifest(cfg.Agent)
	if err != nil {
		return nil, err
	}
	src, err := resources.Open(cfg.LanguageDir, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("workspace opened",
		zap.String("agent", a.Name()), zap.Int("intents", len(a.Intents())), zap.String("language_dir", src.Dir()))
	return &workspace{cfg: cfg, logger: logger, agent: a, source: src}, nil
}

// load loads every language file of the workspace. Progress is shown
// when showProgress is set.
func (w *workspace) load(ctx context.Context, showProgress bool) (*agent.LoadReport, error) {
	opts := agent.LoadOptions{
		Languages:   w.cfg.LanguageCodes(),
		Concurrency: w.cfg.MaxConcurrency,
		Logger:      w.logger,
	}
	var reporter progress.Reporter
	if showProgress {
		reporter = progress.NewReporter()
		opts.OnProgress = progress.Func(reporter)
	}
	report, err := agent.LoadLanguages(ctx, w.agent, w.source, opts)
	if reporter != nil {
		reporter.Finish()
	}
	return report, err
}

// fingerprint digests the language files selected by the config.
func (w *workspace) fingerprint() (string, error) {
	files, err := w.source.Files(resources.Filter{Include: w.cfg.Include, Exclude: w.cfg.Exclude})
	if err != nil {
		return "", err
	}
	return resources.Fingerprint(files), nil
}

// index loads the workspace and writes the result as the new catalog
// snapshot. Pair failures are stored, not returned. Every run, failed or
// not, is recorded in history.
func (w *workspace) index(ctx context.Context, store *catalog.Store, history *audit.Store, source audit.Source, showProgress bool) (*catalog.Snapshot, error) {
	start := time.Now()
	entry := &audit.Entry{Source: source, Agent: w.agent.Name()}

	snap, report, err := w.replace(ctx, store, showProgress)
	entry.Duration = time.Since(start)
	if err != nil {
		entry.Error = err.Error()
	} else {
		entry.SnapshotID = snap.ID
		entry.Fingerprint = snap.Fingerprint
		entry.PairCount = len(report.Intents) + len(report.Entities)
		entry.FailedCount = report.Failed()
		entry.Failures = failures(report)
	}
	if logErr := history.Log(ctx, entry); logErr != nil {
		w.logger.Warn("recording index run", zap.Error(logErr))
	}
	if err != nil {
		return nil, err
	}

	w.logger.Info("catalog updated",
		zap.String("snapshot", snap.ID),
		zap.String("source", string(source)),
		zap.Bool("changed", entry.Changed),
		zap.Int("pairs", entry.PairCount),
		zap.Int("failed", entry.FailedCount),
		zap.Duration("duration", entry.Duration))
	return snap, nil
}

func (w *workspace) replace(ctx context.Context, store *catalog.Store, showProgress bool) (*catalog.Snapshot, *agent.LoadReport, error) {
	report, err := w.load(ctx, showProgress)
	if err != nil {
		return nil, nil, fmt.Errorf("loading languages: %w", err)
	}
	fp, err := w.fingerprint()
	if err != nil {
		return nil, nil, fmt.Errorf("fingerprinting language files: %w", err)
	}
	snap, err := store.Replace(ctx, report, fp)
	if err != nil {
		return nil, nil, err
	}
	return snap, report, nil
}

// failures lists the pairs of report that did not load.
func failures(report *agent.LoadReport) []audit.Failure {
	var out []audit.Failure
	for _, res := range report.Intents {
		if res.Err != nil {
			out = append(out, audit.Failure{Path: fmt.Sprintf("%s/%s", res.Language, res.Intent), Error: res.Err.Error()})
		}
	}
	for _, res := range report.Entities {
		if res.Err != nil {
			out = append(out, audit.Failure{
				Path:  fmt.Sprintf("%s/%s%s", res.Language, resources.EntityFilePrefix, res.Entity),
				Error: res.Err.Error(),
			})
		}
	}
	return out
}
