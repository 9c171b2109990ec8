package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/intentlang/internal/agent"
	"github.com/ziadkadry99/intentlang/internal/resources"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load every language file and report the ones that fail",
	Long: `Loads the language data of every intent and custom entity in every language
and prints one line per pair. Exits with status 1 if any pair fails to load.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringSlice("lang", nil, "only validate these languages (overrides config)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if langs, _ := cmd.Flags().GetStringSlice("lang"); len(langs) > 0 {
		cfg.Languages = langs
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ws, err := openWorkspace(cfg, logger)
	if err != nil {
		return err
	}
	report, err := ws.load(cmd.Context(), false)
	if err != nil {
		return err
	}

	printReport(os.Stdout, report)

	files, err := ws.source.Files(resources.Filter{Include: cfg.Include, Exclude: cfg.Exclude})
	if err != nil {
		return err
	}
	for _, f := range unusedFiles(ws.agent, files) {
		fmt.Printf("warning: %s does not belong to any intent or entity of %s\n", f.RelPath, ws.agent.Name())
	}

	if n := report.Failed(); n > 0 {
		return fmt.Errorf("%d of %d language files failed to load", n, len(report.Intents)+len(report.Entities))
	}
	fmt.Printf("All %d language files of %s loaded.\n", len(report.Intents)+len(report.Entities), report.Agent)
	return nil
}

func printReport(w io.Writer, report *agent.LoadReport) {
	for _, res := range report.Intents {
		if res.Err != nil {
			fmt.Fprintf(w, "FAIL %s/%s: %v\n", res.Language, res.Intent, res.Err)
			continue
		}
		fmt.Fprintf(w, "ok   %s/%s (%d examples)\n", res.Language, res.Intent, len(res.Data.ExampleUtterances))
	}
	for _, res := range report.Entities {
		if res.Err != nil {
			fmt.Fprintf(w, "FAIL %s/%s%s: %v\n", res.Language, resources.EntityFilePrefix, res.Entity, res.Err)
			continue
		}
		fmt.Fprintf(w, "ok   %s/%s%s (%d values)\n", res.Language, resources.EntityFilePrefix, res.Entity, len(res.Entries))
	}
}

// unusedFiles returns the language files that name no registered intent
// and no custom entity of a.
func unusedFiles(a *agent.Agent, files []resources.File) []resources.File {
	entities := make(map[string]bool)
	for _, e := range a.CustomEntities() {
		entities[string(e)] = true
	}
	var out []resources.File
	for _, f := range files {
		switch f.Kind {
		case resources.KindIntent:
			if _, ok := a.Intent(f.Name); ok {
				continue
			}
		case resources.KindEntity:
			if entities[f.Name] {
				continue
			}
		}
		out = append(out, f)
	}
	return out
}
