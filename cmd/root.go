package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/intentlang/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "intentlang",
	Short: "Parse and serve the language files of conversational intents",
	Long: `intentlang reads the per-language YAML files of a conversational agent,
checks their example utterances against each intent's parameters, parses
slot filling prompts and responses, and keeps the result in a catalog that
can be queried over HTTP or by AI agents via MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
