package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/intentlang/internal/language"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <intent>",
	Short: "Print the parsed language data of one intent as JSON",
	Args:  cobra.ExactArgs(1),
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
		intent, ok := ws.agent.Intent(args[0])
		if !ok {
			return fmt.Errorf("agent %s has no intent %q", ws.agent.Name(), args[0])
		}

		langFlag, _ := cmd.Flags().GetString("lang")
		lang, err := language.ParseCode(langFlag)
		if err != nil {
			return err
		}

		doc, err := ws.source.IntentDocument(intent.Name, lang)
		if err != nil {
			return &language.LanguageLoadError{IntentName: intent.Name, Cause: err}
		}
		data, err := language.LoadIntent(doc, intent)
		if err != nil {
			return err
		}

		var out any = data
		if g, _ := cmd.Flags().GetString("group"); g != "" {
			group, err := language.ParseResponseGroup(g)
			if err != nil {
				return err
			}
			responses := data.ResponsesFor(group)
			if responses == nil {
				responses = []language.IntentResponse{}
			}
			out = responses
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	dumpCmd.Flags().String("lang", string(language.English), "language code")
	dumpCmd.Flags().String("group", "", "only print the responses of this group (default or rich)")
	rootCmd.AddCommand(dumpCmd)
}
