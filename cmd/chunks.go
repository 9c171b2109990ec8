package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/intentlang/internal/agent"
	"github.com/ziadkadry99/intentlang/internal/language"
)

var chunksCmd = &cobra.Command{
	Use:   "chunks <intent> <example>",
	Short: "Split an annotated example utterance into chunks",
	Long: `Tokenizes an example such as "I am $user_name{Ada}" against the parameters
of an intent from the agent manifest and prints its text and entity chunks.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := agent.LoadManifest(cfg.Agent)
		if err != nil {
			return err
		}
		intent, ok := a.Intent(args[0])
		if !ok {
			return fmt.Errorf("agent %s has no intent %q", a.Name(), args[0])
		}

		chunks, err := language.Tokenize(args[1], intent.ParameterSchema(), intent.Name)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if chunks == nil {
				chunks = []language.UtteranceChunk{}
			}
			return enc.Encode(chunks)
		}
		for _, c := range chunks {
			switch c := c.(type) {
			case language.TextChunk:
				fmt.Printf("text    %q\n", c.Text)
			case language.EntityChunk:
				fmt.Printf("entity  %s=%q (%s)\n", c.ParameterName, c.ParameterValue, c.EntityType)
			}
		}
		fmt.Printf("plain   %q\n", language.PlainText(chunks))
		return nil
	},
}

func init() {
	chunksCmd.Flags().Bool("json", false, "print chunks as JSON")
	rootCmd.AddCommand(chunksCmd)
}
