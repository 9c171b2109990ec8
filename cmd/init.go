package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/intentlang/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize intentlang configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure intentlang for your agent and generates a .intentlang.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
