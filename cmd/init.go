package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nselim/graphdesk/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize graphdesk configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure graphdesk for your project and generates a .graphdesk.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
