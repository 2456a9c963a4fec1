package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the registered source types",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if sourceRegistry == nil {
			return errors.New("source registry not configured")
		}

		types := sourceRegistry.Types()
		if len(types) == 0 {
			cmd.Println("No sources registered.")
			return nil
		}

		cmd.Println("Registered sources:")
		for _, t := range types {
			cmd.Printf("  %s\n", t)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
