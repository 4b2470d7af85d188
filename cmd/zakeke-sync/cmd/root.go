// Package cmd implements the CLI commands for the zakeke-sync server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "zakeke-sync",
	Short: "Sync print-on-demand products and orders with Zakeke",
	Long: "A service that keeps a print-on-demand shop in sync with the Zakeke\n" +
		"customizer: it imports printable products in batches, polls import\n" +
		"results, and attaches print-ready artifacts to customized order lines.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
