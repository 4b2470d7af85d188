package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	syncRoot := &cobra.Command{
		Use:   "sync",
		Short: "Trigger sync cycles on the server",
		Long: "Trigger individual sync cycles on the server without waiting for\n" +
			"the next scheduled run.",
	}

	syncRoot.AddCommand(
		syncImportsCmd(),
		syncResultsCmd(),
		syncArtifactsCmd(),
	)

	return syncRoot
}

func syncImportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "imports",
		Short:   "Run one import submission cycle",
		Example: `  zksync sync imports`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := newClient().TriggerImports(context.Background()); err != nil {
				return err
			}

			fmt.Println("Import submission cycle completed.")
			return nil
		},
	}
}

func syncResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "results",
		Short:   "Run one import status refresh cycle",
		Example: `  zksync sync results`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := newClient().TriggerResults(context.Background()); err != nil {
				return err
			}

			fmt.Println("Import status refresh cycle completed.")
			return nil
		},
	}
}

func syncArtifactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "artifacts",
		Short:   "Run one artifact fetch cycle",
		Example: `  zksync sync artifacts`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := newClient().TriggerArtifacts(context.Background()); err != nil {
				return err
			}

			fmt.Println("Artifact fetch cycle completed.")
			return nil
		},
	}
}
