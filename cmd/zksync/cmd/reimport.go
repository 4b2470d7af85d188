package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func reimportCmd() *cobra.Command {
	reimportRoot := &cobra.Command{
		Use:   "reimport",
		Short: "Queue products for reimport",
		Long: "Queue products for reimport into Zakeke. Queued products are\n" +
			"submitted in batches by the server's import cycle.",
	}

	reimportRoot.AddCommand(
		reimportProductCmd(),
		reimportAllCmd(),
	)

	return reimportRoot
}

func reimportProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "product <id>",
		Short:   "Queue a single product for reimport",
		Example: `  zksync reimport product 1042`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.ReimportProduct(context.Background(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Product %s queued for reimport.\n", args[0])
			return nil
		},
	}
}

func reimportAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "all",
		Short:   "Queue every product for reimport",
		Example: `  zksync reimport all`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			queued, err := c.ReimportAll(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("%d products queued for reimport.\n", queued)
			return nil
		},
	}
}
