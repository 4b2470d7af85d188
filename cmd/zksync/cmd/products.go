package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/printeers/zakeke-sync/internal/api/client"
)

func productsCmd() *cobra.Command {
	productsRoot := &cobra.Command{
		Use:   "products",
		Short: "Query products",
		Long: "Query and inspect products and their per-product Zakeke import\n" +
			"state as tracked by the sync service.",
	}

	productsRoot.AddCommand(
		productsListCmd(),
		productsGetCmd(),
	)

	return productsRoot
}

func productsListCmd() *cobra.Command {
	var (
		importStatus string
		needsImport  bool
		limit        int
		offset       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products with optional filters",
		Long: "List products with optional filters for import status and the\n" +
			"needs-import flag.",
		Example: `  # List all products
  zksync products list

  # Products still waiting on a Zakeke import result
  zksync products list --status waiting

  # Products queued for the next import cycle
  zksync products list --needs-import

  # Paginate
  zksync products list --limit 20 --offset 40`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := &apiclient.ListProductsParams{
				ImportStatus: importStatus,
				Limit:        limit,
				Offset:       offset,
			}
			if cmd.Flags().Changed("needs-import") {
				params.NeedsImport = fmt.Sprintf("%v", needsImport)
			}

			c := newClient()
			resp, err := c.ListProducts(context.Background(), params)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(resp)
			}

			if len(resp.Products) == 0 {
				fmt.Println("No products found.")
				return nil
			}

			fmt.Printf("Showing %d of %d products\n\n", len(resp.Products), resp.Total)
			return printProductsTable(resp.Products)
		},
	}
	cmd.Flags().StringVar(&importStatus, "status", "", "import status filter (waiting, success, error)")
	cmd.Flags().BoolVar(&needsImport, "needs-import", false, "filter by the needs-import flag")
	cmd.Flags().IntVar(&limit, "limit", 50, "number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "result offset")

	return cmd
}

func productsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Show product details",
		Example: `  zksync products get 1042`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			p, err := c.GetProduct(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(p)
			}

			return printProductDetail(p)
		},
	}
}
