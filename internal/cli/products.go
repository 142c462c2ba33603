package cli

import (
	"github.com/me/shopctl/pkg/model"
	"github.com/spf13/cobra"
)

func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Browse the catalogue",
	}
	cmd.AddCommand(newProductsListCmd(), newProductsShowCmd())
	return cmd
}

func newProductsListCmd() *cobra.Command {
	opts := model.DefaultListOptions()

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := application.Client.ListProducts(cmd.Context(), opts)
			if err != nil {
				return describe(err)
			}
			printProducts(cmd.OutOrStdout(), page)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", opts.Page, "Page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", opts.Limit, "Products per page")
	return cmd
}

func newProductsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <product_id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := application.Client.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			printProduct(cmd.OutOrStdout(), p)
			return nil
		},
	}
}
