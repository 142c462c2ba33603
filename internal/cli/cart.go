package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "View and change the cart",
	}
	cmd.AddCommand(
		newCartShowCmd(),
		cartMutation("add <product_id>", "Add one unit of a product", func(ctx context.Context, id string) error {
			p, err := application.Client.GetProduct(ctx, id)
			if err != nil {
				return err
			}
			return application.Cart.AddToCart(ctx, p)
		}),
		cartMutation("remove <product_id>", "Remove a product entirely", func(ctx context.Context, id string) error {
			return application.Cart.RemoveFromCart(ctx, id)
		}),
		cartMutation("inc <product_id>", "Increase a line by one", func(ctx context.Context, id string) error {
			if _, err := application.Cart.Item(id); err != nil {
				return fmt.Errorf("%s: %w; use `shop cart add`", id, err)
			}
			return application.Cart.IncreaseQuantity(ctx, id)
		}),
		cartMutation("dec <product_id>", "Decrease a line by one, removing it at one", func(ctx context.Context, id string) error {
			return application.Cart.DecreaseQuantity(ctx, id)
		}),
		newCartClearCmd(),
	)
	return cmd
}

// loadCart checks for a session and fetches the server cart into the mirror.
func loadCart(ctx context.Context) error {
	if _, err := application.RequireSession(); err != nil {
		return describe(err)
	}
	if err := application.Cart.Refresh(ctx); err != nil {
		return describe(err)
	}
	return nil
}

func newCartShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadCart(cmd.Context()); err != nil {
				return err
			}
			printCart(cmd.OutOrStdout(), application.Cart.Snapshot())
			return nil
		},
	}
}

func cartMutation(use, short string, run func(ctx context.Context, productID string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadCart(cmd.Context()); err != nil {
				return err
			}
			if err := run(cmd.Context(), args[0]); err != nil {
				return describe(err)
			}
			printCart(cmd.OutOrStdout(), application.Cart.Snapshot())
			return nil
		},
	}
}

func newCartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadCart(cmd.Context()); err != nil {
				return err
			}
			if err := application.Cart.ClearCart(cmd.Context()); err != nil {
				return describe(err)
			}
			printCart(cmd.OutOrStdout(), application.Cart.Snapshot())
			return nil
		},
	}
}
