package cli

import (
	"fmt"
	"os"

	"github.com/me/shopctl/internal/admin"
	"github.com/me/shopctl/pkg/model"
	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Catalogue management (admin accounts only)",
	}
	products := &cobra.Command{
		Use:   "products",
		Short: "Manage products",
	}
	products.AddCommand(
		newAdminListCmd(),
		newAdminSaveCmd(true),
		newAdminSaveCmd(false),
		newAdminDeleteCmd(),
		newAdminExportCmd(),
		newAdminImportCmd(),
	)
	cmd.AddCommand(products)
	return cmd
}

func newAdminListCmd() *cobra.Command {
	opts := model.DefaultListOptions()
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := application.Products.List(cmd.Context(), opts)
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

// newAdminSaveCmd builds "create" or "update". Update starts from the
// stored product so only the given flags change.
func newAdminSaveCmd(isNew bool) *cobra.Command {
	var form admin.ProductForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isNew {
				stored, err := application.Products.Load(cmd.Context(), args[0])
				if err != nil {
					return describe(err)
				}
				form = mergeForm(cmd, stored, form)
			}

			p, err := application.Products.Save(cmd.Context(), form, isNew)
			if err != nil {
				return describe(err)
			}
			verb := "Created"
			if !isNew {
				verb = "Updated"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s product %s\n", verb, p.ID)
			printProduct(cmd.OutOrStdout(), p)
			return nil
		},
	}
	if !isNew {
		cmd.Use = "update <product_id>"
		cmd.Short = "Update a product"
		cmd.Args = cobra.ExactArgs(1)
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "Product name")
	cmd.Flags().StringVar(&form.Description, "description", "", "Product description")
	cmd.Flags().StringVar(&form.Price, "price", "", "Price, e.g. 19.90")
	cmd.Flags().StringVar(&form.ImageURL, "image-url", "", "Image URL")
	cmd.Flags().StringVar(&form.ImagePath, "image", "", "Image file to upload")
	return cmd
}

// mergeForm overlays the flags the user set onto the stored product.
func mergeForm(cmd *cobra.Command, stored, flags admin.ProductForm) admin.ProductForm {
	f := cmd.Flags()
	if f.Changed("name") {
		stored.Name = flags.Name
	}
	if f.Changed("description") {
		stored.Description = flags.Description
	}
	if f.Changed("price") {
		stored.Price = flags.Price
	}
	if f.Changed("image-url") {
		stored.ImageURL = flags.ImageURL
	}
	if f.Changed("image") {
		stored.ImagePath = flags.ImagePath
	}
	return stored
}

func newAdminDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <product_id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.Products.Delete(cmd.Context(), args[0]); err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted product %s\n", args[0])
			return nil
		},
	}
}

func newAdminExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalogue to an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			n, err := application.Products.Export(cmd.Context(), f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				os.Remove(output)
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d %s to %s\n", n, plural(n, "product", "products"), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "products.xlsx", "Output file")
	return cmd
}

func newAdminImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Create or update products from an XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			res, err := application.Products.Import(cmd.Context(), data)
			if err != nil {
				return describe(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %d, updated %d, skipped %d\n", res.Created, res.Updated, res.Skipped)
			for _, e := range res.Errors {
				fmt.Fprintf(out, "  %s\n", e)
			}
			return nil
		},
	}
}
