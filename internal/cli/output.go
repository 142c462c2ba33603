package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/me/shopctl/internal/admin"
	"github.com/me/shopctl/pkg/model"
	"github.com/me/shopctl/pkg/shopapi"
)

// describe adds the next step a user can take to well-known errors.
func describe(err error) error {
	switch {
	case errors.Is(err, admin.ErrNotAuthenticated):
		return fmt.Errorf("%w; run `shop login` first", err)
	case errors.Is(err, admin.ErrForbidden):
		return fmt.Errorf("%w; sign in with an admin account", err)
	case shopapi.StatusCode(err) == 401:
		return fmt.Errorf("%s; your session may have expired, run `shop login`", shopapi.ErrorMessage(err))
	}
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func formatPrice(m model.Money) string {
	return "$" + humanize.FormatFloat("#,###.##", m.InexactFloat64())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func printProducts(w io.Writer, page model.ProductPage) {
	if len(page.Products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tDESCRIPTION")
	for _, p := range page.Products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, formatPrice(p.Price), truncate(p.Description, 40))
	}
	tw.Flush()
	if page.Total > len(page.Products) {
		fmt.Fprintf(w, "\n(page %d, %d of %s shown)\n", page.Page, len(page.Products), humanize.Comma(int64(page.Total)))
	}
}

func printProduct(w io.Writer, p model.Product) {
	fmt.Fprintf(w, "ID:          %s\n", p.ID)
	fmt.Fprintf(w, "Name:        %s\n", p.Name)
	fmt.Fprintf(w, "Price:       %s\n", formatPrice(p.Price))
	fmt.Fprintf(w, "Description: %s\n", p.Description)
	if p.ImageURL != "" {
		img := p.ImageURL
		if strings.HasPrefix(img, "data:") {
			img = "(inline image)"
		}
		fmt.Fprintf(w, "Image:       %s\n", img)
	}
}

func printCart(w io.Writer, c model.Cart) {
	if len(c.Items) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tQTY\tPRICE\tTOTAL")
	for _, item := range c.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			item.Product.ID, item.Product.Name, item.Quantity,
			formatPrice(item.Product.Price), formatPrice(item.ItemTotal))
	}
	tw.Flush()
	n := c.TotalItems()
	fmt.Fprintf(w, "\n%d %s, total %s\n", n, plural(n, "item", "items"), formatPrice(c.Total()))
}
