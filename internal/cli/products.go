package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Leorodrigs/deathstore-storefront/internal/catalog"
	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
	"github.com/Leorodrigs/deathstore-storefront/internal/gateway"
)

func newProductsCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse and administer the catalog",
	}
	cmd.AddCommand(newProductsListCommand(app))
	cmd.AddCommand(newProductsShowCommand(app))
	cmd.AddCommand(newProductsCreateCommand(app))
	cmd.AddCommand(newProductsUpdateCommand(app))
	cmd.AddCommand(newProductsDeleteCommand(app))
	return cmd
}

func newProductsListCommand(app func() *App) *cobra.Command {
	var (
		sortKey  string
		brand    string
		category string
		link     string
		facets   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products with filtering and sorting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if !catalog.ValidSortKey(sortKey) {
				return fmt.Errorf("invalid sort key %q: must be one of %v", sortKey, catalog.SortKeys)
			}

			products, err := a.Gateway.ListProducts(cmd.Context())
			if err != nil {
				return err
			}

			params := catalog.NewParams()
			params.Sort = catalog.SortKey(sortKey)
			params.Brand = brand
			if link != "" {
				query, err := url.ParseQuery(link)
				if err != nil {
					return fmt.Errorf("invalid deep link query: %w", err)
				}
				params.SeedCategory(query)
			}
			if category != "" {
				params.Category = category
			}

			if facets {
				brands, categories := catalog.Options(products)
				fmt.Fprintf(a.Out, "brands: %s\n", strings.Join(brands, ", "))
				fmt.Fprintf(a.Out, "categories: %s\n", strings.Join(categories, ", "))
			}

			renderProducts(a, a.Catalog.Derive(products, params))
			return nil
		},
	}
	cmd.Flags().StringVar(&sortKey, "sort", string(catalog.SortDefault), "sort key (default|price-asc|price-desc|name-asc|name-desc)")
	cmd.Flags().StringVar(&brand, "brand", "", "exact brand filter")
	cmd.Flags().StringVar(&category, "category", "", "exact category filter")
	cmd.Flags().StringVar(&link, "link", "", "deep-link query string seeding the category filter (e.g. category=naves)")
	cmd.Flags().BoolVar(&facets, "facets", false, "also print available brand/category options")
	return cmd
}

func renderProducts(a *App, products []domain.Product) {
	w := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		stock := strconv.Itoa(p.Stock)
		if p.Stock == 0 {
			stock = "out"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\tR$ %.2f\t%s\n", p.ID, p.Name, p.Brand, p.Category, p.Price, stock)
	}
	w.Flush()
}

func newProductsShowCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			p, err := a.Gateway.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "%s (%s / %s)\nprice: R$ %.2f\nstock: %d\n", p.Name, p.Brand, p.Category, p.Price, p.Stock)
			if p.Description != "" {
				fmt.Fprintln(a.Out, p.Description)
			}
			return nil
		},
	}
}

func productInputFlags(cmd *cobra.Command, input *gateway.ProductInput) {
	cmd.Flags().StringVar(&input.Name, "name", "", "product name")
	cmd.Flags().StringVar(&input.Brand, "brand", "", "product brand")
	cmd.Flags().StringVar(&input.Category, "category", "", "product category")
	cmd.Flags().Float64Var(&input.Price, "price", 0, "unit price")
	cmd.Flags().IntVar(&input.Stock, "stock", 0, "units in stock")
	cmd.Flags().StringVar(&input.Description, "description", "", "description")
	cmd.Flags().StringVar(&input.ImageURL, "image", "", "image URL")
}

// validateProductInput blocks submission before any network call goes
// out, mirroring the admin form's field checks.
func validateProductInput(input gateway.ProductInput) error {
	var problems []string
	if strings.TrimSpace(input.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(input.Brand) == "" {
		problems = append(problems, "brand is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		problems = append(problems, "category is required")
	}
	if input.Price <= 0 {
		problems = append(problems, "price must be positive")
	}
	if input.Stock < 0 {
		problems = append(problems, "stock cannot be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func newProductsCreateCommand(app func() *App) *cobra.Command {
	var input gateway.ProductInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.RequireAdmin(); err != nil {
				return err
			}
			if err := validateProductInput(input); err != nil {
				return err
			}
			p, err := a.Gateway.CreateProduct(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "created product %d: %s\n", p.ID, p.Name)
			return nil
		},
	}
	productInputFlags(cmd, &input)
	return cmd
}

func newProductsUpdateCommand(app func() *App) *cobra.Command {
	var input gateway.ProductInput
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a product (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.RequireAdmin(); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			if err := validateProductInput(input); err != nil {
				return err
			}
			p, err := a.Gateway.UpdateProduct(cmd.Context(), id, input)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "updated product %d: %s\n", p.ID, p.Name)
			return nil
		},
	}
	productInputFlags(cmd, &input)
	return cmd
}

func newProductsDeleteCommand(app func() *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.RequireAdmin(); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			if !yes && !a.Confirm(fmt.Sprintf("Delete product %d?", id)) {
				return nil
			}
			if err := a.Gateway.DeleteProduct(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "deleted product %d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
