package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopd-dev/shopd/internal/cli/client"
	"github.com/shopd-dev/shopd/internal/cli/output"
)

// NewProductsCmd creates the products command group
func NewProductsCmd() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage products",
	}
	cmd.PersistentFlags().StringVar(&envName, "env", "", "Environment name")

	var brandID, categoryID, search string
	var page, perPage int
	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			filter := client.ProductFilter{
				BrandID:    brandID,
				CategoryID: categoryID,
				Search:     search,
				Page:       page,
				PerPage:    perPage,
			}
			products, err := apiClient.ListProducts(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if len(products) == 0 {
				fmt.Println("No products found.")
				return nil
			}

			table := output.NewTable(os.Stdout, []string{"ID", "Name", "Price", "Active"})
			for _, p := range products {
				table.AddRow([]string{p.ID, p.Name, fmt.Sprintf("%.2f", p.Price.Float64()), output.Bool(p.Active)})
			}
			table.Render()
			return nil
		},
	}
	ls.Flags().StringVar(&brandID, "brand", "", "Filter by brand id")
	ls.Flags().StringVar(&categoryID, "category", "", "Filter by category id")
	ls.Flags().StringVar(&search, "search", "", "Search in product names")
	ls.Flags().IntVar(&page, "page", 0, "Page number")
	ls.Flags().IntVar(&perPage, "per-page", 0, "Results per page")

	show := &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show a product with its inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			p, err := apiClient.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s)\n", p.Name, p.ID)
			fmt.Printf("  Slug:     %s\n", p.Slug)
			fmt.Printf("  Brand:    %s\n", p.BrandID)
			fmt.Printf("  Category: %s\n", p.CategoryID)
			fmt.Printf("  Price:    %.2f\n", p.Price.Float64())
			fmt.Printf("  Active:   %s\n", output.Bool(p.Active))
			if p.Inventory != nil {
				fmt.Printf("  Stock:    %d available (%d on hand, %d reserved)\n",
					int(p.Inventory.Available.Float64()),
					int(p.Inventory.Stock.Float64()),
					int(p.Inventory.Reserved.Float64()))
				if p.Inventory.LowStock {
					output.Warn(os.Stdout, "Low stock")
				}
			}
			return nil
		},
	}

	var name, slug, description, prodBrand, prodCategory, imageURL string
	var price float64
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			if _, err := apiClient.FetchCSRFToken(cmd.Context()); err != nil {
				return err
			}

			input := client.ProductInput{
				Name:        name,
				Slug:        slug,
				Description: description,
				BrandID:     prodBrand,
				CategoryID:  prodCategory,
				Price:       price,
				ImageURL:    imageURL,
			}
			p, err := apiClient.CreateProduct(cmd.Context(), input)
			if err != nil {
				return err
			}

			output.Success(os.Stdout, "Product created: %s (%s)", p.Name, p.ID)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Product name")
	add.Flags().StringVar(&slug, "slug", "", "URL slug")
	add.Flags().StringVar(&description, "description", "", "Description")
	add.Flags().StringVar(&prodBrand, "brand", "", "Brand id")
	add.Flags().StringVar(&prodCategory, "category", "", "Category id")
	add.Flags().Float64Var(&price, "price", 0, "Unit price")
	add.Flags().StringVar(&imageURL, "image-url", "", "Product image URL")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("slug")
	_ = add.MarkFlagRequired("brand")
	_ = add.MarkFlagRequired("category")
	_ = add.MarkFlagRequired("price")

	rm := &cobra.Command{
		Use:   "rm <product-id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			if _, err := apiClient.FetchCSRFToken(cmd.Context()); err != nil {
				return err
			}
			if err := apiClient.DeleteProduct(cmd.Context(), args[0]); err != nil {
				return err
			}

			output.Success(os.Stdout, "Product %s deleted", args[0])
			return nil
		},
	}

	cmd.AddCommand(ls, show, add, rm)
	return cmd
}
