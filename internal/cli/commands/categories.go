package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopd-dev/shopd/internal/cli/client"
	"github.com/shopd-dev/shopd/internal/cli/output"
)

// NewCategoriesCmd creates the categories command group
func NewCategoriesCmd() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}
	cmd.PersistentFlags().StringVar(&envName, "env", "", "Environment name")

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			categories, err := apiClient.ListCategories(cmd.Context())
			if err != nil {
				return err
			}

			if len(categories) == 0 {
				fmt.Println("No categories found.")
				return nil
			}

			table := output.NewTable(os.Stdout, []string{"ID", "Name", "Slug", "Parent", "Position"})
			for _, cat := range categories {
				table.AddRow([]string{cat.ID, cat.Name, cat.Slug, cat.ParentID, fmt.Sprintf("%d", cat.Position)})
			}
			table.Render()
			return nil
		},
	}

	var name, slug, parentID string
	var position int
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			if _, err := apiClient.FetchCSRFToken(cmd.Context()); err != nil {
				return err
			}

			input := client.CategoryInput{Name: name, Slug: slug, ParentID: parentID, Position: position}
			cat, err := apiClient.CreateCategory(cmd.Context(), input)
			if err != nil {
				return err
			}

			output.Success(os.Stdout, "Category created: %s (%s)", cat.Name, cat.ID)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Category name")
	add.Flags().StringVar(&slug, "slug", "", "URL slug")
	add.Flags().StringVar(&parentID, "parent", "", "Parent category id")
	add.Flags().IntVar(&position, "position", 0, "Sort position")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("slug")

	rm := &cobra.Command{
		Use:   "rm <category-id>",
		Short: "Delete a category",
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
			if err := apiClient.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return err
			}

			output.Success(os.Stdout, "Category %s deleted", args[0])
			return nil
		},
	}

	specs := &cobra.Command{
		Use:   "specs <category-id>",
		Short: "List the specifications defined for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			specs, err := apiClient.ListSpecifications(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if len(specs) == 0 {
				fmt.Println("No specifications defined for this category.")
				return nil
			}

			table := output.NewTable(os.Stdout, []string{"ID", "Name", "Unit"})
			for _, s := range specs {
				table.AddRow([]string{s.ID, s.Name, s.Unit})
			}
			table.Render()
			return nil
		},
	}

	cmd.AddCommand(ls, add, rm, specs)
	return cmd
}
