package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopd-dev/shopd/internal/cli/output"
)

// NewInventoryCmd creates the inventory command group
func NewInventoryCmd() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Manage stock levels",
	}
	cmd.PersistentFlags().StringVar(&envName, "env", "", "Environment name")

	show := &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show stock for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			inv, err := apiClient.GetInventory(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Product %s\n", inv.ProductID)
			fmt.Printf("  On hand:   %d\n", int(inv.Stock.Float64()))
			fmt.Printf("  Reserved:  %d\n", int(inv.Reserved.Float64()))
			fmt.Printf("  Available: %d\n", int(inv.Available.Float64()))
			fmt.Printf("  Threshold: %d\n", int(inv.LowStockThreshold.Float64()))
			if inv.LowStock {
				output.Warn(os.Stdout, "Low stock - consider restocking")
			}
			return nil
		},
	}

	var reason string
	restock := &cobra.Command{
		Use:   "restock <product-id> <quantity>",
		Short: "Add stock to a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var quantity int
			if _, err := fmt.Sscanf(args[1], "%d", &quantity); err != nil || quantity <= 0 {
				return fmt.Errorf("quantity must be a positive integer")
			}

			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			if _, err := apiClient.FetchCSRFToken(cmd.Context()); err != nil {
				return err
			}

			inv, err := apiClient.Restock(cmd.Context(), args[0], quantity, reason)
			if err != nil {
				return err
			}

			output.Success(os.Stdout, "Restocked: %d available", int(inv.Available.Float64()))
			return nil
		},
	}
	restock.Flags().StringVar(&reason, "reason", "", "Reason for the restock")

	var adjustReason string
	adjust := &cobra.Command{
		Use:   "adjust <product-id> <delta>",
		Short: "Correct stock by a signed delta (shrinkage, recounts)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var delta int
			if _, err := fmt.Sscanf(args[1], "%d", &delta); err != nil || delta == 0 {
				return fmt.Errorf("delta must be a non-zero integer")
			}
			if adjustReason == "" {
				return fmt.Errorf("--reason is required for adjustments")
			}

			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			if _, err := apiClient.FetchCSRFToken(cmd.Context()); err != nil {
				return err
			}

			inv, err := apiClient.AdjustInventory(cmd.Context(), args[0], delta, adjustReason)
			if err != nil {
				return err
			}

			output.Success(os.Stdout, "Adjusted: %d available", int(inv.Available.Float64()))
			return nil
		},
	}
	adjust.Flags().StringVar(&adjustReason, "reason", "", "Reason for the adjustment")

	movements := &cobra.Command{
		Use:   "movements <product-id>",
		Short: "Show the stock change audit trail for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			moves, err := apiClient.ListInventoryMovements(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if len(moves) == 0 {
				fmt.Println("No stock movements recorded.")
				return nil
			}

			table := output.NewTable(os.Stdout, []string{"When", "Kind", "Delta", "Reason", "By"})
			for _, m := range moves {
				table.AddRow([]string{
					m.CreatedAt,
					m.Kind,
					fmt.Sprintf("%+d", int(m.Delta.Float64())),
					m.Reason,
					m.CreatedBy,
				})
			}
			table.Render()
			return nil
		},
	}

	cmd.AddCommand(show, restock, adjust, movements)
	return cmd
}
