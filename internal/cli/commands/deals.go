package commands

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/shopd-dev/shopd/internal/cli/client"
	"github.com/shopd-dev/shopd/internal/cli/output"
)

// NewDealsCmd creates the deals command group
func NewDealsCmd() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "deals",
		Short: "Manage promotional deals",
	}
	cmd.PersistentFlags().StringVar(&envName, "env", "", "Environment name")

	list := &cobra.Command{
		Use:   "ls",
		Short: "List deals",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			deals, err := apiClient.ListDeals(cmd.Context())
			if err != nil {
				return err
			}

			if len(deals) == 0 {
				fmt.Println("No deals found.")
				return nil
			}

			table := output.NewTable(os.Stdout, []string{"ID", "Title", "Product", "Price", "Starts", "Ends", "Active"})
			for _, d := range deals {
				table.AddRow([]string{
					d.ID,
					d.Title,
					d.ProductID,
					fmt.Sprintf("%.2f", d.DealPrice.Float64()),
					d.StartsAt,
					d.EndsAt,
					output.Bool(d.Active),
				})
			}
			table.Render()
			return nil
		},
	}

	var (
		title    string
		product  string
		price    string
		startsAt string
		endsAt   string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a deal",
		RunE: func(cmd *cobra.Command, args []string) error {
			dealPrice, err := strconv.ParseFloat(price, 64)
			if err != nil || dealPrice <= 0 {
				return fmt.Errorf("--price must be a positive number")
			}
			for _, stamp := range []string{startsAt, endsAt} {
				if _, err := time.Parse(time.RFC3339, stamp); err != nil {
					return fmt.Errorf("invalid timestamp %q, expected RFC3339", stamp)
				}
			}

			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			if _, err := apiClient.FetchCSRFToken(cmd.Context()); err != nil {
				return err
			}

			deal, err := apiClient.CreateDeal(cmd.Context(), client.DealInput{
				Title:     title,
				ProductID: product,
				DealPrice: dealPrice,
				StartsAt:  startsAt,
				EndsAt:    endsAt,
			})
			if err != nil {
				return err
			}

			output.Success(os.Stdout, "Created deal %s (%s)", deal.Title, deal.ID)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "Deal title")
	add.Flags().StringVar(&product, "product", "", "Product ID the deal applies to")
	add.Flags().StringVar(&price, "price", "", "Promotional price")
	add.Flags().StringVar(&startsAt, "starts", "", "Start time (RFC3339)")
	add.Flags().StringVar(&endsAt, "ends", "", "End time (RFC3339)")
	add.MarkFlagRequired("title")
	add.MarkFlagRequired("product")
	add.MarkFlagRequired("price")
	add.MarkFlagRequired("starts")
	add.MarkFlagRequired("ends")

	deactivate := &cobra.Command{
		Use:   "off <deal-id>",
		Short: "Deactivate a deal",
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

			active := false
			deal, err := apiClient.UpdateDeal(cmd.Context(), args[0], client.DealInput{Active: &active})
			if err != nil {
				return err
			}

			output.Success(os.Stdout, "Deactivated deal %s", deal.Title)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "rm <deal-id>",
		Short: "Delete a deal",
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

			if err := apiClient.DeleteDeal(cmd.Context(), args[0]); err != nil {
				return err
			}

			output.Success(os.Stdout, "Deleted deal %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, deactivate, remove)
	return cmd
}
