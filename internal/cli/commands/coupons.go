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

// NewCouponsCmd creates the coupons command group
func NewCouponsCmd() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "coupons",
		Short: "Manage discount codes",
	}
	cmd.PersistentFlags().StringVar(&envName, "env", "", "Environment name")

	list := &cobra.Command{
		Use:   "ls",
		Short: "List coupons",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			coupons, err := apiClient.ListCoupons(cmd.Context())
			if err != nil {
				return err
			}

			if len(coupons) == 0 {
				fmt.Println("No coupons found.")
				return nil
			}

			table := output.NewTable(os.Stdout, []string{"Code", "Kind", "Value", "Uses", "Expires", "Active"})
			for _, c := range coupons {
				uses := fmt.Sprintf("%d", int(c.Uses.Float64()))
				if max := int(c.MaxUses.Float64()); max > 0 {
					uses = fmt.Sprintf("%d/%d", int(c.Uses.Float64()), max)
				}
				table.AddRow([]string{
					c.Code,
					c.Kind,
					fmt.Sprintf("%.2f", c.Value.Float64()),
					uses,
					c.ExpiresAt,
					output.Bool(c.Active),
				})
			}
			table.Render()
			return nil
		},
	}

	var (
		kind      string
		value     string
		minTotal  string
		maxUses   int
		expiresAt string
	)
	add := &cobra.Command{
		Use:   "add <code>",
		Short: "Create a coupon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind != "percent" && kind != "fixed" {
				return fmt.Errorf("--kind must be percent or fixed")
			}
			couponValue, err := strconv.ParseFloat(value, 64)
			if err != nil || couponValue <= 0 {
				return fmt.Errorf("--value must be a positive number")
			}
			if kind == "percent" && couponValue > 100 {
				return fmt.Errorf("percent coupons cannot exceed 100")
			}
			input := client.CouponInput{
				Code:    args[0],
				Kind:    kind,
				Value:   couponValue,
				MaxUses: maxUses,
			}
			if minTotal != "" {
				min, err := strconv.ParseFloat(minTotal, 64)
				if err != nil || min < 0 {
					return fmt.Errorf("--min-total must be a non-negative number")
				}
				input.MinOrderTotal = min
			}
			if expiresAt != "" {
				if _, err := time.Parse(time.RFC3339, expiresAt); err != nil {
					return fmt.Errorf("invalid timestamp %q, expected RFC3339", expiresAt)
				}
				input.ExpiresAt = expiresAt
			}

			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			if _, err := apiClient.FetchCSRFToken(cmd.Context()); err != nil {
				return err
			}

			coupon, err := apiClient.CreateCoupon(cmd.Context(), input)
			if err != nil {
				return err
			}

			output.Success(os.Stdout, "Created coupon %s", coupon.Code)
			return nil
		},
	}
	add.Flags().StringVar(&kind, "kind", "percent", "Discount kind (percent or fixed)")
	add.Flags().StringVar(&value, "value", "", "Discount value")
	add.Flags().StringVar(&minTotal, "min-total", "", "Minimum order total required")
	add.Flags().IntVar(&maxUses, "max-uses", 0, "Maximum redemptions (0 = unlimited)")
	add.Flags().StringVar(&expiresAt, "expires", "", "Expiry time (RFC3339)")
	add.MarkFlagRequired("value")

	deactivate := &cobra.Command{
		Use:   "off <coupon-id>",
		Short: "Deactivate a coupon",
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
			coupon, err := apiClient.UpdateCoupon(cmd.Context(), args[0], client.CouponInput{Active: &active})
			if err != nil {
				return err
			}

			output.Success(os.Stdout, "Deactivated coupon %s", coupon.Code)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "rm <coupon-id>",
		Short: "Delete a coupon",
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

			if err := apiClient.DeleteCoupon(cmd.Context(), args[0]); err != nil {
				return err
			}

			output.Success(os.Stdout, "Deleted coupon %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, deactivate, remove)
	return cmd
}
