package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopd-dev/shopd/internal/cli/client"
	"github.com/shopd-dev/shopd/internal/cli/output"
)

// orderAPI is the slice of the client the order commands need; tests inject a mock
type orderAPI interface {
	ListOrders(ctx context.Context, status string) ([]client.Order, error)
	GetOrder(ctx context.Context, id string) (*client.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status, note string) (*client.Order, error)
	FetchCSRFToken(ctx context.Context) (string, error)
}

type ordersOptions struct {
	api     orderAPI
	out     io.Writer
	envName string
}

// OrdersOption customizes order command execution
type OrdersOption func(*ordersOptions)

// WithOrdersAPI injects an API client
func WithOrdersAPI(api orderAPI) OrdersOption {
	return func(o *ordersOptions) { o.api = api }
}

// WithOrdersOutput redirects command output
func WithOrdersOutput(w io.Writer) OrdersOption {
	return func(o *ordersOptions) { o.out = w }
}

// WithOrdersEnv targets a named environment
func WithOrdersEnv(name string) OrdersOption {
	return func(o *ordersOptions) { o.envName = name }
}

func resolveOrdersOptions(opts []OrdersOption) (*ordersOptions, error) {
	o := &ordersOptions{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}
	if o.api == nil {
		env, err := getEnvironment(o.envName)
		if err != nil {
			return nil, err
		}
		o.api = newAPIClient(env)
	}
	return o, nil
}

// NewOrdersCmd creates the orders command group
func NewOrdersCmd() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Manage orders",
	}
	cmd.PersistentFlags().StringVar(&envName, "env", "", "Environment name")

	var status string
	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListOrders(cmd.Context(), status, WithOrdersEnv(envName))
		},
	}
	ls.Flags().StringVar(&status, "status", "", "Filter by status (pending, confirmed, shipped, delivered, cancelled)")

	show := &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show an order with its items and status timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowOrder(cmd.Context(), args[0], WithOrdersEnv(envName))
		},
	}

	var note string
	setStatus := &cobra.Command{
		Use:   "set-status <order-id> <status>",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetOrderStatus(cmd.Context(), args[0], args[1], note, WithOrdersEnv(envName))
		},
	}
	setStatus.Flags().StringVar(&note, "note", "", "Timeline note for the status change")

	cmd.AddCommand(ls, show, setStatus)
	return cmd
}

func runListOrders(ctx context.Context, status string, opts ...OrdersOption) error {
	o, err := resolveOrdersOptions(opts)
	if err != nil {
		return err
	}

	orders, err := o.api.ListOrders(ctx, status)
	if err != nil {
		return err
	}

	if len(orders) == 0 {
		fmt.Fprintln(o.out, "No orders found.")
		return nil
	}

	table := output.NewTable(o.out, []string{"Number", "Customer", "Status", "Total", "Created"})
	for _, ord := range orders {
		table.AddRow([]string{
			ord.Number,
			ord.CustomerName,
			output.StatusColor(ord.Status),
			fmt.Sprintf("%.2f", ord.Total.Float64()),
			ord.CreatedAt,
		})
	}
	table.Render()

	return nil
}

func runShowOrder(ctx context.Context, id string, opts ...OrdersOption) error {
	o, err := resolveOrdersOptions(opts)
	if err != nil {
		return err
	}

	ord, err := o.api.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(o.out, "Order %s - %s\n", ord.Number, output.StatusColor(ord.Status))
	fmt.Fprintf(o.out, "  Customer: %s <%s>\n", ord.CustomerName, ord.CustomerEmail)
	fmt.Fprintf(o.out, "  Subtotal: %.2f  Discount: %.2f  Total: %.2f\n",
		ord.Subtotal.Float64(), ord.Discount.Float64(), ord.Total.Float64())

	if len(ord.Items) > 0 {
		fmt.Fprintln(o.out, "\nItems:")
		table := output.NewTable(o.out, []string{"Product", "Qty", "Unit price"})
		for _, item := range ord.Items {
			table.AddRow([]string{
				item.Name,
				fmt.Sprintf("%d", int(item.Quantity.Float64())),
				fmt.Sprintf("%.2f", item.UnitPrice.Float64()),
			})
		}
		table.Render()
	}

	if len(ord.Events) > 0 {
		fmt.Fprintln(o.out, "\nTimeline:")
		for _, ev := range ord.Events {
			line := fmt.Sprintf("  %s  %s", ev.CreatedAt, output.StatusColor(ev.Status))
			if ev.Note != "" {
				line += fmt.Sprintf(" - %s", ev.Note)
			}
			fmt.Fprintln(o.out, line)
		}
	}

	return nil
}

func runSetOrderStatus(ctx context.Context, id, status, note string, opts ...OrdersOption) error {
	o, err := resolveOrdersOptions(opts)
	if err != nil {
		return err
	}

	// Status changes are sensitive mutations; pre-fetch the CSRF cookie
	if _, err := o.api.FetchCSRFToken(ctx); err != nil {
		return err
	}

	ord, err := o.api.UpdateOrderStatus(ctx, id, status, note)
	if err != nil {
		return err
	}

	output.Success(o.out, "Order %s is now %s", ord.Number, ord.Status)
	return nil
}
