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

// brandAPI is the slice of the client the brand commands need; tests inject a mock
type brandAPI interface {
	ListBrands(ctx context.Context) ([]client.Brand, error)
	CreateBrand(ctx context.Context, input client.BrandInput) (*client.Brand, error)
	DeleteBrand(ctx context.Context, id string) error
	FetchCSRFToken(ctx context.Context) (string, error)
}

type brandsOptions struct {
	api     brandAPI
	out     io.Writer
	envName string
}

// BrandsOption customizes brand command execution (used to inject mocks in tests)
type BrandsOption func(*brandsOptions)

// WithBrandsAPI injects an API client
func WithBrandsAPI(api brandAPI) BrandsOption {
	return func(o *brandsOptions) { o.api = api }
}

// WithBrandsOutput redirects command output
func WithBrandsOutput(w io.Writer) BrandsOption {
	return func(o *brandsOptions) { o.out = w }
}

// WithBrandsEnv targets a named environment
func WithBrandsEnv(name string) BrandsOption {
	return func(o *brandsOptions) { o.envName = name }
}

func resolveBrandsOptions(opts []BrandsOption) (*brandsOptions, error) {
	o := &brandsOptions{out: os.Stdout}
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

// NewBrandsCmd creates the brands command group
func NewBrandsCmd() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "brands",
		Short: "Manage brands",
	}
	cmd.PersistentFlags().StringVar(&envName, "env", "", "Environment name")

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all brands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListBrands(cmd.Context(), WithBrandsEnv(envName))
		},
	}

	var name, slug, logoURL string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a brand",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddBrand(cmd.Context(), client.BrandInput{Name: name, Slug: slug, LogoURL: logoURL}, WithBrandsEnv(envName))
		},
	}
	add.Flags().StringVar(&name, "name", "", "Brand name")
	add.Flags().StringVar(&slug, "slug", "", "URL slug")
	add.Flags().StringVar(&logoURL, "logo-url", "", "Logo image URL")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("slug")

	rm := &cobra.Command{
		Use:   "rm <brand-id>",
		Short: "Delete a brand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteBrand(cmd.Context(), args[0], WithBrandsEnv(envName))
		},
	}

	cmd.AddCommand(ls, add, rm)
	return cmd
}

func runListBrands(ctx context.Context, opts ...BrandsOption) error {
	o, err := resolveBrandsOptions(opts)
	if err != nil {
		return err
	}

	brands, err := o.api.ListBrands(ctx)
	if err != nil {
		return err
	}

	if len(brands) == 0 {
		fmt.Fprintln(o.out, "No brands found.")
		fmt.Fprintln(o.out, "\nCreate one with: shopd brands add --name <name> --slug <slug>")
		return nil
	}

	table := output.NewTable(o.out, []string{"ID", "Name", "Slug", "Active"})
	for _, b := range brands {
		table.AddRow([]string{b.ID, b.Name, b.Slug, output.Bool(b.Active)})
	}
	table.Render()

	return nil
}

func runAddBrand(ctx context.Context, input client.BrandInput, opts ...BrandsOption) error {
	o, err := resolveBrandsOptions(opts)
	if err != nil {
		return err
	}

	// Mutations require the CSRF cookie
	if _, err := o.api.FetchCSRFToken(ctx); err != nil {
		return err
	}

	brand, err := o.api.CreateBrand(ctx, input)
	if err != nil {
		return err
	}

	output.Success(o.out, "Brand created: %s (%s)", brand.Name, brand.ID)
	return nil
}

func runDeleteBrand(ctx context.Context, id string, opts ...BrandsOption) error {
	o, err := resolveBrandsOptions(opts)
	if err != nil {
		return err
	}

	if _, err := o.api.FetchCSRFToken(ctx); err != nil {
		return err
	}

	if err := o.api.DeleteBrand(ctx, id); err != nil {
		return err
	}

	output.Success(o.out, "Brand %s deleted", id)
	return nil
}
