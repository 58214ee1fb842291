package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopd-dev/shopd/internal/cli/client"
	"github.com/shopd-dev/shopd/internal/cli/output"
)

// NewBannersCmd creates the banners command group
func NewBannersCmd() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "banners",
		Short: "Manage storefront banners",
	}
	cmd.PersistentFlags().StringVar(&envName, "env", "", "Environment name")

	list := &cobra.Command{
		Use:   "ls",
		Short: "List banners",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			banners, err := apiClient.ListBanners(cmd.Context())
			if err != nil {
				return err
			}

			if len(banners) == 0 {
				fmt.Println("No banners found.")
				return nil
			}

			table := output.NewTable(os.Stdout, []string{"ID", "Title", "Position", "Image", "Active"})
			for _, b := range banners {
				table.AddRow([]string{
					b.ID,
					b.Title,
					fmt.Sprintf("%d", b.Position),
					b.ImageURL,
					output.Bool(b.Active),
				})
			}
			table.Render()
			return nil
		},
	}

	var (
		title     string
		imageURL  string
		targetURL string
		position  int
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a banner",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			if _, err := apiClient.FetchCSRFToken(cmd.Context()); err != nil {
				return err
			}

			banner, err := apiClient.CreateBanner(cmd.Context(), client.BannerInput{
				Title:     title,
				ImageURL:  imageURL,
				TargetURL: targetURL,
				Position:  position,
			})
			if err != nil {
				return err
			}

			output.Success(os.Stdout, "Created banner %s (%s)", banner.Title, banner.ID)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "Banner title")
	add.Flags().StringVar(&imageURL, "image", "", "Image URL")
	add.Flags().StringVar(&targetURL, "target", "", "Link target URL")
	add.Flags().IntVar(&position, "position", 0, "Sort position")
	add.MarkFlagRequired("title")
	add.MarkFlagRequired("image")

	var newPosition int
	move := &cobra.Command{
		Use:   "move <banner-id>",
		Short: "Change a banner's position",
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

			banner, err := apiClient.UpdateBanner(cmd.Context(), args[0], client.BannerInput{Position: newPosition})
			if err != nil {
				return err
			}

			output.Success(os.Stdout, "Moved banner %s to position %d", banner.Title, banner.Position)
			return nil
		},
	}
	move.Flags().IntVar(&newPosition, "to", 0, "New position")
	move.MarkFlagRequired("to")

	remove := &cobra.Command{
		Use:   "rm <banner-id>",
		Short: "Delete a banner",
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

			if err := apiClient.DeleteBanner(cmd.Context(), args[0]); err != nil {
				return err
			}

			output.Success(os.Stdout, "Deleted banner %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, move, remove)
	return cmd
}
