package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopd-dev/shopd/internal/cli/output"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}

			apiClient := newAPIClient(env)

			// The local session is cleared even if the server call fails
			if err := apiClient.Logout(cmd.Context()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: server logout failed: %v\n", err)
			}

			output.Success(os.Stdout, "Logged out.")
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Environment name")

	return cmd
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}

			apiClient := newAPIClient(env)
			if !apiClient.Session().IsAuthenticated() {
				return fmt.Errorf("not authenticated. Please run 'shopd login' first")
			}

			user, err := apiClient.Me(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s)\n", user.Name, user.Email)
			if user.IsAdmin {
				fmt.Println("Role: Admin")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Environment name")

	return cmd
}
