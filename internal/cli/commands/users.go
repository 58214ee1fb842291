package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shopd-dev/shopd/internal/cli/client"
	"github.com/shopd-dev/shopd/internal/cli/output"
)

// NewUsersCmd creates the users command group. These endpoints require an
// admin session on the server side.
func NewUsersCmd() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage operator accounts (admin only)",
	}
	cmd.PersistentFlags().StringVar(&envName, "env", "", "Environment name")

	list := &cobra.Command{
		Use:   "ls",
		Short: "List operator accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			users, err := apiClient.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			if len(users) == 0 {
				fmt.Println("No users found.")
				return nil
			}

			table := output.NewTable(os.Stdout, []string{"ID", "Email", "Name", "Admin", "Active"})
			for _, u := range users {
				table.AddRow([]string{
					u.ID,
					u.Email,
					u.Name,
					output.Bool(u.IsAdmin),
					output.Bool(u.Active),
				})
			}
			table.Render()
			return nil
		},
	}

	var (
		name    string
		isAdmin bool
	)
	add := &cobra.Command{
		Use:   "add <email>",
		Short: "Create an operator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print("Password: ")
			passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if len(passwordBytes) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}

			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			if _, err := apiClient.FetchCSRFToken(cmd.Context()); err != nil {
				return err
			}

			user, err := apiClient.CreateUser(cmd.Context(), client.CreateUserRequest{
				Email:    args[0],
				Name:     name,
				Password: string(passwordBytes),
				IsAdmin:  isAdmin,
			})
			if err != nil {
				return err
			}

			output.Success(os.Stdout, "Created user %s (%s)", user.Email, user.ID)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Display name")
	add.Flags().BoolVar(&isAdmin, "admin", false, "Grant admin privileges")

	deactivate := &cobra.Command{
		Use:   "deactivate <user-id>",
		Short: "Disable an operator account",
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

			user, err := apiClient.DeactivateUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			output.Success(os.Stdout, "Deactivated %s", user.Email)
			return nil
		},
	}

	cmd.AddCommand(list, add, deactivate)
	return cmd
}
