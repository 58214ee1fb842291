package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shopd-dev/shopd/internal/cli/output"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password, envName string
	var admin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the shopd platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), email, password, envName, admin)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set SHOPD_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set SHOPD_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&envName, "env", "", "Environment name (uses selected environment if not specified)")
	cmd.Flags().BoolVar(&admin, "admin", false, "Authenticate against the admin login endpoint")

	return cmd
}

func runLogin(ctx context.Context, email, password, envName string, admin bool) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("SHOPD_EMAIL")
	}
	if password == "" {
		password = os.Getenv("SHOPD_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or SHOPD_EMAIL env var)")
	}

	env, err := getEnvironment(envName)
	if err != nil {
		return err
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Print("Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Println() // New line after password input
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or SHOPD_PASSWORD env var)")
		}
	}

	apiClient := newAPIClient(env)

	fmt.Printf("Logging in to %s (%s)...\n", env.Name, env.URL)

	var loginFn = apiClient.Login
	if admin {
		loginFn = apiClient.AdminLogin
	}

	resp, err := loginFn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	output.Success(os.Stdout, "Login successful!")
	fmt.Printf("  User: %s (%s)\n", resp.User.Name, resp.User.Email)
	if resp.User.IsAdmin {
		fmt.Println("  Role: Admin")
	}

	return nil
}
