package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopd-dev/shopd/internal/cli/config"
	"github.com/shopd-dev/shopd/internal/cli/output"
	"github.com/shopd-dev/shopd/internal/cli/userconfig"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a shopd.json configuration file in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(url)
		},
	}

	cmd.Flags().StringVar(&url, "url", config.DefaultAPIURL, "Platform API base URL")

	return cmd
}

func runInit(url string) error {
	if _, err := os.Stat(config.ConfigFileName); err == nil {
		return fmt.Errorf("%s already exists", config.ConfigFileName)
	}

	cfg := &config.Config{
		Environments: []config.Environment{
			{Name: "production", URL: url},
		},
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	output.Success(os.Stdout, "Created %s", config.ConfigFileName)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the file to add staging or sandbox environments")
	fmt.Println("  2. Run 'shopd login' to authenticate")
	return nil
}

// NewEnvCmd creates the env command for selecting the target environment
func NewEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env [name]",
		Short: "Select the environment used by subsequent commands",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			env, err := getEnvironment(name)
			if err != nil {
				return err
			}
			if err := userconfig.SetSelectedEnvironment(env.Name); err != nil {
				return fmt.Errorf("failed to save selected environment: %w", err)
			}
			output.Success(os.Stdout, "Using environment %s (%s)", env.Name, env.URL)
			return nil
		},
	}
}
