package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shopd-dev/shopd/internal/cli/output"
)

// NewUploadCmd creates the upload command
func NewUploadCmd() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image or document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer file.Close()

			env, err := getEnvironment(envName)
			if err != nil {
				return err
			}
			apiClient := newAPIClient(env)

			if _, err := apiClient.FetchCSRFToken(cmd.Context()); err != nil {
				return err
			}

			up, err := apiClient.UploadFile(cmd.Context(), filepath.Base(args[0]), file)
			if err != nil {
				return err
			}

			output.Success(os.Stdout, "Uploaded %s (%d bytes)", up.FileName, int64(up.Size.Float64()))
			fmt.Printf("URL: %s\n", up.URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&envName, "env", "", "Environment name")

	return cmd
}
