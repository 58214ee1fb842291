package commands

import (
	"fmt"
	"os"

	"github.com/shopd-dev/shopd/internal/cli/client"
	"github.com/shopd-dev/shopd/internal/cli/config"
	"github.com/shopd-dev/shopd/internal/cli/envselect"
	"github.com/shopd-dev/shopd/internal/cli/session"
	"github.com/shopd-dev/shopd/internal/logger"
)

// getEnvironment loads the project config and resolves the target environment.
// This is common logic used by most commands.
func getEnvironment(envName string) (*config.Environment, error) {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'shopd init' to create a configuration file", err)
	}

	env, err := envselect.ResolveEnvironment(cfg, envName)
	if err != nil {
		return nil, err
	}

	if env.URL == "" {
		return nil, fmt.Errorf("environment URL is empty. Please edit %s and add a valid URL", config.ConfigFileName)
	}

	return env, nil
}

// newAPIClient builds a client over the keyring-backed session for an environment
func newAPIClient(env *config.Environment) *client.Client {
	log := logger.GetLogger()

	sess := session.New(session.NewKeyringStore(), log)
	sess.Load()
	sess.OnLogout(func() {
		fmt.Fprintln(os.Stderr, "Session expired. Please run 'shopd login' again.")
	})

	return client.New(env.URL, sess, log)
}
