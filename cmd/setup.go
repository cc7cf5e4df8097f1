package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotui/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the embedded example configuration to the config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	if r.configPath == "" {
		return fmt.Errorf("%w: --config", shared.ErrMissingArgument)
	}

	r.logger.Info("creating config file", "path", r.configPath)

	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.writePlain("✓ Config written to %s\n", r.configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Fill in client_id and client_secret under [credentials.spotify]\n")
	r.writePlain("2. Run 'spotui auth' to sign in\n")

	return nil
}

// ConfigPath prints the config path in use.
func (r *Runner) ConfigPath(ctx context.Context, cmd *cli.Command) error {
	return r.writePlain("%s\n", r.configPath)
}
