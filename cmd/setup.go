package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wissl-audio/trill/internal/shared"
	"github.com/wissl-audio/trill/internal/store"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the template and initializes the
// local store.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing local store", "path", config.Storage.Path)

	kv, err := store.Open(config.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to create local store: %w", err)
	}
	defer kv.Close()

	r.config = config
	r.configPath = configPath

	r.writePlain("✓ Setup complete\n")
	r.writePlainln("Next steps:")
	r.writePlain("1. Edit %s and point server.url at your Wissl server\n", configPath)
	r.writePlain("2. Run 'trill login <username>' to authenticate\n")
	r.writePlain("3. Run 'trill ui' to start browsing\n")

	return nil
}

// Open opens the server's web interface in the default browser.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	if r.config.Server.URL == "" {
		return fmt.Errorf("%w: server.url is not set, run 'trill setup' first", shared.ErrMissingConfig)
	}

	r.logger.Info("opening web interface", "url", r.config.Server.URL)
	if err := shared.OpenBrowser(r.config.Server.URL); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
