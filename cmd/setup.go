package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/sbx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the built-in config template to --output or the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if path == "" {
		path = r.configPath
	}
	if path == "" {
		return fmt.Errorf("%w: config path", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set server.base_url to your soundboard's address\n")
	r.writePlain("2. Run 'sbx sounds' to check the connection\n")
	return nil
}

// SetupDatabase initializes the database and runs migrations.
//
// A missing config file is created from the template first. The template matches the defaults already
// in use, so the database lands where the new file says.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if _, err := os.Stat(r.configPath); err != nil && r.configPath != "" {
		r.logger.Info("config file not found, creating from template", "path", r.configPath)
		if err := shared.CreateConfigFile(r.configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", r.configPath)
		}
	}

	config := r.config.Database
	r.logger.Info("initializing database", "path", config.Path)

	db, err := shared.NewDatabase(config.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.MaxOpenConns, config.MaxIdleConns)

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		r.logger.Info("rolled back latest migration")
		return r.writePlain("✓ Rolled back latest migration\n")
	}

	if !cmd.Bool("status") {
		r.logger.Info("running database migrations")
		if err := shared.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		r.logger.Infof("setup complete for database: %v", config.Path)
	}

	statuses, err := shared.MigrationStatuses(db)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	r.writePlainHeader("Migrations")
	for _, s := range statuses {
		mark := " "
		if s.Applied {
			mark = "✓"
		}
		r.writePlain("[%s] %04d %s\n", mark, s.Version, s.Name)
	}
	return nil
}
