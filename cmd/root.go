package cmd

import (
	"fmt"
	"os"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logging"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Cfg holds the configuration loaded before any subcommand runs.
var Cfg *config.Config

var configPath string

// RootCmd is the base command. Subcommands register themselves in their own init().
var RootCmd = &cobra.Command{
	Use:   "foodgram",
	Short: "Recipe sharing backend",
	Long: `foodgram serves the recipe sharing API and provides maintenance
commands for migrations, catalog import and backup, and domain events.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		Cfg = cfg
		logging.Init(logging.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: os.Stderr,
		})
		return nil
	},
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./configs/config.yaml)")
}

// openDatabase connects with the loaded configuration and migrates the schema.
func openDatabase() (*gorm.DB, error) {
	db, err := database.Open(database.Config{Driver: Cfg.Database.Driver, DSN: Cfg.Database.DSN})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}
