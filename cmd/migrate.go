package cmd

import (
	"foodgram/internal/database"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// MigrateCmd creates or updates the database schema.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		log.Info().Str("driver", Cfg.Database.Driver).Msg("database migrations executed successfully")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(MigrateCmd)
}
