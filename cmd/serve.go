package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"foodgram/internal/app"
	"foodgram/internal/database"
	"foodgram/internal/services"
	"foodgram/pkg/rabbitmq"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ServeCmd runs the HTTP API until SIGINT or SIGTERM.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		// A nil interface (not a nil *rabbitmq.Client) disables events.
		var publisher services.EventPublisher
		if Cfg.RabbitMQ.Enabled {
			mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: Cfg.RabbitMQ.URL, Queue: Cfg.RabbitMQ.Queue})
			if err != nil {
				return err
			}
			defer mqClient.Close()
			publisher = mqClient
		}

		fiberApp, _ := app.NewApp(Cfg, db, publisher)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		listenErr := make(chan error, 1)
		go func() {
			log.Info().Str("port", Cfg.Server.Port).Bool("events", publisher != nil).Msg("starting server")
			listenErr <- fiberApp.Listen(Cfg.Server.Port)
		}()

		select {
		case err := <-listenErr:
			return err
		case <-quit:
		}

		log.Info().Msg("shutting down server")
		if err := fiberApp.Shutdown(); err != nil {
			log.Error().Err(err).Msg("error during Fiber shutdown")
		}
		log.Info().Msg("server gracefully stopped")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(ServeCmd)
}
