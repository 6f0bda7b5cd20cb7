package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"foodgram/pkg/rabbitmq"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
)

// EventsCmd tails the domain event queue and logs every event.
var EventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Consume domain events from RabbitMQ and log them",
	RunE: func(cmd *cobra.Command, args []string) error {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: Cfg.RabbitMQ.URL, Queue: Cfg.RabbitMQ.Queue})
		if err != nil {
			return err
		}
		defer mqClient.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return mqClient.ConsumeEvents(ctx, logEvent)
	},
}

// logEvent acks malformed messages after logging them, since requeueing
// them would loop forever.
func logEvent(msg amqp.Delivery) error {
	event, err := rabbitmq.DecodeEvent(msg)
	if err != nil {
		log.Warn().Err(err).Uint64("delivery_tag", msg.DeliveryTag).Msg("dropping malformed event")
		return nil
	}
	log.Info().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Time("occurred_at", event.OccurredAt).
		Interface("payload", event.Payload).
		Msg("event received")
	return nil
}

func init() {
	RootCmd.AddCommand(EventsCmd)
}
