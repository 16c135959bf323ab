package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"termin/config"
	"termin/infras/kafka"
	"termin/infras/otel"
	emailLogService "termin/internal/domains/emaillog/service"
	"termin/internal/domains/notification/model"
	"termin/shared/constant"
)

// Consumer turns booking events from the notification topic into email log entries.
type Consumer struct {
	client   kafka.Client
	emailLog emailLogService.EmailLog
	otel     otel.Otel
	group    string
	topic    string
}

func NewConsumer(client kafka.Client, emailLog emailLogService.EmailLog, cfg *config.Config, otel otel.Otel) *Consumer {
	return &Consumer{
		client:   client,
		emailLog: emailLog,
		otel:     otel,
		group:    cfg.Kafka.ConsumerGroup,
		topic:    cfg.Kafka.Topics.Notification,
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	log.Info().Str("topic", c.topic).Str("group", c.group).Msg("notification consumer started")

	if err := c.client.Consume(ctx, c.group, c.topic, c.Handle); err != nil {
		return fmt.Errorf("failed to consume notification events: %w", err)
	}

	return nil
}

func (c *Consumer) Handle(ctx context.Context, msg kafkaGo.Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".notification.Handle")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	event, err := kafka.Decode[model.Event](msg)
	if err != nil {
		log.Warn().Err(err).Str("key", string(msg.Key)).Msg("dropping undecodable notification event")

		return nil
	}

	if err = c.emailLog.Record(ctx, event); err != nil {
		return fmt.Errorf("failed to record %s for booking %s: %w", event.Kind, event.BookingID, err)
	}

	return nil
}
