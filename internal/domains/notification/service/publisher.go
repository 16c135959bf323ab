package service

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=../mocks/publisher_mock.go -package=mocks

import (
	"context"

	"github.com/rs/zerolog/log"

	"termin/config"
	"termin/infras/kafka"
	"termin/infras/otel"
	"termin/internal/domains/notification/model"
	"termin/shared/constant"
)

// Publisher hands events to the notification pipeline without waiting for delivery.
type Publisher interface {
	Publish(ctx context.Context, events ...model.Event)
}

type publisherImpl struct {
	client kafka.Client
	topic  string
	otel   otel.Otel
}

func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		topic:  cfg.Kafka.Topics.Notification,
		otel:   otel,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, events ...model.Event) {
	if len(events) == 0 {
		return
	}

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		messages = append(messages, kafka.Message{Key: event.BookingID, Value: event})
	}

	go func() {
		c, scope := p.otel.NewScope(context.WithoutCancel(ctx), constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".Publish")
		defer scope.End()

		if err := p.client.SendMessages(c, p.topic, messages...); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Int("count", len(messages)).Msg("failed to publish booking events")
		}
	}()
}
