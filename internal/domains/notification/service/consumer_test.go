package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	kafkaMocks "termin/infras/kafka/mocks"
	otelMocks "termin/infras/otel/mocks"
	emailLogMocks "termin/internal/domains/emaillog/mocks"
	"termin/internal/domains/notification/model"
	"termin/internal/domains/notification/service"
)

func TestConsumer_Handle(t *testing.T) {
	occurred := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		payload   string
		setupMock func(m *emailLogMocks.MockEmailLogService)
		wantErr   bool
	}{
		{
			name:    "records decoded event",
			payload: `{"booking_id":"b-1","kind":"booking.created","occurred_at":"2026-11-02T09:00:00Z"}`,
			setupMock: func(m *emailLogMocks.MockEmailLogService) {
				m.EXPECT().Record(gomock.Any(), model.Event{
					BookingID:  "b-1",
					Kind:       model.KindBookingCreated,
					OccurredAt: occurred,
				}).Return(nil)
			},
		},
		{
			name:      "undecodable payload is dropped",
			payload:   `not-json`,
			setupMock: func(_ *emailLogMocks.MockEmailLogService) {},
		},
		{
			name:    "record failure surfaces",
			payload: `{"booking_id":"b-1","kind":"booking.cancelled","occurred_at":"2026-11-02T09:00:00Z"}`,
			setupMock: func(m *emailLogMocks.MockEmailLogService) {
				m.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			emailLog := emailLogMocks.NewMockEmailLogService(ctrl)
			tt.setupMock(emailLog)

			consumer := service.NewConsumer(kafkaMocks.NewMockClient(ctrl), emailLog, testConfig(), otelMocks.NewOtel())

			err := consumer.Handle(context.Background(), kafkaGo.Message{Key: []byte("b-1"), Value: []byte(tt.payload)})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConsumer_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	client.EXPECT().Consume(gomock.Any(), "termin-notifier", "termin.booking.events", gomock.Any()).Return(nil)

	consumer := service.NewConsumer(client, emailLogMocks.NewMockEmailLogService(ctrl), testConfig(), otelMocks.NewOtel())

	assert.NoError(t, consumer.Run(context.Background()))
}
