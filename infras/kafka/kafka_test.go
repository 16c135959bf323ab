package kafka_test

import (
	"context"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termin/config"
	"termin/infras/kafka"
)

type payload struct {
	BookingID string `json:"booking_id"`
	Kind      string `json:"kind"`
}

func TestMessage_RoundTrip(t *testing.T) {
	msg := kafka.Message{Key: "b-1", Value: payload{BookingID: "b-1", Kind: "booking.created"}}

	encoded, err := msg.ToKafkaMessage()
	require.NoError(t, err)

	assert.Equal(t, []byte("b-1"), encoded.Key)
	assert.JSONEq(t, `{"booking_id":"b-1","kind":"booking.created"}`, string(encoded.Value))
	assert.False(t, encoded.Time.IsZero())

	decoded, err := kafka.Decode[payload](encoded)
	require.NoError(t, err)

	assert.Equal(t, payload{BookingID: "b-1", Kind: "booking.created"}, decoded)
}

func TestMessage_Unencodable(t *testing.T) {
	msg := kafka.Message{Key: "b-1", Value: make(chan int)}

	_, err := msg.ToKafkaMessage()

	assert.Error(t, err)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := kafka.Decode[payload](kafkaGo.Message{Key: []byte("b-1"), Value: []byte("{")})

	assert.Error(t, err)
}

func TestSendMessages_NoBrokers(t *testing.T) {
	client := kafka.New(&config.Config{})

	err := client.SendMessages(context.Background(), "termin.booking.events", kafka.Message{Key: "b-1", Value: payload{}})

	assert.ErrorIs(t, err, kafka.ErrNoBrokers)
	assert.NoError(t, client.Close())
}

func TestFetchBackoff(t *testing.T) {
	tests := []struct {
		failures int
		want     time.Duration
	}{
		{failures: 0, want: 0},
		{failures: 1, want: 100 * time.Millisecond},
		{failures: 2, want: 200 * time.Millisecond},
		{failures: 4, want: 800 * time.Millisecond},
		{failures: 7, want: 5 * time.Second},
		{failures: 1000, want: 5 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, kafka.FetchBackoff(tt.failures), "failures=%d", tt.failures)
	}
}
