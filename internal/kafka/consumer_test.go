package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConsumer(t *testing.T) {
	consumer := NewConsumer([]string{"localhost:9092"}, "booking-worker", "payment_events")
	assert.NotNil(t, consumer)
	assert.NoError(t, consumer.Close())
}

func TestDecodeEvent(t *testing.T) {
	payload := []byte(`{"type":"paymentReceived","booking_id":"booking1","pnr":"BT12345","email":"test@example.com","status":"success","amount":38.98,"currency":"EUR"}`)

	event, err := decodeEvent(payload)

	assert.NoError(t, err)
	assert.Equal(t, "paymentReceived", event.Type)
	assert.Equal(t, "BT12345", event.PNR)
	assert.Equal(t, 38.98, event.Amount)
}

func TestDecodeEvent_Malformed(t *testing.T) {
	_, err := decodeEvent([]byte("{not json"))
	assert.Error(t, err)
}
