package services

import (
	"context"
	"testing"

	"restaurant_manager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMessage struct {
	phone, text string
}

type fakeSender struct {
	sent []capturedMessage
}

func (s *fakeSender) SendTextMessage(_ context.Context, phone, message string) error {
	s.sent = append(s.sent, capturedMessage{phone: phone, text: message})
	return nil
}

func TestStatusMessage(t *testing.T) {
	store := &models.Store{Name: "Bistro"}
	tableID := uint(3)

	ready := &models.Order{CustomerName: "Ana", OrderNumber: "#004", Status: models.OrderReady, TableID: &tableID}
	assert.Contains(t, StatusMessage(store, ready), "#004")
	assert.Contains(t, StatusMessage(store, ready), "your table")

	pickup := &models.Order{CustomerName: "Ana", OrderNumber: "#005", Status: models.OrderReady}
	assert.Contains(t, StatusMessage(store, pickup), "counter")

	cancelled := &models.Order{CustomerName: "Ana", OrderNumber: "#006", Status: models.OrderCancelled}
	assert.Contains(t, StatusMessage(nil, cancelled), "the restaurant")

	assert.Empty(t, StatusMessage(store, &models.Order{Status: models.OrderPreparing}))
}

func TestWhatsAppNotifier(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewWhatsAppNotifier(sender)
	store := &models.Store{Name: "Bistro"}

	err := notifier.OrderStatusChanged(context.Background(), store, &models.Order{
		CustomerName: "Ana", CustomerPhone: "841112222", OrderNumber: "#001", Status: models.OrderReady,
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "258841112222", sender.sent[0].phone)

	err = notifier.OrderStatusChanged(context.Background(), store, &models.Order{Status: models.OrderPaid})
	require.NoError(t, err)
	assert.Len(t, sender.sent, 1, "no message for statuses customers are not told about")
}
