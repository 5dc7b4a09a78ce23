package services

import (
	"context"
	"fmt"

	"restaurant_manager/internal/models"
	"restaurant_manager/internal/phone"
	"restaurant_manager/pkg/whatsapp"
)

// Notifier tells a customer about a change to their order.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, store *models.Store, order *models.Order) error
}

// MessageSender is satisfied by *whatsapp.Client.
type MessageSender interface {
	SendTextMessage(ctx context.Context, phone, message string) error
}

type whatsappNotifier struct {
	client MessageSender
}

func NewWhatsAppNotifier(client MessageSender) Notifier {
	return &whatsappNotifier{client: client}
}

var _ MessageSender = (*whatsapp.Client)(nil)

func (n *whatsappNotifier) OrderStatusChanged(ctx context.Context, store *models.Store, order *models.Order) error {
	message := StatusMessage(store, order)
	if message == "" {
		return nil
	}
	return n.client.SendTextMessage(ctx, phone.International(order.CustomerPhone), message)
}

// StatusMessage renders the customer text for statuses worth a message.
func StatusMessage(store *models.Store, order *models.Order) string {
	name := "the restaurant"
	if store != nil && store.Name != "" {
		name = store.Name
	}
	switch order.Status {
	case models.OrderReady:
		if order.TableID == nil {
			return fmt.Sprintf("Hi %s, your order %s at %s is ready for pickup at the counter.",
				order.CustomerName, order.OrderNumber, name)
		}
		return fmt.Sprintf("Hi %s, your order %s at %s is ready and on its way to your table.",
			order.CustomerName, order.OrderNumber, name)
	case models.OrderCancelled:
		return fmt.Sprintf("Hi %s, your order %s at %s was cancelled. Please contact the restaurant if you already paid.",
			order.CustomerName, order.OrderNumber, name)
	}
	return ""
}
