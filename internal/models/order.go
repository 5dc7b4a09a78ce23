package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	StoreID       uint            `json:"storeId" gorm:"not null;uniqueIndex:idx_orders_store_number"`
	OrderNumber   string          `json:"orderNumber" gorm:"not null;uniqueIndex:idx_orders_store_number"`
	TableID       *uint           `json:"tableId"` // nil: pickup at the counter
	CustomerName  string          `json:"customerName" gorm:"not null"`
	CustomerPhone string          `json:"customerPhone" gorm:"index;not null"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" gorm:"type:varchar(16);not null"`
	Status        OrderStatus     `json:"status" gorm:"type:varchar(32);index;not null"`
	TotalAmount   decimal.Decimal `json:"totalAmount" gorm:"type:numeric(12,2);not null"`
	EstimatedTime int             `json:"estimatedTime" gorm:"not null"`
	ReceiptID     *uint           `json:"receiptId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// Ephemeral marks a degraded-mode record held only in process memory.
	Ephemeral bool `json:"ephemeral,omitempty" gorm:"-"`
}

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentMpesa PaymentMethod = "mpesa"
	PaymentEmola PaymentMethod = "emola"
	PaymentPOS   PaymentMethod = "pos"
)

var PaymentMethods = []PaymentMethod{PaymentCash, PaymentMpesa, PaymentEmola, PaymentPOS}

func (m PaymentMethod) Valid() bool {
	for _, method := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// ConfirmedInPerson reports whether payment is settled at the counter
// instead of through a reviewed receipt.
func (m PaymentMethod) ConfirmedInPerson() bool {
	return m == PaymentCash || m == PaymentPOS
}

type OrderStatus string

const (
	OrderPendingApproval OrderStatus = "pending_approval"
	OrderApproved        OrderStatus = "approved"
	OrderPaid            OrderStatus = "paid"
	OrderPreparing       OrderStatus = "preparing"
	OrderReady           OrderStatus = "ready"
	OrderDelivered       OrderStatus = "delivered"
	OrderCancelled       OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderPendingApproval,
	OrderApproved,
	OrderPaid,
	OrderPreparing,
	OrderReady,
	OrderDelivered,
	OrderCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Terminal reports whether no further status changes are expected.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// InitialOrderStatus is the status an order enters at creation.
func InitialOrderStatus(method PaymentMethod) OrderStatus {
	if method.ConfirmedInPerson() {
		return OrderPaid
	}
	return OrderPendingApproval
}
