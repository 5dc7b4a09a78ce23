package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const MaxItemNotesLength = 200

// OrderItem is immutable once created. Price is the unit price captured
// when the order was placed.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"orderId" gorm:"index;not null"`
	ProductID uint            `json:"productId" gorm:"not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Notes     string          `json:"notes,omitempty" gorm:"size:200"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Subtotal is price multiplied by quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type PaymentReceipt struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	OrderID       uint          `json:"orderId" gorm:"uniqueIndex;not null"`
	PaymentMethod PaymentMethod `json:"paymentMethod" gorm:"type:varchar(16);not null"`
	ReceiptURL    string        `json:"receiptUrl" gorm:"not null"`
	IsApproved    bool          `json:"isApproved" gorm:"not null"`
	ApprovedBy    *uint         `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time    `json:"approvedAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// All lists every model managed by migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Store{},
		&Category{},
		&Product{},
		&Table{},
		&Customer{},
		&Order{},
		&OrderItem{},
		&PaymentReceipt{},
	}
}
