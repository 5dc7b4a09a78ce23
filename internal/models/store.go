package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money travels as a JSON number on the wire.
	decimal.MarshalJSONWithoutQuotes = true
}

// Store is a single restaurant tenant. Each owning user has exactly one.
type Store struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"userId" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Slug         string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description  string    `json:"description,omitempty"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	FacebookURL  string    `json:"facebookUrl,omitempty"`
	InstagramURL string    `json:"instagramUrl,omitempty"`
	WhatsAppURL  string    `json:"whatsappUrl,omitempty" gorm:"column:whatsapp_url"`
	AppURL       string    `json:"appUrl,omitempty"`
	MpesaName    string    `json:"mpesaName,omitempty"`
	MpesaPhone   string    `json:"mpesaPhone,omitempty"`
	EmolaName    string    `json:"emolaName,omitempty"`
	EmolaPhone   string    `json:"emolaPhone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Table struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StoreID   uint      `json:"storeId" gorm:"not null;uniqueIndex:idx_tables_store_number"`
	Number    int       `json:"number" gorm:"not null;uniqueIndex:idx_tables_store_number"`
	IsActive  bool      `json:"isActive" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Customer is upserted by normalized phone whenever an order is placed.
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Phone     string    `json:"phone" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
