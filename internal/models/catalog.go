package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultPreparationTime = 5

type Category struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	StoreID       uint      `json:"storeId" gorm:"index;not null"`
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description,omitempty"`
	OrderPosition int       `json:"orderPosition" gorm:"not null"`
	ParentID      *uint     `json:"parentId" gorm:"index"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Product struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	CategoryID      uint            `json:"categoryId" gorm:"index;not null"`
	StoreID         uint            `json:"storeId" gorm:"index;not null"`
	Name            string          `json:"name" gorm:"not null"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Image           string          `json:"image,omitempty"`
	IsAvailable     bool            `json:"isAvailable" gorm:"not null"`
	IsHot           bool            `json:"isHot" gorm:"not null"` // featured
	PreparationTime int             `json:"preparationTime" gorm:"not null"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// PrepMinutes returns the preparation estimate, defaulting unset values.
func (p *Product) PrepMinutes() int {
	if p.PreparationTime <= 0 {
		return DefaultPreparationTime
	}
	return p.PreparationTime
}
