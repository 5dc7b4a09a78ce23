package repository

import (
	"context"

	"restaurant_manager/internal/models"

	"gorm.io/gorm"
)

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) Create(ctx context.Context, item *models.OrderItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

func (r *orderItemRepository) ListByOrder(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&items).Error
	return items, translate(err)
}

type receiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *models.PaymentReceipt) error {
	return translate(r.db.WithContext(ctx).Create(receipt).Error)
}

func (r *receiptRepository) GetByOrderID(ctx context.Context, orderID uint) (*models.PaymentReceipt, error) {
	var receipt models.PaymentReceipt
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Take(&receipt).Error
	if err != nil {
		return nil, translate(err)
	}
	return &receipt, nil
}

func (r *receiptRepository) Update(ctx context.Context, receipt *models.PaymentReceipt) error {
	return translate(r.db.WithContext(ctx).Save(receipt).Error)
}
