package repository

import (
	"context"

	"restaurant_manager/internal/models"

	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.StoreID != 0 {
		query = query.Where("store_id = ?", filter.StoreID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at < ?", filter.To)
	}

	var orders []models.Order
	err := query.Order("created_at DESC").Order("id DESC").Find(&orders).Error
	return orders, translate(err)
}

func (r *orderRepository) ListByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("customer_phone = ?", phone).
		Order("created_at DESC").Order("id DESC").
		Find(&orders).Error
	return orders, translate(err)
}

func (r *orderRepository) LastOrderNumber(ctx context.Context, storeID uint) (string, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Select("order_number").
		Where("store_id = ?", storeID).
		Order("id DESC").
		Take(&order).Error
	if err != nil {
		return "", translate(err)
	}
	return order.OrderNumber, nil
}

func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	return translate(r.db.WithContext(ctx).Save(order).Error)
}
