package repository

import (
	"context"

	"restaurant_manager/internal/models"

	"gorm.io/gorm"
)

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(ctx context.Context, store *models.Store) error {
	return translate(r.db.WithContext(ctx).Create(store).Error)
}

func (r *storeRepository) GetByID(ctx context.Context, id uint) (*models.Store, error) {
	return r.take(ctx, "id = ?", id)
}

func (r *storeRepository) GetBySlug(ctx context.Context, slug string) (*models.Store, error) {
	return r.take(ctx, "slug = ?", slug)
}

func (r *storeRepository) GetByUserID(ctx context.Context, userID uint) (*models.Store, error) {
	return r.take(ctx, "user_id = ?", userID)
}

func (r *storeRepository) Update(ctx context.Context, store *models.Store) error {
	return translate(r.db.WithContext(ctx).Save(store).Error)
}

func (r *storeRepository) take(ctx context.Context, query string, args ...interface{}) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where(query, args...).Take(&store).Error; err != nil {
		return nil, translate(err)
	}
	return &store, nil
}

type tableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) Create(ctx context.Context, table *models.Table) error {
	return translate(r.db.WithContext(ctx).Create(table).Error)
}

func (r *tableRepository) GetByID(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	if err := r.db.WithContext(ctx).First(&table, id).Error; err != nil {
		return nil, translate(err)
	}
	return &table, nil
}

func (r *tableRepository) GetByNumber(ctx context.Context, storeID uint, number int) (*models.Table, error) {
	var table models.Table
	err := r.db.WithContext(ctx).Where("store_id = ? AND number = ?", storeID, number).Take(&table).Error
	if err != nil {
		return nil, translate(err)
	}
	return &table, nil
}

func (r *tableRepository) ListByStore(ctx context.Context, storeID uint, activeOnly bool) ([]models.Table, error) {
	query := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var tables []models.Table
	err := query.Order("number").Find(&tables).Error
	return tables, translate(err)
}

func (r *tableRepository) Update(ctx context.Context, table *models.Table) error {
	return translate(r.db.WithContext(ctx).Save(table).Error)
}

func (r *tableRepository) Delete(ctx context.Context, id uint) error {
	return checkAffected(r.db.WithContext(ctx).Delete(&models.Table{}, id))
}
