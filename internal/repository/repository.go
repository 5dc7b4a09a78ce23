package repository

import (
	"context"
	"errors"
	"time"

	"restaurant_manager/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// OrderFilter narrows an order listing. Zero values mean no restriction.
type OrderFilter struct {
	StoreID  uint
	Statuses []models.OrderStatus
	From     time.Time
	To       time.Time
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	GetByID(ctx context.Context, id uint) (*models.Store, error)
	GetBySlug(ctx context.Context, slug string) (*models.Store, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Store, error)
	Update(ctx context.Context, store *models.Store) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	ListByStore(ctx context.Context, storeID uint) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	// Delete removes the category, its child categories and every product
	// filed under any of them.
	Delete(ctx context.Context, id uint) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	ListByStore(ctx context.Context, storeID uint, categoryID *uint) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}

type TableRepository interface {
	Create(ctx context.Context, table *models.Table) error
	GetByID(ctx context.Context, id uint) (*models.Table, error)
	GetByNumber(ctx context.Context, storeID uint, number int) (*models.Table, error)
	ListByStore(ctx context.Context, storeID uint, activeOnly bool) ([]models.Table, error)
	Update(ctx context.Context, table *models.Table) error
	Delete(ctx context.Context, id uint) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	ListByPhone(ctx context.Context, phone string) ([]models.Order, error)
	// LastOrderNumber returns the number of the most recently inserted
	// order of the store, or ErrNotFound when the store has none.
	LastOrderNumber(ctx context.Context, storeID uint) (string, error)
	Update(ctx context.Context, order *models.Order) error
}

type OrderItemRepository interface {
	Create(ctx context.Context, item *models.OrderItem) error
	ListByOrder(ctx context.Context, orderID uint) ([]models.OrderItem, error)
}

type ReceiptRepository interface {
	Create(ctx context.Context, receipt *models.PaymentReceipt) error
	GetByOrderID(ctx context.Context, orderID uint) (*models.PaymentReceipt, error)
	Update(ctx context.Context, receipt *models.PaymentReceipt) error
}

type CustomerRepository interface {
	GetByPhone(ctx context.Context, phone string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
}

// Repositories bundles one backend's implementation of every entity
// repository.
type Repositories struct {
	Users      UserRepository
	Stores     StoreRepository
	Categories CategoryRepository
	Products   ProductRepository
	Tables     TableRepository
	Orders     OrderRepository
	OrderItems OrderItemRepository
	Receipts   ReceiptRepository
	Customers  CustomerRepository
}

// NewGormRepositories wires the durable implementations over db.
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db),
		Stores:     NewStoreRepository(db),
		Categories: NewCategoryRepository(db),
		Products:   NewProductRepository(db),
		Tables:     NewTableRepository(db),
		Orders:     NewOrderRepository(db),
		OrderItems: NewOrderItemRepository(db),
		Receipts:   NewReceiptRepository(db),
		Customers:  NewCustomerRepository(db),
	}
}

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// checkAffected turns an update or delete that touched nothing into
// ErrNotFound.
func checkAffected(tx *gorm.DB) error {
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
