package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/redis"
	"restaurant_manager/internal/repository"
	"restaurant_manager/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("connection refused")

// fixture is a "bistro" store with one category, one product and one
// active table, owned by owner. admin owns nothing.
type fixture struct {
	repos    *repository.Repositories
	stores   StoreService
	owner    *auth.Principal
	admin    *auth.Principal
	store    *models.Store
	category *models.Category
	product  *models.Product
	table    *models.Table
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := memory.New()

	owner := &models.User{Name: "Owner", Email: "owner@bistro.test", Role: string(models.RoleOwner), IsActive: true}
	require.NoError(t, repos.Users.Create(ctx, owner))
	admin := &models.User{Name: "Admin", Email: "admin@bistro.test", Role: string(models.RoleAdmin), IsActive: true}
	require.NoError(t, repos.Users.Create(ctx, admin))

	store := &models.Store{UserID: owner.ID, Name: "Bistro", Slug: "bistro"}
	require.NoError(t, repos.Stores.Create(ctx, store))

	category := &models.Category{StoreID: store.ID, Name: "Mains", OrderPosition: 1}
	require.NoError(t, repos.Categories.Create(ctx, category))

	product := &models.Product{
		StoreID:         store.ID,
		CategoryID:      category.ID,
		Name:            "Frango grelhado",
		Price:           decimal.NewFromInt(150),
		IsAvailable:     true,
		PreparationTime: 10,
	}
	require.NoError(t, repos.Products.Create(ctx, product))

	table := &models.Table{StoreID: store.ID, Number: 3, IsActive: true}
	require.NoError(t, repos.Tables.Create(ctx, table))

	return &fixture{
		repos:    repos,
		stores:   NewStoreService(repos, nil, 0),
		owner:    &auth.Principal{UserID: owner.ID, Role: models.RoleOwner},
		admin:    &auth.Principal{UserID: admin.ID, Role: models.RoleAdmin},
		store:    store,
		category: category,
		product:  product,
		table:    table,
	}
}

func (f *fixture) orderService(opts OrderServiceOptions) OrderService {
	return NewOrderService(f.repos, f.stores, opts)
}

// placeRequest orders two of the fixture product at the fixture table.
func (f *fixture) placeRequest(method string) PlaceOrderRequest {
	tableID := int(f.table.ID)
	return PlaceOrderRequest{
		StoreSlug:     "bistro",
		TableID:       &tableID,
		CustomerName:  "Ana",
		CustomerPhone: "+258 84 111 2222",
		PaymentMethod: method,
		Items:         []PlaceOrderItem{{ProductID: f.product.ID, Quantity: 2}},
	}
}

func (f *fixture) place(t *testing.T, svc OrderService, method string) *models.Order {
	t.Helper()
	order, err := svc.PlaceOrder(context.Background(), f.placeRequest(method))
	require.NoError(t, err)
	return order
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func uintPtr(v uint) *uint { return &v }

type failingOrders struct {
	repository.OrderRepository
}

func (failingOrders) Create(context.Context, *models.Order) error {
	return errBackend
}

type failingCustomers struct {
	repository.CustomerRepository
}

func (failingCustomers) GetByPhone(context.Context, string) (*models.Customer, error) {
	return nil, errBackend
}

// recordingNotifier records each notified status. When block is set every
// call waits for it to close first.
type recordingNotifier struct {
	mu       sync.Mutex
	statuses []models.OrderStatus
	err      error
	block    chan struct{}
}

func (n *recordingNotifier) OrderStatusChanged(_ context.Context, _ *models.Store, order *models.Order) error {
	if n.block != nil {
		<-n.block
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, order.Status)
	return n.err
}

func waitForCalls(t *testing.T, n *recordingNotifier, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return len(n.calls()) == want }, time.Second, 5*time.Millisecond)
}

func (n *recordingNotifier) calls() []models.OrderStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.OrderStatus(nil), n.statuses...)
}

type fakeCache struct {
	stores  map[string]models.Store
	hits    int
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{stores: make(map[string]models.Store)}
}

func (c *fakeCache) GetStore(_ context.Context, slug string) (*models.Store, error) {
	s, ok := c.stores[slug]
	if !ok {
		return nil, redis.ErrCacheMiss
	}
	c.hits++
	return &s, nil
}

func (c *fakeCache) SetStore(_ context.Context, store *models.Store, _ time.Duration) error {
	c.stores[store.Slug] = *store
	return nil
}

func (c *fakeCache) DeleteStore(_ context.Context, slug string) error {
	delete(c.stores, slug)
	c.deletes = append(c.deletes, slug)
	return nil
}
