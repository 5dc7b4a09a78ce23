package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/handlers"
	"restaurant_manager/internal/logger"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"restaurant_manager/internal/repository/memory"
	"restaurant_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router  http.Handler
	repos   *repository.Repositories
	product *models.Product
	table   *models.Table
}

// newTestServer seeds a "bistro" store owned by owner@bistro.test with one
// product (150, 10 minutes) and table 3.
func newTestServer(t *testing.T, mutate func(*Deps)) *testServer {
	t.Helper()
	ctx := context.Background()
	repos := memory.New()
	tokens := auth.NewManager("test-secret", time.Hour)

	owner := &models.User{Name: "Owner", Email: "owner@bistro.test", IsActive: true}
	require.NoError(t, services.NewUserService(repos.Users, tokens).CreateUser(ctx, owner, "secret1"))

	store := &models.Store{UserID: owner.ID, Name: "Bistro", Slug: "bistro"}
	require.NoError(t, repos.Stores.Create(ctx, store))
	category := &models.Category{StoreID: store.ID, Name: "Mains", OrderPosition: 1}
	require.NoError(t, repos.Categories.Create(ctx, category))
	product := &models.Product{
		StoreID: store.ID, CategoryID: category.ID, Name: "Frango",
		Price: decimal.NewFromInt(150), IsAvailable: true, PreparationTime: 10,
	}
	require.NoError(t, repos.Products.Create(ctx, product))
	table := &models.Table{StoreID: store.ID, Number: 3, IsActive: true}
	require.NoError(t, repos.Tables.Create(ctx, table))

	deps := Deps{Repos: repos, Tokens: tokens, StrictTransitions: true}
	if mutate != nil {
		mutate(&deps)
	}
	return &testServer{router: New(deps), repos: repos, product: product, table: table}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "owner@bistro.test", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func (s *testServer) orderBody(method string) gin.H {
	return gin.H{
		"storeSlug":     "bistro",
		"tableId":       s.table.ID,
		"customerName":  "Ana",
		"customerPhone": "+258 84 111 2222",
		"paymentMethod": method,
		"items":         []gin.H{{"productId": s.product.ID, "quantity": 2, "notes": "sem <b>picante</b>"}},
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestPlaceOrderFlow(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/orders", "", s.orderBody("mpesa"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "durable", w.Header().Get(handlers.PersistenceHeader))
	assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))

	order := decode(t, w)
	assert.Equal(t, "#001", order["orderNumber"])
	assert.Equal(t, 300.0, order["totalAmount"])
	assert.Equal(t, 20.0, order["estimatedTime"])
	assert.Equal(t, "pending_approval", order["status"])
	assert.Equal(t, "841112222", order["customerPhone"])
	id := uint(order["id"].(float64))

	items, err := s.repos.OrderItems.ListByOrder(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "sem picante", items[0].Notes)

	w = s.do(t, http.MethodGet, "/api/orders?phone=841112222", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var byPhone []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &byPhone))
	assert.Len(t, byPhone, 1)

	w = s.do(t, http.MethodGet, "/api/orders/by-phone?phone=258841112222", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	token := s.login(t)
	path := "/api/orders/" + strconv.Itoa(int(id))

	w = s.do(t, http.MethodPut, path+"/approve", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "no receipt yet")

	w = s.do(t, http.MethodPost, path+"/receipt", "", gin.H{"receiptUrl": "https://files.test/r.png"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, path+"/receipt", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://files.test/r.png", decode(t, w)["receiptUrl"])

	w = s.do(t, http.MethodPut, path+"/approve", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "approved", decode(t, w)["status"])

	w = s.do(t, http.MethodPut, path+"/mark-paid", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paid", decode(t, w)["status"])

	w = s.do(t, http.MethodPut, path+"/status", token, gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPut, path+"/status", token, gin.H{"status": "delivered", "override": true})
	assert.Equal(t, http.StatusForbidden, w.Code, "owners cannot override")

	w = s.do(t, http.MethodPut, path+"/status", token, gin.H{"status": "preparing"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, path+"/items", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/orders?status=preparing", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	w = s.do(t, http.MethodGet, "/api/dashboard/summary?from=2000-01-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 300.0, decode(t, w)["totalRevenue"])
}

func TestPlaceOrder_BadRequests(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/orders", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request format", decode(t, w)["error"])

	body := s.orderBody("mpesa")
	delete(body, "tableId")
	w = s.do(t, http.MethodPost, "/api/orders", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = s.orderBody("mpesa")
	body["storeSlug"] = "nowhere"
	w = s.do(t, http.MethodPost, "/api/orders", "", body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/orders/by-phone", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaceOrder_IgnoresClientReceiptID(t *testing.T) {
	s := newTestServer(t, nil)

	body := s.orderBody("mpesa")
	body["receiptId"] = 99
	w := s.do(t, http.MethodPost, "/api/orders", "", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, linked := decode(t, w)["receiptId"]
	assert.False(t, linked)
}

func TestStaffRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/api/orders", "/api/orders/1", "/api/store", "/api/tables", "/api/dashboard/summary"} {
		w := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := s.do(t, http.MethodGet, "/api/store", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "owner@bistro.test", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCatalogAndTables(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t)

	w := s.do(t, http.MethodPost, "/api/categories", token, gin.H{"name": "Drinks"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	categoryID := uint(decode(t, w)["id"].(float64))

	w = s.do(t, http.MethodPost, "/api/products", token, gin.H{"categoryId": categoryID, "name": "Sumo", "price": 40})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode(t, w)
	assert.Equal(t, true, product["isAvailable"])
	assert.Equal(t, 5.0, product["preparationTime"])

	w = s.do(t, http.MethodPut, "/api/products/"+strconv.Itoa(int(s.product.ID))+"/availability", token, gin.H{"isAvailable": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/stores/bistro", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var menu struct {
		Categories []struct {
			Name     string        `json:"name"`
			Products []interface{} `json:"products"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &menu))
	require.Len(t, menu.Categories, 2)
	assert.Equal(t, "Mains", menu.Categories[0].Name)
	assert.Empty(t, menu.Categories[0].Products)
	assert.Len(t, menu.Categories[1].Products, 1)

	w = s.do(t, http.MethodPost, "/api/tables", token, gin.H{"number": 3})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/tables", token, gin.H{"number": 4})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/stores/bistro/tables", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tables []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tables))
	assert.Len(t, tables, 2)

	w = s.do(t, http.MethodDelete, "/api/categories/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type downOrders struct {
	repository.OrderRepository
}

func (downOrders) Create(context.Context, *models.Order) error {
	return errors.New("database is down")
}

func TestPlaceOrder_EphemeralFallback(t *testing.T) {
	s := newTestServer(t, func(d *Deps) {
		primary := *d.Repos
		primary.Orders = downOrders{d.Repos.Orders}
		d.Repos = &primary
		d.Fallback = memory.New(memory.WithIDSeed(1000000))
	})

	w := s.do(t, http.MethodPost, "/api/orders", "", s.orderBody("cash"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ephemeral", w.Header().Get(handlers.PersistenceHeader))

	order := decode(t, w)
	assert.Equal(t, 1000000.0, order["id"])
	assert.Equal(t, true, order["ephemeral"])
	assert.Regexp(t, `^ORD-\d+$`, order["orderNumber"])
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, func(d *Deps) {
		d.Checks = map[string]handlers.Pinger{
			"database": func(context.Context) error { return nil },
		}
	})
	w := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	down := newTestServer(t, func(d *Deps) {
		d.Checks = map[string]handlers.Pinger{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		}
	})
	w = down.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", decode(t, w)["status"])
}
