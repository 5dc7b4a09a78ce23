package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/logger"
	"restaurant_manager/internal/metrics"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/phone"
	"restaurant_manager/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxNumberAttempts bounds retries when a concurrent placement took the
// same order number.
const maxNumberAttempts = 3

type PlaceOrderItem struct {
	ProductID uint   `json:"productId"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

type PlaceOrderRequest struct {
	StoreSlug     string           `json:"storeSlug"`
	TableID       *int             `json:"tableId"` // 0: pickup at the counter
	CustomerName  string           `json:"customerName"`
	CustomerPhone string           `json:"customerPhone"`
	PaymentMethod string           `json:"paymentMethod"`
	Items         []PlaceOrderItem `json:"items"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error)
	ListByStore(ctx context.Context, principal *auth.Principal, storeSlug string, statuses []string) ([]models.Order, error)
	ListByPhone(ctx context.Context, phoneNumber string) ([]models.Order, error)
	GetOrder(ctx context.Context, principal *auth.Principal, id uint) (*models.Order, error)
	GetOrderItems(ctx context.Context, principal *auth.Principal, id uint) ([]models.OrderItem, error)

	UpdateStatus(ctx context.Context, principal *auth.Principal, id uint, status string, override bool) (*models.Order, error)
	AttachReceipt(ctx context.Context, orderID uint, receiptURL string) (*models.PaymentReceipt, error)
	GetReceipt(ctx context.Context, principal *auth.Principal, orderID uint) (*models.PaymentReceipt, error)
	ApproveReceipt(ctx context.Context, principal *auth.Principal, orderID uint) (*models.Order, error)
	RejectReceipt(ctx context.Context, principal *auth.Principal, orderID uint) (*models.Order, error)
	MarkPaid(ctx context.Context, principal *auth.Principal, orderID uint) (*models.Order, error)
}

type OrderServiceOptions struct {
	// Fallback receives orders the primary store rejects. Nil disables the
	// degraded mode.
	Fallback          *repository.Repositories
	Numberer          OrderNumberer
	Notifier          Notifier
	StrictTransitions bool
	Clock             func() time.Time
}

type orderService struct {
	repos    *repository.Repositories
	fallback *repository.Repositories
	stores   StoreService
	numberer OrderNumberer
	notifier Notifier
	strict   bool
	now      func() time.Time
}

func NewOrderService(repos *repository.Repositories, stores StoreService, opts OrderServiceOptions) OrderService {
	s := &orderService{
		repos:    repos,
		fallback: opts.Fallback,
		stores:   stores,
		numberer: opts.Numberer,
		notifier: opts.Notifier,
		strict:   opts.StrictTransitions,
		now:      opts.Clock,
	}
	if s.numberer == nil {
		s.numberer = NewLastOrderNumberer(repos.Orders)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *orderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	log := logger.FromContext(ctx)

	method, customerPhone, err := validatePlacement(&req)
	if err != nil {
		return nil, err
	}

	store, err := s.stores.FindBySlug(ctx, req.StoreSlug)
	if err != nil {
		return nil, err
	}

	var tableID *uint
	if *req.TableID > 0 {
		id := uint(*req.TableID)
		if err := s.checkTable(ctx, store.ID, id); err != nil {
			return nil, err
		}
		tableID = &id
	}

	lines, total, estimate, err := s.priceItems(ctx, store.ID, req.Items)
	if err != nil {
		return nil, err
	}

	s.upsertCustomer(ctx, req.CustomerName, customerPhone)

	order := &models.Order{
		StoreID:       store.ID,
		TableID:       tableID,
		CustomerName:  req.CustomerName,
		CustomerPhone: customerPhone,
		PaymentMethod: method,
		Status:        models.InitialOrderStatus(method),
		TotalAmount:   total,
		EstimatedTime: estimate,
	}

	repos, err := s.createOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		item := &lines[i]
		item.OrderID = order.ID
		if err := repos.OrderItems.Create(ctx, item); err != nil {
			log.Error("Failed to create order item",
				zap.Uint("order_id", order.ID),
				zap.Uint("product_id", item.ProductID),
				zap.Error(err),
			)
			metrics.OrderItemFailed.Inc()
		}
	}

	metrics.RecordOrderPlaced(string(method), order.Ephemeral)
	log.Info("Order placed",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Uint("store_id", store.ID),
		zap.String("status", string(order.Status)),
		zap.Bool("ephemeral", order.Ephemeral),
	)
	return order, nil
}

// validatePlacement checks and cleans the request in place.
func validatePlacement(req *PlaceOrderRequest) (models.PaymentMethod, string, error) {
	req.StoreSlug = strings.TrimSpace(req.StoreSlug)
	req.CustomerName = cleanText(req.CustomerName)

	switch {
	case req.StoreSlug == "":
		return "", "", validationErr("storeSlug is required")
	case req.TableID == nil:
		return "", "", validationErr("tableId is required (use 0 for pickup)")
	case *req.TableID < 0:
		return "", "", validationErr("tableId must not be negative")
	case req.CustomerName == "":
		return "", "", validationErr("customerName is required")
	case strings.TrimSpace(req.CustomerPhone) == "":
		return "", "", validationErr("customerPhone is required")
	case len(req.Items) == 0:
		return "", "", validationErr("at least one item is required")
	}

	method := models.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod)))
	if !method.Valid() {
		return "", "", validationErr("paymentMethod must be one of %s", joinMethods(models.PaymentMethods))
	}

	customerPhone := phone.Normalize(req.CustomerPhone)
	if customerPhone == "" {
		return "", "", validationErr("customerPhone must contain digits")
	}

	for i := range req.Items {
		item := &req.Items[i]
		if item.ProductID == 0 {
			return "", "", validationErr("item %d: productId is required", i+1)
		}
		if item.Quantity < 1 {
			return "", "", validationErr("item %d: quantity must be at least 1", i+1)
		}
		item.Notes = cleanText(item.Notes)
		if utf8.RuneCountInString(item.Notes) > models.MaxItemNotesLength {
			return "", "", validationErr("item %d: notes must be at most %d characters", i+1, models.MaxItemNotesLength)
		}
	}
	return method, customerPhone, nil
}

func joinMethods(methods []models.PaymentMethod) string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func (s *orderService) checkTable(ctx context.Context, storeID, tableID uint) error {
	table, err := s.repos.Tables.GetByID(ctx, tableID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.FromContext(ctx).Error("Failed to load table", zap.Uint("table_id", tableID), zap.Error(err))
		}
		return validationErr("table %d is not available", tableID)
	}
	if table.StoreID != storeID || !table.IsActive {
		return validationErr("table %d is not available", tableID)
	}
	return nil
}

// priceItems resolves every product into an unsaved order item carrying the
// current price. An unavailable product wins over a missing one so the
// caller always learns about the item they can fix.
func (s *orderService) priceItems(ctx context.Context, storeID uint, items []PlaceOrderItem) ([]models.OrderItem, decimal.Decimal, int, error) {
	var (
		lines       = make([]models.OrderItem, 0, len(items))
		total       = decimal.Zero
		estimate    int
		missing     error
		unavailable error
	)

	for _, item := range items {
		product, err := s.repos.Products.GetByID(ctx, item.ProductID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			logger.FromContext(ctx).Error("Failed to load product", zap.Uint("product_id", item.ProductID), zap.Error(err))
		}
		if err != nil || product.StoreID != storeID {
			if missing == nil {
				missing = notFoundErr("product %d not found", item.ProductID)
			}
			continue
		}
		if !product.IsAvailable {
			if unavailable == nil {
				unavailable = validationErr("product %q is not available", product.Name)
			}
			continue
		}

		line := models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
			Notes:     item.Notes,
		}
		total = total.Add(line.Subtotal())
		estimate += product.PrepMinutes() * item.Quantity
		lines = append(lines, line)
	}

	if unavailable != nil {
		return nil, decimal.Zero, 0, unavailable
	}
	if missing != nil {
		return nil, decimal.Zero, 0, missing
	}
	return lines, total, estimate, nil
}

// upsertCustomer records the latest name for a phone. Failures are logged
// and counted; they never fail the order.
func (s *orderService) upsertCustomer(ctx context.Context, name, customerPhone string) {
	log := logger.FromContext(ctx)
	fail := func(err error) {
		log.Warn("Customer upsert failed", zap.String("phone", customerPhone), zap.Error(err))
		metrics.CustomerUpsertFailed.Inc()
	}

	existing, err := s.repos.Customers.GetByPhone(ctx, customerPhone)
	switch {
	case err == nil:
		existing.Name = name
		if err := s.repos.Customers.Update(ctx, existing); err != nil {
			fail(err)
		}
	case errors.Is(err, repository.ErrNotFound):
		if err := s.repos.Customers.Create(ctx, &models.Customer{Name: name, Phone: customerPhone}); err != nil {
			fail(err)
		}
	default:
		fail(err)
	}
}

// createOrder persists order durably, or in the fallback store when the
// durable insert fails. It returns the repositories now holding the order.
func (s *orderService) createOrder(ctx context.Context, order *models.Order) (*repository.Repositories, error) {
	log := logger.FromContext(ctx)

	var err error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		var number string
		number, err = s.numberer.Next(ctx, order.StoreID)
		if err != nil {
			break
		}
		order.OrderNumber = number
		if err = s.repos.Orders.Create(ctx, order); err == nil {
			return s.repos, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			break
		}
		log.Warn("Order number taken, retrying",
			zap.String("order_number", number), zap.Int("attempt", attempt))
		if r, ok := s.numberer.(numberResyncer); ok {
			if rerr := r.Resync(ctx, order.StoreID); rerr != nil {
				log.Warn("Failed to resync order counter", zap.Uint("store_id", order.StoreID), zap.Error(rerr))
			}
		}
	}
	log.Error("Durable order creation failed", zap.Uint("store_id", order.StoreID), zap.Error(err))

	if s.fallback == nil {
		return nil, internalErr("failed to create order", err)
	}

	order.ID = 0
	order.Ephemeral = true
	var ferr error
	millis := s.now().UnixMilli()
	for i := int64(0); i < maxNumberAttempts; i++ {
		order.OrderNumber = fmt.Sprintf("ORD-%d", millis+i)
		if ferr = s.fallback.Orders.Create(ctx, order); ferr == nil {
			log.Warn("Order held in memory only; it will be lost on restart",
				zap.Uint("order_id", order.ID),
				zap.String("order_number", order.OrderNumber),
				zap.Uint("store_id", order.StoreID),
			)
			return s.fallback, nil
		}
		if !errors.Is(ferr, repository.ErrDuplicate) {
			break
		}
	}

	log.Error("Fallback order creation failed", zap.Error(ferr))
	return nil, internalErr("failed to create order", errors.Join(err, ferr))
}

func (s *orderService) ListByStore(ctx context.Context, principal *auth.Principal, storeSlug string, statuses []string) ([]models.Order, error) {
	if principal == nil {
		return nil, unauthorizedErr("authentication required")
	}

	filter := repository.OrderFilter{}
	for _, raw := range statuses {
		status := models.OrderStatus(strings.TrimSpace(raw))
		if status == "" {
			continue
		}
		if !status.Valid() {
			return nil, validationErr("unknown status %q", status)
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	var (
		store *models.Store
		err   error
	)
	if strings.TrimSpace(storeSlug) != "" {
		store, err = s.stores.FindBySlug(ctx, storeSlug)
	} else {
		store, err = s.stores.Mine(ctx, principal)
	}
	if err != nil {
		return nil, err
	}
	if err := authorizeStore(principal, store); err != nil {
		return nil, err
	}
	filter.StoreID = store.ID

	orders, err := s.repos.Orders.List(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to list orders", zap.Uint("store_id", store.ID), zap.Error(err))
		orders = []models.Order{}
	}
	if s.fallback != nil {
		if extra, err := s.fallback.Orders.List(ctx, filter); err == nil && len(extra) > 0 {
			orders = mergeNewestFirst(orders, extra)
		}
	}
	return orders, nil
}

func (s *orderService) ListByPhone(ctx context.Context, phoneNumber string) ([]models.Order, error) {
	normalized := phone.Normalize(phoneNumber)
	if normalized == "" {
		return nil, validationErr("phone is required")
	}

	orders, err := s.repos.Orders.ListByPhone(ctx, normalized)
	if err != nil {
		return nil, internalErr("failed to list orders", err)
	}
	if s.fallback != nil {
		if extra, err := s.fallback.Orders.ListByPhone(ctx, normalized); err == nil && len(extra) > 0 {
			orders = mergeNewestFirst(orders, extra)
		}
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, principal *auth.Principal, id uint) (*models.Order, error) {
	order, _, _, err := s.authorizedOrder(ctx, principal, id)
	return order, err
}

func (s *orderService) GetOrderItems(ctx context.Context, principal *auth.Principal, id uint) ([]models.OrderItem, error) {
	order, repos, _, err := s.authorizedOrder(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	items, err := repos.OrderItems.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, internalErr("failed to load order items", err)
	}
	if items == nil {
		items = []models.OrderItem{}
	}
	return items, nil
}

// locate finds an order in the durable store first, then in the fallback.
func (s *orderService) locate(ctx context.Context, id uint) (*models.Order, *repository.Repositories, error) {
	order, err := s.repos.Orders.GetByID(ctx, id)
	if err == nil {
		return order, s.repos, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		logger.FromContext(ctx).Error("Failed to load order", zap.Uint("order_id", id), zap.Error(err))
	}
	if s.fallback != nil {
		if order, ferr := s.fallback.Orders.GetByID(ctx, id); ferr == nil {
			return order, s.fallback, nil
		}
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, notFoundErr("order %d not found", id)
	}
	return nil, nil, internalErr("failed to load order", err)
}

func (s *orderService) authorizedOrder(ctx context.Context, principal *auth.Principal, id uint) (*models.Order, *repository.Repositories, *models.Store, error) {
	if principal == nil {
		return nil, nil, nil, unauthorizedErr("authentication required")
	}
	order, repos, err := s.locate(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := s.repos.Stores.GetByID(ctx, order.StoreID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, nil, notFoundErr("store %d not found", order.StoreID)
		}
		return nil, nil, nil, internalErr("failed to load store", err)
	}
	if err := authorizeStore(principal, store); err != nil {
		return nil, nil, nil, err
	}
	return order, repos, store, nil
}

func mergeNewestFirst(a, b []models.Order) []models.Order {
	out := make([]models.Order, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if !a[i].CreatedAt.Before(b[j].CreatedAt) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
