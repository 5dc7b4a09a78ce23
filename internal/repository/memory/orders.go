package memory

import (
	"context"
	"sort"

	"restaurant_manager/internal/models"
	"restaurant_manager/internal/phone"
	"restaurant_manager/internal/repository"
)

type orders struct{ s *Store }

func (r *orders) Create(_ context.Context, order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, o := range r.s.orders {
		if o.StoreID == order.StoreID && o.OrderNumber == order.OrderNumber {
			return repository.ErrDuplicate
		}
	}
	order.ID = r.s.nextID("orders")
	r.s.stamp(&order.CreatedAt, &order.UpdatedAt)
	r.s.orders[order.ID] = *order
	return nil
}

func (r *orders) GetByID(_ context.Context, id uint) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r *orders) List(_ context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Order
	for _, o := range r.s.orders {
		if matches(o, filter) {
			out = append(out, o)
		}
	}
	newestFirst(out)
	return out, nil
}

func (r *orders) ListByPhone(_ context.Context, number string) ([]models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Order
	for _, o := range r.s.orders {
		if phone.Equal(o.CustomerPhone, number) {
			out = append(out, o)
		}
	}
	newestFirst(out)
	return out, nil
}

func (r *orders) LastOrderNumber(_ context.Context, storeID uint) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var (
		last  uint
		found string
	)
	for id, o := range r.s.orders {
		if o.StoreID == storeID && id >= last {
			last, found = id, o.OrderNumber
		}
	}
	if last == 0 {
		return "", repository.ErrNotFound
	}
	return found, nil
}

func (r *orders) Update(_ context.Context, order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[order.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.stamp(nil, &order.UpdatedAt)
	r.s.orders[order.ID] = *order
	return nil
}

func matches(o models.Order, f repository.OrderFilter) bool {
	if f.StoreID != 0 && o.StoreID != f.StoreID {
		return false
	}
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			if o.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !o.CreatedAt.Before(f.To) {
		return false
	}
	return true
}

func newestFirst(list []models.Order) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}

type orderItems struct{ s *Store }

func (r *orderItems) Create(_ context.Context, item *models.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item.ID = r.s.nextID("order_items")
	r.s.stamp(&item.CreatedAt, nil)
	r.s.orderItems[item.ID] = *item
	return nil
}

func (r *orderItems) ListByOrder(_ context.Context, orderID uint) ([]models.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.OrderItem
	for _, it := range r.s.orderItems {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type receipts struct{ s *Store }

func (r *receipts) Create(_ context.Context, receipt *models.PaymentReceipt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rc := range r.s.receipts {
		if rc.OrderID == receipt.OrderID {
			return repository.ErrDuplicate
		}
	}
	receipt.ID = r.s.nextID("receipts")
	r.s.stamp(&receipt.CreatedAt, nil)
	r.s.receipts[receipt.ID] = *receipt
	return nil
}

func (r *receipts) GetByOrderID(_ context.Context, orderID uint) (*models.PaymentReceipt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rc := range r.s.receipts {
		if rc.OrderID == orderID {
			return &rc, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *receipts) Update(_ context.Context, receipt *models.PaymentReceipt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.receipts[receipt.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.receipts[receipt.ID] = *receipt
	return nil
}
