package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/logger"
	"restaurant_manager/internal/metrics"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"

	"go.uber.org/zap"
)

const notifyTimeout = 5 * time.Second

var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPendingApproval: {models.OrderApproved, models.OrderCancelled},
	models.OrderApproved:        {models.OrderPaid, models.OrderCancelled},
	models.OrderPaid:            {models.OrderPreparing},
	models.OrderPreparing:       {models.OrderReady},
	models.OrderReady:           {models.OrderDelivered},
}

// CanTransition reports whether staff may move an order from one status to
// another without an override.
func CanTransition(from, to models.OrderStatus) bool {
	if from.Terminal() {
		return false
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *orderService) UpdateStatus(ctx context.Context, principal *auth.Principal, id uint, status string, override bool) (*models.Order, error) {
	to := models.OrderStatus(strings.TrimSpace(status))
	if !to.Valid() {
		return nil, validationErr("unknown status %q", status)
	}

	order, repos, store, err := s.authorizedOrder(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if order.Status == to {
		return order, nil
	}

	if override {
		if !principal.IsAdmin() {
			return nil, forbiddenErr("only administrators may override the order workflow")
		}
		logger.FromContext(ctx).Warn("Order status overridden",
			zap.Uint("order_id", order.ID),
			zap.String("from", string(order.Status)),
			zap.String("to", string(to)),
			zap.Uint("user_id", principal.UserID),
		)
	} else if s.strict && !CanTransition(order.Status, to) {
		return nil, conflictErr("cannot change order from %s to %s", order.Status, to)
	}

	if err := s.transition(ctx, repos, store, order, to); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) AttachReceipt(ctx context.Context, orderID uint, receiptURL string) (*models.PaymentReceipt, error) {
	receiptURL = strings.TrimSpace(receiptURL)
	if receiptURL == "" {
		return nil, validationErr("receiptUrl is required")
	}
	if u, err := url.ParseRequestURI(receiptURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, validationErr("receiptUrl must be an http(s) URL")
	}

	order, repos, err := s.locate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod.ConfirmedInPerson() {
		return nil, validationErr("%s orders are paid in person and take no receipt", order.PaymentMethod)
	}
	if order.Status != models.OrderPendingApproval {
		return nil, conflictErr("order is %s and no longer accepts a receipt", order.Status)
	}

	receipt := &models.PaymentReceipt{
		OrderID:       order.ID,
		PaymentMethod: order.PaymentMethod,
		ReceiptURL:    receiptURL,
	}
	if err := repos.Receipts.Create(ctx, receipt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictErr("a receipt is already attached to order %d", order.ID)
		}
		return nil, internalErr("failed to save receipt", err)
	}

	order.ReceiptID = &receipt.ID
	if err := repos.Orders.Update(ctx, order); err != nil {
		logger.FromContext(ctx).Error("Failed to link receipt to order",
			zap.Uint("order_id", order.ID), zap.Uint("receipt_id", receipt.ID), zap.Error(err))
	}
	return receipt, nil
}

func (s *orderService) GetReceipt(ctx context.Context, principal *auth.Principal, orderID uint) (*models.PaymentReceipt, error) {
	order, repos, _, err := s.authorizedOrder(ctx, principal, orderID)
	if err != nil {
		return nil, err
	}
	receipt, err := repos.Receipts.GetByOrderID(ctx, order.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr("order %d has no receipt", order.ID)
		}
		return nil, internalErr("failed to load receipt", err)
	}
	return receipt, nil
}

func (s *orderService) ApproveReceipt(ctx context.Context, principal *auth.Principal, orderID uint) (*models.Order, error) {
	order, repos, store, err := s.authorizedOrder(ctx, principal, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderPendingApproval {
		return nil, conflictErr("only orders pending approval can be approved (order is %s)", order.Status)
	}

	receipt, err := repos.Receipts.GetByOrderID(ctx, order.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, conflictErr("order %d has no receipt to approve", order.ID)
		}
		return nil, internalErr("failed to load receipt", err)
	}

	now := s.now()
	approver := principal.UserID
	receipt.IsApproved = true
	receipt.ApprovedBy = &approver
	receipt.ApprovedAt = &now
	if err := repos.Receipts.Update(ctx, receipt); err != nil {
		return nil, internalErr("failed to approve receipt", err)
	}

	if err := s.transition(ctx, repos, store, order, models.OrderApproved); err != nil {
		return nil, err
	}
	return order, nil
}

// RejectReceipt cancels an order whose payment proof was refused.
func (s *orderService) RejectReceipt(ctx context.Context, principal *auth.Principal, orderID uint) (*models.Order, error) {
	order, repos, store, err := s.authorizedOrder(ctx, principal, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderPendingApproval {
		return nil, conflictErr("only orders pending approval can be rejected (order is %s)", order.Status)
	}
	if err := s.transition(ctx, repos, store, order, models.OrderCancelled); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) MarkPaid(ctx context.Context, principal *auth.Principal, orderID uint) (*models.Order, error) {
	order, repos, store, err := s.authorizedOrder(ctx, principal, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderApproved {
		return nil, conflictErr("only approved orders can be marked as paid (order is %s)", order.Status)
	}
	if err := s.transition(ctx, repos, store, order, models.OrderPaid); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) transition(ctx context.Context, repos *repository.Repositories, store *models.Store, order *models.Order, to models.OrderStatus) error {
	from := order.Status
	order.Status = to
	if err := repos.Orders.Update(ctx, order); err != nil {
		order.Status = from
		return internalErr("failed to update order status", err)
	}

	metrics.RecordTransition(string(from), string(to))
	logger.FromContext(ctx).Info("Order status changed",
		zap.Uint("order_id", order.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	if s.notifier != nil && (to == models.OrderReady || to == models.OrderCancelled) {
		s.notify(ctx, *store, *order)
	}
	return nil
}

// notify messages the customer in the background with its own deadline, so
// the status change never waits on the gateway.
func (s *orderService) notify(ctx context.Context, store models.Store, order models.Order) {
	log := logger.FromContext(ctx)
	ctx = context.WithoutCancel(ctx)

	go func() {
		nctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()
		if err := s.notifier.OrderStatusChanged(nctx, &store, &order); err != nil {
			log.Warn("Customer notification failed",
				zap.Uint("order_id", order.ID), zap.Error(err))
			metrics.NotificationsFailed.Inc()
		}
	}()
}
