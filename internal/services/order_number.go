package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"restaurant_manager/internal/logger"
	"restaurant_manager/internal/metrics"
	"restaurant_manager/internal/redis"
	"restaurant_manager/internal/repository"

	"go.uber.org/zap"
)

const FirstOrderNumber = "#001"

var orderNumberPattern = regexp.MustCompile(`#(\d+)`)

// OrderNumberer hands out the next display number for a store's order.
type OrderNumberer interface {
	Next(ctx context.Context, storeID uint) (string, error)
}

// SequenceCounter is an atomic per-key counter (Redis INCR in production).
type SequenceCounter interface {
	NextSequence(ctx context.Context, key string, seed func(context.Context) (int64, error)) (int64, error)
	SetSequence(ctx context.Context, key string, value int64) error
}

// numberResyncer is implemented by numberers that keep their own state and
// must be realigned with stored orders after handing out a taken number.
type numberResyncer interface {
	Resync(ctx context.Context, storeID uint) error
}

func FormatOrderNumber(n int64) string {
	return fmt.Sprintf("#%03d", n)
}

// ParseOrderNumber extracts the integer from a "#NNN" number.
func ParseOrderNumber(s string) (int64, bool) {
	m := orderNumberPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

type lastOrderNumberer struct {
	orders repository.OrderRepository
}

// NewLastOrderNumberer derives the next number from the most recently
// inserted order. Two concurrent placements can read the same last number;
// the durable insert rejects the duplicate and the caller retries.
func NewLastOrderNumberer(orders repository.OrderRepository) OrderNumberer {
	return &lastOrderNumberer{orders: orders}
}

func (n *lastOrderNumberer) Next(ctx context.Context, storeID uint) (string, error) {
	last, ok, err := n.last(ctx, storeID)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to read last order number",
			zap.Uint("store_id", storeID), zap.Error(err))
	}
	if !ok {
		return FirstOrderNumber, nil
	}
	return FormatOrderNumber(last + 1), nil
}

// last returns false when there is no usable previous number. A store
// without orders is not an error; a failed read is.
func (n *lastOrderNumberer) last(ctx context.Context, storeID uint) (int64, bool, error) {
	number, err := n.orders.LastOrderNumber(ctx, storeID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	last, ok := ParseOrderNumber(number)
	return last, ok, nil
}

type counterNumberer struct {
	counter  SequenceCounter
	fallback *lastOrderNumberer
}

// NewCounterNumberer numbers orders from an atomic counter per store. The
// counter starts from the store's last order number, and the last-order
// scheme takes over whenever the counter is unreachable.
func NewCounterNumberer(counter SequenceCounter, orders repository.OrderRepository) OrderNumberer {
	return &counterNumberer{
		counter:  counter,
		fallback: &lastOrderNumberer{orders: orders},
	}
}

func (n *counterNumberer) Next(ctx context.Context, storeID uint) (string, error) {
	seq, err := n.counter.NextSequence(ctx, redis.OrderSequenceKey(storeID), func(ctx context.Context) (int64, error) {
		last, _, err := n.fallback.last(ctx, storeID)
		return last, err
	})
	if err != nil {
		logger.FromContext(ctx).Warn("Order counter unavailable, using last order number",
			zap.Uint("store_id", storeID), zap.Error(err))
		metrics.OrderNumberFallbacks.Inc()
		return n.fallback.Next(ctx, storeID)
	}
	return FormatOrderNumber(seq), nil
}

// Resync moves the store's counter to its last stored order number, so the
// next call continues after it.
func (n *counterNumberer) Resync(ctx context.Context, storeID uint) error {
	last, ok, err := n.fallback.last(ctx, storeID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return n.counter.SetSequence(ctx, redis.OrderSequenceKey(storeID), last)
}
