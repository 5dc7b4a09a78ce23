package services

import (
	"context"
	"testing"
	"time"

	"restaurant_manager/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d, hour int) time.Time {
	return time.Date(2024, 5, d, hour, 0, 0, 0, time.UTC)
}

func sampleOrders() []models.Order {
	order := func(status models.OrderStatus, method models.PaymentMethod, total int64, estimate int, phone, name string, at time.Time) models.Order {
		return models.Order{
			Status:        status,
			PaymentMethod: method,
			TotalAmount:   decimal.NewFromInt(total),
			EstimatedTime: estimate,
			CustomerPhone: phone,
			CustomerName:  name,
			CreatedAt:     at,
		}
	}
	return []models.Order{
		order(models.OrderCancelled, models.PaymentCash, 70, 10, "842222222", "Bruno", day(3, 11)),
		order(models.OrderApproved, models.PaymentMpesa, 30, 15, "843333333", "Carla", day(2, 9)),
		order(models.OrderPendingApproval, models.PaymentEmola, 50, 5, "841111111", "Ana Maria", day(2, 8)),
		order(models.OrderDelivered, models.PaymentCash, 200, 20, "842222222", "Bruno", day(1, 12)),
		order(models.OrderPaid, models.PaymentMpesa, 100, 10, "841111111", "Ana", day(1, 10)),
	}
}

func TestSummarize(t *testing.T) {
	sum := summarize(sampleOrders(), time.Time{}, time.Time{})

	assert.Equal(t, 5, sum.OrderCount)
	assert.Equal(t, "300", sum.TotalRevenue.String())
	assert.Equal(t, "80", sum.PendingRevenue.String())
	assert.Equal(t, "150", sum.AverageTicket.String())
	assert.Equal(t, 60.0, sum.ApprovalRate)
	assert.Equal(t, 20.0, sum.CancellationRate)
	assert.Equal(t, 12.0, sum.AverageEstimatedTime)
	assert.Equal(t, 3, sum.UniqueCustomers)
	assert.Equal(t, 1.7, sum.OrdersPerDay)
	assert.Nil(t, sum.From)
	assert.Nil(t, sum.To)

	assert.Equal(t, "100", sum.RevenueByPaymentMethod["mpesa"].String())
	assert.Equal(t, "200", sum.RevenueByPaymentMethod["cash"].String())
	assert.NotContains(t, sum.RevenueByPaymentMethod, "emola")

	assert.Equal(t, map[string]int{
		"paid":             1,
		"delivered":        1,
		"pending_approval": 1,
		"approved":         1,
		"cancelled":        1,
	}, sum.OrdersByStatus)

	require.Len(t, sum.RevenueByDay, 3)
	assert.Equal(t, "2024-05-01", sum.RevenueByDay[0].Date)
	assert.Equal(t, "300", sum.RevenueByDay[0].Revenue.String())
	assert.Equal(t, 2, sum.RevenueByDay[0].Orders)
	assert.Equal(t, "2024-05-02", sum.RevenueByDay[1].Date)
	assert.True(t, sum.RevenueByDay[1].Revenue.IsZero())
	assert.Equal(t, 1, sum.RevenueByDay[2].Orders)
}

func TestSummarize_Range(t *testing.T) {
	from, to := day(1, 0), day(8, 0)
	sum := summarize(sampleOrders(), from, to)

	require.NotNil(t, sum.From)
	require.NotNil(t, sum.To)
	assert.Equal(t, 0.7, sum.OrdersPerDay, "five orders over seven days")
}

func TestSummarize_Empty(t *testing.T) {
	sum := summarize(nil, time.Time{}, time.Time{})

	assert.Equal(t, 0, sum.OrderCount)
	assert.True(t, sum.TotalRevenue.IsZero())
	assert.True(t, sum.AverageTicket.IsZero())
	assert.Equal(t, 0.0, sum.ApprovalRate)
	assert.NotNil(t, sum.RevenueByDay)
	assert.Empty(t, sum.OrdersByStatus)
}

func TestGroupCustomers(t *testing.T) {
	customers := groupCustomers(sampleOrders())

	require.Len(t, customers, 3)

	assert.Equal(t, "842222222", customers[0].CustomerPhone)
	assert.Equal(t, 1, customers[0].OrdersCount, "cancelled orders are left out")
	assert.Equal(t, "200", customers[0].TotalSpent.String())

	assert.Equal(t, "841111111", customers[1].CustomerPhone)
	assert.Equal(t, 2, customers[1].OrdersCount)
	assert.Equal(t, "150", customers[1].TotalSpent.String())
	assert.Equal(t, "Ana Maria", customers[1].CustomerName, "latest name wins")
	assert.Equal(t, day(2, 8), customers[1].LastOrderAt)

	assert.Equal(t, "843333333", customers[2].CustomerPhone)
}

func TestDashboardService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orders := f.orderService(OrderServiceOptions{})
	f.place(t, orders, "cash")
	f.place(t, orders, "mpesa")

	svc := NewDashboardService(f.repos, f.stores)

	sum, err := svc.Summary(ctx, f.owner, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.OrderCount)
	assert.Equal(t, "300", sum.TotalRevenue.String())
	assert.Equal(t, "300", sum.PendingRevenue.String())

	_, err = svc.Summary(ctx, f.owner, day(2, 0), day(1, 0))
	assert.True(t, IsKind(err, KindValidation))

	customers, err := svc.Customers(ctx, f.owner)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, 2, customers[0].OrdersCount)
	assert.Equal(t, "600", customers[0].TotalSpent.String())

	_, err = svc.Customers(ctx, nil)
	assert.True(t, IsKind(err, KindUnauthorized))
}
