package services

import (
	"context"
	"math"
	"sort"
	"time"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"

	"github.com/shopspring/decimal"
)

type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

type DashboardSummary struct {
	From                   *time.Time                 `json:"from,omitempty"`
	To                     *time.Time                 `json:"to,omitempty"`
	TotalRevenue           decimal.Decimal            `json:"totalRevenue"`
	PendingRevenue         decimal.Decimal            `json:"pendingRevenue"`
	OrderCount             int                        `json:"orderCount"`
	AverageTicket          decimal.Decimal            `json:"averageTicket"`
	OrdersPerDay           float64                    `json:"ordersPerDay"`
	ApprovalRate           float64                    `json:"approvalRate"`
	CancellationRate       float64                    `json:"cancellationRate"`
	AverageEstimatedTime   float64                    `json:"averageEstimatedTime"`
	UniqueCustomers        int                        `json:"uniqueCustomers"`
	RevenueByPaymentMethod map[string]decimal.Decimal `json:"revenueByPaymentMethod"`
	OrdersByStatus         map[string]int             `json:"ordersByStatus"`
	RevenueByDay           []DailyRevenue             `json:"revenueByDay"`
}

type CustomerSummary struct {
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	OrdersCount   int             `json:"ordersCount"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	LastOrderAt   time.Time       `json:"lastOrderAt"`
}

type DashboardService interface {
	Summary(ctx context.Context, principal *auth.Principal, from, to time.Time) (*DashboardSummary, error)
	Customers(ctx context.Context, principal *auth.Principal) ([]CustomerSummary, error)
}

type dashboardService struct {
	repos  *repository.Repositories
	stores StoreService
}

func NewDashboardService(repos *repository.Repositories, stores StoreService) DashboardService {
	return &dashboardService{repos: repos, stores: stores}
}

// collected counts money that has been confirmed.
func collected(status models.OrderStatus) bool {
	switch status {
	case models.OrderPaid, models.OrderPreparing, models.OrderReady, models.OrderDelivered:
		return true
	}
	return false
}

func awaitingPayment(status models.OrderStatus) bool {
	return status == models.OrderPendingApproval || status == models.OrderApproved
}

func (s *dashboardService) Summary(ctx context.Context, principal *auth.Principal, from, to time.Time) (*DashboardSummary, error) {
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, validationErr("from must be before to")
	}
	store, err := s.stores.Mine(ctx, principal)
	if err != nil {
		return nil, err
	}
	orders, err := s.repos.Orders.List(ctx, repository.OrderFilter{StoreID: store.ID, From: from, To: to})
	if err != nil {
		return nil, internalErr("failed to load orders", err)
	}
	return summarize(orders, from, to), nil
}

func summarize(orders []models.Order, from, to time.Time) *DashboardSummary {
	sum := &DashboardSummary{
		TotalRevenue:           decimal.Zero,
		PendingRevenue:         decimal.Zero,
		AverageTicket:          decimal.Zero,
		OrderCount:             len(orders),
		RevenueByPaymentMethod: make(map[string]decimal.Decimal),
		OrdersByStatus:         make(map[string]int),
		RevenueByDay:           []DailyRevenue{},
	}
	if !from.IsZero() {
		sum.From = &from
	}
	if !to.IsZero() {
		sum.To = &to
	}
	if len(orders) == 0 {
		return sum
	}

	var paidCount, confirmed, cancelled, totalEstimate int
	customers := make(map[string]struct{})
	days := make(map[string]*DailyRevenue)
	first, last := orders[0].CreatedAt, orders[0].CreatedAt

	for _, o := range orders {
		sum.OrdersByStatus[string(o.Status)]++
		totalEstimate += o.EstimatedTime
		customers[o.CustomerPhone] = struct{}{}
		if o.CreatedAt.Before(first) {
			first = o.CreatedAt
		}
		if o.CreatedAt.After(last) {
			last = o.CreatedAt
		}

		day := o.CreatedAt.Format("2006-01-02")
		d, ok := days[day]
		if !ok {
			d = &DailyRevenue{Date: day, Revenue: decimal.Zero}
			days[day] = d
		}
		d.Orders++

		switch {
		case collected(o.Status):
			paidCount++
			confirmed++
			sum.TotalRevenue = sum.TotalRevenue.Add(o.TotalAmount)
			method := string(o.PaymentMethod)
			sum.RevenueByPaymentMethod[method] = sum.RevenueByPaymentMethod[method].Add(o.TotalAmount)
			d.Revenue = d.Revenue.Add(o.TotalAmount)
		case awaitingPayment(o.Status):
			if o.Status == models.OrderApproved {
				confirmed++
			}
			sum.PendingRevenue = sum.PendingRevenue.Add(o.TotalAmount)
		case o.Status == models.OrderCancelled:
			cancelled++
		}
	}

	n := float64(len(orders))
	if paidCount > 0 {
		sum.AverageTicket = sum.TotalRevenue.Div(decimal.NewFromInt(int64(paidCount))).Round(2)
	}
	sum.ApprovalRate = round1(float64(confirmed) / n * 100)
	sum.CancellationRate = round1(float64(cancelled) / n * 100)
	sum.AverageEstimatedTime = round1(float64(totalEstimate) / n)
	sum.UniqueCustomers = len(customers)

	start, end := first, last
	if !from.IsZero() {
		start = from
	}
	if !to.IsZero() {
		end = to.Add(-time.Nanosecond)
	}
	spanDays := math.Floor(end.Sub(start).Hours()/24) + 1
	if spanDays < 1 {
		spanDays = 1
	}
	sum.OrdersPerDay = round1(n / spanDays)

	for _, d := range days {
		sum.RevenueByDay = append(sum.RevenueByDay, *d)
	}
	sort.Slice(sum.RevenueByDay, func(i, j int) bool { return sum.RevenueByDay[i].Date < sum.RevenueByDay[j].Date })
	return sum
}

// Customers groups non-cancelled orders by phone, biggest spenders first.
func (s *dashboardService) Customers(ctx context.Context, principal *auth.Principal) ([]CustomerSummary, error) {
	store, err := s.stores.Mine(ctx, principal)
	if err != nil {
		return nil, err
	}
	orders, err := s.repos.Orders.List(ctx, repository.OrderFilter{StoreID: store.ID})
	if err != nil {
		return nil, internalErr("failed to load orders", err)
	}
	return groupCustomers(orders), nil
}

func groupCustomers(orders []models.Order) []CustomerSummary {
	byPhone := make(map[string]*CustomerSummary)
	for _, o := range orders {
		if o.Status == models.OrderCancelled {
			continue
		}
		c, ok := byPhone[o.CustomerPhone]
		if !ok {
			c = &CustomerSummary{CustomerPhone: o.CustomerPhone, TotalSpent: decimal.Zero}
			byPhone[o.CustomerPhone] = c
		}
		c.OrdersCount++
		c.TotalSpent = c.TotalSpent.Add(o.TotalAmount)
		if !ok || o.CreatedAt.After(c.LastOrderAt) {
			c.LastOrderAt = o.CreatedAt
			c.CustomerName = o.CustomerName
		}
	}

	out := make([]CustomerSummary, 0, len(byPhone))
	for _, c := range byPhone {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalSpent.Equal(out[j].TotalSpent) {
			return out[i].TotalSpent.GreaterThan(out[j].TotalSpent)
		}
		return out[i].CustomerPhone < out[j].CustomerPhone
	})
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
