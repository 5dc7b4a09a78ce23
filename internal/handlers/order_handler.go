package handlers

import (
	"context"
	"net/http"
	"strings"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/middleware"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/services"

	"github.com/gin-gonic/gin"
)

const PersistenceHeader = "X-Order-Persistence"

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	if order.Ephemeral {
		c.Header(PersistenceHeader, "ephemeral")
	} else {
		c.Header(PersistenceHeader, "durable")
	}
	c.JSON(http.StatusOK, order)
}

// ListOrders serves customers looking up their orders by phone and staff
// listing a store's orders.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	if phone := c.Query("phone"); phone != "" {
		h.listByPhone(c, phone)
		return
	}

	principal := middleware.Principal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var statuses []string
	if raw := c.Query("status"); raw != "" {
		statuses = strings.Split(raw, ",")
	}
	orders, err := h.orderService.ListByStore(c.Request.Context(), principal, c.Query("store_slug"), statuses)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListByPhone(c *gin.Context) {
	phone := c.Query("phone")
	if strings.TrimSpace(phone) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone is required"})
		return
	}
	h.listByPhone(c, phone)
}

func (h *OrderHandler) listByPhone(c *gin.Context, phone string) {
	orders, err := h.orderService.ListByPhone(c.Request.Context(), phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrderItems(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	items, err := h.orderService.GetOrderItems(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status   string `json:"status"`
		Override bool   `json:"override"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), middleware.Principal(c), id, req.Status, req.Override)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) AttachReceipt(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		ReceiptURL string `json:"receiptUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	receipt, err := h.orderService.AttachReceipt(c.Request.Context(), id, req.ReceiptURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h *OrderHandler) GetReceipt(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	receipt, err := h.orderService.GetReceipt(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (h *OrderHandler) ApproveReceipt(c *gin.Context) {
	h.review(c, h.orderService.ApproveReceipt)
}

func (h *OrderHandler) RejectReceipt(c *gin.Context) {
	h.review(c, h.orderService.RejectReceipt)
}

func (h *OrderHandler) MarkPaid(c *gin.Context) {
	h.review(c, h.orderService.MarkPaid)
}

type reviewFunc func(ctx context.Context, principal *auth.Principal, orderID uint) (*models.Order, error)

func (h *OrderHandler) review(c *gin.Context, action reviewFunc) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := action(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
