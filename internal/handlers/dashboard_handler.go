package handlers

import (
	"net/http"
	"time"

	"restaurant_manager/internal/middleware"
	"restaurant_manager/internal/services"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary accepts from/to as RFC 3339 timestamps or dates. A date in "to"
// includes that whole day.
func (h *DashboardHandler) Summary(c *gin.Context) {
	from, ok := parseBound(c, "from", false)
	if !ok {
		return
	}
	to, ok := parseBound(c, "to", true)
	if !ok {
		return
	}

	summary, err := h.dashboardService.Summary(c.Request.Context(), middleware.Principal(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) Customers(c *gin.Context) {
	customers, err := h.dashboardService.Customers(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func parseBound(c *gin.Context, name string, endOfDay bool) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		if endOfDay {
			t = t.AddDate(0, 0, 1)
		}
		return t, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + ", use YYYY-MM-DD or RFC 3339"})
	return time.Time{}, false
}
