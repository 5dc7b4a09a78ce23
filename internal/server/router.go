package server

import (
	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/handlers"
	"restaurant_manager/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Orders    *handlers.OrderHandler
	Stores    *handlers.StoreHandler
	Catalog   *handlers.CatalogHandler
	Tables    *handlers.TableHandler
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Health    *handlers.HealthHandler
}

func NewRouter(h Handlers, tokens *auth.Manager, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestLogger(log),
		gin.Recovery(),
		middleware.Metrics(),
		middleware.Authenticate(tokens),
	)

	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/auth/login", h.Auth.Login)

		// Customer-facing
		api.POST("/orders", h.Orders.PlaceOrder)
		api.GET("/orders", h.Orders.ListOrders)
		api.GET("/orders/by-phone", h.Orders.ListByPhone)
		api.POST("/orders/:id/receipt", h.Orders.AttachReceipt)
		api.GET("/stores/:slug", h.Stores.Menu)
		api.GET("/stores/:slug/tables", h.Stores.PublicTables)
	}

	staff := api.Group("", middleware.RequireAuth())
	{
		staff.GET("/orders/:id", h.Orders.GetOrder)
		staff.GET("/orders/:id/items", h.Orders.GetOrderItems)
		staff.PUT("/orders/:id/status", h.Orders.UpdateStatus)
		staff.GET("/orders/:id/receipt", h.Orders.GetReceipt)
		staff.PUT("/orders/:id/approve", h.Orders.ApproveReceipt)
		staff.PUT("/orders/:id/reject", h.Orders.RejectReceipt)
		staff.PUT("/orders/:id/mark-paid", h.Orders.MarkPaid)

		staff.GET("/store", h.Stores.GetMine)
		staff.POST("/store", h.Stores.Create)
		staff.PUT("/store", h.Stores.Update)

		staff.GET("/categories", h.Catalog.ListCategories)
		staff.POST("/categories", h.Catalog.CreateCategory)
		staff.PUT("/categories/:id", h.Catalog.UpdateCategory)
		staff.DELETE("/categories/:id", h.Catalog.DeleteCategory)

		staff.GET("/products", h.Catalog.ListProducts)
		staff.POST("/products", h.Catalog.CreateProduct)
		staff.PUT("/products/:id", h.Catalog.UpdateProduct)
		staff.PUT("/products/:id/availability", h.Catalog.SetAvailability)
		staff.DELETE("/products/:id", h.Catalog.DeleteProduct)

		staff.GET("/tables", h.Tables.List)
		staff.POST("/tables", h.Tables.Create)
		staff.PUT("/tables/:id", h.Tables.Update)
		staff.DELETE("/tables/:id", h.Tables.Delete)

		staff.GET("/dashboard/summary", h.Dashboard.Summary)
		staff.GET("/dashboard/customers", h.Dashboard.Customers)
	}

	return router
}
