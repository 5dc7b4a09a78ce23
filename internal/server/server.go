package server

import (
	"time"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/handlers"
	"restaurant_manager/internal/repository"
	"restaurant_manager/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the infrastructure pieces chosen at startup. Optional ones are
// nil when not configured.
type Deps struct {
	Repos             *repository.Repositories
	Fallback          *repository.Repositories
	Cache             services.StoreCache
	Counter           services.SequenceCounter
	Notifier          services.Notifier
	Tokens            *auth.Manager
	CacheTTL          time.Duration
	StrictTransitions bool
	Checks            map[string]handlers.Pinger
	Log               *zap.Logger
}

// New wires services and handlers over deps and returns the HTTP router.
func New(d Deps) *gin.Engine {
	storeService := services.NewStoreService(d.Repos, d.Cache, d.CacheTTL)

	numberer := services.NewLastOrderNumberer(d.Repos.Orders)
	if d.Counter != nil {
		numberer = services.NewCounterNumberer(d.Counter, d.Repos.Orders)
	}
	orderService := services.NewOrderService(d.Repos, storeService, services.OrderServiceOptions{
		Fallback:          d.Fallback,
		Numberer:          numberer,
		Notifier:          d.Notifier,
		StrictTransitions: d.StrictTransitions,
	})
	catalogService := services.NewCatalogService(d.Repos, storeService)
	tableService := services.NewTableService(d.Repos, storeService)
	userService := services.NewUserService(d.Repos.Users, d.Tokens)
	dashboardService := services.NewDashboardService(d.Repos, storeService)

	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	return NewRouter(Handlers{
		Orders:    handlers.NewOrderHandler(orderService),
		Stores:    handlers.NewStoreHandler(storeService),
		Catalog:   handlers.NewCatalogHandler(catalogService),
		Tables:    handlers.NewTableHandler(tableService),
		Auth:      handlers.NewAuthHandler(userService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Health:    handlers.NewHealthHandler(d.Checks),
	}, d.Tokens, log)
}
