package handlers

import (
	"net/http"

	"restaurant_manager/internal/middleware"
	"restaurant_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	storeService services.StoreService
}

func NewStoreHandler(storeService services.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

func (h *StoreHandler) Menu(c *gin.Context) {
	menu, err := h.storeService.Menu(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (h *StoreHandler) PublicTables(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "true") == "true"
	tables, err := h.storeService.PublicTables(c.Request.Context(), c.Param("slug"), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *StoreHandler) GetMine(c *gin.Context) {
	store, err := h.storeService.Mine(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, store)
}

func (h *StoreHandler) Create(c *gin.Context) {
	var input services.StoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidRequest(c)
		return
	}
	store, err := h.storeService.Create(c.Request.Context(), middleware.Principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, store)
}

func (h *StoreHandler) Update(c *gin.Context) {
	var input services.StoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidRequest(c)
		return
	}
	store, err := h.storeService.Update(c.Request.Context(), middleware.Principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, store)
}
