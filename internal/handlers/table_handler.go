package handlers

import (
	"net/http"

	"restaurant_manager/internal/middleware"
	"restaurant_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type TableHandler struct {
	tableService services.TableService
}

func NewTableHandler(tableService services.TableService) *TableHandler {
	return &TableHandler{tableService: tableService}
}

func (h *TableHandler) List(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"
	tables, err := h.tableService.List(c.Request.Context(), middleware.Principal(c), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *TableHandler) Create(c *gin.Context) {
	var input services.TableInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidRequest(c)
		return
	}
	table, err := h.tableService.Create(c.Request.Context(), middleware.Principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, table)
}

func (h *TableHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.TableInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidRequest(c)
		return
	}
	table, err := h.tableService.Update(c.Request.Context(), middleware.Principal(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *TableHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.tableService.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
