package handler

import (
	"net/http"
	"strconv"

	"textile-backend/internal/repository"
	"textile-backend/internal/service"
	"textile-backend/pkg/pagination"
	"textile-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/api/inventory")
	{
		inventory.GET("", h.ListItems)
		inventory.GET("/:id", h.GetItem)
		inventory.GET("/:id/transactions", h.ListItemTransactions)
		inventory.POST("/:id/adjust", h.AdjustItem)
	}
}

// ListItems retrieves paginated inventory items
// @Summary      List inventory
// @Description  Retrieves a paginated list of inventory items with optional filters
// @Tags         inventory
// @Produce      json
// @Param        page          query     int     false  "Page number (default 1)"
// @Param        limit         query     int     false  "Number of items per page (default 20)"
// @Param        product_type  query     string  false  "Filter by product type (THREAD, FABRIC)"
// @Param        low_stock     query     bool    false  "Only items at or below their minimum stock level"
// @Param        search        query     string  false  "Search by item code or description"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/inventory [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	params := pagination.Parse(c)
	lowStock, _ := strconv.ParseBool(c.DefaultQuery("low_stock", "false"))

	filter := repository.InventoryFilter{
		ProductType: c.Query("product_type"),
		LowStock:    lowStock,
		Search:      c.Query("search"),
		Page:        params.Page,
		Limit:       params.Limit,
	}

	items, total, err := h.inventoryService.ListItems(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]interface{}{
		"items": items,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetItem retrieves one inventory item with its movement history
// @Summary      Get inventory item
// @Description  Retrieves an inventory item by ID together with its transactions
// @Tags         inventory
// @Produce      json
// @Param        id   path      string  true  "Inventory ID"
// @Success      200  {object}  response.Response{data=service.InventoryDetailResponse}
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) GetItem(c *gin.Context) {
	item, err := h.inventoryService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(item))
}

// ListItemTransactions retrieves paginated movements of one inventory item
// @Summary      List inventory transactions
// @Description  Retrieves the paginated movement history of an inventory item
// @Tags         inventory
// @Produce      json
// @Param        id     path      string  true   "Inventory ID"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Number of items per page (default 20)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/inventory/{id}/transactions [get]
func (h *InventoryHandler) ListItemTransactions(c *gin.Context) {
	params := pagination.Parse(c)
	txs, total, err := h.inventoryService.ListItemTransactions(c.Request.Context(), c.Param("id"), params.Page, params.Limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]interface{}{
		"transactions": txs,
		"total":        total,
		"page":         params.Page,
		"limit":        params.Limit,
	}))
}

// AdjustItem records a manual stock adjustment
// @Summary      Adjust inventory
// @Description  Applies a positive or negative manual adjustment to an inventory item, recording an ADJUSTMENT transaction
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Inventory ID"
// @Param        payload  body      service.AdjustInventoryRequest  true  "Adjustment Payload"
// @Success      200      {object}  response.Response{data=service.InventoryResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/inventory/{id}/adjust [post]
func (h *InventoryHandler) AdjustItem(c *gin.Context) {
	var req service.AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.inventoryService.AdjustItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessMessage(item, "Inventory adjusted successfully"))
}
