package handler

import (
	"net/http"
	"strconv"
	"time"

	"textile-backend/internal/repository"
	"textile-backend/internal/service"
	"textile-backend/pkg/pagination"
	"textile-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ThreadHandler struct {
	threadService service.ThreadService
}

func NewThreadHandler(threadService service.ThreadService) *ThreadHandler {
	return &ThreadHandler{threadService: threadService}
}

func (h *ThreadHandler) RegisterRoutes(router *gin.RouterGroup) {
	thread := router.Group("/api/thread")
	{
		thread.GET("", h.ListPurchases)
		thread.POST("", h.CreatePurchase)
		thread.GET("/types", h.ListThreadTypes)
		thread.GET("/:id", h.GetPurchase)
		thread.PATCH("/:id", h.UpdatePurchase)
		thread.PUT("/:id", h.UpdatePurchase)
		thread.DELETE("/:id", h.DeletePurchase)
	}
}

// ListPurchases retrieves paginated thread purchases
// @Summary      List thread purchases
// @Description  Retrieves a paginated list of thread purchases with optional filters
// @Tags         thread
// @Produce      json
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Param        vendor_id  query     string  false  "Filter by vendor ID"
// @Param        received   query     bool    false  "Filter by received flag"
// @Param        start_date query     string  false  "Purchase date lower bound (RFC3339)"
// @Param        end_date   query     string  false  "Purchase date upper bound (RFC3339)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/thread [get]
func (h *ThreadHandler) ListPurchases(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.ThreadPurchaseFilter{
		Page:  params.Page,
		Limit: params.Limit,
	}

	if raw := c.Query("vendor_id"); raw != "" {
		vendorID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("Invalid vendor_id"))
			return
		}
		filter.VendorID = &vendorID
	}
	if raw := c.Query("received"); raw != "" {
		received, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("Invalid received flag"))
			return
		}
		filter.Received = &received
	}
	if raw := c.Query("start_date"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("Invalid start_date"))
			return
		}
		filter.StartDate = &start
	}
	if raw := c.Query("end_date"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("Invalid end_date"))
			return
		}
		filter.EndDate = &end
	}

	purchases, total, err := h.threadService.ListPurchases(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]interface{}{
		"purchases": purchases,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// CreatePurchase records a new thread purchase
// @Summary      Create thread purchase
// @Description  Records a thread purchase, optionally folding it into inventory, spawning a dyeing process and recording the payment
// @Tags         thread
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePurchaseRequest  true  "Create Purchase Payload"
// @Success      201      {object}  response.Response{data=service.PurchaseResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/thread [post]
func (h *ThreadHandler) CreatePurchase(c *gin.Context) {
	var req service.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	purchase, err := h.threadService.CreatePurchase(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessMessage(purchase, "Thread purchase created successfully"))
}

// GetPurchase retrieves a single thread purchase
// @Summary      Get thread purchase
// @Description  Retrieves a thread purchase by ID
// @Tags         thread
// @Produce      json
// @Param        id   path      string  true  "Thread Purchase ID"
// @Success      200  {object}  response.Response{data=service.PurchaseResponse}
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/thread/{id} [get]
func (h *ThreadHandler) GetPurchase(c *gin.Context) {
	purchase, err := h.threadService.GetPurchase(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(purchase))
}

// UpdatePurchase updates a thread purchase
// @Summary      Update thread purchase
// @Description  Updates a thread purchase; marking it received folds it into inventory
// @Tags         thread
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Thread Purchase ID"
// @Param        payload  body      service.UpdatePurchaseRequest  true  "Update Purchase Payload"
// @Success      200      {object}  response.Response{data=service.PurchaseResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/thread/{id} [patch]
func (h *ThreadHandler) UpdatePurchase(c *gin.Context) {
	var req service.UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	purchase, err := h.threadService.UpdatePurchase(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessMessage(purchase, "Thread purchase updated successfully"))
}

// DeletePurchase removes a thread purchase and its dependent records
// @Summary      Delete thread purchase
// @Description  Deletes a thread purchase with its inventory transactions, payments and dyeing processes; rejected when fabric productions reference it
// @Tags         thread
// @Produce      json
// @Param        id   path      string  true  "Thread Purchase ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/thread/{id} [delete]
func (h *ThreadHandler) DeletePurchase(c *gin.Context) {
	if err := h.threadService.DeletePurchase(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(nil, "Thread purchase deleted successfully"))
}

// ListThreadTypes lists known thread types
// @Summary      List thread types
// @Description  Retrieves all thread types known to the system
// @Tags         thread
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.ThreadType}
// @Failure      500  {object}  response.Response
// @Router       /api/thread/types [get]
func (h *ThreadHandler) ListThreadTypes(c *gin.Context) {
	types, err := h.threadService.ListThreadTypes(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(types))
}
