package handler

import (
	"net/http"
	"time"

	"textile-backend/internal/repository"
	"textile-backend/internal/service"
	"textile-backend/pkg/pagination"
	"textile-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct {
	salesService service.SalesService
}

func NewSalesHandler(salesService service.SalesService) *SalesHandler {
	return &SalesHandler{salesService: salesService}
}

func (h *SalesHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/api/sales")
	{
		sales.GET("", h.ListOrders)
		sales.POST("", h.SubmitOrder)
		sales.POST("/submit", h.SubmitOrder)
		sales.GET("/analytics", h.GetAnalytics)
		sales.GET("/check-order-number", h.CheckOrderNumber)
		sales.GET("/:id", h.GetOrder)
	}
}

// parseDate accepts RFC3339 timestamps and bare YYYY-MM-DD dates.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// ListOrders retrieves sales orders
// @Summary      List sales orders
// @Description  Retrieves sales orders with optional filters; single-item orders are flattened to product fields
// @Tags         sales
// @Produce      json
// @Param        limit          query     int     false  "Number of items per page (default 20)"
// @Param        offset         query     int     false  "Offset into the result set"
// @Param        customerId     query     string  false  "Filter by customer ID"
// @Param        productType    query     string  false  "Filter by item product type (THREAD, FABRIC)"
// @Param        paymentStatus  query     string  false  "Filter by payment status"
// @Param        startDate      query     string  false  "Order date lower bound"
// @Param        endDate        query     string  false  "Order date upper bound"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/sales [get]
func (h *SalesHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.SalesOrderFilter{
		ProductType:   c.Query("productType"),
		PaymentStatus: c.Query("paymentStatus"),
		Limit:         params.Limit,
		Offset:        params.Offset,
	}

	if raw := c.Query("customerId"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("Invalid customerId"))
			return
		}
		filter.CustomerID = &customerID
	}
	if raw := c.Query("startDate"); raw != "" {
		start, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("Invalid startDate"))
			return
		}
		filter.StartDate = &start
	}
	if raw := c.Query("endDate"); raw != "" {
		end, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("Invalid endDate"))
			return
		}
		filter.EndDate = &end
	}

	orders, total, err := h.salesService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]interface{}{
		"orders": orders,
		"total":  total,
		"limit":  params.Limit,
		"offset": params.Offset,
	}))
}

// SubmitOrder creates a sales order
// @Summary      Submit sales order
// @Description  Creates a sales order with its line items, decrements source inventory and optionally records a payment, all atomically
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSalesOrderRequest  true  "Sales Order Payload"
// @Success      201      {object}  response.Response{data=service.SalesOrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/sales/submit [post]
func (h *SalesHandler) SubmitOrder(c *gin.Context) {
	var req service.CreateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.salesService.SubmitOrder(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessMessage(order, "Sales order created successfully"))
}

// GetOrder retrieves a single sales order
// @Summary      Get sales order
// @Description  Retrieves a sales order by ID
// @Tags         sales
// @Produce      json
// @Param        id   path      string  true  "Sales Order ID"
// @Success      200  {object}  response.Response{data=service.SalesOrderResponse}
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/sales/{id} [get]
func (h *SalesHandler) GetOrder(c *gin.Context) {
	order, err := h.salesService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(order))
}

// CheckOrderNumber reports whether an order number is already taken
// @Summary      Check order number
// @Description  Checks whether a sales order number already exists
// @Tags         sales
// @Produce      json
// @Param        orderNumber  query     string  true  "Order number to check"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/sales/check-order-number [get]
func (h *SalesHandler) CheckOrderNumber(c *gin.Context) {
	orderNumber := c.Query("orderNumber")
	if orderNumber == "" {
		c.JSON(http.StatusBadRequest, response.Error("orderNumber is required"))
		return
	}

	exists, err := h.salesService.CheckOrderNumber(c.Request.Context(), orderNumber)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]interface{}{
		"exists": exists,
	}))
}

// GetAnalytics computes sales analytics for a date range
// @Summary      Sales analytics
// @Description  Computes revenue, order count, revenue trend versus the previous equal-length period, payment-mode distribution and top customers
// @Tags         sales
// @Produce      json
// @Param        startDate  query     string  false  "Window start (default 30 days ago)"
// @Param        endDate    query     string  false  "Window end (default now)"
// @Success      200  {object}  response.Response{data=service.SalesAnalyticsResponse}
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/sales/analytics [get]
func (h *SalesHandler) GetAnalytics(c *gin.Context) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if raw := c.Query("startDate"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("Invalid startDate"))
			return
		}
		start = parsed
	}
	if raw := c.Query("endDate"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("Invalid endDate"))
			return
		}
		end = parsed
	}
	if !start.Before(end) {
		c.JSON(http.StatusBadRequest, response.Error("startDate must be before endDate"))
		return
	}

	analytics, err := h.salesService.GetAnalytics(c.Request.Context(), start, end)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(analytics))
}
