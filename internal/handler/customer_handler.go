package handler

import (
	"net/http"

	"textile-backend/internal/service"
	"textile-backend/pkg/pagination"
	"textile-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/api/customers")
	{
		customers.GET("", h.ListCustomers)
		customers.POST("", h.CreateCustomer)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)
	}
}

// ListCustomers retrieves paginated customers
// @Summary      List customers
// @Description  Retrieves a paginated list of customers, optionally searched by name, phone or email
// @Tags         customers
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search term"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	params := pagination.Parse(c)
	customers, total, err := h.customerService.ListCustomers(c.Request.Context(), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]interface{}{
		"customers": customers,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// CreateCustomer creates a customer
// @Summary      Create customer
// @Description  Creates a new customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CustomerRequest  true  "Create Customer Payload"
// @Success      201      {object}  response.Response{data=model.Customer}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessMessage(customer, "Customer created successfully"))
}

// GetCustomer retrieves a customer
// @Summary      Get customer
// @Description  Retrieves a customer by ID
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  response.Response{data=model.Customer}
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(customer))
}

// UpdateCustomer updates a customer
// @Summary      Update customer
// @Description  Updates a customer's details by ID
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Customer ID"
// @Param        payload  body      service.CustomerRequest  true  "Update Customer Payload"
// @Success      200      {object}  response.Response{data=model.Customer}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessMessage(customer, "Customer updated successfully"))
}

// DeleteCustomer removes a customer
// @Summary      Delete customer
// @Description  Soft deletes a customer by ID
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	if err := h.customerService.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(nil, "Customer deleted successfully"))
}
