package handler

import (
	"net/http"

	"textile-backend/internal/service"
	"textile-backend/pkg/pagination"
	"textile-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type VendorHandler struct {
	vendorService service.VendorService
}

func NewVendorHandler(vendorService service.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

func (h *VendorHandler) RegisterRoutes(router *gin.RouterGroup) {
	vendors := router.Group("/api/vendors")
	{
		vendors.GET("", h.ListVendors)
		vendors.POST("", h.CreateVendor)
		vendors.GET("/:id", h.GetVendor)
		vendors.PUT("/:id", h.UpdateVendor)
		vendors.DELETE("/:id", h.DeleteVendor)
	}
}

// ListVendors retrieves paginated vendors
// @Summary      List vendors
// @Description  Retrieves a paginated list of vendors, optionally searched by name, contact person or phone
// @Tags         vendors
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search term"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/vendors [get]
func (h *VendorHandler) ListVendors(c *gin.Context) {
	params := pagination.Parse(c)
	vendors, total, err := h.vendorService.ListVendors(c.Request.Context(), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]interface{}{
		"vendors": vendors,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}

// CreateVendor creates a vendor
// @Summary      Create vendor
// @Description  Creates a new thread supplier
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        payload  body      service.VendorRequest  true  "Create Vendor Payload"
// @Success      201      {object}  response.Response{data=model.Vendor}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/vendors [post]
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var req service.VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	vendor, err := h.vendorService.CreateVendor(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessMessage(vendor, "Vendor created successfully"))
}

// GetVendor retrieves a vendor
// @Summary      Get vendor
// @Description  Retrieves a vendor by ID
// @Tags         vendors
// @Produce      json
// @Param        id   path      string  true  "Vendor ID"
// @Success      200  {object}  response.Response{data=model.Vendor}
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/vendors/{id} [get]
func (h *VendorHandler) GetVendor(c *gin.Context) {
	vendor, err := h.vendorService.GetVendor(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(vendor))
}

// UpdateVendor updates a vendor
// @Summary      Update vendor
// @Description  Updates a vendor's details by ID
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Vendor ID"
// @Param        payload  body      service.VendorRequest  true  "Update Vendor Payload"
// @Success      200      {object}  response.Response{data=model.Vendor}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/vendors/{id} [put]
func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	var req service.VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	vendor, err := h.vendorService.UpdateVendor(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessMessage(vendor, "Vendor updated successfully"))
}

// DeleteVendor removes a vendor
// @Summary      Delete vendor
// @Description  Soft deletes a vendor by ID
// @Tags         vendors
// @Produce      json
// @Param        id   path      string  true  "Vendor ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/vendors/{id} [delete]
func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	if err := h.vendorService.DeleteVendor(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(nil, "Vendor deleted successfully"))
}
