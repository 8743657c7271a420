package handler

import (
	"net/http"

	"textile-backend/internal/service"
	"textile-backend/pkg/pagination"
	"textile-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type FabricHandler struct {
	fabricService service.FabricService
}

func NewFabricHandler(fabricService service.FabricService) *FabricHandler {
	return &FabricHandler{fabricService: fabricService}
}

func (h *FabricHandler) RegisterRoutes(router *gin.RouterGroup) {
	fabric := router.Group("/api/fabric/production")
	{
		fabric.GET("", h.ListProductions)
		fabric.POST("", h.CreateProduction)
		fabric.GET("/:id", h.GetProduction)
		fabric.PUT("/:id", h.UpdateProduction)
		fabric.DELETE("/:id", h.DeleteProduction)
	}
}

// ListProductions retrieves paginated fabric production runs
// @Summary      List fabric productions
// @Description  Retrieves a paginated list of fabric production runs, optionally filtered by status
// @Tags         fabric
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        status  query     string  false  "Filter by production status"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/fabric/production [get]
func (h *FabricHandler) ListProductions(c *gin.Context) {
	params := pagination.Parse(c)
	productions, total, err := h.fabricService.ListProductions(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]interface{}{
		"productions": productions,
		"total":       total,
		"page":        params.Page,
		"limit":       params.Limit,
	}))
}

// CreateProduction records a fabric production run
// @Summary      Create fabric production
// @Description  Records a fabric production run from source thread, optionally folding the output into inventory
// @Tags         fabric
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateFabricRequest  true  "Create Fabric Payload"
// @Success      201      {object}  response.Response{data=service.FabricResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/fabric/production [post]
func (h *FabricHandler) CreateProduction(c *gin.Context) {
	var req service.CreateFabricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	production, err := h.fabricService.CreateProduction(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessMessage(production, "Fabric production created successfully"))
}

// GetProduction retrieves a single fabric production run
// @Summary      Get fabric production
// @Description  Retrieves a fabric production run by ID
// @Tags         fabric
// @Produce      json
// @Param        id   path      string  true  "Fabric Production ID"
// @Success      200  {object}  response.Response{data=service.FabricResponse}
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/fabric/production/{id} [get]
func (h *FabricHandler) GetProduction(c *gin.Context) {
	production, err := h.fabricService.GetProduction(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(production))
}

// UpdateProduction updates a fabric production run
// @Summary      Update fabric production
// @Description  Updates a fabric production run; completing it folds the fabric into inventory
// @Tags         fabric
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Fabric Production ID"
// @Param        payload  body      service.UpdateFabricRequest  true  "Update Fabric Payload"
// @Success      200      {object}  response.Response{data=service.FabricResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/fabric/production/{id} [put]
func (h *FabricHandler) UpdateProduction(c *gin.Context) {
	var req service.UpdateFabricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	production, err := h.fabricService.UpdateProduction(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessMessage(production, "Fabric production updated successfully"))
}

// DeleteProduction removes a fabric production run
// @Summary      Delete fabric production
// @Description  Deletes a fabric production run; rejected when sales order items reference it
// @Tags         fabric
// @Produce      json
// @Param        id   path      string  true  "Fabric Production ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/fabric/production/{id} [delete]
func (h *FabricHandler) DeleteProduction(c *gin.Context) {
	if err := h.fabricService.DeleteProduction(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(nil, "Fabric production deleted successfully"))
}
