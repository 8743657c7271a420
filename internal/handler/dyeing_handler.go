package handler

import (
	"net/http"

	"textile-backend/internal/service"
	"textile-backend/pkg/pagination"
	"textile-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DyeingHandler struct {
	dyeingService service.DyeingService
}

func NewDyeingHandler(dyeingService service.DyeingService) *DyeingHandler {
	return &DyeingHandler{dyeingService: dyeingService}
}

func (h *DyeingHandler) RegisterRoutes(router *gin.RouterGroup) {
	dyeing := router.Group("/api/dyeing/process")
	{
		dyeing.GET("", h.ListProcesses)
		dyeing.POST("", h.CreateProcess)
		dyeing.GET("/:id", h.GetProcess)
		dyeing.PATCH("/:id", h.UpdateProcess)
		dyeing.PUT("/:id", h.UpdateProcess)
		dyeing.DELETE("/:id", h.DeleteProcess)
	}
}

// ListProcesses retrieves paginated dyeing processes
// @Summary      List dyeing processes
// @Description  Retrieves a paginated list of dyeing processes, optionally filtered by result status
// @Tags         dyeing
// @Produce      json
// @Param        page           query     int     false  "Page number (default 1)"
// @Param        limit          query     int     false  "Number of items per page (default 20)"
// @Param        result_status  query     string  false  "Filter by result status (PENDING, COMPLETED, FAILED, CANCELLED)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/dyeing/process [get]
func (h *DyeingHandler) ListProcesses(c *gin.Context) {
	params := pagination.Parse(c)
	processes, total, err := h.dyeingService.ListProcesses(c.Request.Context(), c.Query("result_status"), params.Page, params.Limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]interface{}{
		"processes": processes,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// CreateProcess starts a new dyeing process
// @Summary      Create dyeing process
// @Description  Starts a dyeing process against a received thread purchase
// @Tags         dyeing
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateDyeingRequest  true  "Create Dyeing Payload"
// @Success      201      {object}  response.Response{data=service.DyeingResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/dyeing/process [post]
func (h *DyeingHandler) CreateProcess(c *gin.Context) {
	var req service.CreateDyeingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	process, err := h.dyeingService.CreateProcess(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessMessage(process, "Dyeing process created successfully"))
}

// GetProcess retrieves a single dyeing process
// @Summary      Get dyeing process
// @Description  Retrieves a dyeing process by ID
// @Tags         dyeing
// @Produce      json
// @Param        id   path      string  true  "Dyeing Process ID"
// @Success      200  {object}  response.Response{data=service.DyeingResponse}
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/dyeing/process/{id} [get]
func (h *DyeingHandler) GetProcess(c *gin.Context) {
	process, err := h.dyeingService.GetProcess(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(process))
}

// UpdateProcess updates a dyeing process
// @Summary      Update dyeing process
// @Description  Updates a dyeing process; completing it folds the dyed output into inventory exactly once
// @Tags         dyeing
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Dyeing Process ID"
// @Param        payload  body      service.UpdateDyeingRequest  true  "Update Dyeing Payload"
// @Success      200      {object}  response.Response{data=service.DyeingResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/dyeing/process/{id} [patch]
func (h *DyeingHandler) UpdateProcess(c *gin.Context) {
	var req service.UpdateDyeingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	process, err := h.dyeingService.UpdateProcess(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessMessage(process, "Dyeing process updated successfully"))
}

// DeleteProcess removes a dyeing process
// @Summary      Delete dyeing process
// @Description  Deletes a dyeing process together with its inventory transactions
// @Tags         dyeing
// @Produce      json
// @Param        id   path      string  true  "Dyeing Process ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/dyeing/process/{id} [delete]
func (h *DyeingHandler) DeleteProcess(c *gin.Context) {
	if err := h.dyeingService.DeleteProcess(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(nil, "Dyeing process deleted successfully"))
}
