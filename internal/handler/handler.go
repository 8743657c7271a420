package handler

import (
	"errors"
	"net/http"

	"textile-backend/internal/service"
	"textile-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps service-layer sentinel errors onto HTTP statuses so
// every handler reports failures the same way.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(err.Error()))
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrHasDependents):
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(err.Error()))
	}
}
