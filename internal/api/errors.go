package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/painrelief/internal/render"
	"alcyxob/painrelief/internal/service"
)

// writeServiceError maps service errors to status codes. Anything not
// recognised is a 500 with a generic message; the cause goes to the log.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRegion),
		errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, service.ErrInvalidCamera),
		errors.Is(err, render.ErrInvalidSize):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNothingSelected):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionInvalid):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "internal error")
	}
}
