package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"civicreport/services"

	"github.com/gin-gonic/gin"
)

// RespondError writes err as {"message": ...} with the status of its kind.
// Errors of no known kind are logged and answered with a generic 500.
func RespondError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "route", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"message": "internal server error"})
		return
	}
	if status == http.StatusGatewayTimeout {
		c.JSON(status, gin.H{"message": "request timed out, try again"})
		return
	}
	if errors.Is(err, services.ErrUpstream) {
		slog.Warn("upstream failure", "route", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

func StatusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, services.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// BindError answers a request that failed binding.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input", "details": err.Error()})
}
