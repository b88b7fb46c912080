package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"agilesense.ai/services/internal/inference"
	"agilesense.ai/services/internal/service"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrIssueNotFound),
		errors.Is(err, service.ErrDeveloperNotFound),
		errors.Is(err, service.ErrPendingIssueNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrNotAssignee):
		return http.StatusConflict
	case errors.Is(err, inference.ErrModelNotReady),
		errors.Is(err, service.ErrAnalysisLogDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": "<op> failed: <err>"}.
func respondError(c *gin.Context, op string, err error) {
	ctx := c.Request.Context()
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, op+" failed", "error", err, "status", status)
	} else {
		slog.WarnContext(ctx, op+" failed", "error", err, "status", status)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": fmt.Sprintf("%s failed: %v", op, err)})
}

func respondInvalid(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request: " + err.Error()})
}
