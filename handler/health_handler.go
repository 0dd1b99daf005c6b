// ABOUTME: This file implements the health endpoint
// ABOUTME: Reports service liveness and the reachability of the inference dependency
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// InferenceHealthChecker is the slice of the inference driver the health
// endpoint probes.
type InferenceHealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// HealthHandler handles liveness requests.
type HealthHandler struct {
	inference InferenceHealthChecker
	logger    *slog.Logger
}

func NewHealthHandler(inference InferenceHealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		inference: inference,
		logger:    logger,
	}
}

// Handle processes GET /v1/health. The service is healthy even when the
// inference dependency is down (classification degrades instead of failing),
// so a down dependency is reported but never turns the response into a 5xx.
func (h *HealthHandler) Handle(c echo.Context) error {
	status := map[string]string{
		"status":    "healthy",
		"inference": "reachable",
	}

	if err := h.inference.CheckHealth(c.Request().Context()); err != nil {
		h.logger.Warn("inference service unreachable", "error", err)
		status["inference"] = "unreachable"
	}

	return c.JSON(http.StatusOK, status)
}
