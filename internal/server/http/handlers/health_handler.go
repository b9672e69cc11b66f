package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/detta3d-orders/internal/server/http/dto"
)

// APIBanner is served from the root route.
const APIBanner = "Detta3D API - v1.0.0"

type HealthHandler struct {
	facade OrdersFacade
	logger *slog.Logger
}

func NewHealthHandler(facade OrdersFacade, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{facade: facade, logger: logger}
}

// Root handles GET /.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MessageResponse{Message: APIBanner})
}

// Healthz handles GET /healthz and reports whether the store answers.
func (h *HealthHandler) Healthz(c *gin.Context) {
	if err := h.facade.Ping(c.Request.Context()); err != nil {
		h.logger.WarnContext(c.Request.Context(), "health check failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable"})
		return
	}
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
