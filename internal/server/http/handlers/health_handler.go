package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/celestial/internal/server/http/dto"
)

// HealthHandler reports liveness and store connectivity.
type HealthHandler struct {
	facade  HealthFacade
	logger  *slog.Logger
	verbose bool
}

// NewHealthHandler creates HealthHandler. verbose adds probe errors to the response.
func NewHealthHandler(facade HealthFacade, logger *slog.Logger, verbose bool) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{facade: facade, logger: logger, verbose: verbose}
}

// Health handles GET /api/health. A failed probe is reported in the body, not the status.
func (h *HealthHandler) Health(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("health handler panicked", slog.Any("panic", r))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.HealthFailure())
		}
	}()

	resp := dto.HealthResponse{Success: true, Status: dto.StatusRunning, Database: dto.DatabaseConnected}
	if err := h.facade.Health(c.Request.Context()); err != nil {
		resp.Database = dto.DatabaseDisconnected
		if h.verbose {
			h.logger.Warn("health probe failed", slog.Any("error", err))
			resp.Error = &dto.HealthError{Message: err.Error()}
		}
	}
	c.JSON(http.StatusOK, resp)
}
