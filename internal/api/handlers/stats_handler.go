package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenworks/studio-portal-backend/internal/service"
)

// ============================================
// Stats Handler
// ============================================

type StatsHandler struct {
	statsService service.StatsService
}

// Overview - GET /stats/overview
func (h *StatsHandler) Overview(c *gin.Context) {
	overview, err := h.statsService.Overview(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Forecast - GET /stats/forecast
func (h *StatsHandler) Forecast(c *gin.Context) {
	forecast, err := h.statsService.Forecast(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecast)
}

// ClientProjections - GET /stats/clients
func (h *StatsHandler) ClientProjections(c *gin.Context) {
	projections, err := h.statsService.ClientProjections(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, projections)
}

// LeadScores - GET /stats/lead-scores
func (h *StatsHandler) LeadScores(c *gin.Context) {
	scores, err := h.statsService.LeadScores(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scores)
}
