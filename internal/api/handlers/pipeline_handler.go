package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenworks/studio-portal-backend/internal/api/middleware"
	"github.com/lumenworks/studio-portal-backend/internal/models"
	"github.com/lumenworks/studio-portal-backend/internal/service"
)

// ============================================
// Pipeline Handler
// ============================================

type PipelineHandler struct {
	pipelineService service.PipelineService
}

// GetBoard - GET /pipeline
func (h *PipelineHandler) GetBoard(c *gin.Context) {
	board, err := h.pipelineService.GetBoard(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := models.BoardResponse{Columns: make([]models.BoardColumnResponse, len(board.Columns))}
	for i, col := range board.Columns {
		leads := make([]models.LeadResponse, len(col.Leads))
		for j, l := range col.Leads {
			leads[j] = toLeadResponse(l)
		}
		response.Columns[i] = models.BoardColumnResponse{
			Stage: col.Stage,
			Leads: leads,
			Total: col.Total,
			Count: len(leads),
		}
	}
	c.JSON(http.StatusOK, response)
}

// MoveForward - POST /pipeline/:id/forward
func (h *PipelineHandler) MoveForward(c *gin.Context) {
	lead, err := h.pipelineService.MoveForward(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLeadResponse(lead))
}

// MoveBack - POST /pipeline/:id/back
func (h *PipelineHandler) MoveBack(c *gin.Context) {
	lead, err := h.pipelineService.MoveBack(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLeadResponse(lead))
}

// SetStage - PATCH /pipeline/:id/stage
func (h *PipelineHandler) SetStage(c *gin.Context) {
	var req models.SetStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.pipelineService.SetStage(c.Request.Context(), c.Param("id"), req.Stage, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLeadResponse(lead))
}
