package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenworks/studio-portal-backend/internal/models"
	"github.com/lumenworks/studio-portal-backend/internal/service"
)

// ============================================
// Invite Handler
// ============================================

type InviteHandler struct {
	inviteService service.InviteService
}

// Create - POST /invites (admin)
func (h *InviteHandler) Create(c *gin.Context) {
	var req models.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invite, err := h.inviteService.Create(c.Request.Context(), req.Email, req.Role, currentProfile(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toInviteResponse(invite))
}

// List - GET /invites (admin)
func (h *InviteHandler) List(c *gin.Context) {
	invites, err := h.inviteService.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]models.InviteResponse, len(invites))
	for i, inv := range invites {
		response[i] = toInviteResponse(inv)
	}
	c.JSON(http.StatusOK, response)
}

// Revoke - DELETE /invites/:id (admin)
func (h *InviteHandler) Revoke(c *gin.Context) {
	if err := h.inviteService.Revoke(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invite revoked"})
}
