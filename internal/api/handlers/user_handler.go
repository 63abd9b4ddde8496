package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenworks/studio-portal-backend/internal/api/middleware"
	"github.com/lumenworks/studio-portal-backend/internal/models"
	"github.com/lumenworks/studio-portal-backend/internal/service"
)

// ============================================
// User Handler
// ============================================

type UserHandler struct {
	userService service.UserService
}

// Me - GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// UpdateMe - PATCH /users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), req.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// Get - GET /users/:uid (admin)
func (h *UserHandler) Get(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), c.Param("uid"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// SetRole - PUT /users/:uid/role (admin)
func (h *UserHandler) SetRole(c *gin.Context) {
	var req models.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.userService.SetRole(c.Request.Context(), c.Param("uid"), req.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// SetActive - PUT /users/:uid/active (admin)
func (h *UserHandler) SetActive(c *gin.Context) {
	var req models.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.userService.SetActive(c.Request.Context(), c.Param("uid"), *req.Active)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// SyncClaims - POST /users/:uid/sync-claims (admin)
func (h *UserHandler) SyncClaims(c *gin.Context) {
	profile, err := h.userService.SyncClaims(c.Request.Context(), c.Param("uid"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}
