package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenworks/studio-portal-backend/internal/api/middleware"
	"github.com/lumenworks/studio-portal-backend/internal/models"
	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/service"
	"github.com/lumenworks/studio-portal-backend/internal/types"
)

// ============================================
// Project Handler
// ============================================

type ProjectHandler struct {
	projectService service.ProjectService
}

// List - GET /projects
// Staff see everything; clients see only projects tied to their account.
func (h *ProjectHandler) List(c *gin.Context) {
	role := c.GetString("userRole")

	var err error
	var projects []*repository.Project
	if role == types.RoleAdmin || role == types.RoleStaff {
		projects, err = h.projectService.List(c.Request.Context())
	} else {
		projects, err = h.projectService.ListForClient(c.Request.Context(), middleware.GetUserID(c))
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]models.ProjectResponse, len(projects))
	for i, p := range projects {
		response[i] = toProjectResponse(p)
	}
	c.JSON(http.StatusOK, response)
}

// Get - GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	role := c.GetString("userRole")
	if role != types.RoleAdmin && role != types.RoleStaff {
		if project.ClientUID == nil || *project.ClientUID != middleware.GetUserID(c) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return
		}
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// Create - POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), service.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		ClientUID:   req.ClientUID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Phase:       req.Phase,
		Budget:      req.Budget,
	}, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProjectResponse(project))
}

// Update - PATCH /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), c.Param("id"), service.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Status:      req.Status,
		Phase:       req.Phase,
		Budget:      req.Budget,
	}, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// SetStatus - PATCH /projects/:id/status
func (h *ProjectHandler) SetStatus(c *gin.Context) {
	var req models.SetProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.SetStatus(c.Request.Context(), c.Param("id"), req.Status, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(project))
}

// SetPhase - PATCH /projects/:id/phase
func (h *ProjectHandler) SetPhase(c *gin.Context) {
	var req models.SetProjectPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.SetPhase(c.Request.Context(), c.Param("id"), req.Phase, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(project))
}

// Delete - DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectService.Delete(c.Request.Context(), c.Param("id"), middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}
