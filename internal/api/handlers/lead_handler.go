package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenworks/studio-portal-backend/internal/api/middleware"
	"github.com/lumenworks/studio-portal-backend/internal/models"
	"github.com/lumenworks/studio-portal-backend/internal/service"
)

// ============================================
// Lead Handler
// ============================================

type LeadHandler struct {
	leadService       service.LeadService
	conversionService service.ConversionService
}

// List - GET /leads?status=
func (h *LeadHandler) List(c *gin.Context) {
	leads, err := h.leadService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]models.LeadResponse, len(leads))
	for i, l := range leads {
		response[i] = toLeadResponse(l)
	}
	c.JSON(http.StatusOK, response)
}

// Get - GET /leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	lead, err := h.leadService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLeadResponse(lead))
}

// Create - POST /leads
func (h *LeadHandler) Create(c *gin.Context) {
	var req models.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.leadService.Create(c.Request.Context(), service.CreateLeadInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Source:  req.Source,
		Notes:   req.Notes,
		Status:  req.Status,
		Value:   req.Value,
	}, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toLeadResponse(lead))
}

// Update - PATCH /leads/:id
func (h *LeadHandler) Update(c *gin.Context) {
	var req models.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.leadService.Update(c.Request.Context(), c.Param("id"), service.UpdateLeadInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Source:  req.Source,
		Notes:   req.Notes,
		Status:  req.Status,
		Value:   req.Value,
	}, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLeadResponse(lead))
}

// Delete - DELETE /leads/:id
func (h *LeadHandler) Delete(c *gin.Context) {
	if err := h.leadService.Delete(c.Request.Context(), c.Param("id"), middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted"})
}

// Convert - POST /leads/:id/convert
func (h *LeadHandler) Convert(c *gin.Context) {
	var req models.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.conversionService.ConvertLead(c.Request.Context(), c.Param("id"), service.ConversionOverrides{
		Title:       req.Title,
		Description: req.Description,
		Phase:       req.Phase,
		Budget:      req.Budget,
	}, middleware.GetUserID(c))
	if err != nil {
		// Repeat conversions return the existing project instead of failing
		if project != nil {
			c.JSON(http.StatusOK, toProjectResponse(project))
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProjectResponse(project))
}
