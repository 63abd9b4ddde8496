package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenworks/studio-portal-backend/internal/api/middleware"
	"github.com/lumenworks/studio-portal-backend/internal/models"
	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/service"
)

// ============================================
// Message Handler
// ============================================

type MessageHandler struct {
	messageService    service.MessageService
	conversionService service.ConversionService
}

// Intake - POST /contact (public, unauthenticated)
func (h *MessageHandler) Intake(c *gin.Context) {
	var req models.IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messageService.Intake(c.Request.Context(), service.IntakeInput{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Subject: req.Subject,
		Body:    req.Message,
		Page:    req.Page,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": msg.ID, "message": "Thanks, we'll be in touch shortly"})
}

// ListThreads - GET /messages
func (h *MessageHandler) ListThreads(c *gin.Context) {
	threads, err := h.messageService.ListThreads(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]models.ThreadResponse, len(threads))
	for i, t := range threads {
		response[i] = toThreadResponse(t)
	}
	c.JSON(http.StatusOK, response)
}

// GetThread - GET /messages/threads/:threadId
func (h *MessageHandler) GetThread(c *gin.Context) {
	msgs, err := h.messageService.GetThread(c.Request.Context(), c.Param("threadId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]models.MessageResponse, len(msgs))
	for i, m := range msgs {
		response[i] = toMessageResponse(m)
	}
	c.JSON(http.StatusOK, response)
}

// Reply - POST /messages/threads/:threadId/reply
func (h *MessageHandler) Reply(c *gin.Context) {
	var req models.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := currentProfile(c)
	if profile == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	msg, err := h.messageService.Reply(c.Request.Context(), service.ReplyInput{
		ThreadID: c.Param("threadId"),
		Body:     req.Body,
	}, profile.UID, profile.Name, profile.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMessageResponse(msg))
}

// MarkRead - POST /messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	msg, err := h.messageService.MarkRead(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMessageResponse(msg))
}

// SetStatus - PATCH /messages/:id/status
func (h *MessageHandler) SetStatus(c *gin.Context) {
	var req models.SetMessageStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messageService.SetStatus(c.Request.Context(), c.Param("id"), req.Status, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMessageResponse(msg))
}

// Delete - DELETE /messages/:id
func (h *MessageHandler) Delete(c *gin.Context) {
	if err := h.messageService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}

// Convert - POST /messages/threads/:threadId/convert
func (h *MessageHandler) Convert(c *gin.Context) {
	var req models.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.conversionService.ConvertMessage(c.Request.Context(), c.Param("threadId"), service.ConversionOverrides{
		Title:       req.Title,
		Description: req.Description,
		Phase:       req.Phase,
		Budget:      req.Budget,
	}, middleware.GetUserID(c))
	if err != nil {
		if project != nil {
			c.JSON(http.StatusOK, toProjectResponse(project))
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProjectResponse(project))
}

func currentProfile(c *gin.Context) *repository.Profile {
	value, ok := c.Get("profile")
	if !ok {
		return nil
	}
	profile, ok := value.(*repository.Profile)
	if !ok {
		return nil
	}
	return profile
}
