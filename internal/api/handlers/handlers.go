package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenworks/studio-portal-backend/internal/models"
	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Lead     *LeadHandler
	Message  *MessageHandler
	Project  *ProjectHandler
	Pipeline *PipelineHandler
	Stats    *StatsHandler
	Export   *ExportHandler
	Invite   *InviteHandler
	Billing  *BillingHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:     &AuthHandler{authService: services.Auth},
		User:     &UserHandler{userService: services.User},
		Lead:     &LeadHandler{leadService: services.Lead, conversionService: services.Conversion},
		Message:  &MessageHandler{messageService: services.Message, conversionService: services.Conversion},
		Project:  &ProjectHandler{projectService: services.Project},
		Pipeline: &PipelineHandler{pipelineService: services.Pipeline},
		Stats:    &StatsHandler{statsService: services.Stats},
		Export:   &ExportHandler{projectService: services.Project, messageService: services.Message, statsService: services.Stats},
		Invite:   &InviteHandler{inviteService: services.Invite},
		Billing:  &BillingHandler{billingService: services.Billing},
	}
}

// handleServiceError maps service sentinels onto HTTP responses.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidStage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInactiveUser), errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrInviteExists), errors.Is(err, service.ErrNoClientMessage):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ============================================
// Response Mappers
// ============================================

func toLeadResponse(l *repository.Lead) models.LeadResponse {
	resp := models.LeadResponse{
		ID:                   l.ID,
		Name:                 l.Name,
		Email:                l.Email,
		Phone:                l.Phone,
		Company:              l.Company,
		Status:               l.Status,
		PipelineStage:        l.PipelineStage,
		Source:               l.Source,
		Notes:                l.Notes,
		ConvertedToProjectID: l.ConvertedToProjectID,
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}
	if l.Value.Valid {
		v := l.Value.Decimal
		resp.Value = &v
	}
	return resp
}

func toMessageResponse(m *repository.Message) models.MessageResponse {
	return models.MessageResponse{
		ID:                 m.ID,
		ThreadID:           m.ThreadID,
		Name:               m.Name,
		Email:              m.Email,
		Body:               m.Body,
		Source:             m.Source,
		Page:               m.Page,
		ClientUID:          m.ClientUID,
		SenderRole:         m.SenderRole,
		Status:             m.Status,
		Read:               m.Read,
		ConvertedToProject: m.ConvertedToProject,
		ProjectID:          m.ProjectID,
		CreatedAt:          m.CreatedAt,
	}
}

func toThreadResponse(t *repository.Thread) models.ThreadResponse {
	resp := models.ThreadResponse{
		ThreadID:     t.ThreadID,
		MessageCount: t.MessageCount,
		UnreadCount:  t.UnreadCount,
		Converted:    t.Converted,
	}
	if t.Latest != nil {
		resp.Latest = toMessageResponse(t.Latest)
	}
	return resp
}

func toProjectResponse(p *repository.Project) models.ProjectResponse {
	resp := models.ProjectResponse{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		ClientUID:       p.ClientUID,
		ClientName:      p.ClientName,
		ClientEmail:     p.ClientEmail,
		Status:          p.Status,
		Phase:           p.Phase,
		SourceLeadID:    p.SourceLeadID,
		SourceMessageID: p.SourceMessageID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.Budget.Valid {
		b := p.Budget.Decimal
		resp.Budget = &b
	}
	return resp
}

func toProfileResponse(p *repository.Profile) models.ProfileResponse {
	return models.ProfileResponse{
		UID:           p.UID,
		Email:         p.Email,
		Name:          p.Name,
		Role:          p.Role,
		Active:        p.Active,
		ClaimsVersion: p.ClaimsVersion,
		CreatedAt:     p.CreatedAt,
	}
}

func toInviteResponse(i *repository.Invite) models.InviteResponse {
	return models.InviteResponse{
		ID:        i.ID,
		Email:     i.Email,
		Role:      i.Role,
		Status:    i.Status,
		CreatedBy: i.CreatedBy,
		ExpiresAt: i.ExpiresAt,
		CreatedAt: i.CreatedAt,
	}
}

func toSubscriptionResponse(s *repository.Subscription) models.SubscriptionResponse {
	return models.SubscriptionResponse{
		Plan:             s.Plan,
		Status:           s.Status,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
	}
}

func toCheckoutSessionResponse(s *repository.CheckoutSession) models.CheckoutSessionResponse {
	return models.CheckoutSessionResponse{
		ID:        s.ID,
		Plan:      s.Plan,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
	}
}
