package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/socket"
	"github.com/lumenworks/studio-portal-backend/internal/types"
)

// ============================================
// Lead Service
// ============================================

type CreateLeadInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Source  string
	Notes   string
	Status  string
	Value   *decimal.Decimal
}

// UpdateLeadInput carries a partial update; nil fields are left untouched.
// PipelineStage is deliberately absent: the board is moved through the
// pipeline service, never through a lead edit.
type UpdateLeadInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Company *string
	Source  *string
	Notes   *string
	Status  *string
	Value   *decimal.Decimal
}

type LeadService interface {
	Create(ctx context.Context, input CreateLeadInput, actorID string) (*repository.Lead, error)
	GetByID(ctx context.Context, id string) (*repository.Lead, error)
	List(ctx context.Context, status string) ([]*repository.Lead, error)
	Update(ctx context.Context, id string, input UpdateLeadInput, actorID string) (*repository.Lead, error)
	Delete(ctx context.Context, id string, actorID string) error
}

type leadService struct {
	leadRepo    repository.LeadRepository
	broadcaster *socket.Broadcaster
}

func NewLeadService(leadRepo repository.LeadRepository, broadcaster *socket.Broadcaster) LeadService {
	return &leadService{leadRepo: leadRepo, broadcaster: broadcaster}
}

func (s *leadService) Create(ctx context.Context, input CreateLeadInput, actorID string) (*repository.Lead, error) {
	if input.Name == "" || input.Email == "" {
		return nil, ErrInvalidInput
	}

	status := input.Status
	if status == "" {
		status = types.LeadNew
	}
	if !types.IsValidLeadStatus(status) || status == types.LeadConverted {
		return nil, ErrInvalidInput
	}

	lead := &repository.Lead{
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		Company:       input.Company,
		Status:        status,
		PipelineStage: types.StageNew,
		Source:        input.Source,
		Notes:         input.Notes,
	}
	if input.Value != nil {
		lead.Value = decimal.NewNullDecimal(*input.Value)
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeadCreated(leadPayload(lead), actorID)
	}

	return lead, nil
}

func (s *leadService) GetByID(ctx context.Context, id string) (*repository.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrNotFound
	}
	return lead, nil
}

func (s *leadService) List(ctx context.Context, status string) ([]*repository.Lead, error) {
	if status != "" {
		if !types.IsValidLeadStatus(status) {
			return nil, ErrInvalidInput
		}
		return s.leadRepo.FindByStatus(ctx, status)
	}
	return s.leadRepo.FindAll(ctx)
}

func (s *leadService) Update(ctx context.Context, id string, input UpdateLeadInput, actorID string) (*repository.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrNotFound
	}
	// Converted leads are frozen
	if lead.Status == types.LeadConverted {
		return nil, ErrAlreadyConverted
	}

	if input.Name != nil {
		lead.Name = *input.Name
	}
	if input.Email != nil {
		lead.Email = *input.Email
	}
	if input.Phone != nil {
		lead.Phone = *input.Phone
	}
	if input.Company != nil {
		lead.Company = *input.Company
	}
	if input.Source != nil {
		lead.Source = *input.Source
	}
	if input.Notes != nil {
		lead.Notes = *input.Notes
	}
	if input.Status != nil {
		if !types.IsValidLeadStatus(*input.Status) || *input.Status == types.LeadConverted {
			return nil, ErrInvalidInput
		}
		lead.Status = *input.Status
	}
	if input.Value != nil {
		lead.Value = decimal.NewNullDecimal(*input.Value)
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeadUpdated(leadPayload(lead), actorID)
	}

	return lead, nil
}

func (s *leadService) Delete(ctx context.Context, id string, actorID string) error {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if lead == nil {
		return ErrNotFound
	}

	if err := s.leadRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeadDeleted(id, actorID)
	}

	return nil
}

func leadPayload(lead *repository.Lead) map[string]interface{} {
	payload := map[string]interface{}{
		"id":            lead.ID,
		"name":          lead.Name,
		"email":         lead.Email,
		"status":        lead.Status,
		"pipelineStage": lead.PipelineStage,
	}
	if lead.Value.Valid {
		payload["value"] = lead.Value.Decimal.String()
	}
	return payload
}
