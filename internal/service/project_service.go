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
// Project Service
// ============================================

type CreateProjectInput struct {
	Title       string
	Description string
	ClientUID   *string
	ClientName  string
	ClientEmail string
	Phase       string
	Budget      *decimal.Decimal
}

type UpdateProjectInput struct {
	Title       *string
	Description *string
	ClientName  *string
	ClientEmail *string
	Status      *string
	Phase       *string
	Budget      *decimal.Decimal
}

type ProjectService interface {
	Create(ctx context.Context, input CreateProjectInput, actorID string) (*repository.Project, error)
	GetByID(ctx context.Context, id string) (*repository.Project, error)
	List(ctx context.Context) ([]*repository.Project, error)
	ListForClient(ctx context.Context, clientUID string) ([]*repository.Project, error)
	Update(ctx context.Context, id string, input UpdateProjectInput, actorID string) (*repository.Project, error)
	SetStatus(ctx context.Context, id, status string, actorID string) (*repository.Project, error)
	SetPhase(ctx context.Context, id, phase string, actorID string) (*repository.Project, error)
	Delete(ctx context.Context, id string, actorID string) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
	broadcaster *socket.Broadcaster
}

func NewProjectService(projectRepo repository.ProjectRepository, broadcaster *socket.Broadcaster) ProjectService {
	return &projectService{projectRepo: projectRepo, broadcaster: broadcaster}
}

func (s *projectService) Create(ctx context.Context, input CreateProjectInput, actorID string) (*repository.Project, error) {
	if input.Title == "" {
		return nil, ErrInvalidInput
	}

	phase := input.Phase
	if phase == "" {
		phase = types.PhaseDiscovery
	}
	if !types.IsValidProjectPhase(phase) {
		return nil, ErrInvalidInput
	}

	project := &repository.Project{
		Title:       input.Title,
		Description: input.Description,
		ClientUID:   input.ClientUID,
		ClientName:  input.ClientName,
		ClientEmail: input.ClientEmail,
		Status:      types.ProjectActive,
		Phase:       phase,
	}
	if input.Budget != nil {
		project.Budget = decimal.NewNullDecimal(*input.Budget)
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectCreated(projectPayload(project), actorID)
	}

	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*repository.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context) ([]*repository.Project, error) {
	return s.projectRepo.FindAll(ctx)
}

func (s *projectService) ListForClient(ctx context.Context, clientUID string) ([]*repository.Project, error) {
	return s.projectRepo.FindByClient(ctx, clientUID)
}

func (s *projectService) Update(ctx context.Context, id string, input UpdateProjectInput, actorID string) (*repository.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrInvalidInput
		}
		project.Title = *input.Title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.ClientName != nil {
		project.ClientName = *input.ClientName
	}
	if input.ClientEmail != nil {
		project.ClientEmail = *input.ClientEmail
	}
	if input.Status != nil {
		if !types.IsValidProjectStatus(*input.Status) {
			return nil, ErrInvalidInput
		}
		project.Status = *input.Status
	}
	if input.Phase != nil {
		if !types.IsValidProjectPhase(*input.Phase) {
			return nil, ErrInvalidInput
		}
		project.Phase = *input.Phase
	}
	if input.Budget != nil {
		project.Budget = decimal.NewNullDecimal(*input.Budget)
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectUpdated(projectPayload(project), actorID)
	}

	return project, nil
}

func (s *projectService) SetStatus(ctx context.Context, id, status string, actorID string) (*repository.Project, error) {
	if !types.IsValidProjectStatus(status) {
		return nil, ErrInvalidInput
	}

	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}

	if err := s.projectRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}
	project.Status = status

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectUpdated(projectPayload(project), actorID)
	}

	return project, nil
}

func (s *projectService) SetPhase(ctx context.Context, id, phase string, actorID string) (*repository.Project, error) {
	if !types.IsValidProjectPhase(phase) {
		return nil, ErrInvalidInput
	}

	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}

	if err := s.projectRepo.UpdatePhase(ctx, id, phase); err != nil {
		return nil, fmt.Errorf("failed to update project phase: %w", err)
	}
	project.Phase = phase

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectUpdated(projectPayload(project), actorID)
	}

	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id string, actorID string) error {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrNotFound
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectDeleted(id, actorID)
	}

	return nil
}

func projectPayload(project *repository.Project) map[string]interface{} {
	payload := map[string]interface{}{
		"id":         project.ID,
		"title":      project.Title,
		"clientName": project.ClientName,
		"status":     project.Status,
		"phase":      project.Phase,
	}
	if project.Budget.Valid {
		payload["budget"] = project.Budget.Decimal.String()
	}
	return payload
}
