package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/socket"
	"github.com/lumenworks/studio-portal-backend/internal/types"
)

// ============================================
// Conversion Service
// ============================================

// ConversionOverrides let staff adjust the derived project fields at
// conversion time; nil fields keep the derived value.
type ConversionOverrides struct {
	Title       *string
	Description *string
	Phase       *string
	Budget      *decimal.Decimal
}

type ConversionService interface {
	ConvertLead(ctx context.Context, leadID string, overrides ConversionOverrides, actorID string) (*repository.Project, error)
	ConvertMessage(ctx context.Context, threadID string, overrides ConversionOverrides, actorID string) (*repository.Project, error)
}

type conversionService struct {
	leadRepo       repository.LeadRepository
	messageRepo    repository.MessageRepository
	projectRepo    repository.ProjectRepository
	conversionRepo repository.ConversionRepository
	broadcaster    *socket.Broadcaster
}

func NewConversionService(repos *repository.Repositories, broadcaster *socket.Broadcaster) ConversionService {
	return &conversionService{
		leadRepo:       repos.LeadRepo,
		messageRepo:    repos.MessageRepo,
		projectRepo:    repos.ProjectRepo,
		conversionRepo: repos.ConversionRepo,
		broadcaster:    broadcaster,
	}
}

func (s *conversionService) ConvertLead(ctx context.Context, leadID string, overrides ConversionOverrides, actorID string) (*repository.Project, error) {
	lead, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrNotFound
	}

	// Idempotent: a second conversion returns the existing project
	if lead.ConvertedToProjectID != nil || lead.Status == types.LeadConverted {
		existing, err := s.projectRepo.FindBySourceLead(ctx, leadID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, ErrAlreadyConverted
		}
		return nil, ErrAlreadyConverted
	}

	project := &repository.Project{
		Title:       lead.Name,
		Description: lead.Notes,
		ClientName:  lead.Name,
		ClientEmail: lead.Email,
		Status:      types.ProjectActive,
		Phase:       types.PhaseDiscovery,
	}
	if lead.Company != "" {
		project.Title = lead.Company
	}
	if lead.Value.Valid {
		project.Budget = lead.Value
	}
	applyOverrides(project, overrides)

	if err := s.conversionRepo.ConvertLead(ctx, lead, project); err != nil {
		// The partial unique index on source_lead_id turns a concurrent
		// double-convert into a constraint violation here.
		return nil, fmt.Errorf("failed to convert lead: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeadConverted(lead.ID, project.ID, actorID)
		s.broadcaster.BroadcastProjectCreated(projectPayload(project), actorID)
	}

	return project, nil
}

func (s *conversionService) ConvertMessage(ctx context.Context, threadID string, overrides ConversionOverrides, actorID string) (*repository.Project, error) {
	thread, err := s.messageRepo.FindByThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if len(thread) == 0 {
		return nil, ErrNotFound
	}

	// Idempotent across the whole thread: any flagged member means the
	// conversation already produced a project.
	for _, m := range thread {
		if m.ConvertedToProject {
			if m.ProjectID != nil {
				existing, err := s.projectRepo.FindByID(ctx, *m.ProjectID)
				if err != nil {
					return nil, err
				}
				if existing != nil {
					return existing, ErrAlreadyConverted
				}
			}
			return nil, ErrAlreadyConverted
		}
	}

	source := resolveClientMessage(thread)
	if source == nil {
		return nil, ErrNoClientMessage
	}

	project := &repository.Project{
		Title:       projectTitleFromMessage(source),
		Description: source.Body,
		ClientUID:   source.ClientUID,
		ClientName:  source.Name,
		ClientEmail: source.Email,
		Status:      types.ProjectActive,
		Phase:       types.PhaseDiscovery,
	}
	applyOverrides(project, overrides)

	if err := s.conversionRepo.ConvertMessage(ctx, source, project); err != nil {
		return nil, fmt.Errorf("failed to convert message: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessageConverted(source.ID, source.ThreadID, project.ID, actorID)
		s.broadcaster.BroadcastProjectCreated(projectPayload(project), actorID)
	}

	return project, nil
}

// resolveClientMessage picks the member that anchors the new project:
// the earliest message tied to a known client account, else the earliest
// message sent with the client role, else the earliest message that is
// neither staff nor system. A conversation that is all staff/system has
// nothing to convert.
func resolveClientMessage(thread []*repository.Message) *repository.Message {
	for _, m := range thread {
		if m.ClientUID != nil && m.SenderRole == types.SenderClient {
			return m
		}
	}
	for _, m := range thread {
		if m.SenderRole == types.SenderClient {
			return m
		}
	}
	for _, m := range thread {
		if m.SenderRole != types.SenderStaff && m.SenderRole != types.SenderSystem {
			return m
		}
	}
	return nil
}

func projectTitleFromMessage(msg *repository.Message) string {
	firstLine := msg.Body
	if idx := strings.IndexByte(firstLine, '\n'); idx >= 0 {
		firstLine = firstLine[:idx]
	}
	firstLine = strings.TrimSpace(firstLine)
	if runes := []rune(firstLine); len(runes) > 80 {
		firstLine = string(runes[:80])
	}
	if firstLine == "" {
		return fmt.Sprintf("Project for %s", msg.Name)
	}
	return firstLine
}

func applyOverrides(project *repository.Project, overrides ConversionOverrides) {
	if overrides.Title != nil && *overrides.Title != "" {
		project.Title = *overrides.Title
	}
	if overrides.Description != nil {
		project.Description = *overrides.Description
	}
	if overrides.Phase != nil && types.IsValidProjectPhase(*overrides.Phase) {
		project.Phase = *overrides.Phase
	}
	if overrides.Budget != nil {
		project.Budget = decimal.NewNullDecimal(*overrides.Budget)
	}
}
