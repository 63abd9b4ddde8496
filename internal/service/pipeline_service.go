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
// Pipeline Service
// ============================================

// BoardColumn is one Kanban lane: its leads in creation order plus the
// summed value of leads that carry one.
type BoardColumn struct {
	Stage string
	Leads []*repository.Lead
	Total decimal.Decimal
}

type Board struct {
	Columns []BoardColumn
	Counts  map[string]int
}

type PipelineService interface {
	GetBoard(ctx context.Context) (*Board, error)
	MoveForward(ctx context.Context, leadID string, actorID string) (*repository.Lead, error)
	MoveBack(ctx context.Context, leadID string, actorID string) (*repository.Lead, error)
	SetStage(ctx context.Context, leadID, stage string, actorID string) (*repository.Lead, error)
}

type pipelineService struct {
	leadRepo    repository.LeadRepository
	broadcaster *socket.Broadcaster
}

func NewPipelineService(leadRepo repository.LeadRepository, broadcaster *socket.Broadcaster) PipelineService {
	return &pipelineService{leadRepo: leadRepo, broadcaster: broadcaster}
}

func (s *pipelineService) GetBoard(ctx context.Context) (*Board, error) {
	leads, err := s.leadRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byStage := make(map[string][]*repository.Lead)
	totals := make(map[string]decimal.Decimal)
	for _, lead := range leads {
		stage := lead.PipelineStage
		if !types.IsValidStage(stage) {
			stage = types.StageNew
		}
		byStage[stage] = append(byStage[stage], lead)
		if lead.Value.Valid {
			totals[stage] = totals[stage].Add(lead.Value.Decimal)
		}
	}

	board := &Board{Counts: make(map[string]int, len(types.PipelineStages))}
	for _, stage := range types.PipelineStages {
		column := BoardColumn{
			Stage: stage,
			Leads: byStage[stage],
			Total: totals[stage],
		}
		if column.Leads == nil {
			column.Leads = []*repository.Lead{}
		}
		board.Columns = append(board.Columns, column)
		board.Counts[stage] = len(column.Leads)
	}

	return board, nil
}

// MoveForward advances a lead one lane. At the last lane it is a no-op,
// not an error, so double clicks on the board stay harmless.
func (s *pipelineService) MoveForward(ctx context.Context, leadID string, actorID string) (*repository.Lead, error) {
	return s.step(ctx, leadID, actorID, types.NextStage)
}

// MoveBack is the mirror of MoveForward, no-op at the first lane.
func (s *pipelineService) MoveBack(ctx context.Context, leadID string, actorID string) (*repository.Lead, error) {
	return s.step(ctx, leadID, actorID, types.PrevStage)
}

func (s *pipelineService) step(ctx context.Context, leadID, actorID string, next func(string) string) (*repository.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrNotFound
	}
	if lead.Status == types.LeadConverted {
		return nil, ErrAlreadyConverted
	}

	target := next(lead.PipelineStage)
	if target == "" {
		return lead, nil
	}

	return s.applyStage(ctx, lead, target, actorID)
}

func (s *pipelineService) SetStage(ctx context.Context, leadID, stage string, actorID string) (*repository.Lead, error) {
	if !types.IsValidStage(stage) {
		return nil, ErrInvalidStage
	}

	lead, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrNotFound
	}
	if lead.Status == types.LeadConverted {
		return nil, ErrAlreadyConverted
	}
	if lead.PipelineStage == stage {
		return lead, nil
	}

	return s.applyStage(ctx, lead, stage, actorID)
}

// applyStage writes the new lane. Only pipeline_stage changes: the lead's
// status axis is never touched by a board move.
func (s *pipelineService) applyStage(ctx context.Context, lead *repository.Lead, stage, actorID string) (*repository.Lead, error) {
	oldStage := lead.PipelineStage

	if err := s.leadRepo.UpdateStage(ctx, lead.ID, stage); err != nil {
		return nil, fmt.Errorf("failed to move lead: %w", err)
	}
	lead.PipelineStage = stage

	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeadStageChanged(lead.ID, oldStage, stage, actorID)
	}

	return lead, nil
}
