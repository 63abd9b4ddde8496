package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/types"
)

func TestMoveForwardLeavesStatusUntouched(t *testing.T) {
	ctx := context.Background()
	leads := newFakeLeadRepo()
	svc := NewPipelineService(leads, nil)

	lead := &repository.Lead{Name: "Ada", Email: "ada@acme.test", Status: types.LeadContacted, PipelineStage: types.StageNew}
	require.NoError(t, leads.Create(ctx, lead))

	moved, err := svc.MoveForward(ctx, lead.ID, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, types.StageContacted, moved.PipelineStage)
	assert.Equal(t, types.LeadContacted, moved.Status)

	stored, err := leads.FindByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StageContacted, stored.PipelineStage)
	assert.Equal(t, types.LeadContacted, stored.Status)
}

func TestMoveForwardWalksAllStages(t *testing.T) {
	ctx := context.Background()
	leads := newFakeLeadRepo()
	svc := NewPipelineService(leads, nil)

	lead := &repository.Lead{Name: "Ada", Email: "ada@acme.test", Status: types.LeadNew, PipelineStage: types.StageNew}
	require.NoError(t, leads.Create(ctx, lead))

	for _, want := range []string{types.StageContacted, types.StageProposal, types.StageClosed} {
		moved, err := svc.MoveForward(ctx, lead.ID, "staff-1")
		require.NoError(t, err)
		assert.Equal(t, want, moved.PipelineStage)
	}

	// No-op at the last lane
	moved, err := svc.MoveForward(ctx, lead.ID, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, types.StageClosed, moved.PipelineStage)
}

func TestMoveBackNoOpAtFirstStage(t *testing.T) {
	ctx := context.Background()
	leads := newFakeLeadRepo()
	svc := NewPipelineService(leads, nil)

	lead := &repository.Lead{Name: "Ada", Email: "ada@acme.test", Status: types.LeadNew, PipelineStage: types.StageNew}
	require.NoError(t, leads.Create(ctx, lead))

	moved, err := svc.MoveBack(ctx, lead.ID, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, types.StageNew, moved.PipelineStage)
}

func TestMoveConvertedLeadRejected(t *testing.T) {
	ctx := context.Background()
	leads := newFakeLeadRepo()
	svc := NewPipelineService(leads, nil)

	projectID := "p1"
	lead := &repository.Lead{Name: "Ada", Email: "ada@acme.test", Status: types.LeadConverted, PipelineStage: types.StageProposal, ConvertedToProjectID: &projectID}
	require.NoError(t, leads.Create(ctx, lead))

	_, err := svc.MoveForward(ctx, lead.ID, "staff-1")
	assert.ErrorIs(t, err, ErrAlreadyConverted)
}

func TestSetStage(t *testing.T) {
	ctx := context.Background()
	leads := newFakeLeadRepo()
	svc := NewPipelineService(leads, nil)

	lead := &repository.Lead{Name: "Ada", Email: "ada@acme.test", Status: types.LeadNew, PipelineStage: types.StageNew}
	require.NoError(t, leads.Create(ctx, lead))

	moved, err := svc.SetStage(ctx, lead.ID, types.StageProposal, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, types.StageProposal, moved.PipelineStage)

	_, err = svc.SetStage(ctx, lead.ID, "negotiation", "staff-1")
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestGetBoard(t *testing.T) {
	ctx := context.Background()
	leads := newFakeLeadRepo()
	svc := NewPipelineService(leads, nil)

	require.NoError(t, leads.Create(ctx, &repository.Lead{
		Name: "A", Email: "a@t.test", Status: types.LeadNew, PipelineStage: types.StageNew,
		Value: decimal.NewNullDecimal(decimal.NewFromInt(1000)),
	}))
	require.NoError(t, leads.Create(ctx, &repository.Lead{
		Name: "B", Email: "b@t.test", Status: types.LeadContacted, PipelineStage: types.StageNew,
		Value: decimal.NewNullDecimal(decimal.NewFromInt(500)),
	}))
	require.NoError(t, leads.Create(ctx, &repository.Lead{
		Name: "C", Email: "c@t.test", Status: types.LeadQualified, PipelineStage: types.StageProposal,
	}))

	board, err := svc.GetBoard(ctx)
	require.NoError(t, err)
	require.Len(t, board.Columns, len(types.PipelineStages))

	assert.Equal(t, types.StageNew, board.Columns[0].Stage)
	assert.Len(t, board.Columns[0].Leads, 2)
	assert.True(t, board.Columns[0].Total.Equal(decimal.NewFromInt(1500)))

	assert.Equal(t, types.StageProposal, board.Columns[2].Stage)
	assert.Len(t, board.Columns[2].Leads, 1)
	assert.True(t, board.Columns[2].Total.Equal(decimal.Zero))

	// Empty lanes render as empty columns, not missing ones
	assert.Equal(t, types.StageContacted, board.Columns[1].Stage)
	assert.Empty(t, board.Columns[1].Leads)
	assert.Equal(t, types.StageClosed, board.Columns[3].Stage)

	assert.Equal(t, 2, board.Counts[types.StageNew])
	assert.Equal(t, 0, board.Counts[types.StageClosed])
}
