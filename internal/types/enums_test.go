package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageHelpers(t *testing.T) {
	assert.Equal(t, 0, StageIndex(StageNew))
	assert.Equal(t, 3, StageIndex(StageClosed))
	assert.Equal(t, -1, StageIndex("bogus"))

	assert.Equal(t, StageContacted, NextStage(StageNew))
	assert.Equal(t, StageClosed, NextStage(StageProposal))
	assert.Equal(t, "", NextStage(StageClosed))
	assert.Equal(t, "", NextStage("bogus"))

	assert.Equal(t, StageProposal, PrevStage(StageClosed))
	assert.Equal(t, "", PrevStage(StageNew))
	assert.Equal(t, "", PrevStage("bogus"))
}

func TestDeriveProjectStage(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"completed", "completed"},
		{"done", "completed"},
		{"archived", "archived"},
		{"canceled", "archived"},
		{"active", "active"},
		{"in_progress", "active"},
		{"paused", "paused"},
		{"weird", "weird"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveProjectStage(tt.status), "status %q", tt.status)
	}
}

func TestValidators(t *testing.T) {
	assert.True(t, IsValidLeadStatus("qualified"))
	assert.False(t, IsValidLeadStatus("maybe"))
	assert.True(t, IsValidStage("proposal"))
	assert.False(t, IsValidStage("negotiation"))
	assert.True(t, IsValidProjectPhase("build"))
	assert.False(t, IsValidProjectPhase("ship"))
	assert.True(t, IsValidRole("staff"))
	assert.False(t, IsValidRole("root"))
}
