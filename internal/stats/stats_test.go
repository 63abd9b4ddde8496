package stats

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenworks/studio-portal-backend/internal/repository"
)

func fact(status string, budget float64) repository.ProjectFact {
	f := repository.ProjectFact{Status: status}
	if budget > 0 {
		f.Budget = decimal.NewNullDecimal(decimal.NewFromFloat(budget))
	}
	return f
}

func clientFact(status, client string, budget float64) repository.ProjectFact {
	f := fact(status, budget)
	f.ClientName = client
	return f
}

func TestComputeOverviewWeightedPipeline(t *testing.T) {
	facts := []repository.ProjectFact{
		fact("active", 1000),
		fact("completed", 500),
	}

	o := ComputeOverview(facts)

	assert.Equal(t, 2, o.TotalProjects)
	assert.True(t, o.TotalRevenue.Equal(decimal.NewFromInt(1500)), "revenue %s", o.TotalRevenue)
	// 1000×0.8 + 500×1.0 = 1300
	assert.True(t, o.WeightedPipeline.Equal(decimal.NewFromInt(1300)), "weighted %s", o.WeightedPipeline)
}

func TestComputeOverviewStageCoarsening(t *testing.T) {
	facts := []repository.ProjectFact{
		fact("in_progress", 100),
		fact("done", 200),
		fact("canceled", 300),
		fact("paused", 400),
	}

	o := ComputeOverview(facts)

	byStage := make(map[string]StageRow)
	for _, row := range o.Stages {
		byStage[row.Stage] = row
	}
	require.Len(t, byStage, 4)
	assert.True(t, byStage["active"].Revenue.Equal(decimal.NewFromInt(100)))
	assert.True(t, byStage["completed"].Revenue.Equal(decimal.NewFromInt(200)))
	assert.True(t, byStage["archived"].Weighted.IsZero())
	// unknown stages carry weight 0.5
	assert.True(t, byStage["paused"].Weighted.Equal(decimal.NewFromInt(200)))
}

func TestComputeOverviewMissingBudgetsCountZero(t *testing.T) {
	facts := []repository.ProjectFact{
		fact("active", 0), // no budget
		fact("active", 750),
	}

	o := ComputeOverview(facts)
	require.Len(t, o.Stages, 1)
	assert.Equal(t, 2, o.Stages[0].Count)
	assert.True(t, o.Stages[0].Revenue.Equal(decimal.NewFromInt(750)))
}

func TestComputeForecastExpectedValues(t *testing.T) {
	// avg budget 2000 across three active projects
	facts := []repository.ProjectFact{
		fact("active", 2000),
		fact("active", 2000),
		fact("active", 2000),
	}

	f := ComputeForecast(facts)

	assert.Equal(t, 3, f.ActiveCount)
	assert.True(t, f.AvgBudget.Equal(decimal.NewFromInt(2000)))
	assert.True(t, f.ExpectedMonthly.Equal(decimal.NewFromInt(6000)), "expectedMonthly %s", f.ExpectedMonthly)

	require.Len(t, f.Windows, 3)
	assert.Equal(t, 30, f.Windows[0].Days)
	assert.Equal(t, 60, f.Windows[1].Days)
	assert.Equal(t, 90, f.Windows[2].Days)
	assert.True(t, f.Windows[0].Expected.Equal(decimal.NewFromInt(6000)))
	// the 60-day window is exactly twice the 30-day window
	assert.True(t, f.Windows[1].Expected.Equal(f.Windows[0].Expected.Mul(decimal.NewFromInt(2))))
	assert.True(t, f.Windows[2].Expected.Equal(decimal.NewFromInt(18000)))
}

func TestComputeForecastZeroActiveScalesByOne(t *testing.T) {
	facts := []repository.ProjectFact{
		fact("completed", 1200),
		fact("completed", 800),
	}

	f := ComputeForecast(facts)

	assert.Equal(t, 0, f.ActiveCount)
	assert.True(t, f.ExpectedMonthly.Equal(decimal.NewFromInt(1000)), "expectedMonthly %s", f.ExpectedMonthly)
}

func TestComputeForecastFallbackBands(t *testing.T) {
	// only three budget samples, below the stddev threshold
	facts := []repository.ProjectFact{
		fact("active", 1000),
		fact("active", 1000),
		fact("active", 1000),
	}

	f := ComputeForecast(facts)
	require.Len(t, f.Windows, 3)

	w := f.Windows[0]
	// ±25% tight, ±45% wide of the window expected (3000)
	assert.True(t, w.TightLow.Equal(decimal.NewFromInt(2250)), "tightLow %s", w.TightLow)
	assert.True(t, w.TightHigh.Equal(decimal.NewFromInt(3750)), "tightHigh %s", w.TightHigh)
	assert.True(t, w.WideLow.Equal(decimal.NewFromInt(1650)), "wideLow %s", w.WideLow)
	assert.True(t, w.WideHigh.Equal(decimal.NewFromInt(4350)), "wideHigh %s", w.WideHigh)
}

func TestComputeForecastStddevBands(t *testing.T) {
	facts := []repository.ProjectFact{
		fact("active", 1000),
		fact("active", 1000),
		fact("active", 1000),
		fact("completed", 1000),
		fact("completed", 1000),
		fact("completed", 1000),
	}

	f := ComputeForecast(facts)
	require.Equal(t, 6, f.SampleCount)

	// identical budgets mean zero deviation: bands collapse to the expected
	w := f.Windows[0]
	assert.True(t, w.TightLow.Equal(w.Expected))
	assert.True(t, w.WideHigh.Equal(w.Expected))
}

func TestComputeForecastBandsFloorAtZero(t *testing.T) {
	facts := []repository.ProjectFact{
		fact("active", 10),
		fact("active", 10),
		fact("active", 10),
		fact("active", 10),
		fact("active", 10),
		fact("active", 5000),
	}

	f := ComputeForecast(facts)
	for _, w := range f.Windows {
		assert.False(t, w.TightLow.IsNegative(), "tight low went negative")
		assert.False(t, w.WideLow.IsNegative(), "wide low went negative")
	}
}

func TestComputeClientProjections(t *testing.T) {
	facts := []repository.ProjectFact{
		clientFact("active", "Acme", 1000),
		clientFact("active", "Acme", 500),
		clientFact("active", "Globex", 2000),
		clientFact("completed", "Acme", 9000), // not active, ignored
	}

	projections := ComputeClientProjections(facts)
	require.Len(t, projections, 2)

	// sorted highest projection first
	assert.Equal(t, "Globex", projections[0].ClientName)
	assert.True(t, projections[0].Projected.Equal(decimal.NewFromInt(1600)))
	assert.Equal(t, "Acme", projections[1].ClientName)
	assert.True(t, projections[1].ActiveBudget.Equal(decimal.NewFromInt(1500)))
	assert.True(t, projections[1].Projected.Equal(decimal.NewFromInt(1200)))
}

func TestScoreMessage(t *testing.T) {
	long := make([]byte, 201)

	tests := []struct {
		name string
		fact repository.MessageFact
		want float64
	}{
		{"new bare", repository.MessageFact{Status: "new"}, 0.25},
		{"open with name", repository.MessageFact{Status: "open", Name: "Ada"}, 0.55},
		{"closed", repository.MessageFact{Status: "closed"}, 0.1},
		{"converted clamps at one", repository.MessageFact{Status: "converted", Name: "Ada", BodyLength: len(long)}, 1.0},
		{"unknown status", repository.MessageFact{Status: "weird"}, 0.3},
		{"long body bonus", repository.MessageFact{Status: "new", BodyLength: 201}, 0.3},
		{"body at threshold gets no bonus", repository.MessageFact{Status: "new", BodyLength: 200}, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScoreMessage(tt.fact), 1e-9)
		})
	}
}

func TestScoreMessagesSorted(t *testing.T) {
	facts := []repository.MessageFact{
		{ThreadID: "a", Status: "closed"},
		{ThreadID: "b", Status: "converted"},
		{ThreadID: "c", Status: "open"},
	}

	scores := ScoreMessages(facts)
	require.Len(t, scores, 3)
	assert.Equal(t, "b", scores[0].ThreadID)
	assert.Equal(t, "c", scores[1].ThreadID)
	assert.Equal(t, "a", scores[2].ThreadID)
}
