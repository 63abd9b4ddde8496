// Package stats computes the portal's aggregate views: per-stage revenue,
// the weighted pipeline, the revenue forecast and per-client projections,
// and deterministic lead scoring over inbox messages. Everything here is
// pure computation over repository facts; nothing is persisted and the
// stats page recomputes from the full collections on every view.
package stats

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/types"
)

// Fixed probability-of-close weights per derived stage. Not configurable.
var stageWeights = map[string]decimal.Decimal{
	types.ProjectActive:    decimal.NewFromFloat(0.8),
	types.ProjectCompleted: decimal.NewFromInt(1),
	types.ProjectArchived:  decimal.Zero,
}

var unknownStageWeight = decimal.NewFromFloat(0.5)

// Per-client projections apply the active-stage weight to the summed
// active budget, independent of the global forecast.
var clientProjectionWeight = decimal.NewFromFloat(0.8)

// StageWeight returns the fixed weight for a derived stage.
func StageWeight(stage string) decimal.Decimal {
	if w, ok := stageWeights[stage]; ok {
		return w
	}
	return unknownStageWeight
}

type StageRow struct {
	Stage    string          `json:"stage"`
	Count    int             `json:"count"`
	Revenue  decimal.Decimal `json:"revenue"`
	Weight   decimal.Decimal `json:"weight"`
	Weighted decimal.Decimal `json:"weighted"`
}

type Overview struct {
	TotalProjects    int             `json:"totalProjects"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	WeightedPipeline decimal.Decimal `json:"weightedPipeline"`
	Stages           []StageRow      `json:"stages"`
}

// ComputeOverview partitions projects by derived stage, sums revenue per
// partition (missing budgets count as 0) and totals the weighted pipeline.
func ComputeOverview(facts []repository.ProjectFact) Overview {
	byStage := make(map[string]*StageRow)
	for _, f := range facts {
		stage := types.DeriveProjectStage(f.Status)
		row, ok := byStage[stage]
		if !ok {
			row = &StageRow{Stage: stage, Weight: StageWeight(stage)}
			byStage[stage] = row
		}
		row.Count++
		row.Revenue = row.Revenue.Add(budgetOf(f))
	}

	overview := Overview{Stages: make([]StageRow, 0, len(byStage))}
	for _, row := range byStage {
		row.Weighted = row.Revenue.Mul(row.Weight)
		overview.TotalProjects += row.Count
		overview.TotalRevenue = overview.TotalRevenue.Add(row.Revenue)
		overview.WeightedPipeline = overview.WeightedPipeline.Add(row.Weighted)
		overview.Stages = append(overview.Stages, *row)
	}
	sort.Slice(overview.Stages, func(i, j int) bool {
		return stageOrder(overview.Stages[i].Stage) < stageOrder(overview.Stages[j].Stage)
	})
	return overview
}

// Known stages render in a fixed order; pass-through stages follow,
// alphabetically via their own names.
func stageOrder(stage string) string {
	switch stage {
	case types.ProjectActive:
		return "0"
	case types.ProjectCompleted:
		return "1"
	case types.ProjectArchived:
		return "2"
	default:
		return "3" + stage
	}
}

type ForecastWindow struct {
	Days      int             `json:"days"`
	Expected  decimal.Decimal `json:"expected"`
	TightLow  decimal.Decimal `json:"tightLow"`
	TightHigh decimal.Decimal `json:"tightHigh"`
	WideLow   decimal.Decimal `json:"wideLow"`
	WideHigh  decimal.Decimal `json:"wideHigh"`
}

type Forecast struct {
	ExpectedMonthly decimal.Decimal  `json:"expectedMonthly"`
	AvgBudget       decimal.Decimal  `json:"avgBudget"`
	ActiveCount     int              `json:"activeCount"`
	SampleCount     int              `json:"sampleCount"`
	Windows         []ForecastWindow `json:"windows"`
}

// Below this many budget samples the standard deviation is too noisy and
// the bands fall back to fixed percentages of the expected value.
const minStddevSamples = 6

var (
	tightFallback = decimal.NewFromFloat(0.25)
	wideFallback  = decimal.NewFromFloat(0.45)
)

// ComputeForecast derives the three-window revenue forecast:
// expectedMonthly = avg budget (over projects with budget > 0) scaled by
// max(1, active count); the 30/60/90-day windows multiply linearly. Bands
// come from the sample standard deviation of budgets scaled by the square
// root of the active count when at least six samples exist, else from the
// percentage fallbacks. All band floors clamp at zero.
func ComputeForecast(facts []repository.ProjectFact) Forecast {
	var budgets []decimal.Decimal
	activeCount := 0
	for _, f := range facts {
		if types.DeriveProjectStage(f.Status) == types.ProjectActive {
			activeCount++
		}
		b := budgetOf(f)
		if b.IsPositive() {
			budgets = append(budgets, b)
		}
	}

	avg := decimal.Zero
	if len(budgets) > 0 {
		sum := decimal.Zero
		for _, b := range budgets {
			sum = sum.Add(b)
		}
		avg = sum.Div(decimal.NewFromInt(int64(len(budgets))))
	}

	scale := activeCount
	if scale < 1 {
		scale = 1
	}
	expectedMonthly := avg.Mul(decimal.NewFromInt(int64(scale)))

	f := Forecast{
		ExpectedMonthly: expectedMonthly,
		AvgBudget:       avg,
		ActiveCount:     activeCount,
		SampleCount:     len(budgets),
	}

	useStddev := len(budgets) >= minStddevSamples
	var baseHalf decimal.Decimal
	if useStddev {
		sd := sampleStddev(budgets)
		baseHalf = sd.Mul(decimal.NewFromFloat(math.Sqrt(float64(scale))))
	}

	for i, days := range []int{30, 60, 90} {
		mult := decimal.NewFromInt(int64(i + 1))
		expected := expectedMonthly.Mul(mult)

		var tightHalf, wideHalf decimal.Decimal
		if useStddev {
			tightHalf = baseHalf.Mul(mult).Mul(decimal.NewFromFloat(0.6))
			wideHalf = baseHalf.Mul(mult)
		} else {
			tightHalf = expected.Mul(tightFallback)
			wideHalf = expected.Mul(wideFallback)
		}

		f.Windows = append(f.Windows, ForecastWindow{
			Days:      days,
			Expected:  expected,
			TightLow:  floorZero(expected.Sub(tightHalf)),
			TightHigh: expected.Add(tightHalf),
			WideLow:   floorZero(expected.Sub(wideHalf)),
			WideHigh:  expected.Add(wideHalf),
		})
	}
	return f
}

type ClientProjection struct {
	ClientUID    *string         `json:"clientUid,omitempty"`
	ClientName   string          `json:"clientName"`
	ActiveBudget decimal.Decimal `json:"activeBudget"`
	Projected    decimal.Decimal `json:"projected"`
}

// ComputeClientProjections sums each client's active budgets and applies
// the active-stage weight, independent of the global forecast.
func ComputeClientProjections(facts []repository.ProjectFact) []ClientProjection {
	byClient := make(map[string]*ClientProjection)
	var order []string
	for _, f := range facts {
		if types.DeriveProjectStage(f.Status) != types.ProjectActive {
			continue
		}
		key := f.ClientName
		if f.ClientUID != nil {
			key = *f.ClientUID
		}
		p, ok := byClient[key]
		if !ok {
			p = &ClientProjection{ClientUID: f.ClientUID, ClientName: f.ClientName}
			byClient[key] = p
			order = append(order, key)
		}
		p.ActiveBudget = p.ActiveBudget.Add(budgetOf(f))
	}

	projections := make([]ClientProjection, 0, len(order))
	for _, key := range order {
		p := byClient[key]
		p.Projected = p.ActiveBudget.Mul(clientProjectionWeight)
		projections = append(projections, *p)
	}
	sort.SliceStable(projections, func(i, j int) bool {
		return projections[i].Projected.GreaterThan(projections[j].Projected)
	})
	return projections
}

type LeadScore struct {
	ThreadID string  `json:"threadId"`
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	Score    float64 `json:"score"`
}

// ScoreMessage rates an inbox message's conversion potential. Deterministic
// arithmetic, not a model: a base score by message status plus small
// bonuses for a present name and a substantial body, clamped to [0, 1].
func ScoreMessage(fact repository.MessageFact) float64 {
	var score float64
	switch fact.Status {
	case types.MessageNew:
		score = 0.25
	case types.MessageOpen:
		score = 0.5
	case types.MessageClosed:
		score = 0.1
	case types.MessageConverted:
		score = 1.0
	default:
		score = 0.3
	}
	if fact.Name != "" {
		score += 0.05
	}
	if fact.BodyLength > 200 {
		score += 0.05
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

// ScoreMessages scores every message, highest first.
func ScoreMessages(facts []repository.MessageFact) []LeadScore {
	scores := make([]LeadScore, 0, len(facts))
	for _, f := range facts {
		scores = append(scores, LeadScore{
			ThreadID: f.ThreadID,
			Name:     f.Name,
			Status:   f.Status,
			Score:    ScoreMessage(f),
		})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}

func budgetOf(f repository.ProjectFact) decimal.Decimal {
	if !f.Budget.Valid {
		return decimal.Zero
	}
	return f.Budget.Decimal
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// sampleStddev computes the n-1 sample standard deviation in float space;
// band widths do not need exact decimal arithmetic.
func sampleStddev(values []decimal.Decimal) decimal.Decimal {
	n := len(values)
	if n < 2 {
		return decimal.Zero
	}
	var sum float64
	floats := make([]float64, n)
	for i, v := range values {
		f, _ := v.Float64()
		floats[i] = f
		sum += f
	}
	mean := sum / float64(n)
	var sq float64
	for _, f := range floats {
		d := f - mean
		sq += d * d
	}
	return decimal.NewFromFloat(math.Sqrt(sq / float64(n-1)))
}
