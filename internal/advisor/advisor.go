// advisor.go - Budget-gated advisory ranking

package advisor

import (
	"context"
	"sort"

	"github.com/tabsyhq/tabsy-api/internal/common"
)

// maxRankedBoxes caps how many candidates reach the prompt. Everything
// past the top 5 by expected value adds token cost but rarely changes
// the recommendation.
const maxRankedBoxes = 5

type budgetGate interface {
	IsWithinBudget(ctx context.Context) bool
}

type usageRecorder interface {
	RecordUsage(ctx context.Context, inputUnits, outputUnits int) float64
}

// Ranker answers advisory questions about tracked boxes. Every answer
// is a well-formed Response; failures surface as fallback narratives,
// never as errors.
type Ranker struct {
	gate   budgetGate
	ledger usageRecorder
	model  RankModel
}

// NewRanker wires the budget gate, the usage ledger and the ranking model
func NewRanker(gate budgetGate, ledger usageRecorder, model RankModel) *Ranker {
	return &Ranker{
		gate:   gate,
		ledger: ledger,
		model:  model,
	}
}

// Ask ranks the player's boxes against their question. When the budget
// gate is closed no external call and no ledger write happens.
func (r *Ranker) Ask(ctx context.Context, question string, boxes []BoxSummary, reqCtx *common.RequestContext) Response {
	if !r.gate.IsWithinBudget(ctx) {
		reqCtx.LogWarning("💸 Daily advisory budget reached, returning fallback")
		return Response{Picks: []Pick{}, Narrative: BudgetFallbackNarrative}
	}

	candidates := topByExpectedValue(boxes, maxRankedBoxes)

	reqCtx.StartStep("ranking_model_call")
	raw, usage, err := r.model.Complete(ctx, rankSystemInstruction, buildUserMessage(question, candidates), reqCtx)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		return Response{Picks: []Pick{}, Narrative: FailureNarrative}
	}
	reqCtx.EndStep("success", usage, nil)

	// Record what the call actually cost, even if the output below
	// turns out unusable.
	if usage != nil {
		cost := r.ledger.RecordUsage(ctx, usage.InputTokens, usage.OutputTokens)
		reqCtx.LogInfo("💰 Advisory call cost: $%.6f", cost)
	}

	resp, ok := parseRankResponse(raw)
	if !ok {
		reqCtx.LogWarning("⚠️  Unusable ranking model output, returning fallback")
		return Response{Picks: []Pick{}, Narrative: ParseFallbackNarrative}
	}

	return resp
}

// topByExpectedValue returns at most n boxes sorted by descending
// expected value. The input slice is left untouched.
func topByExpectedValue(boxes []BoxSummary, n int) []BoxSummary {
	sorted := make([]BoxSummary, len(boxes))
	copy(sorted, boxes)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExpectedValue > sorted[j].ExpectedValue
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
