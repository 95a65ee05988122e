package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tabsyhq/tabsy-api/internal/common"
)

type stubGate struct {
	open bool
}

func (s stubGate) IsWithinBudget(ctx context.Context) bool { return s.open }

type stubRecorder struct {
	calls        int
	inputUnits   int
	outputUnits  int
	costReturned float64
}

func (s *stubRecorder) RecordUsage(ctx context.Context, inputUnits, outputUnits int) float64 {
	s.calls++
	s.inputUnits += inputUnits
	s.outputUnits += outputUnits
	return s.costReturned
}

type stubModel struct {
	calls int
	raw   string
	usage *common.TokenUsage
	err   error

	lastUserMessage string
}

func (s *stubModel) Complete(ctx context.Context, systemInstruction, userMessage string, reqCtx *common.RequestContext) (string, *common.TokenUsage, error) {
	s.calls++
	s.lastUserMessage = userMessage
	return s.raw, s.usage, s.err
}

func testBoxes() []BoxSummary {
	return []BoxSummary{
		{ID: "box-1", Name: "Mega Cash", ExpectedValue: 0.82},
		{ID: "box-2", Name: "Lucky 7s", ExpectedValue: 1.15},
		{ID: "box-3", Name: "Gold Rush", ExpectedValue: 0.95},
	}
}

func TestRanker_BudgetClosed_NoCallsNoWrites(t *testing.T) {
	recorder := &stubRecorder{}
	model := &stubModel{}
	ranker := NewRanker(stubGate{open: false}, recorder, model)

	resp := ranker.Ask(context.Background(), "which box?", testBoxes(), common.NewRequestContext("user-1"))

	if model.calls != 0 {
		t.Errorf("model called %d times, want 0", model.calls)
	}
	if recorder.calls != 0 {
		t.Errorf("ledger written %d times, want 0", recorder.calls)
	}
	if len(resp.Picks) != 0 {
		t.Errorf("picks = %v, want empty", resp.Picks)
	}
	if resp.Narrative != BudgetFallbackNarrative {
		t.Errorf("narrative = %q, want budget fallback", resp.Narrative)
	}
}

func TestRanker_RecordsActualUsage(t *testing.T) {
	recorder := &stubRecorder{}
	model := &stubModel{
		raw:   `{"picks":[{"boxId":"box-2","rank":1,"reason":"highest expected value"}],"narrative":"Go with Lucky 7s. Play responsibly."}`,
		usage: &common.TokenUsage{InputTokens: 420, OutputTokens: 75, TotalTokens: 495},
	}
	ranker := NewRanker(stubGate{open: true}, recorder, model)

	resp := ranker.Ask(context.Background(), "which box?", testBoxes(), common.NewRequestContext("user-1"))

	if recorder.calls != 1 {
		t.Fatalf("ledger written %d times, want 1", recorder.calls)
	}
	if recorder.inputUnits != 420 || recorder.outputUnits != 75 {
		t.Errorf("recorded %d in / %d out, want 420/75", recorder.inputUnits, recorder.outputUnits)
	}
	if len(resp.Picks) != 1 || resp.Picks[0].BoxID != "box-2" || resp.Picks[0].Rank != 1 {
		t.Errorf("unexpected picks: %+v", resp.Picks)
	}
}

func TestRanker_MissingNarrative_ExactFallback(t *testing.T) {
	recorder := &stubRecorder{}
	model := &stubModel{
		raw:   `{"picks":[{"boxId":"box-2","rank":1,"reason":"ev"}]}`,
		usage: &common.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}
	ranker := NewRanker(stubGate{open: true}, recorder, model)

	resp := ranker.Ask(context.Background(), "which box?", testBoxes(), common.NewRequestContext("user-1"))

	if resp.Narrative != ParseFallbackNarrative {
		t.Errorf("narrative = %q, want exact parse fallback", resp.Narrative)
	}
	if len(resp.Picks) != 0 {
		t.Errorf("picks = %v, want empty on fallback", resp.Picks)
	}
	// Usage is still recorded: the call happened and cost money.
	if recorder.calls != 1 {
		t.Errorf("ledger written %d times, want 1", recorder.calls)
	}
}

func TestRanker_MalformedOutput_Fallback(t *testing.T) {
	model := &stubModel{
		raw:   `not json at all`,
		usage: &common.TokenUsage{InputTokens: 10, OutputTokens: 5},
	}
	ranker := NewRanker(stubGate{open: true}, &stubRecorder{}, model)

	resp := ranker.Ask(context.Background(), "which box?", testBoxes(), common.NewRequestContext("user-1"))

	if resp.Narrative != ParseFallbackNarrative {
		t.Errorf("narrative = %q, want parse fallback", resp.Narrative)
	}
}

func TestRanker_ModelError_ApologyNoLedgerWrite(t *testing.T) {
	recorder := &stubRecorder{}
	model := &stubModel{err: errors.New("model unavailable")}
	ranker := NewRanker(stubGate{open: true}, recorder, model)

	resp := ranker.Ask(context.Background(), "which box?", testBoxes(), common.NewRequestContext("user-1"))

	if resp.Narrative != FailureNarrative {
		t.Errorf("narrative = %q, want failure narrative", resp.Narrative)
	}
	if recorder.calls != 0 {
		t.Errorf("ledger written %d times after failed call, want 0", recorder.calls)
	}
}

func TestTopByExpectedValue(t *testing.T) {
	boxes := []BoxSummary{
		{ID: "a", ExpectedValue: 0.5},
		{ID: "b", ExpectedValue: 1.2},
		{ID: "c", ExpectedValue: 0.9},
		{ID: "d", ExpectedValue: 1.1},
		{ID: "e", ExpectedValue: 0.7},
		{ID: "f", ExpectedValue: 1.0},
		{ID: "g", ExpectedValue: 0.6},
	}

	top := topByExpectedValue(boxes, maxRankedBoxes)

	if len(top) != 5 {
		t.Fatalf("got %d boxes, want 5", len(top))
	}
	wantOrder := []string{"b", "d", "f", "c", "e"}
	for i, want := range wantOrder {
		if top[i].ID != want {
			t.Errorf("top[%d] = %s, want %s", i, top[i].ID, want)
		}
	}

	// Input order must survive.
	if boxes[0].ID != "a" || boxes[1].ID != "b" {
		t.Error("input slice was reordered")
	}
}

func TestBuildUserMessage_Rounding(t *testing.T) {
	msg := buildUserMessage("best box today?", []BoxSummary{
		{ID: "x", Name: "Big Win", Price: 3, ExpectedValue: 0.91234, RTP: 78.567, RiskScore: 0.4567, WinProbShort: 0.123456, WinProbMedium: 0.654321},
	})

	for _, want := range []string{
		"Question: best box today?",
		`id=x name="Big Win"`,
		"price=3.00",
		"ev=0.91",
		"rtp=78.6",
		"risk=0.46",
		"winShort=0.123",
		"winMedium=0.654",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("user message missing %q:\n%s", want, msg)
		}
	}
}
