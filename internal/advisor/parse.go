// parse.go - Lenient parsing of the ranking model's structured output

package advisor

import (
	"github.com/tidwall/gjson"
)

// Fallback narratives. These exact strings are part of the caller-facing
// contract: a closed budget gate and an unusable model response are
// successful responses, not errors.
const (
	// BudgetFallbackNarrative is returned when the daily budget is spent.
	BudgetFallbackNarrative = "The daily advisory budget has been used up. Box rankings will be available again tomorrow. " + safetyDisclaimer

	// ParseFallbackNarrative is returned when the model output could not
	// form a recommendation.
	ParseFallbackNarrative = "I could not form a recommendation from the available box data. Please try again. " + safetyDisclaimer

	// FailureNarrative is returned when the ranking call itself failed.
	FailureNarrative = "Sorry, something went wrong while ranking your boxes. Try asking a narrower question. " + safetyDisclaimer
)

// parseRankResponse extracts picks and the narrative from the model's
// JSON completion. A missing or empty narrative invalidates the whole
// response; malformed pick entries are skipped individually.
func parseRankResponse(raw string) (Response, bool) {
	if !gjson.Valid(raw) {
		return Response{}, false
	}

	narrative := gjson.Get(raw, "narrative")
	if !narrative.Exists() || narrative.String() == "" {
		return Response{}, false
	}

	picks := []Pick{}
	for _, item := range gjson.Get(raw, "picks").Array() {
		boxID := item.Get("boxId").String()
		if boxID == "" {
			continue
		}
		picks = append(picks, Pick{
			BoxID:  boxID,
			Rank:   int(item.Get("rank").Int()),
			Reason: item.Get("reason").String(),
		})
	}

	return Response{
		Picks:     picks,
		Narrative: narrative.String(),
	}, true
}
