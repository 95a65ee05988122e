// types.go - Request and response shapes for the advisory ranker

package advisor

// BoxSummary is the caller-supplied snapshot of one tracked box
type BoxSummary struct {
	ID            string  `json:"id" binding:"required"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ExpectedValue float64 `json:"expectedValue"`
	RTP           float64 `json:"rtp"`
	RiskScore     float64 `json:"riskScore"`
	WinProbShort  float64 `json:"winProbShort"`
	WinProbMedium float64 `json:"winProbMedium"`
}

// Pick is one ranked recommendation
type Pick struct {
	BoxID  string `json:"boxId"`
	Rank   int    `json:"rank"`
	Reason string `json:"reason"`
}

// Response is the advisory ranker's answer. Picks may be empty when the
// budget gate is closed or the model output could not be used; Narrative
// is always non-empty.
type Response struct {
	Picks     []Pick `json:"picks"`
	Narrative string `json:"narrative"`
}
