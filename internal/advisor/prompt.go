// prompt.go - System instruction and compact user message for the ranking model

package advisor

import (
	"fmt"
	"strings"
)

// safetyDisclaimer must close every narrative the model produces.
const safetyDisclaimer = "Pull-tab outcomes are random; past results do not predict future wins. Play responsibly."

// rankSystemInstruction pins the model to the supplied data only.
// Box fingerprints are pre-rounded, so the model never sees more
// precision than the prompt budget allows.
const rankSystemInstruction = `You rank pull-tab game boxes for a player.
Use ONLY the box data supplied in the message. Do not invent boxes, prices, or statistics.
Respond with JSON only: {"picks": [{"boxId": string, "rank": integer, "reason": string}], "narrative": string}.
Rank the best box 1. Keep each reason to one short sentence.
The narrative is short markdown and MUST end with exactly this sentence: "` + safetyDisclaimer + `"`

// buildUserMessage renders the question plus a compact per-box
// fingerprint, one line per box. Rounding keeps the prompt small:
// money and risk to 2 decimals, rtp to 1, win probabilities to 3.
func buildUserMessage(question string, boxes []BoxSummary) string {
	var b strings.Builder

	b.WriteString("Question: ")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n\nBoxes:\n")

	for _, box := range boxes {
		fmt.Fprintf(&b, "- id=%s name=%q price=%.2f ev=%.2f rtp=%.1f risk=%.2f winShort=%.3f winMedium=%.3f\n",
			box.ID, box.Name, box.Price, box.ExpectedValue, box.RTP, box.RiskScore, box.WinProbShort, box.WinProbMedium)
	}

	return b.String()
}
