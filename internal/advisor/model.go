// model.go - Gemini-backed ranking model

package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tabsyhq/tabsy-api/internal/common"
	"github.com/tabsyhq/tabsy-api/internal/ratelimit"
)

// RankModel is the external ranking-model call. It returns the raw
// structured completion plus the token counters used for cost accounting.
type RankModel interface {
	Complete(ctx context.Context, systemInstruction, userMessage string, reqCtx *common.RequestContext) (string, *common.TokenUsage, error)
}

// GeminiRankModel implements RankModel using the Gemini API
type GeminiRankModel struct {
	apiKey    string
	modelName string
}

// NewGeminiRankModel creates a Gemini-backed ranking model
func NewGeminiRankModel(apiKey, modelName string) *GeminiRankModel {
	return &GeminiRankModel{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// Complete sends the ranking prompt and returns the raw JSON completion
func (g *GeminiRankModel) Complete(ctx context.Context, systemInstruction, userMessage string, reqCtx *common.RequestContext) (string, *common.TokenUsage, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.modelName)
	model.SetTemperature(0.2)
	model.GenerationConfig.MaxOutputTokens = ptrInt32(1024)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = createRankSchema()

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text(systemInstruction),
		},
	}

	// Retry loop for 429 errors
	var resp *genai.GenerateContentResponse
	maxRetries := 3
	for attempt := 1; attempt <= maxRetries; attempt++ {
		ratelimit.WaitForRateLimit()

		resp, err = model.GenerateContent(ctx, genai.Text(userMessage))
		if err == nil {
			break
		}

		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "resource exhausted") {
			if attempt < maxRetries {
				waitTime := time.Duration(attempt*10) * time.Second
				reqCtx.LogWarning("⚠️  Rate limit (429), waiting %v before retry (attempt %d/%d)", waitTime, attempt, maxRetries)
				select {
				case <-ctx.Done():
					return "", nil, fmt.Errorf("context canceled during retry wait: %w", ctx.Err())
				case <-time.After(waitTime):
				}
				continue
			}
		}
		break
	}
	if err != nil {
		return "", nil, fmt.Errorf("ranking model call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil, fmt.Errorf("no response from ranking model")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	var tokenUsage *common.TokenUsage
	if resp.UsageMetadata != nil {
		tokens := common.CalculateAdvisorTokenCost(
			int(resp.UsageMetadata.PromptTokenCount),
			int(resp.UsageMetadata.CandidatesTokenCount),
		)
		tokenUsage = &tokens
	}

	return responseText, tokenUsage, nil
}

// createRankSchema constrains the completion to the pick list + narrative
func createRankSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"picks": {
				Type:        genai.TypeArray,
				Description: "Ranked recommendations, best box first",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"boxId": {
							Type:        genai.TypeString,
							Description: "Identifier of the recommended box, copied from the supplied data",
						},
						"rank": {
							Type:        genai.TypeInteger,
							Description: "1 for the best box, increasing from there",
						},
						"reason": {
							Type:        genai.TypeString,
							Description: "One short sentence grounded in the supplied numbers",
						},
					},
					Required: []string{"boxId", "rank", "reason"},
				},
			},
			"narrative": {
				Type:        genai.TypeString,
				Description: "Short markdown answer ending with the required disclaimer sentence",
			},
		},
		Required: []string{"picks", "narrative"},
	}
}

func ptrInt32(i int32) *int32 {
	return &i
}
