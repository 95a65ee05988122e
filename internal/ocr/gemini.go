// gemini.go - Gemini OCR provider for flare sheet photos

package ocr

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tabsyhq/tabsy-api/internal/common"
	"github.com/tabsyhq/tabsy-api/internal/ratelimit"
)

// flareOCRPrompt asks for a plain top-to-bottom text readout. Parsing
// happens downstream, so the model must not structure or summarize.
const flareOCRPrompt = `Extract ALL visible text from this pull-tab flare sheet photo.
Read everything from top to bottom, left to right.
Include the game title, ticket price, every prize amount, odds, and any fine print.
Return ONLY the extracted text, nothing else. Do not format, analyze, or structure it.`

// GeminiProvider implements Provider using the Gemini API
type GeminiProvider struct {
	apiKey    string
	modelName string
}

// NewGeminiProvider creates a new Gemini OCR provider
func NewGeminiProvider(apiKey, modelName string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// ProviderName returns "gemini"
func (g *GeminiProvider) ProviderName() string {
	return "gemini"
}

// RecognizeText downloads the flare sheet photo and extracts its raw text
func (g *GeminiProvider) RecognizeText(ctx context.Context, imageRef string, reqCtx *common.RequestContext) (string, *common.TokenUsage, error) {
	reqCtx.StartStep("fetch_image")
	imageData, mimeType, err := fetchImageData(ctx, imageRef)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		return "", nil, err
	}
	reqCtx.EndStep("success", nil, nil)

	fileSize := len(imageData)
	reqCtx.LogInfo("📄 Image size: %d bytes (%.2f MB)", fileSize, float64(fileSize)/(1024*1024))
	if fileSize > 500*1024 {
		reqCtx.LogWarning("⚠️  Large image (%d bytes). May exceed token output limit.", fileSize)
	}

	reqCtx.StartStep("gemini_ocr")
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		return "", nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.modelName)

	// Explicit MaxOutputTokens prevents silent truncation on dense sheets
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: ptrInt32(8192),
	}

	ratelimit.WaitForRateLimit()

	resp, err := callGeminiWithRetry(ctx, model,
		[]genai.Part{
			genai.Text(flareOCRPrompt),
			genai.Blob{
				MIMEType: mimeType,
				Data:     imageData,
			},
		},
		reqCtx,
		DefaultRetryConfig,
	)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		return "", nil, err
	}

	if len(resp.Candidates) == 0 {
		reqCtx.EndStep("failed", nil, fmt.Errorf("no candidates"))
		if resp.PromptFeedback != nil {
			reqCtx.LogError("⚠️  PromptFeedback BlockReason: %v", resp.PromptFeedback.BlockReason)
		}
		return "", nil, fmt.Errorf("no candidates from Gemini API (possibly blocked or rate limited)")
	}

	var rawText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			rawText = string(text)
			break
		}
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		reqCtx.LogWarning("⚠️  OCR response was truncated (FinishReason: MAX_TOKENS)")
	}

	var tokenUsage *common.TokenUsage
	if resp.UsageMetadata != nil {
		tokens := common.CalculateOCRTokenCost(
			int(resp.UsageMetadata.PromptTokenCount),
			int(resp.UsageMetadata.CandidatesTokenCount),
		)
		tokenUsage = &tokens
	}
	reqCtx.EndStep("success", tokenUsage, nil)

	reqCtx.LogInfo("📦 OCR extracted %d chars", len(rawText))

	return rawText, tokenUsage, nil
}

func ptrInt32(i int32) *int32 {
	return &i
}
