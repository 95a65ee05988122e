// mistral.go - Mistral OCR provider used as a fallback for Gemini

package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tabsyhq/tabsy-api/internal/common"
)

// Mistral OCR pricing: $2 per 1,000 pages.
const mistralCostPerPage = 0.002

// MistralProvider implements Provider using the Mistral OCR API
type MistralProvider struct {
	apiKey    string
	modelName string
	client    *http.Client
}

// NewMistralProvider creates a new Mistral OCR provider
func NewMistralProvider(apiKey, modelName string) *MistralProvider {
	return &MistralProvider{
		apiKey:    apiKey,
		modelName: modelName,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ProviderName returns "mistral"
func (m *MistralProvider) ProviderName() string {
	return "mistral"
}

type mistralOCRDocument struct {
	Type        string `json:"type"`                   // "image_url" or "document_url"
	ImageURL    string `json:"image_url,omitempty"`    // base64 data URL for type="image_url"
	DocumentURL string `json:"document_url,omitempty"` // URL for type="document_url"
}

type mistralOCRRequest struct {
	Model    string             `json:"model"`
	Document mistralOCRDocument `json:"document"`
}

type mistralOCRPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

type mistralOCRUsageInfo struct {
	PagesProcessed int `json:"pages_processed"`
	DocSizeBytes   int `json:"doc_size_bytes,omitempty"`
}

type mistralOCRResponse struct {
	Model     string              `json:"model"`
	Pages     []mistralOCRPage    `json:"pages"`
	UsageInfo mistralOCRUsageInfo `json:"usage_info"`
}

type mistralErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// RecognizeText extracts raw text from a flare sheet photo using Mistral OCR
func (m *MistralProvider) RecognizeText(ctx context.Context, imageRef string, reqCtx *common.RequestContext) (string, *common.TokenUsage, error) {
	reqCtx.LogInfo("🔷 Using Mistral OCR provider (model: %s)", m.modelName)

	reqCtx.StartStep("mistral_ocr")

	var request mistralOCRRequest
	if strings.HasPrefix(imageRef, "http://") || strings.HasPrefix(imageRef, "https://") {
		request = mistralOCRRequest{
			Model: m.modelName,
			Document: mistralOCRDocument{
				Type:        "document_url",
				DocumentURL: imageRef,
			},
		}
	} else {
		imageData, mimeType, err := fetchImageData(ctx, imageRef)
		if err != nil {
			reqCtx.EndStep("failed", nil, err)
			return "", nil, err
		}

		// The OCR endpoint rejects PDFs sent as base64
		if mimeType == "application/pdf" {
			err := fmt.Errorf("mistral OCR does not accept PDFs as base64, use an image or a URL")
			reqCtx.EndStep("failed", nil, err)
			return "", nil, err
		}

		dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))
		request = mistralOCRRequest{
			Model: m.modelName,
			Document: mistralOCRDocument{
				Type:     "image_url",
				ImageURL: dataURL,
			},
		}
	}

	response, err := m.callOCRAPI(ctx, request)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		return "", nil, fmt.Errorf("mistral OCR API call failed: %w", err)
	}

	if len(response.Pages) == 0 {
		err := fmt.Errorf("no pages returned from Mistral OCR API")
		reqCtx.EndStep("failed", nil, err)
		return "", nil, err
	}

	var extracted strings.Builder
	for i, page := range response.Pages {
		if i > 0 {
			extracted.WriteString("\n\n")
		}
		extracted.WriteString(page.Markdown)
	}
	rawText := extracted.String()

	// Page-based pricing, stored as "tokens" so the ledger path stays uniform
	pages := response.UsageInfo.PagesProcessed
	tokenUsage := &common.TokenUsage{
		InputTokens:  pages,
		OutputTokens: 0,
		TotalTokens:  pages,
		CostUSD:      float64(pages) * mistralCostPerPage,
	}
	reqCtx.EndStep("success", tokenUsage, nil)

	reqCtx.LogInfo("✅ Extracted %d chars from %d page(s)", len(rawText), pages)

	return rawText, tokenUsage, nil
}

// callOCRAPI makes the HTTP request to the Mistral OCR endpoint
func (m *MistralProvider) callOCRAPI(ctx context.Context, request mistralOCRRequest) (*mistralOCRResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.mistral.ai/v1/ocr", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", m.apiKey))

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp mistralErrorResponse
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			return nil, fmt.Errorf("mistral OCR API error (%d): %s", resp.StatusCode, errorResp.Error.Message)
		}
		return nil, fmt.Errorf("mistral OCR API error (%d): %s", resp.StatusCode, string(body))
	}

	var response mistralOCRResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse OCR response: %w", err)
	}

	return &response, nil
}
