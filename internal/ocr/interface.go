// interface.go - OCR provider interface for supporting multiple model vendors

package ocr

import (
	"context"

	"github.com/tabsyhq/tabsy-api/internal/common"
)

// Provider defines the interface that all OCR providers must implement.
// This allows swapping model vendors (Gemini, Mistral) behind the same call.
type Provider interface {
	// RecognizeText reads a flare sheet photo and returns its raw text.
	// imageRef is either an http(s) URL or a path on local disk.
	RecognizeText(ctx context.Context, imageRef string, reqCtx *common.RequestContext) (string, *common.TokenUsage, error)

	// ProviderName returns the vendor name (e.g. "gemini", "mistral")
	ProviderName() string
}
