// factory.go - OCR provider factory with optional fallback

package ocr

import (
	"fmt"
	"log"

	"github.com/tabsyhq/tabsy-api/configs"
)

// CreateProvider creates an OCR provider based on configuration
func CreateProvider() (Provider, error) {
	switch configs.OCR_PROVIDER {
	case "gemini":
		log.Printf("🔵 Creating Gemini OCR provider")
		return NewGeminiProvider(configs.GEMINI_API_KEY, configs.OCR_MODEL_NAME), nil

	case "mistral":
		log.Printf("🔷 Creating Mistral OCR provider")
		return NewMistralProvider(configs.MISTRAL_API_KEY, configs.MISTRAL_MODEL_NAME), nil

	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s (supported: gemini, mistral)", configs.OCR_PROVIDER)
	}
}

// CreateProviderWithFallback creates the configured provider plus the
// opposite vendor as fallback when its API key is configured.
func CreateProviderWithFallback() (primary Provider, fallback Provider, err error) {
	primary, err = CreateProvider()
	if err != nil {
		return nil, nil, err
	}

	switch primary.ProviderName() {
	case "gemini":
		if configs.MISTRAL_API_KEY != "" {
			fallback = NewMistralProvider(configs.MISTRAL_API_KEY, configs.MISTRAL_MODEL_NAME)
			log.Printf("✅ Fallback provider configured: Mistral")
		}

	case "mistral":
		if configs.GEMINI_API_KEY != "" {
			fallback = NewGeminiProvider(configs.GEMINI_API_KEY, configs.OCR_MODEL_NAME)
			log.Printf("✅ Fallback provider configured: Gemini")
		}
	}

	return primary, fallback, nil
}
