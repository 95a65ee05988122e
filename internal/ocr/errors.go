// errors.go - Mapping provider failures to caller-facing error codes

package ocr

import (
	"errors"
	"strings"
)

// Caller-facing error codes surfaced by the HTTP API
const (
	CodeUnauthenticated    = "unauthenticated"
	CodeInvalidArgument    = "invalid-argument"
	CodeFailedPrecondition = "failed-precondition"
	CodePermissionDenied   = "permission-denied"
	CodeInternal           = "internal"
)

// CallerCode maps an OCR failure to the code the API returns to clients.
// A 403 whose message says the generative API is not enabled on the
// project becomes failed-precondition so the operator knows to flip the
// switch rather than rotate keys.
func CallerCode(err error) string {
	if err == nil {
		return ""
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		return CodeInternal
	}

	switch provErr.StatusCode {
	case 400:
		return CodeInvalidArgument
	case 401:
		return CodePermissionDenied
	case 403:
		msg := strings.ToLower(provErr.Message)
		if strings.Contains(msg, "has not been used") || strings.Contains(msg, "is disabled") {
			return CodeFailedPrecondition
		}
		return CodePermissionDenied
	default:
		return CodeInternal
	}
}

// UserMessage returns a short human-readable hint for a caller code
func UserMessage(code string) string {
	switch code {
	case CodeFailedPrecondition:
		return "The text recognition API is not enabled for this project. Enable it and try again."
	case CodePermissionDenied:
		return "The configured API key was rejected. Check the key and its permissions."
	case CodeInvalidArgument:
		return "The image could not be processed. Check the image reference and format."
	default:
		return "Text recognition failed. Please try again in a few minutes."
	}
}
