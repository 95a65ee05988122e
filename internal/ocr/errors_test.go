package ocr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestCallerCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "api not enabled",
			err: categorizeProviderError(&googleapi.Error{
				Code:    403,
				Message: "Generative Language API has not been used in project 12345 before or it is disabled",
			}),
			want: CodeFailedPrecondition,
		},
		{
			name: "plain forbidden",
			err: categorizeProviderError(&googleapi.Error{
				Code:    403,
				Message: "The caller does not have permission",
			}),
			want: CodePermissionDenied,
		},
		{
			name: "bad api key",
			err:  categorizeProviderError(&googleapi.Error{Code: 401}),
			want: CodePermissionDenied,
		},
		{
			name: "bad request",
			err:  categorizeProviderError(&googleapi.Error{Code: 400}),
			want: CodeInvalidArgument,
		},
		{
			name: "server error",
			err:  categorizeProviderError(&googleapi.Error{Code: 503}),
			want: CodeInternal,
		},
		{
			name: "uncategorized error",
			err:  errors.New("something else"),
			want: CodeInternal,
		},
		{
			name: "wrapped provider error",
			err:  fmt.Errorf("model API call failed after 3 attempts: %w", categorizeProviderError(&googleapi.Error{Code: 401})),
			want: CodePermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CallerCode(tt.err); got != tt.want {
				t.Errorf("CallerCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategorizeProviderError_Retryable(t *testing.T) {
	rateLimited := categorizeProviderError(&googleapi.Error{Code: 429})
	if !rateLimited.Retryable {
		t.Error("429 should be retryable")
	}
	if rateLimited.Category != "rate_limit" {
		t.Errorf("429 category = %q, want rate_limit", rateLimited.Category)
	}

	serverErr := categorizeProviderError(&googleapi.Error{Code: 502})
	if !serverErr.Retryable {
		t.Error("502 should be retryable")
	}

	badKey := categorizeProviderError(&googleapi.Error{Code: 401})
	if badKey.Retryable {
		t.Error("401 should not be retryable")
	}

	timeout := categorizeProviderError(context.DeadlineExceeded)
	if !timeout.Retryable {
		t.Error("deadline exceeded should be retryable")
	}

	canceled := categorizeProviderError(context.Canceled)
	if canceled.Retryable {
		t.Error("canceled should not be retryable")
	}

	network := categorizeProviderError(errors.New("connection reset by peer"))
	if !network.Retryable {
		t.Error("connection errors should be retryable")
	}
}
