// Package providers implements the text-generation oracle abstraction used
// by the analysis pipeline. Every oracle-dependent stage talks to an Oracle
// through a single prompt-in/text-out call; concrete providers (OpenAI, mock)
// live behind that interface so the pipeline never binds to one vendor.
package providers

import (
	"context"
	"encoding/json"
	"time"
)

// Oracle is the narrow text-generation capability the pipeline depends on.
// Callers must treat the returned content as untrusted: it may be empty,
// non-JSON, or fail schema validation.
type Oracle interface {
	// GenerateText sends a prompt and returns the model's text response.
	// Implementations must honor ctx cancellation and the request timeout.
	GenerateText(ctx context.Context, req *TextRequest) (*TextResult, error)

	// Name returns the provider identifier (e.g., "openai", "mock").
	Name() string
}

// TextRequest is a single oracle invocation.
type TextRequest struct {
	// System is an optional system/instruction message.
	System string `json:"system,omitempty"`

	// Prompt is the user prompt.
	Prompt string `json:"prompt"`

	// Model selection (provider default if empty).
	Model string `json:"model,omitempty"`

	// Generation parameters.
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Timeout     time.Duration `json:"-"`

	// RequestID is set by callers for log correlation.
	RequestID string `json:"-"`
}

// TextResult is the complete response from an oracle call.
type TextResult struct {
	Content    string          `json:"content"`
	ParsedJSON json.RawMessage `json:"parsed_json,omitempty"`

	// Token accounting.
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing.
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info.
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`
	RequestID string `json:"request_id"`
	Attempts  int    `json:"attempts"`

	// Success/error.
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// DefaultTimeout applies when a request carries no timeout of its own.
const DefaultTimeout = 60 * time.Second

// withTimeout derives the call context for a request.
func withTimeout(ctx context.Context, req *TextRequest) (context.Context, context.CancelFunc) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
