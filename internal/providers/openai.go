package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName         = "openai"
	openAIDefaultModel = "gpt-4o-mini"
)

// OpenAIConfig holds configuration for the OpenAI oracle.
type OpenAIConfig struct {
	APIKey      string
	Model       string        // default "gpt-4o-mini"
	Temperature float64       // default 0.2
	MaxTokens   int           // default 4096
	RateLimit   int           // requests per minute
	MaxRetries  int           // transient-failure retries before giving up
	RetryDelay  time.Duration // base backoff delay
	Timeout     time.Duration // HTTP timeout
	BaseURL     string        // optional (tests)
	HTTPClient  *http.Client  // optional (tests)
}

// OpenAIOracle implements Oracle using the official OpenAI SDK.
type OpenAIOracle struct {
	model       string
	temperature float64
	maxTokens   int
	maxRetries  int
	retryDelay  time.Duration
	limiter     *RateLimiter
	client      openai.Client
}

// NewOpenAIOracle creates an OpenAI-backed oracle.
func NewOpenAIOracle(cfg OpenAIConfig) *OpenAIOracle {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIOracle{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		limiter:     NewRateLimiter(cfg.RateLimit),
		client:      openai.NewClient(opts...),
	}
}

// Name returns the provider identifier.
func (c *OpenAIOracle) Name() string {
	return OpenAIName
}

// LimiterStatus exposes the rate limiter state for diagnostics.
func (c *OpenAIOracle) LimiterStatus() RateLimiterStatus {
	return c.limiter.Status()
}

// GenerateText sends a prompt to the chat completions API. Transient
// failures are retried with backoff; the last error is returned alongside a
// failure result so callers can apply their stage fallback.
func (c *OpenAIOracle) GenerateText(ctx context.Context, req *TextRequest) (*TextResult, error) {
	start := time.Now()

	result := &TextResult{
		Provider:  OpenAIName,
		RequestID: req.RequestID,
	}

	if strings.TrimSpace(req.Prompt) == "" {
		result.ErrorMessage = "prompt is required"
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("prompt is required")
	}

	callCtx, cancel := withTimeout(ctx, req)
	defer cancel()

	model := req.Model
	if model == "" {
		model = c.model
	}
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = c.temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(model),
		Messages:            messages,
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
	}

	var resp *openai.ChatCompletion
	attempts := 0
	err := retry.Do(
		func() error {
			attempts++
			if err := c.limiter.Wait(callCtx); err != nil {
				return err
			}
			var callErr error
			resp, callErr = c.client.Chat.Completions.New(callCtx, params)
			return callErr
		},
		retry.Context(callCtx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)

	result.Attempts = attempts
	result.ExecutionTime = time.Since(start)
	result.ModelUsed = model

	if err != nil {
		result.ErrorMessage = err.Error()
		return result, fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		result.ErrorMessage = "no choices in response"
		return result, fmt.Errorf("openai chat completion returned no choices")
	}

	result.Success = true
	result.Content = resp.Choices[0].Message.Content
	result.ModelUsed = resp.Model
	result.PromptTokens = int(resp.Usage.PromptTokens)
	result.CompletionTokens = int(resp.Usage.CompletionTokens)
	result.TotalTokens = int(resp.Usage.TotalTokens)

	return result, nil
}

// Verify interface
var _ Oracle = (*OpenAIOracle)(nil)
