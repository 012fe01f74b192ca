package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// MockOracle is an Oracle for testing.
type MockOracle struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string

	// Respond, when set, overrides ResponseText and computes the reply per
	// request. Returning an error simulates an oracle failure.
	Respond func(req *TextRequest) (string, error)

	// State
	requestCount atomic.Int64
}

// NewMockOracle creates a mock oracle with sensible defaults.
func NewMockOracle() *MockOracle {
	return &MockOracle{
		Latency:      time.Millisecond,
		ResponseText: "mock response",
	}
}

// Name returns the provider identifier.
func (c *MockOracle) Name() string {
	return MockName
}

// GenerateText returns the configured response after the configured latency.
func (c *MockOracle) GenerateText(ctx context.Context, req *TextRequest) (*TextResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	result := &TextResult{
		RequestID: fmt.Sprintf("mock-%d", count),
		Provider:  MockName,
		ModelUsed: req.Model,
		Attempts:  1,
	}

	if c.ShouldFail {
		result.ErrorMessage = "mock oracle configured to fail"
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("mock oracle configured to fail")
	}
	if c.FailAfter > 0 && int(count) > c.FailAfter {
		result.ErrorMessage = fmt.Sprintf("mock oracle failed after %d requests", c.FailAfter)
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("mock oracle failed after %d requests", c.FailAfter)
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			result.ErrorMessage = ctx.Err().Error()
			result.ExecutionTime = time.Since(start)
			return result, ctx.Err()
		}
	}

	content := c.ResponseText
	if c.Respond != nil {
		var err error
		content, err = c.Respond(req)
		if err != nil {
			result.ErrorMessage = err.Error()
			result.ExecutionTime = time.Since(start)
			return result, err
		}
	}

	result.Success = true
	result.Content = content
	result.ExecutionTime = time.Since(start)

	// Rough token estimates, enough for accounting tests.
	result.PromptTokens = len(req.Prompt) / 4
	result.CompletionTokens = len(content) / 4
	result.TotalTokens = result.PromptTokens + result.CompletionTokens

	return result, nil
}

// RequestCount returns the number of requests made.
func (c *MockOracle) RequestCount() int64 {
	return c.requestCount.Load()
}

// Reset resets the request counter.
func (c *MockOracle) Reset() {
	c.requestCount.Store(0)
}

// Verify interface
var _ Oracle = (*MockOracle)(nil)
