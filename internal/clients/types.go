package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sleepstars/llmadapter/internal/models"
)

var (
	// ErrUpstreamReported is returned when a backend answers with an explicit error payload
	ErrUpstreamReported = errors.New("upstream reported an error")
	// ErrMaxRetriesExceeded is returned when the AGI backend never answered with 200
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// CompletionClient defines the interface for the upstream completion API
type CompletionClient interface {
	// CreateCompletion sends a text completion request
	CreateCompletion(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error)

	// CreateChatCompletion sends a chat completion request
	CreateChatCompletion(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error)
}

// AgiAnswerer defines the interface for the AGI HTTP backend
type AgiAnswerer interface {
	Answer(ctx context.Context, endpoint string, params AgiParams) (*models.CompletionResult, error)
}

// OpenAIClientConfig contains configuration for the upstream completion API client
type OpenAIClientConfig struct {
	APIBase      string
	APIKey       string
	Organization string
	Timeout      time.Duration
}

// AgiClientConfig contains configuration for the AGI HTTP client
type AgiClientConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// UpstreamError carries the raw error payload a backend returned
type UpstreamError struct {
	Payload string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUpstreamReported, e.Payload)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstreamReported
}

// StatusError is returned for a non-200 answer from the AGI backend
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}
