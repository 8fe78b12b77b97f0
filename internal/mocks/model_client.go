package mocks

import (
	"context"
	"sync/atomic"

	"github.com/sleepstars/llmadapter/internal/clients"
	"github.com/sleepstars/llmadapter/internal/models"
)

// MockCompletionClient implements clients.CompletionClient for testing
type MockCompletionClient struct {
	CreateCompletionFunc     func(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error)
	CreateChatCompletionFunc func(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error)

	calls int32
}

// Calls returns how many requests reached the mock
func (m *MockCompletionClient) Calls() int {
	return int(atomic.LoadInt32(&m.calls))
}

func (m *MockCompletionClient) CreateCompletion(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.CreateCompletionFunc != nil {
		return m.CreateCompletionFunc(ctx, req)
	}
	return &models.CompletionResult{}, nil
}

func (m *MockCompletionClient) CreateChatCompletion(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.CreateChatCompletionFunc != nil {
		return m.CreateChatCompletionFunc(ctx, req)
	}
	return &models.CompletionResult{}, nil
}

// MockAgiAnswerer implements clients.AgiAnswerer for testing
type MockAgiAnswerer struct {
	AnswerFunc func(ctx context.Context, endpoint string, params clients.AgiParams) (*models.CompletionResult, error)

	calls int32
}

// Calls returns how many requests reached the mock
func (m *MockAgiAnswerer) Calls() int {
	return int(atomic.LoadInt32(&m.calls))
}

func (m *MockAgiAnswerer) Answer(ctx context.Context, endpoint string, params clients.AgiParams) (*models.CompletionResult, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, endpoint, params)
	}
	return &models.CompletionResult{}, nil
}
