package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sleepstars/llmadapter/internal/adapter"
	"github.com/sleepstars/llmadapter/internal/config"
	"github.com/sleepstars/llmadapter/internal/logger"
	"github.com/sleepstars/llmadapter/internal/mocks"
	"github.com/sleepstars/llmadapter/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.InitLogger(logger.WARN, "test")
}

type stubCompleter struct {
	complete         func(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error)
	createCompletion func(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error)
}

func (s *stubCompleter) Complete(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error) {
	return s.complete(ctx, req)
}

func (s *stubCompleter) CreateCompletion(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error) {
	return s.createCompletion(ctx, req)
}

func doJSON(t *testing.T, r http.Handler, path, auth string, body interface{}) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatCompletionsWithDummyAdapter(t *testing.T) {
	a := &adapter.Adapter{
		Completion: &mocks.MockCompletionClient{},
		Agi:        &mocks.MockAgiAnswerer{},
		Endpoints:  config.EndpointRegistry{},
	}
	r := NewRouter(config.ServerConfig{}, a)

	w := doJSON(t, r, "/v1/chat/completions", "", models.CompletionRequest{
		Model:    "dummy-chat",
		Messages: []models.Message{{Role: "user", Content: "hi"}},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.CompletionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "This is a dummy response.", resp.Choices[0].Message.Content)
	assert.Equal(t, "dummy-chat", resp.Model)
}

func TestCompletionsEndpoint(t *testing.T) {
	stub := &stubCompleter{
		createCompletion: func(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error) {
			assert.Equal(t, "say hi", req.Prompt)
			return &models.CompletionResult{Choices: []models.Choice{{Text: "hi"}}}, nil
		},
	}
	r := NewRouter(config.ServerConfig{}, stub)

	w := doJSON(t, r, "/v1/completions", "", models.CompletionRequest{Model: "gpt-3.5-turbo-instruct", Prompt: "say hi"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"text":"hi"`)
}

func TestAPIKeyAuth(t *testing.T) {
	stub := &stubCompleter{
		complete: func(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error) {
			return &models.CompletionResult{}, nil
		},
	}
	r := NewRouter(config.ServerConfig{APIKey: "secret"}, stub)
	body := models.CompletionRequest{Model: "gpt-4"}

	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, "/v1/chat/completions", "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, "/v1/chat/completions", "Bearer wrong", body).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, r, "/v1/chat/completions", "secret", body).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, r, "/v1/chat/completions", "Bearer secret", body).Code)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "health check needs no key")
}

func TestBadRequestBody(t *testing.T) {
	r := NewRouter(config.ServerConfig{}, &stubCompleter{})

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "validation", err: fmt.Errorf("%w: too few messages", adapter.ErrValidation), status: http.StatusBadRequest},
		{name: "configuration", err: fmt.Errorf("%w: unknown model", adapter.ErrConfiguration), status: http.StatusNotFound},
		{name: "upstream reported", err: adapter.ErrUpstreamReported, status: http.StatusBadGateway},
		{name: "retries exhausted", err: adapter.ErrMaxRetriesExceeded, status: http.StatusBadGateway},
		{name: "deadline", err: context.DeadlineExceeded, status: http.StatusGatewayTimeout},
		{name: "other", err: assert.AnError, status: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubCompleter{
				complete: func(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error) {
					return nil, tc.err
				},
			}
			r := NewRouter(config.ServerConfig{}, stub)

			w := doJSON(t, r, "/v1/chat/completions", "", models.CompletionRequest{Model: "agi-7B"})

			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}
