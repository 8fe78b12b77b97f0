package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"

	"github.com/sleepstars/llmadapter/internal/models"
)

// OpenAIClient implements CompletionClient on top of go-openai
type OpenAIClient struct {
	config OpenAIClientConfig
	client *openai.Client
}

// NewOpenAIClient creates a new upstream completion API client
func NewOpenAIClient(config OpenAIClientConfig) *OpenAIClient {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.APIBase != "" {
		clientConfig.BaseURL = strings.TrimRight(config.APIBase, "/")
		if !strings.HasPrefix(clientConfig.BaseURL, "http://") && !strings.HasPrefix(clientConfig.BaseURL, "https://") {
			clientConfig.BaseURL = "http://" + clientConfig.BaseURL
		}
	}
	clientConfig.OrgID = config.Organization
	clientConfig.HTTPClient = &errorSniffer{doer: &http.Client{Timeout: config.Timeout}}

	return &OpenAIClient{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// errorSniffer rejects 200 responses whose body carries an "error" key.
// go-openai only inspects errors on failure status codes.
type errorSniffer struct {
	doer openai.HTTPDoer
}

func (s *errorSniffer) Do(req *http.Request) (*http.Response, error) {
	resp, err := s.doer.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if payload := gjson.GetBytes(body, "error"); payload.Exists() && payload.Type != gjson.Null {
		return nil, &UpstreamError{Payload: payload.Raw}
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error) {
	openaiReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    make([]openai.ChatCompletionMessage, len(req.Messages)),
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	}
	for i, msg := range req.Messages {
		openaiReq.Messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}

	result := &models.CompletionResult{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: resp.Created,
		Model:   resp.Model,
		Usage:   convertUsage(resp.Usage),
		Choices: make([]models.Choice, len(resp.Choices)),
	}
	for i, choice := range resp.Choices {
		result.Choices[i] = models.Choice{
			Index:        choice.Index,
			FinishReason: string(choice.FinishReason),
			Message: models.Message{
				Role:    choice.Message.Role,
				Content: choice.Message.Content,
			},
		}
	}
	return result, nil
}

func (c *OpenAIClient) CreateCompletion(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error) {
	openaiReq := openai.CompletionRequest{
		Model:       req.Model,
		Prompt:      req.Prompt,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	}

	resp, err := c.client.CreateCompletion(ctx, openaiReq)
	if err != nil {
		return nil, fmt.Errorf("create completion: %w", err)
	}

	result := &models.CompletionResult{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: resp.Created,
		Model:   resp.Model,
		Usage:   convertUsage(resp.Usage),
		Choices: make([]models.Choice, len(resp.Choices)),
	}
	for i, choice := range resp.Choices {
		result.Choices[i] = models.Choice{
			Index:        choice.Index,
			FinishReason: choice.FinishReason,
			Text:         choice.Text,
			Message: models.Message{
				Role:    openai.ChatMessageRoleAssistant,
				Content: choice.Text,
			},
		}
	}
	return result, nil
}

// convertUsage maps go-openai usage, held by value or by pointer depending on
// the response type, onto the canonical counters. A nil usage maps to zero.
func convertUsage[U openai.Usage | *openai.Usage](u U) models.Usage {
	var usage *openai.Usage
	switch v := any(u).(type) {
	case openai.Usage:
		usage = &v
	case *openai.Usage:
		usage = v
	}
	if usage == nil {
		return models.Usage{}
	}
	return models.Usage{
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	}
}
