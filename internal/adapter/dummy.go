package adapter

import "github.com/sleepstars/llmadapter/internal/models"

// Models answered locally without any network call
const (
	DummyChatModel       = "dummy-chat"
	DummyCompletionModel = "dummy-completion"

	dummyResponse = "This is a dummy response."
)

func dummyChatCompletion() *models.CompletionResult {
	return &models.CompletionResult{
		ID:      "dummy-id",
		Object:  models.ObjectChatCompletion,
		Created: 12345,
		Model:   DummyChatModel,
		Usage:   models.Usage{PromptTokens: 56, CompletionTokens: 6, TotalTokens: 62},
		Choices: []models.Choice{
			{
				Index:        0,
				FinishReason: "stop",
				Message:      models.Message{Role: "assistant", Content: dummyResponse},
			},
		},
	}
}

func dummyCompletion() *models.CompletionResult {
	return &models.CompletionResult{
		ID:      "dummy-id",
		Object:  models.ObjectTextCompletion,
		Created: 12345,
		Model:   DummyCompletionModel,
		Usage:   models.Usage{PromptTokens: 5, CompletionTokens: 6, TotalTokens: 11},
		Choices: []models.Choice{
			{
				Index:        0,
				FinishReason: "stop",
				Text:         dummyResponse,
				Message:      models.Message{Role: "assistant", Content: dummyResponse},
			},
		},
	}
}
