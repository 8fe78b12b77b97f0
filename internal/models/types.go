package models

// Object kinds reported in CompletionResult.Object
const (
	ObjectChatCompletion = "chat.completion"
	ObjectTextCompletion = "text_completion"
)

// Message represents a single message in the conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest represents a completion request for any backend
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages,omitempty"`
	Prompt      string    `json:"prompt,omitempty"`
	Temperature float32   `json:"temperature,omitempty"`
	TopP        float32   `json:"top_p,omitempty"`
	TopK        int       `json:"top_k,omitempty"`
	BeamCount   int       `json:"beam_count,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// Usage holds token accounting for a completion
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice represents a completion choice
type Choice struct {
	Index        int     `json:"index"`
	FinishReason string  `json:"finish_reason"`
	Message      Message `json:"message"`
	// Text is only set for text completions
	Text string `json:"text,omitempty"`
}

// CompletionResult is the canonical response shape every backend is translated into
type CompletionResult struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Usage   Usage    `json:"usage"`
	Choices []Choice `json:"choices"`
}

// Content returns the message content of the first choice, or "" when there is none.
func (r *CompletionResult) Content() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	if r.Choices[0].Message.Content != "" {
		return r.Choices[0].Message.Content
	}
	return r.Choices[0].Text
}
