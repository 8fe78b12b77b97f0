package clients

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/sleepstars/llmadapter/internal/logger"
	"github.com/sleepstars/llmadapter/internal/models"
	"github.com/sleepstars/llmadapter/internal/retry"
)

// Sampling defaults used by the AGI server when a request leaves them unset
const (
	DefaultAgiTemperature = 0.1
	DefaultAgiTopP        = 0.75
	DefaultAgiTopK        = 40
	DefaultAgiBeamCount   = 4
	DefaultAgiMaxTokens   = 128

	// AgiModelName is reported as the model of every AGI result
	AgiModelName = "agi"
	// agiPlaceholderTokens fills the usage counters; the server does not report them
	agiPlaceholderTokens = 42
)

// AgiParams are the positional inputs of the AGI predict endpoint
type AgiParams struct {
	Instruction string
	Question    string
	Temperature float32
	TopP        float32
	TopK        int
	BeamCount   int
	MaxTokens   int
}

func (p AgiParams) withDefaults() AgiParams {
	if p.Temperature == 0 {
		p.Temperature = DefaultAgiTemperature
	}
	if p.TopP == 0 {
		p.TopP = DefaultAgiTopP
	}
	if p.TopK == 0 {
		p.TopK = DefaultAgiTopK
	}
	if p.BeamCount == 0 {
		p.BeamCount = DefaultAgiBeamCount
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = DefaultAgiMaxTokens
	}
	return p
}

type predictRequest struct {
	Data []interface{} `json:"data"`
}

// AgiClient talks to a Gradio-style model server over HTTP
type AgiClient struct {
	config AgiClientConfig
	client *http.Client
	logger *logger.Logger
}

// NewAgiClient creates a new AGI model client
func NewAgiClient(config AgiClientConfig) *AgiClient {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 10
	}
	return &AgiClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger.GetLogger().WithComponent("agi_client"),
	}
}

// Answer posts the prompt to {endpoint}/run/predict, retrying non-200 answers,
// and wraps data[0] of the reply as a chat completion.
func (c *AgiClient) Answer(ctx context.Context, endpoint string, params AgiParams) (*models.CompletionResult, error) {
	params = params.withDefaults()
	body, err := json.Marshal(predictRequest{Data: []interface{}{
		params.Instruction,
		params.Question,
		params.Temperature,
		params.TopP,
		params.TopK,
		params.BeamCount,
		params.MaxTokens,
	}})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(endpoint, "/") + "/run/predict"
	attempts := 0
	payload, err := retry.Do(ctx, retry.Policy{
		Retryable: isRetryableAgiError,
		Schedule:  retry.Constant(c.config.RetryDelay),
		MaxTries:  uint(c.config.MaxRetries),
		Notify: func(err error, next time.Duration) {
			c.logger.Warn("AGI attempt %d/%d failed: %v, retrying in %s", attempts, c.config.MaxRetries, err, next)
		},
	}, func() ([]byte, error) {
		attempts++
		return c.predict(ctx, url, body)
	})
	if err != nil {
		if ctx.Err() == nil && isRetryableAgiError(err) {
			return nil, fmt.Errorf("%w: %d attempts: %w", ErrMaxRetriesExceeded, attempts, err)
		}
		return nil, err
	}

	if upstream := gjson.GetBytes(payload, "error"); upstream.Exists() && upstream.Type != gjson.Null {
		return nil, &UpstreamError{Payload: upstream.Raw}
	}
	answer := gjson.GetBytes(payload, "data.0")
	if !answer.Exists() {
		return nil, fmt.Errorf("decode response: missing data[0]")
	}

	id, err := randomID()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	return &models.CompletionResult{
		ID:      id,
		Object:  models.ObjectChatCompletion,
		Created: time.Now().UnixMilli(),
		Model:   AgiModelName,
		Usage: models.Usage{
			PromptTokens:     agiPlaceholderTokens,
			CompletionTokens: agiPlaceholderTokens,
			TotalTokens:      agiPlaceholderTokens,
		},
		Choices: []models.Choice{
			{
				Index:        0,
				FinishReason: "stop",
				Message: models.Message{
					Role:    "assistant",
					Content: answer.String(),
				},
			},
		},
	}, nil
}

func (c *AgiClient) predict(ctx context.Context, url string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

// isRetryableAgiError reports non-200 answers and transient transport
// failures. Request construction errors such as an unsupported scheme are final.
func isRetryableAgiError(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

var maxID = new(big.Int).Lsh(big.NewInt(1), 128)

// randomID returns "agi-" followed by 128 random bits in decimal
func randomID() (string, error) {
	n, err := rand.Int(rand.Reader, maxID)
	if err != nil {
		return "", err
	}
	return "agi-" + n.String(), nil
}
