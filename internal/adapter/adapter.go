package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sleepstars/llmadapter/internal/clients"
	"github.com/sleepstars/llmadapter/internal/config"
	"github.com/sleepstars/llmadapter/internal/logger"
	"github.com/sleepstars/llmadapter/internal/models"
	"github.com/sleepstars/llmadapter/internal/retry"
)

// AgiModelPrefix marks model names served by the AGI backend
const AgiModelPrefix = "agi-"

// Adapter dispatches completion requests to the dummy, upstream API or AGI
// backend and returns every answer in the canonical result shape. It holds no
// mutable state and is safe for concurrent use.
type Adapter struct {
	Completion clients.CompletionClient
	Agi        clients.AgiAnswerer
	Endpoints  config.EndpointRegistry
	Retry      config.RetryConfig
	Logger     *logger.Logger
}

// New creates an adapter wired to the backends described by cfg
func New(cfg *config.Config) *Adapter {
	log := logger.GetLogger().WithComponent("completion_adapter")
	log.Info("Creating completion adapter: api_base=%s, agi_models=%d", cfg.OpenAI.APIBase, len(cfg.Endpoints))

	return &Adapter{
		Completion: clients.NewOpenAIClient(clients.OpenAIClientConfig{
			APIBase:      cfg.OpenAI.APIBase,
			APIKey:       cfg.OpenAI.APIKey,
			Organization: cfg.OpenAI.Organization,
			Timeout:      cfg.OpenAI.Timeout,
		}),
		Agi: clients.NewAgiClient(clients.AgiClientConfig{
			MaxRetries: cfg.Agi.MaxRetries,
			RetryDelay: cfg.Agi.RetryDelay,
			Timeout:    cfg.Agi.Timeout,
		}),
		Endpoints: cfg.Endpoints,
		Retry:     cfg.Retry,
		Logger:    log,
	}
}

// CreateCompletion runs a text completion, retrying transient upstream failures
func (a *Adapter) CreateCompletion(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error) {
	if req.Model == DummyCompletionModel {
		return dummyCompletion(), nil
	}
	return a.callUpstream(ctx, req, "completion", a.Completion.CreateCompletion)
}

// CreateChatCompletion runs a chat completion, retrying transient upstream failures
func (a *Adapter) CreateChatCompletion(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error) {
	if req.Model == DummyChatModel {
		return dummyChatCompletion(), nil
	}
	return a.callUpstream(ctx, req, "chat completion", a.Completion.CreateChatCompletion)
}

// CreateAgiCompletion answers messages[0] (instruction) and messages[1]
// (question) with the AGI server configured for req.Model.
func (a *Adapter) CreateAgiCompletion(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error) {
	endpoint, err := a.Endpoints.Lookup(req.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if len(req.Messages) < 2 {
		return nil, fmt.Errorf("%w: AGI models need an instruction and a question message, got %d messages",
			ErrValidation, len(req.Messages))
	}

	log := a.requestLogger(req)
	log.Debug("Calling AGI model %s at %s", req.Model, endpoint)

	result, err := a.Agi.Answer(ctx, endpoint, clients.AgiParams{
		Instruction: req.Messages[0].Content,
		Question:    req.Messages[1].Content,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		TopK:        req.TopK,
		BeamCount:   req.BeamCount,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		if errors.Is(err, ErrUpstreamReported) {
			log.Warn("%v", err)
		} else {
			log.WithError(err).Error("AGI model call failed")
		}
		return nil, err
	}

	log.Debug("AGI model call completed successfully")
	return result, nil
}

// Complete routes AGI model names to CreateAgiCompletion and everything else
// to CreateChatCompletion.
func (a *Adapter) Complete(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error) {
	if a.IsAgiModel(req.Model) {
		return a.CreateAgiCompletion(ctx, req)
	}
	return a.CreateChatCompletion(ctx, req)
}

// IsAgiModel reports whether model is served by the AGI backend
func (a *Adapter) IsAgiModel(model string) bool {
	if _, ok := a.Endpoints[model]; ok {
		return true
	}
	return strings.HasPrefix(model, AgiModelPrefix)
}

type upstreamCall func(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error)

func (a *Adapter) callUpstream(ctx context.Context, req *models.CompletionRequest, kind string, call upstreamCall) (*models.CompletionResult, error) {
	log := a.requestLogger(req)
	log.Debug("Calling upstream %s for model %s", kind, req.Model)

	result, err := retry.Do(ctx, a.upstreamPolicy(log), func() (*models.CompletionResult, error) {
		return call(ctx, req)
	})
	if err != nil {
		if errors.Is(err, ErrUpstreamReported) {
			log.Warn("%v", err)
		} else {
			log.WithError(err).Error("Upstream %s failed", kind)
		}
		return nil, err
	}

	log.Debug("Upstream %s completed successfully", kind)
	return result, nil
}

func (a *Adapter) upstreamPolicy(log *logger.Logger) retry.Policy {
	cfg := a.Retry
	defaults := config.Default().Retry
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = defaults.InitialInterval
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = defaults.Multiplier
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = defaults.MaxInterval
	}

	return retry.Policy{
		Retryable: IsTransient,
		Schedule:  retry.Exponential(cfg.InitialInterval, cfg.Multiplier, cfg.MaxInterval),
		Notify: func(err error, next time.Duration) {
			log.Warn("Transient upstream error: %v, retrying in %s", err, next)
		},
	}
}

// requestLogger stamps req with a request ID when it has none
func (a *Adapter) requestLogger(req *models.CompletionRequest) *logger.Logger {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	log := a.Logger
	if log == nil {
		log = logger.GetLogger().WithComponent("completion_adapter")
	}
	return log.WithField("request_id", req.RequestID)
}
