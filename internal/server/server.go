package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sleepstars/llmadapter/internal/adapter"
	"github.com/sleepstars/llmadapter/internal/config"
	"github.com/sleepstars/llmadapter/internal/logger"
	"github.com/sleepstars/llmadapter/internal/models"
)

// Completer is the part of the adapter the HTTP front end needs
type Completer interface {
	CreateCompletion(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error)
	Complete(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResult, error)
}

// NewRouter exposes the completer as an OpenAI-compatible HTTP API
func NewRouter(cfg config.ServerConfig, completer Completer) *gin.Engine {
	log := logger.GetLogger().WithComponent("http")

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	v1.Use(apiKeyAuth(cfg.APIKey))

	v1.POST("/chat/completions", func(c *gin.Context) {
		var req models.CompletionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		resp, err := completer.Complete(c.Request.Context(), &req)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	})

	v1.POST("/completions", func(c *gin.Context) {
		var req models.CompletionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		resp, err := completer.CreateCompletion(c.Request.Context(), &req)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	})

	return r
}

// apiKeyAuth accepts either the bare key or "Bearer <key>". An empty key disables the check.
func apiKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if header != apiKey && strings.TrimPrefix(header, "Bearer ") != apiKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, adapter.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, adapter.ErrConfiguration):
		return http.StatusNotFound
	case errors.Is(err, adapter.ErrUpstreamReported), errors.Is(err, adapter.ErrMaxRetriesExceeded):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
