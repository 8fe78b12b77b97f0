package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sleepstars/llmadapter/internal/models"
)

type predictRequest struct {
	Data []interface{} `json:"data"`
}

func main() {
	port := flag.String("port", "7860", "Port to run the server on")
	failures := flag.Int64("fail", 0, "Number of initial /run/predict calls answered with 503")
	flag.Parse()

	var predictCalls int64
	r := gin.Default()

	// Gradio-style AGI endpoint
	r.POST("/run/predict", func(c *gin.Context) {
		if atomic.AddInt64(&predictCalls, 1) <= *failures {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "warming up"})
			return
		}

		var req predictRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(req.Data) < 2 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "expected instruction and question"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data":     []string{fmt.Sprintf("Mock answer to: %v", req.Data[1])},
			"duration": 0.01,
		})
	})

	// OpenAI-compatible endpoints
	r.POST("/v1/chat/completions", func(c *gin.Context) {
		var req models.CompletionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		content := "This is a response from the mock model"
		if n := len(req.Messages); n > 0 {
			content = fmt.Sprintf("Mock reply to: %s", req.Messages[n-1].Content)
		}

		c.JSON(http.StatusOK, &models.CompletionResult{
			ID:      fmt.Sprintf("chatcmpl-mock-%d", time.Now().UnixNano()),
			Object:  models.ObjectChatCompletion,
			Created: time.Now().Unix(),
			Model:   req.Model,
			Usage:   models.Usage{PromptTokens: 1, CompletionTokens: 1, TotalTokens: 2},
			Choices: []models.Choice{
				{
					Index:        0,
					FinishReason: "stop",
					Message:      models.Message{Role: "assistant", Content: content},
				},
			},
		})
	})

	r.POST("/v1/completions", func(c *gin.Context) {
		var req models.CompletionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		text := fmt.Sprintf("Mock completion of: %s", req.Prompt)
		c.JSON(http.StatusOK, &models.CompletionResult{
			ID:      fmt.Sprintf("cmpl-mock-%d", time.Now().UnixNano()),
			Object:  models.ObjectTextCompletion,
			Created: time.Now().Unix(),
			Model:   req.Model,
			Usage:   models.Usage{PromptTokens: 1, CompletionTokens: 1, TotalTokens: 2},
			Choices: []models.Choice{{Index: 0, FinishReason: "stop", Text: text}},
		})
	})

	if err := r.Run(":" + *port); err != nil {
		log.Fatal(err)
	}
}
