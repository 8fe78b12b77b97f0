package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sleepstars/llmadapter/internal/adapter"
	"github.com/sleepstars/llmadapter/internal/config"
	"github.com/sleepstars/llmadapter/internal/logger"
	"github.com/sleepstars/llmadapter/internal/models"
)

type completeFlags struct {
	configPath  string
	envPath     string
	model       string
	system      string
	text        bool
	temperature float32
	topP        float32
	maxTokens   int
}

func addCompleteFlags(cmd *cobra.Command, flags *completeFlags) {
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to the configuration file (defaults apply when empty)")
	cmd.Flags().StringVar(&flags.envPath, "env", ".env", "Path to an optional .env file")
	cmd.Flags().StringVarP(&flags.model, "model", "m", adapter.DummyChatModel, "Model name")
	cmd.Flags().StringVarP(&flags.system, "system", "s", "You are a helpful assistant.", "System message / AGI instruction")
	cmd.Flags().BoolVar(&flags.text, "text", false, "Use the text completion API with the argument as prompt")
	cmd.Flags().Float32VarP(&flags.temperature, "temperature", "t", 0, "Sampling temperature (0 keeps the backend default)")
	cmd.Flags().Float32Var(&flags.topP, "top-p", 0, "Nucleus sampling probability (0 keeps the backend default)")
	cmd.Flags().IntVar(&flags.maxTokens, "max-tokens", 0, "Maximum tokens to generate (0 keeps the backend default)")
}

func loadConfig(flags completeFlags) (*config.Config, error) {
	if err := config.LoadDotEnv(flags.envPath); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	if flags.configPath == "" {
		cfg := config.Default()
		cfg.ApplyEnv()
		return cfg, nil
	}
	return config.LoadConfig(flags.configPath)
}

func buildRequest(flags completeFlags, input string) *models.CompletionRequest {
	req := &models.CompletionRequest{
		Model:       flags.model,
		Temperature: flags.temperature,
		TopP:        flags.topP,
		MaxTokens:   flags.maxTokens,
	}
	if flags.text {
		req.Prompt = input
		return req
	}
	req.Messages = []models.Message{
		{Role: "system", Content: flags.system},
		{Role: "user", Content: input},
	}
	return req
}

// runComplete writes the result JSON to out and all log output to errOut
func runComplete(ctx context.Context, out, errOut io.Writer, flags completeFlags, input string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger.InitLogger(logger.ParseLevel(cfg.Log.Level), "complete")
	logger.GetLogger().SetOutput(errOut)

	a := adapter.New(cfg)
	req := buildRequest(flags, input)

	var resp *models.CompletionResult
	if flags.text {
		resp, err = a.CreateCompletion(ctx, req)
	} else {
		resp, err = a.Complete(ctx, req)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
