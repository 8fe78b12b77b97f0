package main

import (
	"flag"
	"log"

	"github.com/sleepstars/llmadapter/internal/adapter"
	"github.com/sleepstars/llmadapter/internal/config"
	"github.com/sleepstars/llmadapter/internal/logger"
	"github.com/sleepstars/llmadapter/internal/server"
)

func main() {
	configPath := flag.String("config", "/app/config.yaml", "Path to the configuration file")
	envPath := flag.String("env", ".env", "Path to an optional .env file")
	flag.Parse()

	if err := config.LoadDotEnv(*envPath); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger.InitLogger(logger.ParseLevel(cfg.Log.Level), "server")
	l := logger.GetLogger()

	r := server.NewRouter(cfg.Server, adapter.New(cfg))

	l.Info("Listening on %s", cfg.Server.Addr)
	if err := r.Run(cfg.Server.Addr); err != nil {
		l.Fatal("Server stopped: %v", err)
	}
}
